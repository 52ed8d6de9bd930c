package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bft-labs/credrot/internal/domain"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestValidator_Validate(t *testing.T) {
	requireShell(t)

	script := `if [ "$CREDROT_CREDENTIAL" = "good" ]; then echo "deploy-bot"; echo extra; exit 0; fi; exit 1`
	v := NewValidator([]string{"/bin/sh", "-c", script})
	ctx := context.Background()

	id, err := v.Validate(ctx, "good")
	if err != nil {
		t.Fatalf("Validate(good): %v", err)
	}
	if id.Name != "deploy-bot" {
		t.Errorf("Name = %q, want deploy-bot", id.Name)
	}

	if _, err := v.Validate(ctx, "bad"); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Errorf("Validate(bad) err = %v, want ErrInvalidCredential", err)
	}
}

func TestValidator_NoCommand(t *testing.T) {
	_, err := NewValidator(nil).Validate(context.Background(), "x")
	if err == nil || errors.Is(err, domain.ErrInvalidCredential) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestAction_Apply(t *testing.T) {
	requireShell(t)

	script := `case "$CREDROT_CREDENTIAL" in ok) exit 0;; challenge) exit 3;; *) exit 7;; esac`
	a := NewAction([]string{"/bin/sh", "-c", script}, 0)
	ctx := context.Background()

	tests := []struct {
		credential string
		want       domain.ApplyResult
	}{
		{"ok", domain.ApplySuccess},
		{"challenge", domain.ApplyChallenge},
		{"other", domain.ApplyFailure},
	}
	for _, tt := range tests {
		got, err := a.Apply(ctx, "target", tt.credential)
		if err != nil {
			t.Fatalf("Apply(%s): %v", tt.credential, err)
		}
		if got != tt.want {
			t.Errorf("Apply(%s) = %v, want %v", tt.credential, got, tt.want)
		}
	}
}

func TestAction_ReceivesTarget(t *testing.T) {
	requireShell(t)

	out := filepath.Join(t.TempDir(), "target")
	a := NewAction([]string{"/bin/sh", "-c", `printf %s "$CREDROT_TARGET" > "$0"`, out}, 0)
	if _, err := a.Apply(context.Background(), "staging-cluster", "x"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "staging-cluster" {
		t.Errorf("target = %q, want staging-cluster", got)
	}
}

func TestRestarter_Restart(t *testing.T) {
	requireShell(t)

	ctx := context.Background()
	if err := NewRestarter([]string{"/bin/sh", "-c", "exit 0"}).Restart(ctx); err != nil {
		t.Errorf("Restart(exit 0): %v", err)
	}
	if err := NewRestarter([]string{"/bin/sh", "-c", "exit 2"}).Restart(ctx); err == nil {
		t.Error("Restart(exit 2) returned nil")
	}
}

func TestSelfRestarter_Restart(t *testing.T) {
	var gotArgv []string
	r := NewSelfRestarter([]string{"run", "--config", "/etc/credrot.toml"})
	r.exec = func(argv0 string, argv []string, envv []string) error {
		gotArgv = argv
		return nil
	}

	if err := r.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if len(gotArgv) != 4 || gotArgv[1] != "run" || gotArgv[3] != "/etc/credrot.toml" {
		t.Errorf("argv = %q", gotArgv)
	}

	r.exec = func(string, []string, []string) error { return errors.New("denied") }
	if err := r.Restart(context.Background()); err == nil {
		t.Error("expected exec error to surface")
	}
}
