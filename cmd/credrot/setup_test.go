package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/credrot/internal/adapters/command"
	"github.com/bft-labs/credrot/internal/adapters/fs"
	"github.com/bft-labs/credrot/internal/cliconfig"
	"github.com/bft-labs/credrot/pkg/log"
)

// resolve parses args the way the CLI does and returns the loaded cli.
func resolve(t *testing.T, args []string) *cli {
	t.Helper()
	c := &cli{cfg: cliconfig.DefaultConfig()}
	root := newRootCommand(c)
	if err := root.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%q): %v", args, err)
	}
	if err := c.load(root); err != nil {
		t.Fatalf("load(%q): %v", args, err)
	}
	return c
}

func TestExecArgs_CarryResolvedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stateDir := t.TempDir()
	identity := filepath.Join(t.TempDir(), "token")

	host := resolve(t, []string{
		"--state-dir", stateDir,
		"--store", "sqlite",
		"--identity-path", identity,
		"--identity-format", "json",
		"--validate-command", "/usr/local/bin/check-token --strict",
		"--activation-delay", "250ms",
		"--resume-delay", "2s",
		"--webhook-url", "https://hooks.example/credrot",
		"--destination", "ops",
		"--min-length", "8",
	})

	args := host.execArgs()
	if len(args) == 0 || args[0] != "run" {
		t.Fatalf("execArgs() = %q, want leading run", args)
	}

	relaunched := resolve(t, args[1:])
	if relaunched.cfg != host.cfg {
		t.Errorf("relaunched config differs\n got: %+v\nwant: %+v", relaunched.cfg, host.cfg)
	}
	if relaunched.cfg.StoreBackend != cliconfig.StoreSQLite || relaunched.cfg.IdentityPath != identity {
		t.Errorf("relaunched store=%s identity=%s", relaunched.cfg.StoreBackend, relaunched.cfg.IdentityPath)
	}
}

func TestExecArgs_EnvironmentBaked(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CREDROT_STORE_BACKEND", "sqlite")

	host := resolve(t, []string{"--state-dir", t.TempDir()})
	args := strings.Join(host.execArgs(), " ")
	if !strings.Contains(args, "--store=sqlite") {
		t.Errorf("execArgs() = %s, want --store=sqlite", args)
	}
}

func TestCLI_Restarter(t *testing.T) {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.cfg.StateDir = t.TempDir()

	if _, ok := c.restarter().(*handoffRestarter); !ok {
		t.Errorf("restarter() outside run = %T, want *handoffRestarter", c.restarter())
	}

	c.hosting = true
	if _, ok := c.restarter().(*command.SelfRestarter); !ok {
		t.Errorf("restarter() in run = %T, want *command.SelfRestarter", c.restarter())
	}

	c.cfg.RestartMode = cliconfig.RestartCommand
	c.cfg.RestartCommand = "systemctl restart host"
	if _, ok := c.restarter().(*command.Restarter); !ok {
		t.Errorf("restarter() in command mode = %T, want *command.Restarter", c.restarter())
	}
}

type restartFunc func(ctx context.Context) error

func (f restartFunc) Restart(ctx context.Context) error { return f(ctx) }

func TestHandoffRestarter(t *testing.T) {
	tests := []struct {
		name       string
		hostUp     bool
		wantSelf   bool
		wantSignal bool
	}{
		{name: "no host becomes host", hostUp: false, wantSelf: true},
		{name: "running host is signalled", hostUp: true, wantSignal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.hostUp {
				lock := fs.NewHostLock(dir)
				if err := lock.Acquire(); err != nil {
					t.Fatal(err)
				}
				defer lock.Release()
			}

			var selfCalled bool
			signalled := 0
			r := &handoffRestarter{
				stateDir: dir,
				self:     restartFunc(func(ctx context.Context) error { selfCalled = true; return nil }),
				signal:   func(pid int) error { signalled = pid; return nil },
			}

			if err := r.Restart(context.Background()); err != nil {
				t.Fatalf("Restart() error = %v", err)
			}
			if selfCalled != tt.wantSelf {
				t.Errorf("self restart = %v, want %v", selfCalled, tt.wantSelf)
			}
			if tt.wantSignal && signalled != os.Getpid() {
				t.Errorf("signalled pid = %d, want %d", signalled, os.Getpid())
			}
			if !tt.wantSignal && signalled != 0 {
				t.Errorf("unexpected signal to %d", signalled)
			}
		})
	}
}

func TestLogin_HandsOffToRunningHost(t *testing.T) {
	stateDir := t.TempDir()

	lock := fs.NewHostLock(stateDir)
	if err := lock.Acquire(); err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		logger: log.NewConsoleAdapter(io.Discard, zerolog.Disabled),
	}
	c.cfg.StateDir = stateDir
	c.cfg.ValidateCommand = "/bin/sh -c true"
	c.cfg.ActivationDelay = time.Millisecond
	if err := c.cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	signalled := 0
	c.signalHost = func(pid int) error { signalled = pid; return nil }

	h, err := c.newHost()
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if _, err := h.rotor.Login(context.Background(), "credential-abc", ""); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if signalled != os.Getpid() {
		t.Errorf("signalled pid = %d, want host %d", signalled, os.Getpid())
	}
	data, err := os.ReadFile(c.cfg.IdentityPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "credential-abc" {
		t.Errorf("identity file = %q", data)
	}
}
