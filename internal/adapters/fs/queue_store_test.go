package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bft-labs/credrot/internal/domain"
)

func TestQueueFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewQueueFileStore(filepath.Join(t.TempDir(), "nested"))

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("Load on empty dir = ok %v, err %v; want absent", ok, err)
	}

	want := domain.NewQueueState("sess", []string{"a", "b"}, 1, "ops")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = ok %v, err %v", ok, err)
	}
	if !reflect.DeepEqual(got.Items, want.Items) || got.Current != 1 || got.TotalInvalid != 1 || got.Destination != "ops" {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestQueueFileStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewQueueFileStore(t.TempDir())

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := store.Save(ctx, domain.NewQueueState("s", []string{"a"}, 0, "")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("Load after Clear = ok %v, err %v; want absent", ok, err)
	}
}

func TestQueueFileStore_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"zero step counter", `{"items":["a"],"current":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := NewQueueFileStore(dir)
			if err := os.WriteFile(store.Path(), []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			_, ok, err := store.Load(context.Background())
			if ok {
				t.Fatal("corrupt record reported as present")
			}
			if !errors.Is(err, domain.ErrStoreCorrupt) {
				t.Fatalf("err = %v, want ErrStoreCorrupt", err)
			}
		})
	}
}

func TestQueueFileStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewQueueFileStore(t.TempDir())

	first := domain.NewQueueState("first", []string{"a"}, 0, "")
	second := domain.NewQueueState("second", []string{"x", "y"}, 0, "")

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok %v, err %v", ok, err)
	}
	if got.SessionID != "second" {
		t.Errorf("SessionID = %q, want second", got.SessionID)
	}
}
