package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/credrot/internal/domain"
)

func TestHostLock_Exclusive(t *testing.T) {
	dir := t.TempDir()

	first := NewHostLock(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	second := NewHostLock(dir)
	if err := second.Acquire(); !errors.Is(err, domain.ErrHostLocked) {
		t.Fatalf("second Acquire err = %v, want ErrHostLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestRunningHost(t *testing.T) {
	dir := t.TempDir()

	if _, held, err := RunningHost(dir); held || err != nil {
		t.Fatalf("RunningHost() on empty dir = %v, %v", held, err)
	}

	lock := NewHostLock(dir)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	pid, held, err := RunningHost(dir)
	if err != nil || !held || pid != os.Getpid() {
		t.Fatalf("RunningHost() = %d, %v, %v, want %d held", pid, held, err, os.Getpid())
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, held, err := RunningHost(dir); held || err != nil {
		t.Errorf("RunningHost() after release = %v, %v", held, err)
	}
}

func TestRunningHost_MalformedPID(t *testing.T) {
	dir := t.TempDir()
	lock := NewHostLock(dir)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, held, err := RunningHost(dir); !held || err == nil {
		t.Errorf("RunningHost() = %v, %v, want held with error", held, err)
	}
}
