package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/bft-labs/credrot/internal/domain"
)

// LockFileName is the name of the host lock inside the state directory.
const LockFileName = "credrot.lock"

// HostLock guarantees a single host per state directory.
// The holder records its process ID in the lock file.
type HostLock struct {
	path string
	lock *flock.Flock
}

// NewHostLock creates an unlocked HostLock for dir.
func NewHostLock(dir string) *HostLock {
	path := filepath.Join(dir, LockFileName)
	return &HostLock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking.
// Returns domain.ErrHostLocked if another process holds it.
func (l *HostLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return err
	}

	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrHostLocked, l.path)
	}

	if err := os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600); err != nil {
		_ = l.lock.Unlock()
		return fmt.Errorf("record host pid: %w", err)
	}
	return nil
}

// Release drops the lock.
func (l *HostLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file path.
func (l *HostLock) Path() string {
	return l.path
}

// RunningHost reports whether a host holds the lock for dir and, if so, its
// process ID. held is true with a non-nil error when the lock is taken but
// the ID cannot be read.
func RunningHost(dir string) (pid int, held bool, err error) {
	path := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}

	probe := flock.New(path)
	ok, err := probe.TryLock()
	if err != nil {
		return 0, false, fmt.Errorf("probe lock: %w", err)
	}
	if ok {
		_ = probe.Unlock()
		return 0, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, true, fmt.Errorf("read host pid: %w", err)
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, true, fmt.Errorf("read host pid: malformed lock file %s", path)
	}
	return pid, true, nil
}
