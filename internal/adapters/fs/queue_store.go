package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/credrot/internal/domain"
)

// SessionFileName is the fixed name of the session record inside the state directory.
const SessionFileName = "session.json"

// QueueFileStore implements ports.QueueStore using a JSON file.
type QueueFileStore struct {
	dir string
}

// NewQueueFileStore creates a new QueueFileStore for the given directory.
func NewQueueFileStore(dir string) *QueueFileStore {
	return &QueueFileStore{dir: dir}
}

// Load retrieves the stored session from disk.
// Returns ok=false and nil error if no session file exists.
func (r *QueueFileStore) Load(ctx context.Context) (domain.QueueState, bool, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.QueueState{}, false, nil
		}
		return domain.QueueState{}, false, err
	}

	var state domain.QueueState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.QueueState{}, false, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	if !state.Valid() {
		return domain.QueueState{}, false, fmt.Errorf("%w: current=%d", domain.ErrStoreCorrupt, state.Current)
	}

	return state, true, nil
}

// Save persists the session atomically.
func (r *QueueFileStore) Save(ctx context.Context, state domain.QueueState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(r.Path(), data, 0o600)
}

// Clear removes the session file.
func (r *QueueFileStore) Clear(ctx context.Context) error {
	if err := os.Remove(r.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the full path to the session file.
func (r *QueueFileStore) Path() string {
	return filepath.Join(r.dir, SessionFileName)
}

// writeFileAtomic writes to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
