// Package sqlite implements the session store on top of an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bft-labs/credrot/internal/domain"
)

// DatabaseFileName is the fixed name of the database inside the state directory.
const DatabaseFileName = "session.db"

// SessionKey is the well-known key the session record is stored under.
const SessionKey = "credrot.session"

const schema = `CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// QueueStore implements ports.QueueStore backed by SQLite.
type QueueStore struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database in dir.
func Open(dir string) (*QueueStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &QueueStore{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *QueueStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *QueueStore) Path() string {
	return s.path
}

// Load retrieves the session row.
func (s *QueueStore) Load(ctx context.Context) (domain.QueueState, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, SessionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QueueState{}, false, nil
	}
	if err != nil {
		return domain.QueueState{}, false, fmt.Errorf("select session: %w", err)
	}

	var state domain.QueueState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.QueueState{}, false, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	if !state.Valid() {
		return domain.QueueState{}, false, fmt.Errorf("%w: current=%d", domain.ErrStoreCorrupt, state.Current)
	}
	return state, true, nil
}

// Save upserts the session row.
func (s *QueueStore) Save(ctx context.Context, state domain.QueueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SessionKey,
		string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the session row.
func (s *QueueStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
