package ports

import (
	"context"

	"github.com/bft-labs/credrot/internal/domain"
)

// QueueStore persists the rotation session in a single fixed slot.
// Writes are last-write-wins; implementations need not lock.
type QueueStore interface {
	// Load retrieves the stored session.
	// Returns ok=false and nil error when no session is stored.
	// Returns an error wrapping domain.ErrStoreCorrupt when the record
	// cannot be decoded.
	Load(ctx context.Context) (state domain.QueueState, ok bool, err error)

	// Save replaces the stored session.
	Save(ctx context.Context, state domain.QueueState) error

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
