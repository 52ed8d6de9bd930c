package app

import (
	"context"
	"time"
)

// Default pacing between external calls.
const (
	DefaultValidationSpacing = 200 * time.Millisecond
	DefaultBulkSpacing       = 1500 * time.Millisecond
)

// Pacer enforces a fixed pause between consecutive external calls.
// The first call goes through immediately; every later call waits the full
// spacing. A Pacer is not safe for concurrent use: pacing only makes sense
// for strictly sequential callers.
type Pacer struct {
	spacing time.Duration
	started bool
}

// NewPacer creates a pacer with the given spacing.
func NewPacer(spacing time.Duration) *Pacer {
	return &Pacer{spacing: spacing}
}

// Wait blocks until the next call may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return ctx.Err()
	}
	if p.spacing <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.spacing)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Spacing returns the configured pause.
func (p *Pacer) Spacing() time.Duration {
	return p.spacing
}
