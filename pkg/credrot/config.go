package credrot

import (
	"fmt"
	"time"

	"github.com/bft-labs/credrot/internal/app"
	"github.com/bft-labs/credrot/internal/domain"
)

// Default timings.
const (
	DefaultValidationSpacing = app.DefaultValidationSpacing
	DefaultActivationDelay   = app.DefaultActivationDelay
	DefaultResumeDelay       = 5 * time.Second
	DefaultBulkSpacing       = app.DefaultBulkSpacing

	// DefaultMinCredentialLength is the CLI's list filter: fragments must be
	// longer than this to count as credentials.
	DefaultMinCredentialLength = 20
)

// Config holds the settings of a Rotor.
type Config struct {
	// StateDir holds the session store and the host lock. Required.
	StateDir string

	// Destination is used for notifications when a call does not name one.
	Destination string

	// MinCredentialLength drops fragments of at most this many characters
	// when parsing raw lists.
	// Zero keeps every fragment.
	MinCredentialLength int

	// ValidationSpacing is the pause between validator calls in Start.
	// Default: 200ms
	ValidationSpacing time.Duration

	// ActivationDelay is the pause between announcing a step and activating it.
	// Default: 4s
	ActivationDelay time.Duration

	// ResumeDelay is how long Run waits after startup, or after an activation
	// the process survived, before checking the store.
	// Default: 5s
	ResumeDelay time.Duration

	// BulkSpacing is the pause between action calls in Apply.
	// Default: 1.5s
	BulkSpacing time.Duration
}

// SetDefaults fills zero durations with their defaults.
func (c *Config) SetDefaults() {
	if c.ValidationSpacing == 0 {
		c.ValidationSpacing = DefaultValidationSpacing
	}
	if c.ActivationDelay == 0 {
		c.ActivationDelay = DefaultActivationDelay
	}
	if c.ResumeDelay == 0 {
		c.ResumeDelay = DefaultResumeDelay
	}
	if c.BulkSpacing == 0 {
		c.BulkSpacing = DefaultBulkSpacing
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("%w: state dir is required", domain.ErrInvalidConfig)
	}
	if c.MinCredentialLength < 0 {
		return fmt.Errorf("%w: min credential length must not be negative", domain.ErrInvalidConfig)
	}
	durations := map[string]time.Duration{
		"validation spacing": c.ValidationSpacing,
		"activation delay":   c.ActivationDelay,
		"resume delay":       c.ResumeDelay,
		"bulk spacing":       c.BulkSpacing,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidConfig, name)
		}
	}
	return nil
}
