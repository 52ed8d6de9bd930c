package domain

import "errors"

// Domain errors represent error conditions in the credrot domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidCredential is returned by validators that definitively reject a credential.
	ErrInvalidCredential = errors.New("credrot: invalid credential")

	// ErrNoCredentials is returned when a raw list contains no usable credential.
	ErrNoCredentials = errors.New("credrot: no credentials")

	// ErrNoValidCredentials is returned by Start when every credential failed validation.
	ErrNoValidCredentials = errors.New("credrot: no valid credentials")

	// ErrStoreCorrupt is returned by queue stores when the persisted record cannot be decoded.
	ErrStoreCorrupt = errors.New("credrot: session record corrupt")

	// ErrHostLocked is returned when another host already owns the state directory.
	ErrHostLocked = errors.New("credrot: host already running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("credrot: invalid configuration")

	// ErrInvalidTransition is returned when the driver is asked to enter a phase it cannot reach.
	ErrInvalidTransition = errors.New("credrot: invalid phase transition")

	// ErrCapabilityUnavailable is returned when an operation needs a port that was not configured.
	ErrCapabilityUnavailable = errors.New("credrot: capability unavailable")
)
