package credrot

import (
	"context"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/internal/ports"
	"github.com/bft-labs/credrot/pkg/log"
)

// Re-exported domain types.
type (
	Phase       = domain.Phase
	QueueState  = domain.QueueState
	Identity    = domain.Identity
	StartReport = domain.StartReport
	BulkReport  = domain.BulkReport
	ApplyResult = domain.ApplyResult
	Outcome     = domain.Outcome
)

// Phases.
const (
	PhaseIdle       = domain.PhaseIdle
	PhaseValidating = domain.PhaseValidating
	PhaseActive     = domain.PhaseActive
	PhaseWaiting    = domain.PhaseWaiting
	PhaseCompleted  = domain.PhaseCompleted
	PhaseCancelled  = domain.PhaseCancelled
)

// Apply results.
const (
	ApplyFailure   = domain.ApplyFailure
	ApplySuccess   = domain.ApplySuccess
	ApplyChallenge = domain.ApplyChallenge
)

// Driver outcomes.
const (
	OutcomeIdle      = domain.OutcomeIdle
	OutcomeCompleted = domain.OutcomeCompleted
	OutcomeScheduled = domain.OutcomeScheduled
	OutcomeActivated = domain.OutcomeActivated
	OutcomeCancelled = domain.OutcomeCancelled
	OutcomeFailed    = domain.OutcomeFailed
)

// Errors, checkable with errors.Is.
var (
	ErrInvalidCredential     = domain.ErrInvalidCredential
	ErrNoCredentials         = domain.ErrNoCredentials
	ErrNoValidCredentials    = domain.ErrNoValidCredentials
	ErrStoreCorrupt          = domain.ErrStoreCorrupt
	ErrHostLocked            = domain.ErrHostLocked
	ErrInvalidConfig         = domain.ErrInvalidConfig
	ErrCapabilityUnavailable = domain.ErrCapabilityUnavailable
)

// Ports a Rotor can be given.
type (
	QueueStore     = ports.QueueStore
	Validator      = ports.Validator
	Notifier       = ports.Notifier
	Message        = ports.Message
	IdentityWriter = ports.IdentityWriter
	Restarter      = ports.Restarter
	Action         = ports.Action
	Logger         = log.Logger
)

// Activator switches the host to a credential. It replaces the default
// identity-writer-then-restart sequence.
type Activator interface {
	Activate(ctx context.Context, credential string) error
}
