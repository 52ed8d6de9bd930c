package domain

// Phase is the rotation driver's position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseActive
	PhaseWaiting
	PhaseCompleted
	PhaseCancelled
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseValidating:
		return "Validating"
	case PhaseActive:
		return "Active"
	case PhaseWaiting:
		return "Waiting"
	case PhaseCompleted:
		return "Completed"
	case PhaseCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Settled returns true for phases in which no step is in flight.
func (p Phase) Settled() bool {
	return p == PhaseIdle || p == PhaseCompleted || p == PhaseCancelled
}
