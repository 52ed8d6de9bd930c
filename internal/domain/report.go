package domain

// StartReport summarizes the validation pass of a new session.
type StartReport struct {
	Valid     int
	Invalid   int
	SessionID string
}

// ApplyResult is the outcome of applying one credential to a target.
type ApplyResult int

const (
	ApplyFailure ApplyResult = iota
	ApplySuccess
	ApplyChallenge
)

// String returns a human-readable representation of the result.
func (r ApplyResult) String() string {
	switch r {
	case ApplySuccess:
		return "success"
	case ApplyChallenge:
		return "challenge"
	default:
		return "failure"
	}
}

// BulkReport tallies a bulk apply run.
// Success + Challenge + Failure always equals the number of credentials tried.
type BulkReport struct {
	Target    string
	Success   int
	Challenge int
	Failure   int
}

// Total returns the number of credentials the report covers.
func (r BulkReport) Total() int {
	return r.Success + r.Challenge + r.Failure
}

// Record adds one result to the tally.
func (r *BulkReport) Record(res ApplyResult) {
	switch res {
	case ApplySuccess:
		r.Success++
	case ApplyChallenge:
		r.Challenge++
	default:
		r.Failure++
	}
}

// Outcome describes how one driver cycle ended.
type Outcome int

const (
	// OutcomeIdle means no session was stored.
	OutcomeIdle Outcome = iota
	// OutcomeCompleted means the queue was exhausted and the session cleared.
	OutcomeCompleted
	// OutcomeScheduled means a step began and its activation is pending.
	OutcomeScheduled
	// OutcomeActivated means a credential was written and the restart requested.
	OutcomeActivated
	// OutcomeCancelled means the session was gone when the activation re-checked it.
	OutcomeCancelled
	// OutcomeFailed means the activation trigger returned an error.
	OutcomeFailed
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeCompleted:
		return "completed"
	case OutcomeScheduled:
		return "scheduled"
	case OutcomeActivated:
		return "activated"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
