package domain

import "time"

// QueueState is the persisted rotation session.
// At most one exists at a time; its presence in the store is the only signal
// that a session is active.
type QueueState struct {
	// Items holds the credentials still to be activated, front first.
	Items []string `json:"items"`

	// TotalValid is the number of credentials accepted when the session was created.
	TotalValid int `json:"total_valid"`

	// TotalInvalid is the number of credentials rejected when the session was created.
	TotalInvalid int `json:"total_invalid"`

	// Current is the number of the next step, starting at 1.
	Current int `json:"current"`

	// Destination is an opaque reference for progress and completion notices.
	Destination string `json:"destination"`

	SessionID string    `json:"session_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// NewQueueState creates the initial state of a session.
func NewQueueState(sessionID string, valid []string, invalid int, destination string) QueueState {
	items := make([]string, len(valid))
	copy(items, valid)
	return QueueState{
		Items:        items,
		TotalValid:   len(valid),
		TotalInvalid: invalid,
		Current:      1,
		Destination:  destination,
		SessionID:    sessionID,
		StartedAt:    time.Now().UTC(),
	}
}

// IsEmpty returns true when no credential remains to be activated.
func (s QueueState) IsEmpty() bool {
	return len(s.Items) == 0
}

// Remaining returns the number of credentials left in the queue.
func (s QueueState) Remaining() int {
	return len(s.Items)
}

// Pop removes the front credential and advances the step counter.
// It returns the credential, the step number it was popped at, and the
// state to persist. The receiver is not modified.
func (s QueueState) Pop() (credential string, step int, next QueueState) {
	if s.IsEmpty() {
		return "", s.Current, s
	}
	next = s
	next.Items = make([]string, len(s.Items)-1)
	copy(next.Items, s.Items[1:])
	next.Current = s.Current + 1
	return s.Items[0], s.Current, next
}

// Valid reports whether the state satisfies the record invariants.
// Stores use it to reject records that decode but make no sense.
func (s QueueState) Valid() bool {
	return s.Current >= 1 && s.TotalValid >= 0 && s.TotalInvalid >= 0
}
