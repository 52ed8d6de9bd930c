package credrot

// EventHandler receives rotor events.
type EventHandler interface {
	// OnPhaseChange is called after every phase transition.
	OnPhaseChange(event PhaseChangeEvent)
	// OnCycle is called after every resumption cycle run by Resume or Run.
	OnCycle(event CycleEvent)
}

// PhaseChangeEvent describes a phase transition.
type PhaseChangeEvent struct {
	Previous Phase
	Current  Phase
	Reason   string
}

// CycleEvent describes one finished resumption cycle.
type CycleEvent struct {
	Outcome Outcome
	Err     error
}

// BaseEventHandler provides no-op implementations for embedding.
type BaseEventHandler struct{}

// OnPhaseChange does nothing.
func (BaseEventHandler) OnPhaseChange(PhaseChangeEvent) {}

// OnCycle does nothing.
func (BaseEventHandler) OnCycle(CycleEvent) {}
