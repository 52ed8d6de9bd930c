package app

import (
	"sync"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/pkg/log"
)

// PhaseChange describes one tracker transition.
type PhaseChange struct {
	Previous domain.Phase
	Current  domain.Phase
	Reason   string
}

// transitions lists the phases reachable from each phase.
// A new Start or a Stop may interrupt anything; stepping only moves forward.
var transitions = map[domain.Phase][]domain.Phase{
	domain.PhaseIdle:       {domain.PhaseValidating, domain.PhaseActive, domain.PhaseCancelled},
	domain.PhaseValidating: {domain.PhaseIdle, domain.PhaseActive, domain.PhaseCancelled},
	domain.PhaseActive:     {domain.PhaseWaiting, domain.PhaseCompleted, domain.PhaseIdle, domain.PhaseCancelled, domain.PhaseValidating},
	domain.PhaseWaiting:    {domain.PhaseActive, domain.PhaseIdle, domain.PhaseCancelled, domain.PhaseValidating},
	domain.PhaseCompleted:  {domain.PhaseIdle, domain.PhaseValidating, domain.PhaseActive, domain.PhaseCancelled},
	domain.PhaseCancelled:  {domain.PhaseIdle, domain.PhaseValidating, domain.PhaseActive},
}

// Tracker owns the rotation phase of this process and tells subscribers
// about every change.
type Tracker struct {
	mu     sync.RWMutex
	phase  domain.Phase
	subs   map[int]func(PhaseChange)
	nextID int
	logger log.Logger
}

// NewTracker creates a tracker in PhaseIdle.
func NewTracker(logger log.Logger) *Tracker {
	return &Tracker{
		phase:  domain.PhaseIdle,
		subs:   make(map[int]func(PhaseChange)),
		logger: logger,
	}
}

// Phase returns the current phase.
func (t *Tracker) Phase() domain.Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// Subscribe registers fn for every future transition and returns a function
// that removes it. Callbacks run synchronously, outside the tracker lock.
func (t *Tracker) Subscribe(fn func(PhaseChange)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// TransitionTo moves to next. Entering the current phase is a no-op.
// Returns domain.ErrInvalidTransition if next is not reachable.
func (t *Tracker) TransitionTo(next domain.Phase, reason string) error {
	t.mu.Lock()
	prev := t.phase
	if prev == next {
		t.mu.Unlock()
		return nil
	}
	if !reachable(prev, next) {
		t.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	t.phase = next
	subs := make([]func(PhaseChange), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	change := PhaseChange{Previous: prev, Current: next, Reason: reason}
	for _, fn := range subs {
		fn(change)
	}

	t.logger.Debug("phase transition",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
	return nil
}

func reachable(from, to domain.Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
