package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/pkg/log"
)

// changeRecorder collects phase changes for assertions.
type changeRecorder struct {
	mu      sync.Mutex
	changes []PhaseChange
}

func (r *changeRecorder) record(c PhaseChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) Changes() []PhaseChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PhaseChange{}, r.changes...)
}

func (r *changeRecorder) Phases() []domain.Phase {
	var out []domain.Phase
	for _, c := range r.Changes() {
		out = append(out, c.Current)
	}
	return out
}

func TestNewTracker(t *testing.T) {
	tr := NewTracker(log.NewNoopLogger())
	if tr.Phase() != domain.PhaseIdle {
		t.Errorf("initial phase = %v, want Idle", tr.Phase())
	}
}

func TestTracker_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.Phase
		to   domain.Phase
	}{
		{"idle to validating", domain.PhaseIdle, domain.PhaseValidating},
		{"validating to idle", domain.PhaseValidating, domain.PhaseIdle},
		{"validating to active", domain.PhaseValidating, domain.PhaseActive},
		{"active to waiting", domain.PhaseActive, domain.PhaseWaiting},
		{"active to completed", domain.PhaseActive, domain.PhaseCompleted},
		{"waiting to active", domain.PhaseWaiting, domain.PhaseActive},
		{"waiting to cancelled", domain.PhaseWaiting, domain.PhaseCancelled},
		{"completed to active", domain.PhaseCompleted, domain.PhaseActive},
		{"cancelled to validating", domain.PhaseCancelled, domain.PhaseValidating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(log.NewNoopLogger())
			tr.phase = tt.from

			if err := tr.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if tr.Phase() != tt.to {
				t.Errorf("phase = %v after transition, want %v", tr.Phase(), tt.to)
			}
		})
	}
}

func TestTracker_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.Phase
		to   domain.Phase
	}{
		{"idle to waiting", domain.PhaseIdle, domain.PhaseWaiting},
		{"idle to completed", domain.PhaseIdle, domain.PhaseCompleted},
		{"validating to waiting", domain.PhaseValidating, domain.PhaseWaiting},
		{"waiting to completed", domain.PhaseWaiting, domain.PhaseCompleted},
		{"completed to waiting", domain.PhaseCompleted, domain.PhaseWaiting},
		{"cancelled to waiting", domain.PhaseCancelled, domain.PhaseWaiting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(log.NewNoopLogger())
			tr.phase = tt.from

			err := tr.TransitionTo(tt.to, "test")
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("TransitionTo() error = %v, want ErrInvalidTransition", err)
			}
			if tr.Phase() != tt.from {
				t.Errorf("phase changed to %v on invalid transition, want %v", tr.Phase(), tt.from)
			}
		})
	}
}

func TestTracker_SamePhaseIsNoop(t *testing.T) {
	tr := NewTracker(log.NewNoopLogger())
	rec := &changeRecorder{}
	tr.Subscribe(rec.record)

	if err := tr.TransitionTo(domain.PhaseIdle, "again"); err != nil {
		t.Fatalf("TransitionTo(Idle) = %v", err)
	}
	if len(rec.Changes()) != 0 {
		t.Errorf("no-op transition notified subscribers: %v", rec.Changes())
	}
}

func TestTracker_Subscribe(t *testing.T) {
	tr := NewTracker(log.NewNoopLogger())
	rec := &changeRecorder{}
	unsubscribe := tr.Subscribe(rec.record)

	_ = tr.TransitionTo(domain.PhaseValidating, "start")
	_ = tr.TransitionTo(domain.PhaseActive, "saved")

	changes := rec.Changes()
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].Previous != domain.PhaseIdle || changes[0].Current != domain.PhaseValidating || changes[0].Reason != "start" {
		t.Errorf("change 0 = %+v", changes[0])
	}

	unsubscribe()
	_ = tr.TransitionTo(domain.PhaseWaiting, "step")
	if len(rec.Changes()) != 2 {
		t.Errorf("unsubscribed callback still invoked")
	}
}

func TestTracker_Concurrency(t *testing.T) {
	tr := NewTracker(log.NewNoopLogger())
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Phase()
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := tr.Subscribe(func(PhaseChange) {})
			_ = tr.TransitionTo(domain.PhaseValidating, "test")
			_ = tr.TransitionTo(domain.PhaseCancelled, "test")
			unsub()
		}()
	}

	wg.Wait()
}
