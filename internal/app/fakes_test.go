package app

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/internal/ports"
)

// memStore is an in-memory QueueStore that counts writes.
type memStore struct {
	mu      sync.Mutex
	state   domain.QueueState
	ok      bool
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (s *memStore) Load(ctx context.Context) (domain.QueueState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.QueueState{}, false, s.loadErr
	}
	return s.state, s.ok, nil
}

func (s *memStore) Save(ctx context.Context, state domain.QueueState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = state
	s.ok = true
	s.saves++
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.QueueState{}
	s.ok = false
	s.clears++
	return nil
}

func (s *memStore) snapshot() (domain.QueueState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.ok
}

func (s *memStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeValidator accepts the credentials it knows.
type fakeValidator struct {
	mu    sync.Mutex
	known map[string]domain.Identity
	calls int
}

func newFakeValidator(valid ...string) *fakeValidator {
	v := &fakeValidator{known: make(map[string]domain.Identity)}
	for i, c := range valid {
		v.known[c] = domain.Identity{ID: c, Name: "user" + string(rune('a'+i))}
	}
	return v
}

func (v *fakeValidator) Validate(ctx context.Context, credential string) (domain.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	id, ok := v.known[credential]
	if !ok {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	return id, nil
}

// fakeNotifier records every message and keeps the last cancel control.
type fakeNotifier struct {
	mu        sync.Mutex
	messages  []ports.Message
	summaries []ports.Message
	progress  []ports.Message
	onCancel  func()
	err       error
}

func (n *fakeNotifier) Notify(ctx context.Context, msg ports.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.err
}

func (n *fakeNotifier) NotifyWithCancel(ctx context.Context, msg ports.Message, onCancel func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = append(n.progress, msg)
	n.onCancel = onCancel
	return n.err
}

func (n *fakeNotifier) NotifySummary(ctx context.Context, msg ports.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, msg)
	return n.err
}

func (n *fakeNotifier) Summaries() []ports.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Message{}, n.summaries...)
}

func (n *fakeNotifier) Progress() []ports.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Message{}, n.progress...)
}

func (n *fakeNotifier) hasKind(kind ports.MessageKind) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.messages {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

func (n *fakeNotifier) cancel() {
	n.mu.Lock()
	fn := n.onCancel
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// fakeActivator records activated credentials. hook runs inside Activate.
type fakeActivator struct {
	mu        sync.Mutex
	activated []string
	hook      func()
	err       error
}

func (a *fakeActivator) Activate(ctx context.Context, credential string) error {
	if a.hook != nil {
		a.hook()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.activated = append(a.activated, credential)
	return nil
}

func (a *fakeActivator) Activated() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.activated...)
}

var errBoom = errors.New("boom")
