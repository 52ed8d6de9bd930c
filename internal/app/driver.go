package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/internal/ports"
	"github.com/bft-labs/credrot/pkg/log"
)

// DefaultActivationDelay is the pause between announcing a step and
// activating its credential.
const DefaultActivationDelay = 4 * time.Second

// DriverConfig holds the driver timings.
type DriverConfig struct {
	ValidationSpacing time.Duration
	ActivationDelay   time.Duration
}

// Step is one announced, not yet committed, activation.
type Step struct {
	Credential  string
	Number      int
	Total       int
	Identity    domain.Identity
	SessionID   string
	Destination string
}

// Driver runs the rotation state machine against the queue store.
//
// The persisted QueueState is the only source of truth across restarts.
// Cancellation clears the store and nothing else: a step that has already
// been scheduled re-reads the store before acting (CommitStep), and a Stop
// that lands after that re-read does not prevent the activation.
type Driver struct {
	store     ports.QueueStore
	validator ports.Validator
	notifier  ports.Notifier
	activator Activator
	tracker   *Tracker
	logger    log.Logger
	cfg       DriverConfig
	newID     func() string
}

// NewDriver creates a driver. validator and notifier may be nil; without a
// validator Start and DirectActivate fail with domain.ErrCapabilityUnavailable.
func NewDriver(
	store ports.QueueStore,
	validator ports.Validator,
	notifier ports.Notifier,
	activator Activator,
	tracker *Tracker,
	logger log.Logger,
	cfg DriverConfig,
) *Driver {
	if cfg.ActivationDelay < 0 {
		cfg.ActivationDelay = 0
	}
	return &Driver{
		store:     store,
		validator: validator,
		notifier:  notifier,
		activator: activator,
		tracker:   tracker,
		logger:    logger,
		cfg:       cfg,
		newID:     uuid.NewString,
	}
}

// Start validates creds one by one and, if any passed, replaces the stored
// session with a new one. It does not take the first step.
func (d *Driver) Start(ctx context.Context, creds []string, destination string) (domain.StartReport, error) {
	if d.validator == nil {
		return domain.StartReport{}, fmt.Errorf("validate credentials: %w", domain.ErrCapabilityUnavailable)
	}
	if len(creds) == 0 {
		return domain.StartReport{}, domain.ErrNoCredentials
	}

	d.transition(domain.PhaseValidating, "start")
	d.notify(ctx, ports.Message{
		Destination: destination,
		Kind:        ports.KindInfo,
		Title:       "Validating credentials",
		Text:        fmt.Sprintf("Checking %d credentials", len(creds)),
	})

	pacer := NewPacer(d.cfg.ValidationSpacing)
	valid := make([]string, 0, len(creds))
	invalid := 0
	for _, cred := range creds {
		if err := pacer.Wait(ctx); err != nil {
			d.transition(domain.PhaseIdle, "validation interrupted")
			return domain.StartReport{}, err
		}
		identity, err := d.validator.Validate(ctx, cred)
		if err != nil {
			invalid++
			d.logger.Debug("credential rejected", log.Credential("credential", cred), log.Err(err))
			continue
		}
		valid = append(valid, cred)
		d.logger.Debug("credential accepted",
			log.Credential("credential", cred),
			log.String("identity", identity.DisplayName()),
		)
	}

	report := domain.StartReport{Valid: len(valid), Invalid: invalid}
	if len(valid) == 0 {
		d.transition(domain.PhaseIdle, "no valid credentials")
		d.notify(ctx, ports.Message{
			Destination: destination,
			Kind:        ports.KindFailure,
			Title:       "Rotation not started",
			Text:        fmt.Sprintf("All %d credentials were invalid", invalid),
		})
		return report, domain.ErrNoValidCredentials
	}

	state := domain.NewQueueState(d.newID(), valid, invalid, destination)
	if err := d.store.Save(ctx, state); err != nil {
		d.transition(domain.PhaseIdle, "save failed")
		return report, fmt.Errorf("save session: %w", err)
	}
	report.SessionID = state.SessionID

	d.transition(domain.PhaseActive, "session saved")
	d.notify(ctx, ports.Message{
		Destination: destination,
		Kind:        ports.KindInfo,
		Title:       "Rotation started",
		Text:        fmt.Sprintf("%d valid, %d invalid", report.Valid, report.Invalid),
	})

	d.logger.Info("rotation session started",
		log.String("session_id", state.SessionID),
		log.Int("valid", report.Valid),
		log.Int("invalid", report.Invalid),
	)
	return report, nil
}

// BeginStep loads the session and either completes it or pops the next
// credential, persists the shortened queue and announces the step with a
// cancel control. Persisting happens before the announcement so a restart at
// any later point resumes at the following credential.
func (d *Driver) BeginStep(ctx context.Context) (Step, domain.Outcome, error) {
	state, ok := d.load(ctx)
	if !ok {
		d.transition(domain.PhaseIdle, "no session")
		return Step{}, domain.OutcomeIdle, nil
	}
	d.transition(domain.PhaseActive, "session loaded")

	if state.IsEmpty() {
		return Step{}, domain.OutcomeCompleted, d.complete(ctx, state)
	}

	credential, number, next := state.Pop()
	if err := d.store.Save(ctx, next); err != nil {
		d.logger.Error("failed to persist step", log.Int("step", number), log.Err(err))
		return Step{}, domain.OutcomeFailed, fmt.Errorf("save step %d: %w", number, err)
	}

	step := Step{
		Credential:  credential,
		Number:      number,
		Total:       state.TotalValid,
		Identity:    d.lookup(ctx, credential),
		SessionID:   state.SessionID,
		Destination: state.Destination,
	}

	d.transition(domain.PhaseWaiting, "step scheduled")
	if d.notifier != nil {
		msg := ports.Message{
			Destination: step.Destination,
			Kind:        ports.KindProgress,
			Title:       fmt.Sprintf("Rotation step %d/%d", step.Number, step.Total),
			Text:        fmt.Sprintf("Switching to %s in %s", step.Identity.DisplayName(), d.cfg.ActivationDelay),
		}
		onCancel := func() {
			if _, err := d.Stop(context.Background(), "cancel control"); err != nil {
				d.logger.Error("cancel control failed", log.Err(err))
			}
		}
		if err := d.notifier.NotifyWithCancel(ctx, msg, onCancel); err != nil {
			d.logger.Warn("failed to send step notification", log.Err(err))
		}
	}

	d.logger.Info("rotation step scheduled",
		log.String("session_id", step.SessionID),
		log.Int("step", step.Number),
		log.Int("total", step.Total),
		log.Int("remaining", next.Remaining()),
		log.Duration("delay", d.cfg.ActivationDelay),
	)
	return step, domain.OutcomeScheduled, nil
}

// CommitStep re-reads the store and activates the step's credential if the
// session still exists. A Stop after the re-read does not abort activation.
func (d *Driver) CommitStep(ctx context.Context, step Step) (domain.Outcome, error) {
	if _, ok := d.load(ctx); !ok {
		d.transition(domain.PhaseCancelled, "session cleared before activation")
		d.logger.Info("step cancelled before activation", log.Int("step", step.Number))
		return domain.OutcomeCancelled, nil
	}

	d.transition(domain.PhaseActive, "activating")
	d.logger.Info("activating credential",
		log.Int("step", step.Number),
		log.String("identity", step.Identity.DisplayName()),
	)

	if err := d.activator.Activate(ctx, step.Credential); err != nil {
		d.logger.Error("activation failed", log.Int("step", step.Number), log.Err(err))
		return domain.OutcomeFailed, err
	}

	if _, ok := d.load(ctx); !ok {
		d.logger.Debug("session cleared during activation", log.Int("step", step.Number))
	}
	return domain.OutcomeActivated, nil
}

// Advance runs one full cycle: BeginStep, wait the activation delay, then
// CommitStep. If ctx ends while waiting, the popped credential is dropped
// and the session continues at the next item on relaunch.
func (d *Driver) Advance(ctx context.Context) (domain.Outcome, error) {
	step, outcome, err := d.BeginStep(ctx)
	if err != nil || outcome != domain.OutcomeScheduled {
		return outcome, err
	}

	timer := time.NewTimer(d.cfg.ActivationDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		d.transition(domain.PhaseIdle, "host shutting down")
		d.logger.Warn("host stopped while step was waiting", log.Int("step", step.Number))
		return domain.OutcomeIdle, ctx.Err()
	case <-timer.C:
	}

	return d.CommitStep(ctx, step)
}

// Stop clears the stored session. It reports whether a session existed.
// An already scheduled step observes the cleared store when it commits.
// A record that cannot be read is discarded as well.
func (d *Driver) Stop(ctx context.Context, reason string) (bool, error) {
	state, ok, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Warn("failed to load session, discarding it", log.Err(err))
		if err := d.store.Clear(ctx); err != nil {
			return true, fmt.Errorf("clear session: %w", err)
		}
		d.transition(domain.PhaseCancelled, reason)
		d.notify(ctx, ports.Message{
			Kind:  ports.KindCancelled,
			Title: "Rotation stopped",
			Text:  "Discarded an unreadable session",
		})
		return true, nil
	}
	if !ok {
		d.notify(ctx, ports.Message{
			Kind:  ports.KindInfo,
			Title: "Rotation not running",
			Text:  "There is no rotation session to stop",
		})
		return false, nil
	}

	if err := d.store.Clear(ctx); err != nil {
		return true, fmt.Errorf("clear session: %w", err)
	}

	d.transition(domain.PhaseCancelled, reason)
	d.notify(ctx, ports.Message{
		Destination: state.Destination,
		Kind:        ports.KindCancelled,
		Title:       "Rotation stopped",
		Text:        fmt.Sprintf("Stopped at step %d/%d", state.Current, state.TotalValid),
	})

	d.logger.Info("rotation session stopped",
		log.String("session_id", state.SessionID),
		log.String("reason", reason),
		log.Int("remaining", state.Remaining()),
	)
	return true, nil
}

// DirectActivate validates a single credential and, if it is accepted,
// discards any session and activates it right away. A rejected credential
// leaves the session untouched.
func (d *Driver) DirectActivate(ctx context.Context, credential, destination string) (domain.Identity, error) {
	if d.validator == nil {
		return domain.Identity{}, fmt.Errorf("validate credential: %w", domain.ErrCapabilityUnavailable)
	}

	identity, err := d.validator.Validate(ctx, credential)
	if err != nil {
		d.notify(ctx, ports.Message{
			Destination: destination,
			Kind:        ports.KindFailure,
			Title:       "Login failed",
			Text:        "The credential was rejected",
		})
		if errors.Is(err, domain.ErrInvalidCredential) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}

	if err := d.store.Clear(ctx); err != nil {
		d.logger.Warn("failed to clear session before login", log.Err(err))
	}

	d.transition(domain.PhaseActive, "direct activation")
	d.notify(ctx, ports.Message{
		Destination: destination,
		Kind:        ports.KindInfo,
		Title:       "Logging in",
		Text:        fmt.Sprintf("Switching to %s", identity.DisplayName()),
	})

	if err := d.activator.Activate(ctx, credential); err != nil {
		return identity, err
	}
	return identity, nil
}

// Session returns the stored session, if any.
func (d *Driver) Session(ctx context.Context) (domain.QueueState, bool) {
	return d.load(ctx)
}

// Phase returns the tracker's current phase.
func (d *Driver) Phase() domain.Phase {
	return d.tracker.Phase()
}

func (d *Driver) complete(ctx context.Context, state domain.QueueState) error {
	if err := d.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear finished session: %w", err)
	}

	d.transition(domain.PhaseCompleted, "queue exhausted")
	if d.notifier != nil {
		err := d.notifier.NotifySummary(ctx, ports.Message{
			Destination: state.Destination,
			Kind:        ports.KindSummary,
			Title:       "Rotation complete",
			Text:        fmt.Sprintf("Rotated through %d credentials", state.TotalValid),
		})
		if err != nil {
			d.logger.Warn("failed to send summary", log.Err(err))
		}
	}

	d.logger.Info("rotation session completed",
		log.String("session_id", state.SessionID),
		log.Int("total", state.TotalValid),
	)
	return nil
}

// load treats every store error as an absent session.
func (d *Driver) load(ctx context.Context) (domain.QueueState, bool) {
	state, ok, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Warn("failed to load session, treating as absent", log.Err(err))
		return domain.QueueState{}, false
	}
	return state, ok
}

func (d *Driver) lookup(ctx context.Context, credential string) domain.Identity {
	if d.validator == nil {
		return domain.Identity{}
	}
	identity, err := d.validator.Validate(ctx, credential)
	if err != nil {
		d.logger.Debug("identity lookup failed", log.Err(err))
		return domain.Identity{}
	}
	return identity
}

func (d *Driver) notify(ctx context.Context, msg ports.Message) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, msg); err != nil {
		d.logger.Warn("failed to send notification", log.String("title", msg.Title), log.Err(err))
	}
}

func (d *Driver) transition(next domain.Phase, reason string) {
	if err := d.tracker.TransitionTo(next, reason); err != nil {
		d.logger.Debug("phase transition skipped",
			log.String("from", d.tracker.Phase().String()),
			log.String("to", next.String()),
			log.Err(err),
		)
	}
}
