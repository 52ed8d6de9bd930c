package credrot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/credrot/internal/adapters/fs"
	"github.com/bft-labs/credrot/internal/app"
	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/pkg/log"
)

// Rotor rotates a host through a queue of credentials, one restart at a time.
// Use New to create one. Start, Stop, Login, Apply and Session may be called
// from any process sharing the state directory; Run is the host loop and
// only one may run per state directory.
type Rotor struct {
	config  Config
	opts    options
	store   QueueStore
	tracker *app.Tracker
	driver  *app.Driver
	bulk    *app.BulkApplier
	logger  log.Logger
	plugins []Plugin
	wake    chan struct{}

	mu      sync.Mutex
	running bool
}

// New creates a Rotor. It returns an error wrapping ErrInvalidConfig if cfg
// is not usable.
func New(cfg Config, opts ...Option) (*Rotor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		store = fs.NewQueueFileStore(cfg.StateDir)
	}

	activator := o.activator
	if activator == nil {
		if o.identity != nil && o.restarter != nil {
			activator = app.NewTrigger(o.identity, o.restarter, o.logger)
		} else {
			activator = unavailableActivator{}
		}
	}

	tracker := app.NewTracker(o.logger)
	if o.eventHandler != nil {
		handler := o.eventHandler
		tracker.Subscribe(func(c app.PhaseChange) {
			handler.OnPhaseChange(PhaseChangeEvent{Previous: c.Previous, Current: c.Current, Reason: c.Reason})
		})
	}

	driver := app.NewDriver(store, o.validator, o.notifier, activator, tracker, o.logger, app.DriverConfig{
		ValidationSpacing: cfg.ValidationSpacing,
		ActivationDelay:   cfg.ActivationDelay,
	})

	return &Rotor{
		config:  cfg,
		opts:    o,
		store:   store,
		tracker: tracker,
		driver:  driver,
		bulk:    app.NewBulkApplier(o.action, o.notifier, o.logger, cfg.BulkSpacing),
		logger:  o.logger,
		plugins: o.plugins,
		wake:    make(chan struct{}, 1),
	}, nil
}

// Start validates the credentials found in raw and replaces any stored
// session with a new one. It does not activate anything; a running host
// picks the session up.
func (r *Rotor) Start(ctx context.Context, raw, destination string) (StartReport, error) {
	creds := domain.ParseCredentials(raw, r.config.MinCredentialLength)
	report, err := r.driver.Start(ctx, creds, r.destination(destination))
	if err != nil {
		return report, err
	}
	r.Wake()
	return report, nil
}

// Stop clears the stored session. A step already scheduled re-checks the
// store before activating, so Stop usually prevents it, but a Stop that
// lands while the activation is under way does not.
func (r *Rotor) Stop(ctx context.Context) error {
	_, err := r.driver.Stop(ctx, "stop requested")
	return err
}

// Login validates one credential and, if accepted, discards any session and
// activates it immediately.
func (r *Rotor) Login(ctx context.Context, raw, destination string) (Identity, error) {
	credential := domain.CleanCredential(raw)
	if credential == "" {
		return Identity{}, ErrNoCredentials
	}
	return r.driver.DirectActivate(ctx, credential, r.destination(destination))
}

// Apply runs the configured action against target once per credential in
// raw. It never touches the stored session.
func (r *Rotor) Apply(ctx context.Context, target, raw, destination string) (BulkReport, error) {
	creds := domain.ParseCredentials(raw, r.config.MinCredentialLength)
	return r.bulk.Apply(ctx, target, creds, r.destination(destination))
}

// Resume runs one resumption cycle: it takes the next step of the stored
// session, waits the activation delay and activates, or completes the
// session if nothing is left.
func (r *Rotor) Resume(ctx context.Context) (Outcome, error) {
	outcome, err := r.driver.Advance(ctx)
	if r.opts.eventHandler != nil {
		r.opts.eventHandler.OnCycle(CycleEvent{Outcome: outcome, Err: err})
	}
	return outcome, err
}

// Session returns the stored session, if any.
func (r *Rotor) Session(ctx context.Context) (QueueState, bool) {
	return r.driver.Session(ctx)
}

// Status returns the phase of this process.
func (r *Rotor) Status() Phase {
	return r.tracker.Phase()
}

// Wake asks a running host to check the store now. It never blocks.
func (r *Rotor) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run is the host loop. It locks the state directory, starts the plugins,
// waits ResumeDelay and resumes any stored session. It then keeps resuming
// while activations return (the restarter did not replace the process) and
// wakes when a new session is written. Run returns nil when ctx is done.
func (r *Rotor) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrHostLocked
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	lock := fs.NewHostLock(r.config.StateDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("failed to release host lock", log.Err(err))
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	started, err := r.initPlugins(runCtx)
	defer r.shutdownPlugins(started)
	if err != nil {
		return err
	}

	r.logger.Info("host started",
		log.String("state_dir", r.config.StateDir),
		log.Duration("resume_delay", r.config.ResumeDelay),
	)

	resume := time.NewTimer(r.config.ResumeDelay)
	defer resume.Stop()
	pending := true

	for {
		select {
		case <-runCtx.Done():
			r.logger.Info("host stopping")
			return nil

		case <-resume.C:
			pending = false

		case <-r.wake:
			if pending {
				continue
			}
		}

		outcome, err := r.Resume(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("resumption cycle failed", log.String("outcome", outcome.String()), log.Err(err))
		}

		// Our own store writes wake us too.
		r.drainWake()

		if outcome == OutcomeActivated {
			r.logger.Info("host survived activation, treating as relaunch")
			resume.Reset(r.config.ResumeDelay)
			pending = true
		}
	}
}

func (r *Rotor) drainWake() {
	for {
		select {
		case <-r.wake:
		default:
			return
		}
	}
}

func (r *Rotor) initPlugins(ctx context.Context) ([]Plugin, error) {
	cfg := PluginConfig{
		StateDir:  r.config.StateDir,
		StorePath: storePath(r.store),
		Logger:    r.logger,
		Wake:      r.Wake,
	}

	started := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			r.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return started, fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		r.logger.Info("plugin initialized", log.String("plugin", p.Name()))
		started = append(started, p)
	}
	return started, nil
}

func (r *Rotor) shutdownPlugins(started []Plugin) {
	ctx := context.Background()
	for i := len(started) - 1; i >= 0; i-- {
		p := started[i]
		if err := p.Shutdown(ctx); err != nil {
			r.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		} else {
			r.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
}

func (r *Rotor) destination(d string) string {
	if d != "" {
		return d
	}
	return r.config.Destination
}

func storePath(store QueueStore) string {
	if p, ok := store.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

type unavailableActivator struct{}

func (unavailableActivator) Activate(ctx context.Context, credential string) error {
	return fmt.Errorf("activate credential: %w", ErrCapabilityUnavailable)
}
