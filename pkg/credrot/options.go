package credrot

import "github.com/bft-labs/credrot/pkg/log"

// Option configures optional behavior of a Rotor.
type Option func(*options)

type options struct {
	logger       log.Logger
	store        QueueStore
	validator    Validator
	notifier     Notifier
	activator    Activator
	identity     IdentityWriter
	restarter    Restarter
	action       Action
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore replaces the default session file in Config.StateDir.
func WithStore(store QueueStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithValidator sets the credential validator. Start and Login need one.
func WithValidator(v Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithNotifier sets where progress, cancel controls and summaries go.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithIdentityWriter sets the identity storage written before a restart.
func WithIdentityWriter(w IdentityWriter) Option {
	return func(o *options) {
		o.identity = w
	}
}

// WithRestarter sets how the host is restarted after a credential is written.
func WithRestarter(r Restarter) Option {
	return func(o *options) {
		o.restarter = r
	}
}

// WithActivator replaces the identity writer and restarter pair.
func WithActivator(a Activator) Option {
	return func(o *options) {
		o.activator = a
	}
}

// WithAction sets the action used by Apply.
func WithAction(a Action) Option {
	return func(o *options) {
		o.action = a
	}
}

// WithEventHandler sets a handler for rotor events.
// Events are delivered synchronously; handlers should return quickly.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when Run starts.
// Plugins are initialized in registration order and shut down in reverse.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
