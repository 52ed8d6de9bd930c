package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"

	"github.com/bft-labs/credrot/internal/adapters/command"
	"github.com/bft-labs/credrot/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/credrot/internal/adapters/http"
	"github.com/bft-labs/credrot/internal/adapters/notify"
	"github.com/bft-labs/credrot/internal/adapters/sqlite"
	"github.com/bft-labs/credrot/internal/cliconfig"
	"github.com/bft-labs/credrot/pkg/credrot"
	"github.com/bft-labs/credrot/plugins/storewatcher"
)

// host bundles a rotor with the resources the CLI must release or poke.
type host struct {
	rotor     *credrot.Rotor
	canceler  notify.Canceller
	restarter credrot.Restarter
	closers   []io.Closer
}

func (h *host) Close() {
	for _, c := range h.closers {
		_ = c.Close()
	}
}

// newHost wires the configured adapters into a rotor.
func (c *cli) newHost(extra ...credrot.Option) (*host, error) {
	cfg := c.cfg
	h := &host{}

	client := &http.Client{Timeout: cfg.HTTPTimeout}

	var store credrot.QueueStore
	switch cfg.StoreBackend {
	case cliconfig.StoreSQLite:
		s, err := sqlite.Open(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		h.closers = append(h.closers, s)
		store = s
	default:
		store = fs.NewQueueFileStore(cfg.StateDir)
	}

	logNotifier := notify.NewLogNotifier(c.logger)
	notifiers := notify.Multi{logNotifier}
	if cfg.WebhookURL != "" || isURL(cfg.Destination) {
		notifiers = append(notifiers, notify.NewWebhook(client, cfg.WebhookURL))
	}
	h.canceler = notifiers

	h.restarter = c.restarter()

	opts := []credrot.Option{
		credrot.WithLogger(c.logger),
		credrot.WithStore(store),
		credrot.WithNotifier(notifiers),
		credrot.WithIdentityWriter(fs.NewIdentityFile(cfg.IdentityPath, cfg.IdentityFormat)),
		credrot.WithRestarter(h.restarter),
	}

	switch {
	case cfg.ValidateURL != "":
		opts = append(opts, credrot.WithValidator(httpAdapter.NewValidator(client, cfg.ValidateURL, cfg.AuthScheme)))
	case cfg.ValidateCommand != "":
		opts = append(opts, credrot.WithValidator(command.NewValidator(cliconfig.Argv(cfg.ValidateCommand))))
	}

	if cfg.ActionCommand != "" {
		opts = append(opts, credrot.WithAction(command.NewAction(cliconfig.Argv(cfg.ActionCommand), cfg.ChallengeExitCode)))
	}

	rotor, err := credrot.New(credrot.Config{
		StateDir:            cfg.StateDir,
		Destination:         cfg.Destination,
		MinCredentialLength: cfg.MinCredentialLength,
		ValidationSpacing:   cfg.ValidationSpacing,
		ActivationDelay:     cfg.ActivationDelay,
		ResumeDelay:         cfg.ResumeDelay,
		BulkSpacing:         cfg.BulkSpacing,
	}, append(opts, extra...)...)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.rotor = rotor
	return h, nil
}

// restarter builds the configured restart strategy. In exec mode the host
// re-executes itself with its resolved configuration. Any other command
// hands the restart to the running host, or becomes the host when none runs.
func (c *cli) restarter() credrot.Restarter {
	if c.cfg.RestartMode == cliconfig.RestartCommand {
		return command.NewRestarter(cliconfig.Argv(c.cfg.RestartCommand))
	}
	self := command.NewSelfRestarter(c.execArgs())
	if c.hosting {
		return self
	}
	signal := c.signalHost
	if signal == nil {
		signal = hangup
	}
	return &handoffRestarter{stateDir: c.cfg.StateDir, self: self, signal: signal}
}

// execArgs is the command line a re-executed host starts with.
func (c *cli) execArgs() []string {
	return append(cliconfig.Argv(c.cfg.RestartArgs), c.cfg.Flags()...)
}

// handoffRestarter restarts the host that holds the state directory lock.
type handoffRestarter struct {
	stateDir string
	self     credrot.Restarter
	signal   func(pid int) error
}

func (r *handoffRestarter) Restart(ctx context.Context) error {
	pid, held, err := fs.RunningHost(r.stateDir)
	if err != nil {
		return fmt.Errorf("locate running host: %w", err)
	}
	if !held {
		return r.self.Restart(ctx)
	}
	if err := r.signal(pid); err != nil {
		return fmt.Errorf("signal host %d: %w", pid, err)
	}
	return nil
}

func hangup(pid int) error {
	return syscall.Kill(pid, syscall.SIGHUP)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func withStoreWatcher() credrot.Option {
	return storewatcher.WithDefaultStoreWatcher()
}
