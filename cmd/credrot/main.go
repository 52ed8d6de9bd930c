package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/credrot/internal/cliconfig"
	"github.com/bft-labs/credrot/pkg/log"
)

const helpDescription = `
Rotate a host through a batch of credentials, one restart at a time.

Highlights:
  - Validates every credential before a session starts, paced to stay polite.
  - Persists progress before each step, so the host resumes after every restart.
  - Each step can be cancelled until the moment it activates.
  - Configure via file, env (CREDROT_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  credrot run --validate-url https://id.example/me --restart-mode command --restart-command "systemctl restart myhost"
  credrot start --file credentials.txt
  credrot stop
  credrot status --json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration into subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  *log.ZerologAdapter

	// hosting is set by `run`; only the host re-executes itself.
	hosting bool
	// signalHost asks a running host to restart; nil sends SIGHUP.
	signalHost func(pid int) error
}

// load resolves configuration: defaults, file, environment, then flags.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewConsoleAdapter(os.Stderr, c.cfg.Level())
	c.logger.Debug("configuration",
		log.String("state_dir", c.cfg.StateDir),
		log.String("store", c.cfg.StoreBackend),
		log.String("restart_mode", c.cfg.RestartMode),
		log.Duration("activation_delay", c.cfg.ActivationDelay),
		log.Duration("resume_delay", c.cfg.ResumeDelay),
	)
	return nil
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "credrot",
		Short:         "Rotate a host through a batch of credentials, one restart at a time",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.credrot/config.toml)")
	flags.StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory holding the session store and host lock (default: $HOME/.credrot/state)")
	flags.StringVar(&c.cfg.StoreBackend, "store", c.cfg.StoreBackend, "session store backend: file or sqlite")
	flags.StringVar(&c.cfg.IdentityPath, "identity-path", c.cfg.IdentityPath, "file the host reads its credential from (default: <state-dir>/identity)")
	flags.StringVar(&c.cfg.IdentityFormat, "identity-format", c.cfg.IdentityFormat, "identity file format: raw or json")
	flags.StringVar(&c.cfg.ValidateURL, "validate-url", c.cfg.ValidateURL, "identity endpoint used to validate credentials")
	flags.StringVar(&c.cfg.ValidateCommand, "validate-command", c.cfg.ValidateCommand, "command used to validate credentials, split on spaces without shell quoting (credential in $CREDROT_CREDENTIAL)")
	flags.StringVar(&c.cfg.AuthScheme, "auth-scheme", c.cfg.AuthScheme, "Authorization scheme prefix for validate-url (empty sends the bare credential)")
	flags.StringVar(&c.cfg.RestartMode, "restart-mode", c.cfg.RestartMode, "how to restart the host: exec or command")
	flags.StringVar(&c.cfg.RestartCommand, "restart-command", c.cfg.RestartCommand, "command that restarts the host, split on spaces without shell quoting (restart-mode=command)")
	flags.StringVar(&c.cfg.RestartArgs, "restart-args", c.cfg.RestartArgs, "arguments for re-executing credrot (restart-mode=exec)")
	flags.StringVar(&c.cfg.ActionCommand, "action-command", c.cfg.ActionCommand, "command run by apply, split on spaces without shell quoting (target in $CREDROT_TARGET)")
	flags.IntVar(&c.cfg.ChallengeExitCode, "challenge-exit-code", c.cfg.ChallengeExitCode, "action exit code reported as a challenge")
	flags.StringVar(&c.cfg.WebhookURL, "webhook-url", c.cfg.WebhookURL, "webhook receiving notifications")
	flags.StringVar(&c.cfg.Destination, "destination", c.cfg.Destination, "default notification destination")
	flags.DurationVar(&c.cfg.ValidationSpacing, "validation-spacing", c.cfg.ValidationSpacing, "pause between validation calls")
	flags.DurationVar(&c.cfg.ActivationDelay, "activation-delay", c.cfg.ActivationDelay, "pause between announcing and activating a step")
	flags.DurationVar(&c.cfg.ResumeDelay, "resume-delay", c.cfg.ResumeDelay, "pause after host start before resuming")
	flags.DurationVar(&c.cfg.BulkSpacing, "bulk-spacing", c.cfg.BulkSpacing, "pause between apply calls")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout")
	flags.IntVar(&c.cfg.MinCredentialLength, "min-length", c.cfg.MinCredentialLength, "ignore list fragments of at most this many characters (0 keeps all)")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newRunCommand(c),
		newStartCommand(c),
		newStopCommand(c),
		newLoginCommand(c),
		newApplyCommand(c),
		newStatusCommand(c),
	)
	return root
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}

	if err := newRootCommand(c).Execute(); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		if c.logger != nil {
			logger = c.logger.Logger()
		}
		logger.Error().Err(err).Msg("credrot")
		os.Exit(1)
	}
}
