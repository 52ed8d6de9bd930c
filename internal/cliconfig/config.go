package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/credrot/internal/domain"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Restart modes.
const (
	RestartExec    = "exec"
	RestartCommand = "command"
)

// Identity file formats.
const (
	IdentityRaw  = "raw"
	IdentityJSON = "json"
)

// Config holds CLI configuration for credrot.
type Config struct {
	StateDir     string
	StoreBackend string

	IdentityPath   string
	IdentityFormat string

	ValidateURL     string
	ValidateCommand string
	AuthScheme      string

	RestartMode    string
	RestartCommand string
	RestartArgs    string

	ActionCommand     string
	ChallengeExitCode int

	WebhookURL  string
	Destination string

	ValidationSpacing time.Duration
	ActivationDelay   time.Duration
	ResumeDelay       time.Duration
	BulkSpacing       time.Duration
	HTTPTimeout       time.Duration

	MinCredentialLength int
	LogLevel            string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		StoreBackend:        StoreFile,
		IdentityFormat:      IdentityRaw,
		RestartMode:         RestartExec,
		RestartArgs:         "run",
		ChallengeExitCode:   3,
		ValidationSpacing:   200 * time.Millisecond,
		ActivationDelay:     4 * time.Second,
		ResumeDelay:         5 * time.Second,
		BulkSpacing:         1500 * time.Millisecond,
		HTTPTimeout:         15 * time.Second,
		MinCredentialLength: 20,
		LogLevel:            "info",
	}
}

// DefaultStateDir returns ~/.credrot/state, or "" if there is no home directory.
func DefaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".credrot", "state")
	}
	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir()
	}
	if c.StateDir == "" {
		return invalid("state-dir is required")
	}

	if c.IdentityPath == "" {
		c.IdentityPath = filepath.Join(c.StateDir, "identity")
	}

	switch c.StoreBackend {
	case "":
		c.StoreBackend = StoreFile
	case StoreFile, StoreSQLite:
	default:
		return invalid("unknown store backend %q", c.StoreBackend)
	}

	switch c.IdentityFormat {
	case "":
		c.IdentityFormat = IdentityRaw
	case IdentityRaw, IdentityJSON:
	default:
		return invalid("unknown identity format %q", c.IdentityFormat)
	}

	switch c.RestartMode {
	case "":
		c.RestartMode = RestartExec
	case RestartExec:
	case RestartCommand:
		if strings.TrimSpace(c.RestartCommand) == "" {
			return invalid("restart-command is required in command restart mode")
		}
	default:
		return invalid("unknown restart mode %q", c.RestartMode)
	}

	if c.ValidateURL != "" && c.ValidateCommand != "" {
		return invalid("validate-url and validate-command are mutually exclusive")
	}

	// The library reads a zero delay as "use the default".
	delays := []struct {
		name  string
		value time.Duration
	}{
		{"validation-spacing", c.ValidationSpacing},
		{"activation-delay", c.ActivationDelay},
		{"resume-delay", c.ResumeDelay},
		{"bulk-spacing", c.BulkSpacing},
	}
	for _, d := range delays {
		if d.value <= 0 {
			return invalid("%s must be positive, got %v", d.name, d.value)
		}
	}
	if c.HTTPTimeout <= 0 {
		return invalid("http timeout must be positive")
	}
	if c.MinCredentialLength < 0 {
		return invalid("min credential length must not be negative")
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return invalid("log level: %v", err)
	}

	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Flags renders every setting as a command-line flag. Flags take precedence
// over the file and the environment, so a process started with them resolves
// to exactly c.
func (c Config) Flags() []string {
	flag := func(name, value string) string {
		return "--" + name + "=" + value
	}
	return []string{
		flag("state-dir", c.StateDir),
		flag("store", c.StoreBackend),
		flag("identity-path", c.IdentityPath),
		flag("identity-format", c.IdentityFormat),
		flag("validate-url", c.ValidateURL),
		flag("validate-command", c.ValidateCommand),
		flag("auth-scheme", c.AuthScheme),
		flag("restart-mode", c.RestartMode),
		flag("restart-command", c.RestartCommand),
		flag("restart-args", c.RestartArgs),
		flag("action-command", c.ActionCommand),
		flag("challenge-exit-code", strconv.Itoa(c.ChallengeExitCode)),
		flag("webhook-url", c.WebhookURL),
		flag("destination", c.Destination),
		flag("validation-spacing", c.ValidationSpacing.String()),
		flag("activation-delay", c.ActivationDelay.String()),
		flag("resume-delay", c.ResumeDelay.String()),
		flag("bulk-spacing", c.BulkSpacing.String()),
		flag("timeout", c.HTTPTimeout.String()),
		flag("min-length", strconv.Itoa(c.MinCredentialLength)),
		flag("log-level", c.LogLevel),
	}
}

// Argv splits a configured command line on whitespace. Quotes and escapes
// are not interpreted and no shell is involved; commands that need shell
// syntax belong in a script whose path is configured instead.
func Argv(command string) []string {
	return strings.Fields(command)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero is a meaningful value here, so absence is expressed by nil.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}
