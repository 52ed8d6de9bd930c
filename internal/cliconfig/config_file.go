package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	StateDir            string `toml:"state_dir"`
	StoreBackend        string `toml:"store_backend"`
	IdentityPath        string `toml:"identity_path"`
	IdentityFormat      string `toml:"identity_format"`
	ValidateURL         string `toml:"validate_url"`
	ValidateCommand     string `toml:"validate_command"`
	AuthScheme          string `toml:"auth_scheme"`
	RestartMode         string `toml:"restart_mode"`
	RestartCommand      string `toml:"restart_command"`
	RestartArgs         string `toml:"restart_args"`
	ActionCommand       string `toml:"action_command"`
	ChallengeExitCode   *int   `toml:"challenge_exit_code"`
	WebhookURL          string `toml:"webhook_url"`
	Destination         string `toml:"destination"`
	ValidationSpacing   string `toml:"validation_spacing"`
	ActivationDelay     string `toml:"activation_delay"`
	ResumeDelay         string `toml:"resume_delay"`
	BulkSpacing         string `toml:"bulk_spacing"`
	HTTPTimeout         string `toml:"http_timeout"`
	MinCredentialLength *int   `toml:"min_credential_length"`
	LogLevel            string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.credrot/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".credrot", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("store", fc.StoreBackend, &cfg.StoreBackend)
	s.setString("identity-path", fc.IdentityPath, &cfg.IdentityPath)
	s.setString("identity-format", fc.IdentityFormat, &cfg.IdentityFormat)
	s.setString("validate-url", fc.ValidateURL, &cfg.ValidateURL)
	s.setString("validate-command", fc.ValidateCommand, &cfg.ValidateCommand)
	s.setString("auth-scheme", fc.AuthScheme, &cfg.AuthScheme)
	s.setString("restart-mode", fc.RestartMode, &cfg.RestartMode)
	s.setString("restart-command", fc.RestartCommand, &cfg.RestartCommand)
	s.setString("restart-args", fc.RestartArgs, &cfg.RestartArgs)
	s.setString("action-command", fc.ActionCommand, &cfg.ActionCommand)
	s.setString("webhook-url", fc.WebhookURL, &cfg.WebhookURL)
	s.setString("destination", fc.Destination, &cfg.Destination)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("validation-spacing", fc.ValidationSpacing, &cfg.ValidationSpacing); err != nil {
		return err
	}
	if err := s.setDuration("activation-delay", fc.ActivationDelay, &cfg.ActivationDelay); err != nil {
		return err
	}
	if err := s.setDuration("resume-delay", fc.ResumeDelay, &cfg.ResumeDelay); err != nil {
		return err
	}
	if err := s.setDuration("bulk-spacing", fc.BulkSpacing, &cfg.BulkSpacing); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("challenge-exit-code", fc.ChallengeExitCode, &cfg.ChallengeExitCode)
	s.setInt("min-length", fc.MinCredentialLength, &cfg.MinCredentialLength)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
