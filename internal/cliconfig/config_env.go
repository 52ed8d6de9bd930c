package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CREDROT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("state-dir", os.Getenv("CREDROT_STATE_DIR"), &cfg.StateDir)
	s.setString("store", os.Getenv("CREDROT_STORE_BACKEND"), &cfg.StoreBackend)
	s.setString("identity-path", os.Getenv("CREDROT_IDENTITY_PATH"), &cfg.IdentityPath)
	s.setString("identity-format", os.Getenv("CREDROT_IDENTITY_FORMAT"), &cfg.IdentityFormat)
	s.setString("validate-url", os.Getenv("CREDROT_VALIDATE_URL"), &cfg.ValidateURL)
	s.setString("validate-command", os.Getenv("CREDROT_VALIDATE_COMMAND"), &cfg.ValidateCommand)
	s.setString("auth-scheme", os.Getenv("CREDROT_AUTH_SCHEME"), &cfg.AuthScheme)
	s.setString("restart-mode", os.Getenv("CREDROT_RESTART_MODE"), &cfg.RestartMode)
	s.setString("restart-command", os.Getenv("CREDROT_RESTART_COMMAND"), &cfg.RestartCommand)
	s.setString("restart-args", os.Getenv("CREDROT_RESTART_ARGS"), &cfg.RestartArgs)
	s.setString("action-command", os.Getenv("CREDROT_ACTION_COMMAND"), &cfg.ActionCommand)
	s.setString("webhook-url", os.Getenv("CREDROT_WEBHOOK_URL"), &cfg.WebhookURL)
	s.setString("destination", os.Getenv("CREDROT_DESTINATION"), &cfg.Destination)
	s.setString("log-level", os.Getenv("CREDROT_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("validation-spacing", os.Getenv("CREDROT_VALIDATION_SPACING"), &cfg.ValidationSpacing); err != nil {
		return err
	}
	if err := s.setDuration("activation-delay", os.Getenv("CREDROT_ACTIVATION_DELAY"), &cfg.ActivationDelay); err != nil {
		return err
	}
	if err := s.setDuration("resume-delay", os.Getenv("CREDROT_RESUME_DELAY"), &cfg.ResumeDelay); err != nil {
		return err
	}
	if err := s.setDuration("bulk-spacing", os.Getenv("CREDROT_BULK_SPACING"), &cfg.BulkSpacing); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("CREDROT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("challenge-exit-code", os.Getenv("CREDROT_CHALLENGE_EXIT_CODE"), &cfg.ChallengeExitCode); err != nil {
		return err
	}
	if err := s.setIntFromString("min-length", os.Getenv("CREDROT_MIN_CREDENTIAL_LENGTH"), &cfg.MinCredentialLength); err != nil {
		return err
	}

	return nil
}
