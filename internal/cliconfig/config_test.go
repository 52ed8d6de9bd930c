package cliconfig

import (
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/credrot/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StoreBackend != StoreFile {
		t.Errorf("StoreBackend = %v, want file", cfg.StoreBackend)
	}
	if cfg.ActivationDelay != 4*time.Second {
		t.Errorf("ActivationDelay = %v, want 4s", cfg.ActivationDelay)
	}
	if cfg.ResumeDelay != 5*time.Second {
		t.Errorf("ResumeDelay = %v, want 5s", cfg.ResumeDelay)
	}
	if cfg.ValidationSpacing != 200*time.Millisecond {
		t.Errorf("ValidationSpacing = %v, want 200ms", cfg.ValidationSpacing)
	}
	if cfg.BulkSpacing != 1500*time.Millisecond {
		t.Errorf("BulkSpacing = %v, want 1.5s", cfg.BulkSpacing)
	}
	if cfg.MinCredentialLength != 20 {
		t.Errorf("MinCredentialLength = %v, want 20", cfg.MinCredentialLength)
	}
	if cfg.RestartArgs != "run" {
		t.Errorf("RestartArgs = %v, want run", cfg.RestartArgs)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.StateDir = "/tmp/credrot"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"sqlite backend", func(c *Config) { c.StoreBackend = StoreSQLite }, false},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }, true},
		{"unknown identity format", func(c *Config) { c.IdentityFormat = "yaml" }, true},
		{"command mode without command", func(c *Config) { c.RestartMode = RestartCommand }, true},
		{"command mode with command", func(c *Config) {
			c.RestartMode = RestartCommand
			c.RestartCommand = "systemctl restart host"
		}, false},
		{"unknown restart mode", func(c *Config) { c.RestartMode = "reboot" }, true},
		{"both validators", func(c *Config) {
			c.ValidateURL = "https://id.example"
			c.ValidateCommand = "check"
		}, true},
		{"negative delay", func(c *Config) { c.ActivationDelay = -time.Second }, true},
		{"zero activation delay", func(c *Config) { c.ActivationDelay = 0 }, true},
		{"zero validation spacing", func(c *Config) { c.ValidationSpacing = 0 }, true},
		{"zero resume delay", func(c *Config) { c.ResumeDelay = 0 }, true},
		{"zero bulk spacing", func(c *Config) { c.BulkSpacing = 0 }, true},
		{"short delays", func(c *Config) {
			c.ActivationDelay = time.Millisecond
			c.ValidationSpacing = time.Millisecond
		}, false},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"negative min length", func(c *Config) { c.MinCredentialLength = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateDerivesDefaults(t *testing.T) {
	cfg := Config{
		StateDir:          "/tmp/credrot",
		HTTPTimeout:       time.Second,
		ValidationSpacing: time.Millisecond,
		ActivationDelay:   time.Millisecond,
		ResumeDelay:       time.Millisecond,
		BulkSpacing:       time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.IdentityPath != filepath.Join("/tmp/credrot", "identity") {
		t.Errorf("IdentityPath = %v", cfg.IdentityPath)
	}
	if cfg.StoreBackend != StoreFile || cfg.IdentityFormat != IdentityRaw || cfg.RestartMode != RestartExec {
		t.Errorf("derived = %+v", cfg)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestArgv(t *testing.T) {
	got := Argv("  systemctl  restart host ")
	want := []string{"systemctl", "restart", "host"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Argv() = %v, want %v", got, want)
	}
	if len(Argv("")) != 0 {
		t.Error("Argv(\"\") should be empty")
	}

	got = Argv(`sh -c 'test -n "$X"'`)
	want = []string{"sh", "-c", "'test", "-n", `"$X"'`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Argv() = %q, want quotes left alone %q", got, want)
	}
}

func TestConfig_Flags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StateDir = "/var/lib/credrot"
	cfg.StoreBackend = StoreSQLite
	cfg.IdentityPath = "/etc/host/token"
	cfg.ValidateCommand = "/usr/local/bin/check-token --strict"
	cfg.ActivationDelay = 1500 * time.Millisecond

	got := cfg.Flags()
	for _, want := range []string{
		"--state-dir=/var/lib/credrot",
		"--store=sqlite",
		"--identity-path=/etc/host/token",
		"--validate-command=/usr/local/bin/check-token --strict",
		"--activation-delay=1.5s",
		"--webhook-url=",
		"--min-length=20",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("Flags() missing %q in %q", want, got)
		}
	}
}

func TestConfigSetter(t *testing.T) {
	s := newConfigSetter(map[string]bool{"locked": true})

	var str string
	s.setString("locked", "x", &str)
	s.setString("open", "", &str)
	if str != "" {
		t.Errorf("setString wrote %q", str)
	}

	n := 20
	zero := 0
	s.setInt("open", &zero, &n)
	if n != 0 {
		t.Errorf("setInt did not apply zero, got %d", n)
	}
	s.setInt("open", nil, &n)
	if n != 0 {
		t.Errorf("setInt applied nil, got %d", n)
	}
}
