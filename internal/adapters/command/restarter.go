package command

import (
	"context"
	"fmt"
	"os"
	"syscall"
)

// Restarter implements ports.Restarter by running a command, typically a
// service manager call that restarts the host.
type Restarter struct {
	argv []string
}

// NewRestarter creates a restarter running argv.
func NewRestarter(argv []string) *Restarter {
	return &Restarter{argv: argv}
}

// Restart runs the restart command and fails on a non-zero exit.
func (r *Restarter) Restart(ctx context.Context) error {
	res, err := run(ctx, r.argv)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return fmt.Errorf("restart command exited with status %d", res.exitCode)
	}
	return nil
}

// SelfRestarter implements ports.Restarter by replacing the current process
// image with a fresh copy of the running executable.
type SelfRestarter struct {
	args []string
	exec func(argv0 string, argv []string, envv []string) error
}

// NewSelfRestarter creates a restarter that re-executes this binary with args.
func NewSelfRestarter(args []string) *SelfRestarter {
	return &SelfRestarter{args: args, exec: syscall.Exec}
}

// Restart does not return on success.
func (r *SelfRestarter) Restart(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	argv := append([]string{self}, r.args...)
	if err := r.exec(self, argv, os.Environ()); err != nil {
		return fmt.Errorf("re-exec %s: %w", self, err)
	}
	return nil
}
