package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// result captures what a finished child process produced.
type result struct {
	stdout   string
	exitCode int
}

// run executes argv with extra environment variables appended.
// A non-zero exit is reported through exitCode, not as an error; err is
// reserved for processes that could not be started or were interrupted.
func run(ctx context.Context, argv []string, env ...string) (result, error) {
	if len(argv) == 0 {
		return result{}, fmt.Errorf("no command configured")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return result{stdout: stdout.String()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return result{stdout: stdout.String(), exitCode: exitErr.ExitCode()}, nil
	}
	return result{}, fmt.Errorf("run %s: %w", argv[0], err)
}
