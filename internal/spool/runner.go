package spool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result captures a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution for testability. A non-zero exit is
// reported through Result.ExitCode; the error return is reserved for commands
// that could not be started or were cancelled.
type Runner interface {
	Run(ctx context.Context, binary string, args []string, stdin []byte) (Result, error)
}

type commandRunner struct{}

func (commandRunner) Run(ctx context.Context, binary string, args []string, stdin []byte) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("run %s: %w", binary, err)
}

// DefaultRunner executes real binaries.
func DefaultRunner() Runner {
	return commandRunner{}
}
