package cmdtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Launcher runs a validated invocation as a child process.
type Launcher interface {
	// Launch runs the invocation to completion, capturing both output streams.
	// A non-zero exit status is reported in the output, not as an error.
	// An error means the process could not be started, or ctx ended while it ran.
	Launch(ctx context.Context, inv Invocation) (ProcessOutput, error)
}

// ProcessOutput is what a finished child process left behind.
type ProcessOutput struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// DefaultWaitDelay bounds how long a killed process may keep its output pipes open.
const DefaultWaitDelay = 2 * time.Second

// OSLauncher runs invocations with os/exec, without a shell.
type OSLauncher struct {
	// After ctx ends and the process is killed, wait at most this long for its pipes to close.
	// Zero means DefaultWaitDelay.
	WaitDelay time.Duration
}

func (l OSLauncher) Launch(ctx context.Context, inv Invocation) (ProcessOutput, error) {
	path, err := exec.LookPath(inv.Program)
	if err != nil {
		return ProcessOutput{}, fmt.Errorf("locating %s: %w", inv.Program, err)
	}

	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = l.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	out := ProcessOutput{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return out, fmt.Errorf("running %s: %w", inv.Program, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, fmt.Errorf("starting %s: %w", inv.Program, err)
}
