package cmdtool

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/JoshPattman/jpf"
)

// Result is delivered by [Adapter.ExecuteAsync].
type Result struct {
	// Captured standard output on success.
	Output string
	// Nil on success, otherwise an *Error.
	Err error
}

// Adapter turns task descriptions into validated invocations of a single program and runs them.
// An Adapter holds no state between calls and is safe for concurrent use.
type Adapter struct {
	pipeline       jpf.Pipeline[string, string]
	launcher       Launcher
	program        string
	flags          []string
	workDir        string
	processTimeout time.Duration
	logger         *slog.Logger
	streamers      []EventStreamer
}

// New creates an adapter that asks model for commands.
// The model is wrapped with the generation timeout and debug logging of every call.
func New(model jpf.Model, opts ...NewOpt) *Adapter {
	kwargs := getNewKwargs(opts)
	logger := kwargs.logger.With("program", kwargs.program)
	if kwargs.generationTimeout > 0 {
		model = jpf.NewTimeoutModel(model, kwargs.generationTimeout)
	}
	model = jpf.NewLoggingModel(model, jpf.NewSlogModelLogger(logger.Debug, false))
	return &Adapter{
		pipeline:       getCommandPipeline(model, kwargs.program, kwargs.samplesDir),
		launcher:       kwargs.launcher,
		program:        kwargs.program,
		flags:          slices.Clone(kwargs.flags),
		workDir:        kwargs.workDir,
		processTimeout: kwargs.processTimeout,
		logger:         logger,
		streamers:      kwargs.streamers,
	}
}

// Program returns the name generated commands must start with.
func (a *Adapter) Program() string { return a.program }

// Execute generates, validates and runs a command for the task, blocking until the process exits.
// On failure the error is an *Error.
func (a *Adapter) Execute(ctx context.Context, task string, opts ...ExecOpt) (string, error) {
	streamers := a.getStreamers(opts)
	inv, err := a.plan(ctx, task, streamers)
	if err != nil {
		return "", err
	}
	return a.run(ctx, inv, streamers)
}

// ExecuteAsync does the same as Execute without blocking the caller.
// Exactly one Result is sent on the returned channel, which is then closed.
// Cancelling ctx stops generation or kills the running process.
func (a *Adapter) ExecuteAsync(ctx context.Context, task string, opts ...ExecOpt) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		out, err := a.Execute(ctx, task, opts...)
		results <- Result{Output: out, Err: err}
	}()
	return results
}

// Plan generates and validates a command for the task without running it.
func (a *Adapter) Plan(ctx context.Context, task string, opts ...ExecOpt) (Invocation, error) {
	return a.plan(ctx, task, a.getStreamers(opts))
}

func (a *Adapter) plan(ctx context.Context, task string, streamers EventStreamer) (Invocation, error) {
	if strings.TrimSpace(task) == "" {
		return Invocation{}, newError(InvalidCommand, "empty task description", nil)
	}

	raw, _, err := a.pipeline.Call(ctx, task)
	if err != nil {
		a.logger.Warn("command generation failed", "error", err)
		return Invocation{}, newError(GenerationError, "", err)
	}
	a.logger.Debug("generated command", "raw", raw)
	streamers.TrySendEvent(GeneratedEvent{Task: task, Raw: raw})

	inv, ok := buildInvocation(tokenize(raw), a.program, a.flags, a.workDir)
	if !ok {
		a.logger.Warn("rejected generated command", "raw", raw)
		streamers.TrySendEvent(RejectedEvent{Raw: raw})
		return Invocation{}, newError(InvalidCommand, "Invalid command generated", nil)
	}
	return inv, nil
}

func (a *Adapter) run(ctx context.Context, inv Invocation, streamers EventStreamer) (string, error) {
	if a.processTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.processTimeout)
		defer cancel()
	}

	a.logger.Info("running command", "command", inv.String())
	streamers.TrySendEvent(InvocationEvent{Argv: inv.Argv()})

	out, err := a.launcher.Launch(ctx, inv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			a.logger.Warn("command stopped before exiting", "error", err)
			return "", newError(ProcessError, string(out.Stderr), err)
		}
		a.logger.Error("could not launch command", "error", err)
		return "", newError(EnvironmentError, "", err)
	}

	stdout, stderr := string(out.Stdout), string(out.Stderr)
	a.logger.Info("command exited", "exit_code", out.ExitCode)
	a.logger.Debug("command output", "stdout", stdout, "stderr", stderr)
	streamers.TrySendEvent(ExitEvent{ExitCode: out.ExitCode, Stdout: stdout, Stderr: stderr})

	// Any diagnostic text fails the call, whatever the exit code.
	if len(out.Stderr) > 0 {
		return "", newError(ProcessError, stderr, nil)
	}
	return stdout, nil
}

func (a *Adapter) getStreamers(opts []ExecOpt) multiStreamers {
	kw := getExecKwargs(opts)
	streamers := make(multiStreamers, 0, len(a.streamers)+len(kw.streamers))
	streamers = append(streamers, a.streamers...)
	return append(streamers, kw.streamers...)
}
