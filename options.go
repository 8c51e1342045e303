package cmdtool

import (
	"log/slog"
	"time"
)

const (
	DefaultProgram           = "ffmpeg"
	DefaultSamplesDir        = "./samples"
	DefaultGenerationTimeout = 60 * time.Second
	DefaultProcessTimeout    = 5 * time.Minute
)

// DefaultFlags are added after the program name: quiet logging and unconditional overwrite.
var DefaultFlags = []string{"-loglevel", "error", "-y"}

type NewOpt func(*newKwargs)

// Set the program that generated commands must start with.
func WithProgram(program string) NewOpt {
	return func(kw *newKwargs) { kw.program = program }
}

// Replace the flags that are always added after the program name.
func WithFlags(flags ...string) NewOpt {
	return func(kw *newKwargs) { kw.flags = flags }
}

// Set the directory the model is told to keep input and output files under.
func WithSamplesDir(dir string) NewOpt {
	return func(kw *newKwargs) { kw.samplesDir = dir }
}

// Set the working directory of spawned processes.
func WithWorkDir(dir string) NewOpt {
	return func(kw *newKwargs) { kw.workDir = dir }
}

// Use a launcher other than [OSLauncher].
func WithLauncher(l Launcher) NewOpt {
	return func(kw *newKwargs) { kw.launcher = l }
}

// Bound every call to the text generator. Zero disables the bound.
func WithGenerationTimeout(d time.Duration) NewOpt {
	return func(kw *newKwargs) { kw.generationTimeout = d }
}

// Bound every spawned process. Zero disables the bound.
func WithProcessTimeout(d time.Duration) NewOpt {
	return func(kw *newKwargs) { kw.processTimeout = d }
}

func WithLogger(logger *slog.Logger) NewOpt {
	return func(kw *newKwargs) { kw.logger = logger }
}

// Stream the events of every execution to the provided streamer.
func WithEventStreamer(streamer EventStreamer) NewOpt {
	return func(kw *newKwargs) { kw.streamers = append(kw.streamers, streamer) }
}

type newKwargs struct {
	program           string
	flags             []string
	samplesDir        string
	workDir           string
	launcher          Launcher
	generationTimeout time.Duration
	processTimeout    time.Duration
	logger            *slog.Logger
	streamers         []EventStreamer
}

func getNewKwargs(opts []NewOpt) newKwargs {
	kwargs := newKwargs{
		program:           DefaultProgram,
		flags:             DefaultFlags,
		samplesDir:        DefaultSamplesDir,
		launcher:          OSLauncher{},
		generationTimeout: DefaultGenerationTimeout,
		processTimeout:    DefaultProcessTimeout,
	}
	for _, o := range opts {
		o(&kwargs)
	}
	if kwargs.logger == nil {
		kwargs.logger = slog.New(slog.DiscardHandler)
	}
	return kwargs
}

type ExecOpt func(*execKwargs)

// In addition to the adapter's streamers, use the provided streamer for this call.
func WithCallEventStreamer(streamer EventStreamer) ExecOpt {
	return func(kw *execKwargs) { kw.streamers = append(kw.streamers, streamer) }
}

type execKwargs struct {
	streamers []EventStreamer
}

func getExecKwargs(opts []ExecOpt) execKwargs {
	kw := execKwargs{}
	for _, o := range opts {
		o(&kw)
	}
	return kw
}
