package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JoshPattman/cmdtool"
	"github.com/JoshPattman/cmdtool/config"
	"github.com/JoshPattman/cmdtool/llm"
	"github.com/JoshPattman/cmdtool/tools"
	"github.com/JoshPattman/jpf"
	"github.com/spf13/cobra"
)

// app is everything a command needs, built from flags, config and environment.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	adapter  *cmdtool.Adapter
	registry *tools.Registry
}

// newModel creates the language model. Tests replace it.
var newModel = func(m config.ModelConfig) (jpf.Model, error) {
	return llm.NewModel(m.Provider, llm.Config{
		APIKey:            os.Getenv(m.APIKeyEnv),
		BaseURL:           m.BaseURL,
		Model:             m.Name,
		MaxTokens:         m.MaxTokens,
		RequestsPerMinute: m.RequestsPerMinute,
		Retries:           m.Retries,
		RetryDelay:        time.Second,
	})
}

func (o *rootOpts) load(cmd *cobra.Command) (*app, error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	env, err := config.LoadEnvFile(o.envPath)
	if err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	if err := config.ApplyEnv(env); err != nil {
		return nil, fmt.Errorf("applying env file: %w", err)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if os.Getenv(cfg.Model.APIKeyEnv) == "" {
		logger.Warn("api key is not set", "env", cfg.Model.APIKeyEnv)
	}

	model, err := newModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}
	adapter := cmdtool.New(model, append(cfg.AdapterOpts(), cmdtool.WithLogger(logger))...)

	var toolOpts []cmdtool.CommandToolOpt
	if cfg.Command.Async {
		toolOpts = append(toolOpts, cmdtool.WithAsyncCalls())
	}
	registry := tools.NewRegistry()
	if err := registry.Register(cmdtool.NewCommandTool(adapter, toolOpts...)); err != nil {
		return nil, err
	}
	if cfg.Search.Enabled {
		if err := registry.Register(tools.NewWebSearchTool(os.Getenv(cfg.Search.APIKeyEnv), cfg.Search.MaxResults)); err != nil {
			return nil, err
		}
	}
	if cfg.MusicInfo.Enabled {
		if err := registry.Register(tools.NewMusicInfoTool()); err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		adapter:  adapter,
		registry: registry,
	}, nil
}
