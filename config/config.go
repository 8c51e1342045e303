// Package config loads cmdtool.yaml and .env files.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JoshPattman/cmdtool"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Config is the top-level cmdtool.yaml configuration.
type Config struct {
	Command   CommandConfig   `yaml:"command"`
	Model     ModelConfig     `yaml:"model"`
	Search    SearchConfig    `yaml:"search"`
	MusicInfo MusicInfoConfig `yaml:"music_info"`
}

// CommandConfig configures the command adapter.
type CommandConfig struct {
	Program           string        `yaml:"program"`
	// Appended after cmdtool.DefaultFlags, which are always present.
	ExtraFlags        []string      `yaml:"extra_flags,omitempty"`
	SamplesDir        string        `yaml:"samples_dir"`
	WorkDir           string        `yaml:"work_dir,omitempty"`
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
	ProcessTimeout    time.Duration `yaml:"process_timeout"`
	Async             bool          `yaml:"async,omitempty"`
}

// ModelConfig selects the text generator.
type ModelConfig struct {
	Provider          string  `yaml:"provider"`
	Name              string  `yaml:"name,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	MaxTokens         int     `yaml:"max_tokens,omitempty"`
	RequestsPerMinute float64 `yaml:"requests_per_minute,omitempty"`
	Retries           int     `yaml:"retries,omitempty"`
}

// SearchConfig configures the web search tool.
type SearchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	MaxResults int    `yaml:"max_results"`
	APIKeyEnv  string `yaml:"api_key_env"`
}

// MusicInfoConfig configures the music information retrieval tool.
type MusicInfoConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Command: CommandConfig{
			Program:           cmdtool.DefaultProgram,
			SamplesDir:        cmdtool.DefaultSamplesDir,
			GenerationTimeout: cmdtool.DefaultGenerationTimeout,
			ProcessTimeout:    cmdtool.DefaultProcessTimeout,
		},
		Model: ModelConfig{
			Provider:  "anthropic",
			APIKeyEnv: "ANTHROPIC_API_KEY",
		},
		Search: SearchConfig{
			Enabled:    true,
			MaxResults: 2,
			APIKeyEnv:  "TAVILY_API_KEY",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw YAML against the config schema and decodes it over the defaults.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if raw != nil {
		if err := validate(raw); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if key, ok := providerKeyEnv[cfg.Model.Provider]; ok && !providerKeySet(data) {
		cfg.Model.APIKeyEnv = key
	}
	return cfg, nil
}

// AdapterOpts converts the command section into adapter options.
func (c *Config) AdapterOpts() []cmdtool.NewOpt {
	return []cmdtool.NewOpt{
		cmdtool.WithProgram(c.Command.Program),
		cmdtool.WithFlags(c.Flags()...),
		cmdtool.WithSamplesDir(c.Command.SamplesDir),
		cmdtool.WithWorkDir(c.Command.WorkDir),
		cmdtool.WithGenerationTimeout(c.Command.GenerationTimeout),
		cmdtool.WithProcessTimeout(c.Command.ProcessTimeout),
	}
}

// Flags returns the flags inserted after the program name.
func (c *Config) Flags() []string {
	return slices.Concat(cmdtool.DefaultFlags, c.Command.ExtraFlags)
}

var providerKeyEnv = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// providerKeySet reports whether the document names the api key variable itself.
func providerKeySet(data []byte) bool {
	var doc struct {
		Model map[string]any `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	_, ok := doc.Model["api_key_env"]
	return ok
}

//go:embed schema.json
var schemaJSON []byte

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return compiledSchema, compileErr
}

func validate(raw any) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
}
