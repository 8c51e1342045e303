// Package llm builds the jpf models that turn prompts into command lines.
package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/JoshPattman/jpf"
	"golang.org/x/time/rate"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Config holds the provider-independent model settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	// Zero means no limit.
	RequestsPerMinute float64
	// Failed calls are retried this many times, RetryDelay apart.
	Retries    int
	RetryDelay time.Duration
}

// NewModel creates a model for the named provider: "anthropic", "openai" or "gemini".
// Rate limiting and retries from cfg are applied around the provider model.
func NewModel(provider string, cfg Config) (jpf.Model, error) {
	var model jpf.Model
	switch provider {
	case "anthropic":
		model = NewAnthropicModel(cfg)
	case "openai":
		model = newOpenAIModel(cfg)
	case "gemini":
		model = newGeminiModel(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", provider)
	}
	if cfg.RequestsPerMinute > 0 {
		model = jpf.NewRateLimitedModel(model, newLimiter(cfg.RequestsPerMinute))
	}
	if cfg.Retries > 0 {
		model = jpf.NewRetryModel(model, cfg.Retries, jpf.WithDelay{X: cfg.RetryDelay})
	}
	return model, nil
}

func newLimiter(perMinute float64) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Duration(float64(time.Minute)/perMinute)), 1)
}

func newOpenAIModel(cfg Config) jpf.Model {
	name := cfg.Model
	if name == "" {
		name = DefaultOpenAIModel
	}
	var opts []jpf.OpenAIModelOpt
	if cfg.BaseURL != "" {
		opts = append(opts, jpf.WithURL{X: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"})
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, jpf.WithMaxOutputTokens{X: cfg.MaxTokens})
	}
	return jpf.NewOpenAIModel(cfg.APIKey, name, opts...)
}

func newGeminiModel(cfg Config) jpf.Model {
	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}
	var opts []jpf.GeminiModelOpt
	if cfg.BaseURL != "" {
		opts = append(opts, jpf.WithURL{X: strings.TrimRight(cfg.BaseURL, "/")})
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, jpf.WithMaxOutputTokens{X: cfg.MaxTokens})
	}
	return jpf.NewGeminiModel(cfg.APIKey, name, opts...)
}
