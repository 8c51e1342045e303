package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JoshPattman/jpf"
)

const DefaultAnthropicModel = "claude-3-sonnet-20240229"

var _ jpf.Model = &AnthropicModel{}

// AnthropicModel is a jpf model backed by the Anthropic Messages API.
type AnthropicModel struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
}

func NewAnthropicModel(cfg Config) *AnthropicModel {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &AnthropicModel{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
		client:    http.DefaultClient,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicModel) Respond(ctx context.Context, msgs []jpf.Message) (jpf.ModelResponse, error) {
	failed := jpf.ModelResponse{Usage: jpf.Usage{FailedCalls: 1}}
	body := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
	}
	var system []string
	for _, m := range msgs {
		switch m.Role {
		case jpf.SystemRole:
			system = append(system, m.Content)
		case jpf.AssistantRole:
			body.Messages = append(body.Messages, anthropicMessage{"assistant", m.Content})
		default:
			body.Messages = append(body.Messages, anthropicMessage{"user", m.Content})
		}
	}
	body.System = strings.Join(system, "\n\n")

	data, err := json.Marshal(body)
	if err != nil {
		return failed, fmt.Errorf("marshalling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return failed, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return failed, fmt.Errorf("anthropic request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return failed, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failed, fmt.Errorf("decoding anthropic response: %w", err)
	}
	usage := jpf.Usage{
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return jpf.ModelResponse{Usage: usage.Add(failed.Usage)}, errors.New("anthropic response contained no text")
	}
	return jpf.ModelResponse{
		PrimaryMessage: jpf.Message{Role: jpf.AssistantRole, Content: text.String()},
		Usage:          usage.Add(jpf.Usage{SuccessfulCalls: 1}),
	}, nil
}
