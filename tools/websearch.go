package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultSearchResults = 2

// WebSearchTool searches the web with the Tavily API.
type WebSearchTool struct {
	apiKey     string
	maxResults int
	baseURL    string
	client     *http.Client
}

func NewWebSearchTool(apiKey string, maxResults int) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	return &WebSearchTool{
		apiKey:     apiKey,
		maxResults: maxResults,
		baseURL:    "https://api.tavily.com",
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (*WebSearchTool) Name() string { return "tavily_search_results_json" }

func (t *WebSearchTool) Description() []string {
	return []string{
		"A search engine optimized for comprehensive, accurate, and trusted results.",
		"Useful for when you need to answer questions about current events.",
		"Takes one argument, `query` (string): the search query.",
		fmt.Sprintf("Returns up to %d results as a json list of objects with `url` and `content`.", t.maxResults),
	}
}

func (*WebSearchTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string", "minLength": 1}
  },
  "required": ["query"]
}`)
}

type searchResult struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (t *WebSearchTool) Call(args map[string]any) (string, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "", fmt.Errorf("%s: argument 'query' must be a non-empty string", t.Name())
	}
	if t.apiKey == "" {
		return "", errors.New("tavily api key is not set")
	}
	return t.search(context.Background(), query)
}

func (t *WebSearchTool) search(ctx context.Context, query string) (string, error) {
	bodyBytes, err := json.Marshal(map[string]any{
		"query":       query,
		"max_results": t.maxResults,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling Tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating Tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Tavily API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading Tavily response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tavily API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var tResp struct {
		Results []searchResult `json:"results"`
	}
	if err := json.Unmarshal(respBody, &tResp); err != nil {
		return "", fmt.Errorf("parsing Tavily response: %w", err)
	}
	results := tResp.Results
	if results == nil {
		results = []searchResult{}
	}
	out, err := json.Marshal(results)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
