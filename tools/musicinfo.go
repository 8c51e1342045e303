package tools

import (
	"encoding/json"
	"fmt"
)

// MusicInfoTool is a placeholder for music information retrieval. It answers every query the same way.
type MusicInfoTool struct{}

func NewMusicInfoTool() *MusicInfoTool { return &MusicInfoTool{} }

func (*MusicInfoTool) Name() string { return "MusicInformationRetrieval" }

func (*MusicInfoTool) Description() []string {
	return []string{
		"Useful for when you need to analyze audio or music.",
		"Takes one argument, `query` (string): what to find out about the audio.",
	}
}

func (*MusicInfoTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string"}
  },
  "required": ["query"]
}`)
}

func (t *MusicInfoTool) Call(args map[string]any) (string, error) {
	if _, ok := args["query"].(string); !ok {
		return "", fmt.Errorf("%s: argument 'query' must be a string", t.Name())
	}
	return "this is a test", nil
}
