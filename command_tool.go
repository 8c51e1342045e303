package cmdtool

import (
	"context"
	"encoding/json"
	"fmt"
)

// NewCommandTool exposes an adapter to an agent as a [Tool] taking a single "task" argument.
func NewCommandTool(a *Adapter, opts ...CommandToolOpt) *CommandTool {
	t := &CommandTool{
		adapter: a,
		name:    "FfmpegTool",
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

type CommandToolOpt func(*CommandTool)

// Name the tool something other than FfmpegTool.
func WithToolName(name string) CommandToolOpt {
	return func(t *CommandTool) { t.name = name }
}

// Run calls through [Adapter.ExecuteAsync] rather than [Adapter.Execute].
func WithAsyncCalls() CommandToolOpt {
	return func(t *CommandTool) { t.async = true }
}

type CommandTool struct {
	adapter *Adapter
	name    string
	async   bool
}

var _ SchemaTool = &CommandTool{}

func (t *CommandTool) Name() string { return t.name }

func (t *CommandTool) Description() []string {
	program := t.adapter.Program()
	return []string{
		fmt.Sprintf("Manipulates audio files by running %s.", program),
		"Can clip audio to a duration, convert between formats, change quality and bitrate, and extract audio from video.",
		"Takes one argument, `task` (string): a clear natural language description of the operation, including input and output file paths.",
		fmt.Sprintf("Returns what %s printed, or the error it reported.", program),
	}
}

func (t *CommandTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "task": {
      "type": "string",
      "minLength": 1,
      "description": "Natural language description of the operation to perform"
    }
  },
  "required": ["task"]
}`)
}

func (t *CommandTool) Call(args map[string]any) (string, error) {
	task, ok := args["task"].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument 'task' must be a string", t.name)
	}
	ctx := context.Background()
	if !t.async {
		return t.adapter.Execute(ctx, task)
	}
	result := <-t.adapter.ExecuteAsync(ctx, task)
	return result.Output, result.Err
}
