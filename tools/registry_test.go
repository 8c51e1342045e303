package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JoshPattman/cmdtool"
	"github.com/JoshPattman/jpf"
)

type staticModel string

func (m staticModel) Respond(context.Context, []jpf.Message) (jpf.ModelResponse, error) {
	return jpf.ModelResponse{PrimaryMessage: jpf.Message{Role: jpf.AssistantRole, Content: string(m)}}, nil
}

type staticLauncher struct {
	out   cmdtool.ProcessOutput
	calls int
}

func (l *staticLauncher) Launch(context.Context, cmdtool.Invocation) (cmdtool.ProcessOutput, error) {
	l.calls++
	return l.out, nil
}

func newCommandTool(generated string, l *staticLauncher) *cmdtool.CommandTool {
	return cmdtool.NewCommandTool(cmdtool.New(staticModel(generated), cmdtool.WithLauncher(l)))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewMusicInfoTool()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := r.Register(NewMusicInfoTool()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(r.List()))
	}
}

func TestCallValidatesArguments(t *testing.T) {
	l := &staticLauncher{}
	r := NewRegistry()
	if err := r.Register(newCommandTool("ffmpeg -i a.wav b.mp3", l)); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	for _, args := range []map[string]any{nil, {"task": ""}, {"task": 3}} {
		if _, err := r.Call("FfmpegTool", args); err == nil {
			t.Fatalf("expected validation error for %v", args)
		}
	}
	if l.calls != 0 {
		t.Fatalf("invalid arguments must not reach the process")
	}

	if _, err := r.Call("FfmpegTool", map[string]any{"task": "convert a.wav"}); err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if l.calls != 1 {
		t.Fatalf("expected 1 process, got %d", l.calls)
	}
}

func TestCallUnknownTool(t *testing.T) {
	_, err := NewRegistry().Call("nope", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestObserve(t *testing.T) {
	r := NewRegistry()
	failing := &staticLauncher{out: cmdtool.ProcessOutput{Stderr: []byte("a.wav: No such file or directory")}}
	err := r.Register(
		cmdtool.NewCommandTool(cmdtool.New(staticModel("ffmpeg -i a.wav b.mp3"), cmdtool.WithLauncher(failing))),
		cmdtool.NewCommandTool(cmdtool.New(staticModel("cat /etc/passwd"), cmdtool.WithLauncher(&staticLauncher{})), cmdtool.WithToolName("Rejecting")),
		NewMusicInfoTool(),
	)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"FfmpegTool", map[string]any{"task": "convert"}, "[there was an error]\na.wav: No such file or directory"},
		{"Rejecting", map[string]any{"task": "convert"}, "Invalid command generated"},
		{"MusicInformationRetrieval", map[string]any{"query": "tempo?"}, "this is a test"},
		{"missing", nil, "Could not find tool with name 'missing'"},
	}
	for _, c := range cases {
		if got := r.Observe(c.name, c.args); got != c.want {
			t.Fatalf("%s: Observe = %q, want %q", c.name, got, c.want)
		}
	}
	if got := r.Observe("MusicInformationRetrieval", nil); !strings.HasPrefix(got, "There was an error calling the tool") {
		t.Fatalf("unexpected observation %q", got)
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	if got := r.Describe(); got != "There are no tools available." {
		t.Fatalf("Describe = %q", got)
	}
	if err := r.Register(NewMusicInfoTool()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	want := "- Tool `MusicInformationRetrieval`\n  - Useful for when you need to analyze audio or music."
	if got := r.Describe(); !strings.HasPrefix(got, want) {
		t.Fatalf("Describe = %q", got)
	}
}
