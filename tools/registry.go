// Package tools collects the tools an agent can call and checks their arguments before calling them.
package tools

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/JoshPattman/cmdtool"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownTool is returned when calling a tool that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Registry is a thread-safe set of tools, kept in registration order.
type Registry struct {
	mu      sync.RWMutex
	tools   []cmdtool.Tool
	schemas map[string]*gojsonschema.Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*gojsonschema.Schema)}
}

// Register adds tools. Tools implementing [cmdtool.SchemaTool] have their schema compiled here.
func (r *Registry) Register(tools ...cmdtool.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		if r.find(t.Name()) != nil {
			return fmt.Errorf("tool %q already registered", t.Name())
		}
		if st, ok := t.(cmdtool.SchemaTool); ok {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(st.InputSchema()))
			if err != nil {
				return fmt.Errorf("compiling input schema of %q: %w", t.Name(), err)
			}
			r.schemas[t.Name()] = schema
		}
		r.tools = append(r.tools, t)
	}
	return nil
}

// List returns all tools in registration order.
func (r *Registry) List() []cmdtool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]cmdtool.Tool(nil), r.tools...)
}

// Call validates args against the tool's schema, if it has one, and calls it.
func (r *Registry) Call(name string, args map[string]any) (string, error) {
	r.mu.RLock()
	tool := r.find(name)
	schema := r.schemas[name]
	r.mu.RUnlock()

	if tool == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if schema != nil {
		if err := validateArgs(schema, args); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
	}
	return tool.Call(args)
}

// Observe calls a tool and always returns text an agent can read, including on failure.
func (r *Registry) Observe(name string, args map[string]any) string {
	result, err := r.Call(name, args)
	if errors.Is(err, ErrUnknownTool) {
		return fmt.Sprintf("Could not find tool with name '%s'", name)
	}
	if errors.Is(err, cmdtool.ErrInvalidCommand) {
		return "Invalid command generated"
	}
	var cmdErr *cmdtool.Error
	if errors.As(err, &cmdErr) && cmdErr.Kind == cmdtool.ProcessError && cmdErr.Text != "" {
		return "[there was an error]\n" + cmdErr.Text
	}
	if err != nil {
		return fmt.Sprintf("There was an error calling the tool: %v", err)
	}
	return result
}

// Describe lists every tool and its description as markdown bullets.
func (r *Registry) Describe() string {
	tools := r.List()
	if len(tools) == 0 {
		return "There are no tools available."
	}
	lines := make([]string, len(tools))
	for i, t := range tools {
		s := fmt.Sprintf("- Tool `%s`", t.Name())
		for _, d := range t.Description() {
			s += fmt.Sprintf("\n  - %s", d)
		}
		lines[i] = s
	}
	return strings.Join(lines, "\n")
}

func (r *Registry) find(name string) cmdtool.Tool {
	for _, t := range r.tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func validateArgs(schema *gojsonschema.Schema, args map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validating arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(errs, "; "))
}
