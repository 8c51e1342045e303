package cmdtool

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

type eventKind string

const (
	kindGenerated  eventKind = "generated"
	kindRejected   eventKind = "rejected"
	kindInvocation eventKind = "invocation"
	kindExit       eventKind = "exit"
)

// EncodeEvents into a json format on the writer.
func EncodeEvents(w io.Writer, events []Event) error {
	dtos := make([]eventDTO, len(events))
	for i, ev := range events {
		dtos[i] = eventToDTO(ev)
	}
	return json.NewEncoder(w).Encode(dtos)
}

// DecodeEvents from the json format (from EncodeEvents) on the reader.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var dtos []eventDTO
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		return nil, err
	}
	events := make([]Event, len(dtos))
	for i, d := range dtos {
		ev, err := dtoToEvent(d)
		if err != nil {
			return nil, err
		}
		events[i] = ev
	}
	return events, nil
}

// NewJSONLinesStreamer creates an [EventStreamer] that writes each event as one line of json.
// It is safe for concurrent use.
func NewJSONLinesStreamer(w io.Writer) EventStreamer {
	return &jsonLinesStreamer{enc: json.NewEncoder(w)}
}

type jsonLinesStreamer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (s *jsonLinesStreamer) TrySendEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(eventToDTO(ev))
}

type eventDTO struct {
	Kind eventKind `json:"kind"`

	Task string   `json:"task,omitempty"`
	Raw  string   `json:"raw,omitempty"`
	Argv []string `json:"argv,omitempty"`

	ExitCode int    `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

func eventToDTO(ev Event) eventDTO {
	switch v := ev.(type) {
	case GeneratedEvent:
		return eventDTO{
			Kind: kindGenerated,
			Task: v.Task,
			Raw:  v.Raw,
		}
	case RejectedEvent:
		return eventDTO{
			Kind: kindRejected,
			Raw:  v.Raw,
		}
	case InvocationEvent:
		return eventDTO{
			Kind: kindInvocation,
			Argv: v.Argv,
		}
	case ExitEvent:
		return eventDTO{
			Kind:     kindExit,
			ExitCode: v.ExitCode,
			Stdout:   v.Stdout,
			Stderr:   v.Stderr,
		}
	default:
		panic("unknown Event type")
	}
}

func dtoToEvent(d eventDTO) (Event, error) {
	switch d.Kind {
	case kindGenerated:
		return GeneratedEvent{Task: d.Task, Raw: d.Raw}, nil
	case kindRejected:
		return RejectedEvent{Raw: d.Raw}, nil
	case kindInvocation:
		return InvocationEvent{Argv: d.Argv}, nil
	case kindExit:
		return ExitEvent{ExitCode: d.ExitCode, Stdout: d.Stdout, Stderr: d.Stderr}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", d.Kind)
	}
}
