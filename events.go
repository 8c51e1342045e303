package cmdtool

// Event is a sum type describing the progress of a single execution.
type Event interface {
	event()
}

func (GeneratedEvent) event()  {}
func (RejectedEvent) event()   {}
func (InvocationEvent) event() {}
func (ExitEvent) event()       {}

// GeneratedEvent carries the raw text returned by the text generator.
type GeneratedEvent struct {
	Task string
	Raw  string
}

// RejectedEvent is sent when generated text fails validation. No process is spawned after it.
type RejectedEvent struct {
	Raw string
}

// InvocationEvent is sent just before a process is spawned.
type InvocationEvent struct {
	Argv []string
}

// ExitEvent is sent once a spawned process has finished.
type ExitEvent struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// EventStreamer defines a callback interface that can be used to listen to execution progress.
type EventStreamer interface {
	// Try to send an event, ignoring errors.
	TrySendEvent(ev Event)
}

// EventRecorder is an [EventStreamer] that keeps every event it is sent.
// It is not safe for concurrent use.
type EventRecorder struct {
	Events []Event
}

func (r *EventRecorder) TrySendEvent(ev Event) {
	r.Events = append(r.Events, ev)
}

type multiStreamers []EventStreamer

func (s multiStreamers) TrySendEvent(ev Event) {
	for _, streamer := range s {
		streamer.TrySendEvent(ev)
	}
}
