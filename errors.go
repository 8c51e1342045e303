package cmdtool

import (
	"errors"
	"fmt"
)

// ErrorKind categorises why an execution did not produce a successful result.
type ErrorKind uint8

const (
	// The generated text did not start with the required program. Nothing was spawned.
	InvalidCommand ErrorKind = iota + 1
	// The process ran but wrote to its error stream, or was stopped by its context.
	ProcessError
	// The text-generation collaborator failed or timed out.
	GenerationError
	// The program could not be located or started.
	EnvironmentError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCommand:
		return "invalid command"
	case ProcessError:
		return "process error"
	case GenerationError:
		return "generation error"
	case EnvironmentError:
		return "environment error"
	default:
		return "unknown error"
	}
}

// Sentinels for use with errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidCommand = &Error{Kind: InvalidCommand}
	ErrProcess        = &Error{Kind: ProcessError}
	ErrGeneration     = &Error{Kind: GenerationError}
	ErrEnvironment    = &Error{Kind: EnvironmentError}
)

// Error is the failure half of an execution result.
type Error struct {
	Kind ErrorKind
	// Diagnostic text. For process errors this is the captured error stream, verbatim.
	Text string
	// Underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Text != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Text)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Text == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, text string, cause error) *Error {
	return &Error{Kind: kind, Text: text, Err: cause}
}
