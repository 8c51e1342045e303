package cmdtool

import (
	"slices"
	"strings"
)

// Invocation is a validated command, ready to hand to a [Launcher].
type Invocation struct {
	// The program to run, as it must appear first in generated commands.
	Program string
	// Flags added by the adapter, never by the model.
	Flags []string
	// Arguments taken from the generated command, without the program name.
	Args []string
	// Working directory for the process. Empty means the current directory.
	Dir string
}

// Argv returns the full token sequence: program, adapter flags, then generated arguments.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, 1+len(inv.Flags)+len(inv.Args))
	argv = append(argv, inv.Program)
	argv = append(argv, inv.Flags...)
	return append(argv, inv.Args...)
}

func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}

// tokenize splits generated text into a candidate command.
func tokenize(raw string) []string {
	return strings.Fields(raw)
}

// buildInvocation gates a candidate command on its program name and normalises it.
// It returns false if the candidate must not be executed.
func buildInvocation(candidate []string, program string, flags []string, dir string) (Invocation, bool) {
	if len(candidate) == 0 || candidate[0] != program {
		return Invocation{}, false
	}
	return Invocation{
		Program: program,
		Flags:   slices.Clone(flags),
		Args:    slices.Clone(candidate[1:]),
		Dir:     dir,
	}, true
}
