package engine

import "fmt"

// RuntimeError is the engine's sole failure type (spec §7: every runtime
// failure is fatal). cmd/rx prints it as "Runtime error: <message>"
// followed by the stack trace and exits 1; tests can inspect it directly
// instead of parsing stdout.
type RuntimeError struct {
	Message string
	Trace   []string // function names, most recent call last
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// fatal builds a RuntimeError stamped with the current call stack.
func (vm *VM) fatal(format string, args ...any) *RuntimeError {
	msg := fmt.Sprintf(format, args...)
	trace := make([]string, len(vm.callStack))
	for i, fr := range vm.callStack {
		trace[i] = fr.functionName
	}
	return &RuntimeError{Message: msg, Trace: trace}
}
