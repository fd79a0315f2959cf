package emitting

import "fmt"

// InternalError reports a broken contract between the emitter and its
// collaborators: an unsupported type shape, unbalanced scopes or bindings,
// or a malformed method body. It aborts the compilation of the template.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Msg
}

// UnresolvedError reports a template variable that is not bound in any
// enclosing scope. It is raised by the expression emitter, not by scope
// lookup.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved variable %q", e.Name)
}

// assertf aborts processing with an InternalError.
func assertf(format string, args ...interface{}) {
	panic(&InternalError{fmt.Sprintf(format, args...)})
}
