package runtime

import "fmt"

// ErrorKind is the subkind of a runtime error.
type ErrorKind string

const (
	TypeError      ErrorKind = "TypeError"
	NameError      ErrorKind = "NameError"
	IndexError     ErrorKind = "IndexError"
	KeyError       ErrorKind = "KeyError"
	DivisionByZero ErrorKind = "DivisionByZero"
	AssertionError ErrorKind = "AssertionError"
	Cancelled      ErrorKind = "Cancelled"
	ValueError     ErrorKind = "ValueError"
)

// Error is a runtime error raised by the VM or a native. It propagates
// through try/catch; unhandled it unwinds the whole call stack.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a runtime error with fmt.Sprintf semantics.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
