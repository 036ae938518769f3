package vm

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RuntimeError is a runtime error annotated with the source position of the
// instruction that raised it, threaded from the AST through the IR.
type RuntimeError struct {
	Err *runtime.Error
	Pos lexer.Position
}

// Error formats the error as "<Kind>: <message> at <line>:<col>".
func (e *RuntimeError) Error() string {
	if e.Pos.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos)
}

// Unwrap exposes the underlying runtime error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Kind returns the error subkind.
func (e *RuntimeError) Kind() runtime.ErrorKind {
	return e.Err.Kind
}

func (vm *VM) errorAt(pos lexer.Position, kind runtime.ErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Err: runtime.NewError(kind, format, args...), Pos: pos}
}

// errorValue converts a raised error into the value bound to a catch
// variable.
func errorValue(err *RuntimeError) runtime.Value {
	return runtime.ErrorValue(err.Err.Error())
}

// lexerPos is a local shorthand for source positions threaded through the IR.
type lexerPos = lexer.Position

var lexerPosZero = lexer.Position{}
