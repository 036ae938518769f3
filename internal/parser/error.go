package parser

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// ParseError is a single collected parse error with its source position.
type ParseError struct {
	Message string
	Pos     lexer.Position
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s at %s", e.Message, e.Pos)
}

// parseFailure is the sentinel panicked on a hard parse error. It unwinds
// to the enclosing statement boundary where the parser synchronises.
type parseFailure struct{}
