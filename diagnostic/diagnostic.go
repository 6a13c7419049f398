// Package diagnostic defines the single error type produced by the lexer and
// the parser. A parse surfaces at most one of these: the first problem found
// aborts the whole pipeline.
package diagnostic

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Lexical covers unterminated strings and characters outside the language.
	Lexical Kind = iota
	// Syntax covers every grammar mismatch.
	Syntax
	// Context covers statements used outside the construct that admits them.
	Context
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Context:
		return "context"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "lexical":
		return Lexical, nil
	case "syntax":
		return Syntax, nil
	case "context":
		return Context, nil
	}
	return 0, fmt.Errorf("unknown error kind %q", s)
}

type Error struct {
	Kind   Kind
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at %d:%d: %s", e.Kind, e.Line, e.Column, e.Msg)
}

func New(kind Kind, line, col int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Column: col}
}

// KindOf reports the kind of err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
