package csvjson

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvjson/internal/assembler"
	"github.com/shapestone/shape-csvjson/internal/lexer"
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindLex is malformed quoting or a character where only a quote or
	// separator is valid. Lex errors carry a line and column.
	KindLex Kind = iota + 1
	// KindStructural is a record whose field count differs from the header.
	KindStructural
	// KindLimit is input rejected by Options.MaxInputSize.
	KindLimit
	// KindRender is a failure to indent the produced JSON.
	KindRender
	// KindOptions is an invalid Options value.
	KindOptions
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindStructural:
		return "structural"
	case KindLimit:
		return "limit"
	case KindRender:
		return "render"
	case KindOptions:
		return "options"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Common conversion errors, usable with errors.Is.
var (
	ErrQuotePlacement    = lexer.ErrQuotePlacement
	ErrOutsideQuotes     = lexer.ErrOutsideQuotes
	ErrSpaceAfterQuote   = lexer.ErrSpaceAfterQuote
	ErrUnterminatedQuote = lexer.ErrUnterminatedQuote
	ErrMissingField      = assembler.ErrMissingField

	// ErrInputTooLarge indicates input longer than Options.MaxInputSize.
	ErrInputTooLarge = errors.New("input exceeds maximum size")
)

// Error describes why a conversion failed.
type Error struct {
	Kind Kind
	// Line and Column are 1-based; both are 0 when the failure has no
	// location.
	Line   int
	Column int
	// Err is the underlying error.
	Err error
}

// Error returns the diagnostic text, e.g.
// "invalid CSV (2:1): unterminated quoted string".
func (e *Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("invalid CSV (%d:%d): %v", e.Line, e.Column, e.Err)
	case e.Kind == KindLex || e.Kind == KindStructural:
		return fmt.Sprintf("invalid CSV: %v", e.Err)
	case e.Kind == KindOptions:
		return e.Err.Error()
	default:
		return fmt.Sprintf("csvjson: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// HasPosition reports whether the error carries a line and column.
func (e *Error) HasPosition() bool {
	return e.Line > 0
}

// wrapLexError converts a lexer failure.
func wrapLexError(err error) *Error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return &Error{Kind: KindLex, Line: lexErr.Line, Column: lexErr.Column, Err: lexErr.Err}
	}
	return &Error{Kind: KindLex, Err: err}
}
