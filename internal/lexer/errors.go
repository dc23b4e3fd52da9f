package lexer

import (
	"errors"
	"fmt"
)

// maxMessageLength caps the rendered diagnostic.
const maxMessageLength = 255

var (
	// ErrQuotePlacement is returned for a quote that neither opens a field
	// nor sits inside a quoted field.
	ErrQuotePlacement = errors.New("invalid placement of double-quote")

	// ErrOutsideQuotes is returned when a closing quote is followed by
	// anything other than a separator or line end.
	ErrOutsideQuotes = errors.New("invalid character outside of quotes")

	// ErrSpaceAfterQuote is returned for blanks after a closing quote.
	ErrSpaceAfterQuote = errors.New("spaces after quoted strings not supported")

	// ErrUnterminatedQuote is returned when input ends inside a quoted field.
	ErrUnterminatedQuote = errors.New("unterminated quoted string")
)

// Error is a lexing failure at a 1-based line and column.
type Error struct {
	Line   int
	Column int
	Err    error
}

// Error returns the diagnostic, e.g. "invalid CSV (2:5): invalid placement
// of double-quote".
func (e *Error) Error() string {
	msg := fmt.Sprintf("invalid CSV (%d:%d): %v", e.Line, e.Column, e.Err)
	if len(msg) > maxMessageLength {
		msg = msg[:maxMessageLength]
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
