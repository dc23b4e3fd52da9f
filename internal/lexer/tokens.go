// Package lexer turns CSV bytes into typed, position-aware tokens in a
// single pass of a table-driven state machine.
package lexer

import "fmt"

// Kind classifies a token.
//
// Field kinds describe how a lexeme was recognized: quoted or unquoted
// text, the literals true/false, integers and floats (digits with at most
// one dot, never validated further) and empty fields. LineBreak is a
// zero-width sentinel closing every record, the last one included.
type Kind uint8

const (
	RegularString Kind = iota // unquoted text
	QuotedString              // "..." with the quotes excluded from the span
	Boolean                   // true or false
	Integer                   // [0-9]+
	Float                     // [0-9]*\.[0-9]*
	Empty                     // nothing between separators
	LineBreak                 // end of record
)

var kindNames = [...]string{
	RegularString: "RegularString",
	QuotedString:  "QuotedString",
	Boolean:       "Boolean",
	Integer:       "Integer",
	Float:         "Float",
	Empty:         "Empty",
	LineBreak:     "LineBreak",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a classified lexeme. Start and End delimit the half-open byte
// span [Start, End) of the input passed to Lex; nothing is copied. Line and
// Column are 1-based and point at the first byte of the lexeme (the opening
// quote for quoted strings, the terminator for line breaks).
type Token struct {
	Kind   Kind
	Start  int
	End    int
	Line   int
	Column int
}

// Text returns the token's span within input. The slice aliases input.
func (t Token) Text(input []byte) []byte {
	return input[t.Start:t.End]
}

// Len returns the span length in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// String renders the token for debugging, e.g. Integer[4:6]@2:1.
func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d]@%d:%d", t.Kind, t.Start, t.End, t.Line, t.Column)
}
