package assembler

import (
	"bytes"

	"github.com/shapestone/shape-csvjson/internal/buffer"
	"github.com/shapestone/shape-csvjson/internal/lexer"
)

var null = []byte("null")

// Assemble resolves the header of tokens and writes the JSON document to
// out. Nothing is written when the record structure is invalid.
func Assemble(out *buffer.Buffer[byte], input []byte, tokens []lexer.Token) error {
	table, err := Resolve(input, tokens)
	if err != nil {
		return err
	}
	table.WriteJSON(out)
	return nil
}

// WriteJSON appends the table as a JSON array of objects, one object per
// record with keys in header order:
//
//	[{"name":"Alice","age":30},{"name":"Bob","age":25}]
//
// Values are rendered by token kind: strings quoted, booleans and numbers
// as their literal text, empty fields as null.
func (t *Table) WriteJSON(out *buffer.Buffer[byte]) {
	out.Push('[')
	for i, record := range t.Records {
		if i > 0 {
			out.Push(',')
		}
		out.Push('{')
		for col, tok := range record {
			if col > 0 {
				out.Push(',')
			}
			out.PushMany(t.Header.keys[col]...)
			t.writeValue(out, tok)
		}
		out.Push('}')
	}
	out.Push(']')
}

func (t *Table) writeValue(out *buffer.Buffer[byte], tok lexer.Token) {
	text := tok.Text(t.input)

	switch tok.Kind {
	case lexer.RegularString:
		out.Push('"')
		out.PushMany(bytes.TrimSuffix(text, []byte{'\r'})...)
		out.Push('"')
	case lexer.QuotedString:
		t.scratch = appendQuoted(t.scratch[:0], text)
		out.PushMany(t.scratch...)
	case lexer.Boolean, lexer.Integer, lexer.Float:
		out.PushMany(text...)
	case lexer.Empty:
		out.PushMany(null...)
	}
}

// appendQuoted appends the content of a quoted CSV field as a JSON string.
// Each pair of adjacent quotes collapses into one escaped quote, and line
// breaks become \n and \r escapes. Everything else is copied as is.
func appendQuoted(dst, content []byte) []byte {
	dst = append(dst, '"')
	prevWasQuote := false
	for _, c := range content {
		switch {
		case c == '\n':
			dst = append(dst, '\\', 'n')
			prevWasQuote = false
		case c == '\r':
			dst = append(dst, '\\', 'r')
			prevWasQuote = false
		case c != '"':
			dst = append(dst, c)
			prevWasQuote = false
		case !prevWasQuote:
			dst = append(dst, '\\', '"')
			prevWasQuote = true
		default:
			// second quote of an escaped pair
			prevWasQuote = false
		}
	}
	return append(dst, '"')
}

// Unquote returns the logical value of a quoted field's content with
// doubled quotes collapsed.
func Unquote(content []byte) string {
	if bytes.IndexByte(content, '"') < 0 {
		return string(content)
	}
	out := make([]byte, 0, len(content))
	prevWasQuote := false
	for _, c := range content {
		if c == '"' {
			if prevWasQuote {
				prevWasQuote = false
				continue
			}
			prevWasQuote = true
		} else {
			prevWasQuote = false
		}
		out = append(out, c)
	}
	return string(out)
}
