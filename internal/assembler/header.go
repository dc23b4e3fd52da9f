// Package assembler validates the shape of a token stream and renders it
// as a JSON array of objects keyed by the header record.
package assembler

import (
	"bytes"
	"errors"

	"github.com/shapestone/shape-csvjson/internal/lexer"
)

// ErrMissingField is returned when a data record has more or fewer fields
// than the header.
var ErrMissingField = errors.New("one or more records is missing a field")

// Header holds the column titles taken from the first record.
type Header struct {
	// Titles are the column names with a trailing carriage return removed
	// and doubled quotes of quoted titles collapsed.
	Titles []string
	// Longest is the length in bytes of the longest raw title span.
	Longest int

	// keys are the pre-rendered `"title":` prefixes, one per column.
	keys [][]byte
}

// Columns returns the number of columns.
func (h *Header) Columns() int {
	return len(h.Titles)
}

// Table is a header plus the data records of a token stream. Records are
// sub-slices of the token slice without their LineBreak.
type Table struct {
	Header  *Header
	Records [][]lexer.Token

	input   []byte
	scratch []byte
}

// Resolve reads the header from the first record and checks that every
// data record has exactly as many fields as the header.
//
// A data record made of a single Empty field (a blank line, or the
// leftover of a trailing separator) is not counted as a record and is
// dropped. Zero data records is valid.
func Resolve(input []byte, tokens []lexer.Token) (*Table, error) {
	columns := 0
	for columns < len(tokens) && tokens[columns].Kind != lexer.LineBreak {
		columns++
	}

	header := &Header{
		Titles: make([]string, columns),
		keys:   make([][]byte, columns),
	}
	for i, tok := range tokens[:columns] {
		if tok.Len() > header.Longest {
			header.Longest = tok.Len()
		}
		title := bytes.TrimSuffix(tok.Text(input), []byte{'\r'})
		if tok.Kind == lexer.QuotedString {
			header.Titles[i] = Unquote(title)
		} else {
			header.Titles[i] = string(title)
		}
		header.keys[i] = renderKey(tok, title)
	}

	table := &Table{Header: header, input: input}
	for pos := columns + 1; pos < len(tokens); {
		end := pos
		for end < len(tokens) && tokens[end].Kind != lexer.LineBreak {
			end++
		}
		record := tokens[pos:end]
		pos = end + 1

		if isArtifact(record) {
			continue
		}
		if len(record) != columns {
			return nil, ErrMissingField
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// isArtifact reports whether record is a lone Empty field.
func isArtifact(record []lexer.Token) bool {
	return len(record) == 1 && record[0].Kind == lexer.Empty
}

// renderKey renders `"title":` for a header token.
func renderKey(tok lexer.Token, title []byte) []byte {
	key := make([]byte, 0, len(title)+3)
	if tok.Kind == lexer.QuotedString {
		key = appendQuoted(key, title)
	} else {
		key = append(key, '"')
		key = append(key, title...)
		key = append(key, '"')
	}
	return append(key, ':')
}
