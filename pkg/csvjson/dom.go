package csvjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-csvjson/internal/assembler"
	"github.com/shapestone/shape-csvjson/internal/lexer"
)

// Document is a typed, in-memory view of converted CSV: the header titles
// plus one Record per data record, with the same typing rules as the JSON
// output.
//
//	doc, _ := csvjson.ParseDocument(data)
//	rec, _ := doc.GetRecord(0)
//	age, _ := rec.GetByName("age") // json.Number("30")
type Document struct {
	headers []string
	records []Record
}

// Record is one data record of a Document.
type Record struct {
	fields  []Field
	headers []string
}

// Field is a typed value and where it came from.
//
// Value is a string for quoted and unquoted text, a bool for true/false,
// a json.Number for integers and floats (literal text, never validated),
// and nil for empty fields.
type Field struct {
	Value  interface{}
	Offset int // byte offset in the input
	Line   int // 1-based
	Column int // 1-based
}

// ParseDocument converts input into a Document. The error, if any, is an
// *Error, the same one Convert would report.
func ParseDocument(input []byte) (*Document, error) {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return nil, wrapLexError(err)
	}
	table, err := assembler.Resolve(input, tokens)
	if err != nil {
		return nil, &Error{Kind: KindStructural, Err: err}
	}

	doc := &Document{
		headers: table.Header.Titles,
		records: make([]Record, 0, len(table.Records)),
	}
	for _, rec := range table.Records {
		fields := make([]Field, len(rec))
		for i, tok := range rec {
			fields[i] = Field{
				Value:  tokenValue(input, tok),
				Offset: tok.Start,
				Line:   tok.Line,
				Column: tok.Column,
			}
		}
		doc.records = append(doc.records, Record{fields: fields, headers: doc.headers})
	}
	return doc, nil
}

// tokenValue returns the Go value of a field token.
func tokenValue(input []byte, tok lexer.Token) interface{} {
	text := tok.Text(input)
	switch tok.Kind {
	case lexer.QuotedString:
		return assembler.Unquote(text)
	case lexer.Boolean:
		return string(text) == "true"
	case lexer.Integer, lexer.Float:
		return json.Number(text)
	case lexer.Empty:
		return nil
	default:
		return string(bytes.TrimSuffix(text, []byte{'\r'}))
	}
}

// Headers returns the column titles.
func (d *Document) Headers() []string {
	return d.headers
}

// RecordCount returns the number of data records, not counting the header.
func (d *Document) RecordCount() int {
	return len(d.records)
}

// Records returns all data records.
func (d *Document) Records() []Record {
	return d.records
}

// GetRecord returns the record at the specified index.
// Returns (Record, false) if the index is out of bounds.
func (d *Document) GetRecord(index int) (Record, bool) {
	if index < 0 || index >= len(d.records) {
		return Record{}, false
	}
	return d.records[index], true
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

// Field returns the field at index.
func (r Record) Field(index int) (Field, bool) {
	if index < 0 || index >= len(r.fields) {
		return Field{}, false
	}
	return r.fields[index], true
}

// Get returns the value at index.
func (r Record) Get(index int) (interface{}, bool) {
	f, ok := r.Field(index)
	return f.Value, ok
}

// GetByName returns the value of the first column titled name.
func (r Record) GetByName(name string) (interface{}, bool) {
	for i, header := range r.headers {
		if header == name {
			return r.Get(i)
		}
	}
	return nil, false
}

// Map returns the record as a map keyed by header title. With duplicate
// titles the last column wins, as it would when decoding the JSON output.
func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.fields))
	for i, f := range r.fields {
		m[r.headers[i]] = f.Value
	}
	return m
}

// ToAST converts the Document to an AST ArrayDataNode for use with other
// Shape tooling. The first element is the header record; each following
// element is a data record whose LiteralNodes carry the typed values and
// their source positions.
func (d *Document) ToAST() *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, 0, len(d.records)+1)

	headerNodes := make([]ast.SchemaNode, len(d.headers))
	for i, h := range d.headers {
		headerNodes[i] = ast.NewLiteralNode(h, ast.ZeroPosition())
	}
	nodes = append(nodes, ast.NewArrayDataNode(headerNodes, ast.ZeroPosition()))

	for _, rec := range d.records {
		fieldNodes := make([]ast.SchemaNode, len(rec.fields))
		for i, f := range rec.fields {
			fieldNodes[i] = ast.NewLiteralNode(f.Value, ast.NewPosition(f.Offset, f.Line, f.Column))
		}
		pos := ast.ZeroPosition()
		if len(rec.fields) > 0 {
			first := rec.fields[0]
			pos = ast.NewPosition(first.Offset, first.Line, first.Column)
		}
		nodes = append(nodes, ast.NewArrayDataNode(fieldNodes, pos))
	}

	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

// FromAST rebuilds a Document from a node produced by ToAST.
func FromAST(node ast.SchemaNode) (*Document, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}
	elements := arrayNode.Elements()
	if len(elements) == 0 {
		return nil, fmt.Errorf("missing header record")
	}

	headerValues, err := literalValues(elements[0])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	headers := make([]string, len(headerValues))
	for i, v := range headerValues {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("header %d: expected string, got %T", i, v)
		}
		headers[i] = s
	}

	doc := &Document{headers: headers, records: make([]Record, 0, len(elements)-1)}
	for i, elem := range elements[1:] {
		values, err := literalValues(elem)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if len(values) != len(headers) {
			return nil, fmt.Errorf("record %d: %w", i, ErrMissingField)
		}
		fields := make([]Field, len(values))
		for j, v := range values {
			fields[j] = Field{Value: v}
		}
		doc.records = append(doc.records, Record{fields: fields, headers: headers})
	}
	return doc, nil
}

func literalValues(node ast.SchemaNode) ([]interface{}, error) {
	recordNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}
	values := make([]interface{}, 0, recordNode.Len())
	for _, fieldNode := range recordNode.Elements() {
		literalNode, ok := fieldNode.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
		}
		values = append(values, literalNode.Value())
	}
	return values, nil
}
