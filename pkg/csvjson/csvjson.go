// Package csvjson converts CSV text into a JSON array of objects.
//
// The first record names the fields. Every following record becomes one
// JSON object whose keys are the header titles in header order:
//
//	name,age            [{"name":"Alice","age":30},{"name":"Bob","age":25}]
//	Alice,30      =>
//	Bob,25
//
// Values are typed by how they are written: quoted and unquoted text
// become JSON strings, the literals true and false become booleans, digits
// with at most one dot are copied through as numbers (without range or
// precision checks), and empty fields become null. Doubled quotes inside
// quoted fields collapse to one quote and embedded line breaks are escaped.
//
// A blank line, or any data record consisting of one empty field, is
// skipped. Every other record must have exactly as many fields as the
// header.
//
// # Results
//
// Convert returns a Result that is either JSON or a typed *Error:
//
//	res := csvjson.Convert(data)
//	if !res.OK() {
//	    var e *csvjson.Error = res.Failure()
//	    fmt.Println(e.Kind, e.Line, e.Column, e)
//	}
//	os.Stdout.Write(res.JSON())
//
// ConvertBytes and ConvertString offer the usual (value, error) form.
// ConvertText keeps the single-channel contract where the returned text is
// either JSON or a diagnostic, backed by a pooled buffer that is handed
// back with Output.Release.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. Each call
// works on its own tokens and output buffer; the input is only read.
package csvjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shapestone/shape-csvjson/internal/assembler"
	"github.com/shapestone/shape-csvjson/internal/buffer"
	"github.com/shapestone/shape-csvjson/internal/lexer"
)

// outputMargin is added to the input length for the initial output
// capacity; quoting and keys usually make JSON longer than its CSV.
const outputMargin = 256

// Convert converts CSV input to JSON with default options.
//
// Example:
//
//	res := csvjson.Convert([]byte("name,age\nAlice,30\n"))
//	// res.JSON() is [{"name":"Alice","age":30}]
func Convert(input []byte) Result {
	return ConvertWithOptions(input, DefaultOptions())
}

// ConvertWithOptions converts CSV input to JSON with custom options.
//
// Example:
//
//	opts := csvjson.DefaultOptions()
//	opts.Indent = "  "
//	res := csvjson.ConvertWithOptions(data, opts)
func ConvertWithOptions(input []byte, opts Options) Result {
	out := buffer.New[byte](len(input) + outputMargin)
	if err := convert(out, input, opts); err != nil {
		return Result{err: err}
	}
	return Result{json: out.Shrink()}
}

// ConvertBytes converts CSV input to JSON. The error, if any, is an *Error.
func ConvertBytes(input []byte) ([]byte, error) {
	res := Convert(input)
	return res.JSON(), res.Err()
}

// ConvertString converts a CSV string to a JSON string.
func ConvertString(input string) (string, error) {
	res := Convert([]byte(input))
	if !res.OK() {
		return "", res.Err()
	}
	return string(res.JSON()), nil
}

// ConvertReader reads all of reader and converts it. The input is
// buffered completely before lexing starts.
func ConvertReader(reader io.Reader) ([]byte, error) {
	return ConvertReaderWithOptions(reader, DefaultOptions())
}

// ConvertReaderWithOptions reads all of reader and converts it with custom
// options. With MaxInputSize set, reading stops one byte past the limit.
func ConvertReaderWithOptions(reader io.Reader, opts Options) ([]byte, error) {
	if opts.MaxInputSize > 0 {
		reader = io.LimitReader(reader, int64(opts.MaxInputSize)+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	res := ConvertWithOptions(data, opts)
	return res.JSON(), res.Err()
}

// Validate checks that input would convert, without producing JSON.
// The error, if any, is an *Error.
func Validate(input []byte) error {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return wrapLexError(err)
	}
	if _, err := assembler.Resolve(input, tokens); err != nil {
		return &Error{Kind: KindStructural, Err: err}
	}
	return nil
}

// DumpTokens writes one line per token of input to w, for debugging
// classification:
//
//	1:1	RegularString	"name"
//	1:5	LineBreak
func DumpTokens(w io.Writer, input []byte) error {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return wrapLexError(err)
	}
	for _, tok := range tokens {
		var err error
		if tok.Kind == lexer.LineBreak {
			_, err = fmt.Fprintf(w, "%d:%d\t%s\n", tok.Line, tok.Column, tok.Kind)
		} else {
			_, err = fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Kind, tok.Text(input))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// convert runs the pipeline into out. On failure out holds no JSON.
func convert(out *buffer.Buffer[byte], input []byte, opts Options) *Error {
	if err := opts.Validate(); err != nil {
		return &Error{Kind: KindOptions, Err: err}
	}
	if opts.MaxInputSize > 0 && len(input) > opts.MaxInputSize {
		return &Error{Kind: KindLimit, Err: fmt.Errorf("%w (limit %d bytes)", ErrInputTooLarge, opts.MaxInputSize)}
	}

	tokens, err := lexer.Lex(input)
	if err != nil {
		return wrapLexError(err)
	}
	if err := assembler.Assemble(out, input, tokens); err != nil {
		return &Error{Kind: KindStructural, Err: err}
	}

	if opts.Indent != "" {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out.Items(), "", opts.Indent); err != nil {
			out.Reset()
			return &Error{Kind: KindRender, Err: fmt.Errorf("indent output: %w", err)}
		}
		out.Reset()
		out.PushMany(indented.Bytes()...)
	}
	return nil
}
