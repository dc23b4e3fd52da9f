package csvjson_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvjson/pkg/csvjson"
)

func TestConvert_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"header and two records", "name,age\nAlice,30\nBob,25\n", `[{"name":"Alice","age":30},{"name":"Bob","age":25}]`},
		{"empty field", "a,b\n1,\n", `[{"a":1,"b":null}]`},
		{"doubled quote", "col\n\"x\"\"y\"\n", `[{"col":"x\"y"}]`},
		{"embedded newline", "col\n\"a\nb\"\n", `[{"col":"a\nb"}]`},
		{"blank line record dropped", "a,b\n1,2\n\n3,4\n", `[{"a":1,"b":2},{"a":3,"b":4}]`},
		{"zero records", "a,b\n", `[]`},
		{"booleans and floats", "ok,v\ntrue,1.5\nfalse,.5\n", `[{"ok":true,"v":1.5},{"ok":false,"v":.5}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := csvjson.Convert([]byte(tt.input))
			require.True(t, res.OK(), "unexpected failure: %v", res.Err())
			assert.NoError(t, res.Err())
			assert.Nil(t, res.Failure())
			assert.Equal(t, tt.want, string(res.JSON()))
			assert.Equal(t, tt.want, res.Text())
		})
	}
}

func TestConvert_StructuralFailure(t *testing.T) {
	for _, input := range []string{"a,b\n1,2,3\n", "a,b\n1\n", "a,b\n1,2\n3\n"} {
		res := csvjson.Convert([]byte(input))
		require.False(t, res.OK(), "input %q", input)
		assert.Nil(t, res.JSON())

		fail := res.Failure()
		require.NotNil(t, fail)
		assert.Equal(t, csvjson.KindStructural, fail.Kind)
		assert.False(t, fail.HasPosition())
		assert.ErrorIs(t, res.Err(), csvjson.ErrMissingField)
		assert.Equal(t, "invalid CSV: one or more records is missing a field", res.Text())
	}
}

func TestConvert_LexFailure(t *testing.T) {
	res := csvjson.Convert([]byte("a,b\n\"unterminated,2\n"))
	require.False(t, res.OK())

	fail := res.Failure()
	require.NotNil(t, fail)
	assert.Equal(t, csvjson.KindLex, fail.Kind)
	assert.Equal(t, 2, fail.Line)
	assert.Equal(t, 1, fail.Column)
	assert.ErrorIs(t, res.Err(), csvjson.ErrUnterminatedQuote)
	assert.Equal(t, "invalid CSV (2:1): unterminated quoted string", res.Text())

	var target *csvjson.Error
	require.True(t, errors.As(res.Err(), &target))
	assert.Same(t, fail, target)
}

func TestConvert_StrayQuote(t *testing.T) {
	res := csvjson.Convert([]byte("a,b\n1,x\"y\n"))
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err(), csvjson.ErrQuotePlacement)
	assert.Equal(t, 2, res.Failure().Line)
	assert.Equal(t, 4, res.Failure().Column)
}

func TestConvert_Idempotent(t *testing.T) {
	input := []byte("id,note\n1,\"multi\nline \"\"quoted\"\"\"\n2,plain\n")
	first := csvjson.Convert(input)
	second := csvjson.Convert(input)
	require.True(t, first.OK())
	assert.Equal(t, first.JSON(), second.JSON())
}

func TestConvert_OutputIsExactSize(t *testing.T) {
	res := csvjson.Convert([]byte("a\n1\n"))
	require.True(t, res.OK())
	assert.Equal(t, len(res.JSON()), cap(res.JSON()))
}

func TestConvert_RoundTripShape(t *testing.T) {
	const columns, rows = 5, 40
	var sb strings.Builder
	for c := 0; c < columns; c++ {
		if c > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("col")
		sb.WriteByte(byte('A' + c))
	}
	sb.WriteString("\r\n")
	for r := 0; r < rows; r++ {
		sb.WriteString("42,text,true,\"q \"\"x\"\"\",\r\n")
	}

	out, err := csvjson.ConvertString(sb.String())
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, rows)
	for _, rec := range records {
		assert.Len(t, rec, columns)
		assert.Equal(t, float64(42), rec["colA"])
		assert.Equal(t, "text", rec["colB"])
		assert.Equal(t, true, rec["colC"])
		assert.Equal(t, `q "x"`, rec["colD"])
		assert.Nil(t, rec["colE"])
	}
}

func TestConvertBytes(t *testing.T) {
	out, err := csvjson.ConvertBytes([]byte("x\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, `[{"x":1}]`, string(out))

	out, err = csvjson.ConvertBytes([]byte("x\n\"a\"b\n"))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, csvjson.ErrOutsideQuotes)
}

func TestConvertString_Error(t *testing.T) {
	out, err := csvjson.ConvertString("a,c\n\"b\" ,c\n")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, csvjson.ErrSpaceAfterQuote)
}

func TestConvertReader(t *testing.T) {
	out, err := csvjson.ConvertReader(strings.NewReader("a,b\nx,y\n"))
	require.NoError(t, err)
	assert.Equal(t, `[{"a":"x","b":"y"}]`, string(out))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestConvertReader_ReadError(t *testing.T) {
	_, err := csvjson.ConvertReader(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

func TestConvertWithOptions_Limit(t *testing.T) {
	opts := csvjson.DefaultOptions()
	opts.MaxInputSize = 8

	res := csvjson.ConvertWithOptions([]byte("a,b\n1,2\n3,4\n"), opts)
	require.False(t, res.OK())
	assert.Equal(t, csvjson.KindLimit, res.Failure().Kind)
	assert.ErrorIs(t, res.Err(), csvjson.ErrInputTooLarge)

	_, err := csvjson.ConvertReaderWithOptions(strings.NewReader("a,b\n1,2\n3,4\n"), opts)
	assert.ErrorIs(t, err, csvjson.ErrInputTooLarge)

	out, err := csvjson.ConvertReaderWithOptions(strings.NewReader("a\n1\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(out))
}

func TestConvertWithOptions_Indent(t *testing.T) {
	opts := csvjson.DefaultOptions()
	opts.Indent = "  "

	res := csvjson.ConvertWithOptions([]byte("a,b\n1,x\n"), opts)
	require.True(t, res.OK(), "%v", res.Err())
	want := "[\n  {\n    \"a\": 1,\n    \"b\": \"x\"\n  }\n]"
	assert.Equal(t, want, string(res.JSON()))
}

func TestConvertWithOptions_IndentInvalidJSON(t *testing.T) {
	opts := csvjson.DefaultOptions()
	opts.Indent = "\t"

	// Unquoted strings are copied verbatim, so a backslash breaks the JSON.
	res := csvjson.ConvertWithOptions([]byte("a\nx\\\n"), opts)
	require.False(t, res.OK())
	assert.Equal(t, csvjson.KindRender, res.Failure().Kind)
}

func TestConvertWithOptions_InvalidOptions(t *testing.T) {
	res := csvjson.ConvertWithOptions([]byte("a\n1"), csvjson.Options{MaxInputSize: -1})
	require.False(t, res.OK())
	assert.Equal(t, csvjson.KindOptions, res.Failure().Kind)

	var optErr *csvjson.OptionsError
	require.ErrorAs(t, res.Err(), &optErr)
	assert.Equal(t, "MaxInputSize", optErr.Field)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, csvjson.Validate([]byte("a,b\n1,2\n")))
	assert.ErrorIs(t, csvjson.Validate([]byte("a,b\n1\n")), csvjson.ErrMissingField)
	assert.ErrorIs(t, csvjson.Validate([]byte("a\"")), csvjson.ErrQuotePlacement)
}

func TestDumpTokens(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, csvjson.DumpTokens(&sb, []byte("id,ok\n7,true")))

	want := "1:1\tRegularString\t\"id\"\n" +
		"1:4\tRegularString\t\"ok\"\n" +
		"1:6\tLineBreak\n" +
		"2:1\tInteger\t\"7\"\n" +
		"2:3\tBoolean\t\"true\"\n" +
		"2:7\tLineBreak\n"
	assert.Equal(t, want, sb.String())

	assert.ErrorIs(t, csvjson.DumpTokens(&sb, []byte(`"x`)), csvjson.ErrUnterminatedQuote)
}
