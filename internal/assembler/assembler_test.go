package assembler

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shapestone/shape-csvjson/internal/buffer"
	"github.com/shapestone/shape-csvjson/internal/lexer"
)

func assemble(t *testing.T, input string) (string, error) {
	t.Helper()
	tokens, err := lexer.Lex([]byte(input))
	if err != nil {
		t.Fatalf("Lex(%q) error = %v", input, err)
	}
	out := buffer.New[byte](len(input) + 256)
	err = Assemble(out, []byte(input), tokens)
	return string(out.Items()), err
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic records",
			input: "name,age\nAlice,30\nBob,25\n",
			want:  `[{"name":"Alice","age":30},{"name":"Bob","age":25}]`,
		},
		{
			name:  "empty field is null",
			input: "a,b\n1,\n",
			want:  `[{"a":1,"b":null}]`,
		},
		{
			name:  "doubled quote",
			input: "col\n\"x\"\"y\"\n",
			want:  `[{"col":"x\"y"}]`,
		},
		{
			name:  "embedded newline",
			input: "col\n\"line1\nline2\"",
			want:  `[{"col":"line1\nline2"}]`,
		},
		{
			name:  "embedded CRLF",
			input: "col\r\n\"a\r\nb\"\r\n",
			want:  `[{"col":"a\r\nb"}]`,
		},
		{
			name:  "typed values",
			input: "s,b,i,f,q\nhi,true,7,2.5,\"42\"\n",
			want:  `[{"s":"hi","b":true,"i":7,"f":2.5,"q":"42"}]`,
		},
		{
			name:  "numbers are not validated",
			input: "f\n.\n",
			want:  `[{"f":.}]`,
		},
		{
			name:  "no data records",
			input: "a,b\n",
			want:  `[]`,
		},
		{
			name:  "empty input",
			input: "",
			want:  `[]`,
		},
		{
			name:  "blank line dropped",
			input: "a,b\n1,2\n\n3,4\n",
			want:  `[{"a":1,"b":2},{"a":3,"b":4}]`,
		},
		{
			name:  "only artifact records",
			input: "a,b\n\n\n",
			want:  `[]`,
		},
		{
			name:  "CRLF records",
			input: "a,b\r\nx,y\r\n",
			want:  `[{"a":"x","b":"y"}]`,
		},
		{
			name:  "quoted header",
			input: "\"my \"\"key\"\"\"\nv",
			want:  `[{"my \"key\"":"v"}]`,
		},
		{
			name:  "separator inside quotes",
			input: "a,b\n\"1,2\",3",
			want:  `[{"a":"1,2","b":3}]`,
		},
		{
			name:  "leading blanks trimmed",
			input: "a, b\n1,  x",
			want:  `[{"a":1,"b":"x"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assemble(t, tt.input)
			if err != nil {
				t.Fatalf("Assemble(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Assemble(%q)\n got  %s\n want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAssemble_StructuralError(t *testing.T) {
	got, err := assemble(t, "a,b\n1,2,3\n")
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Assemble() error = %v, want ErrMissingField", err)
	}
	if got != "" {
		t.Errorf("Assemble() wrote %q on error, want nothing", got)
	}
}

// TestAssemble_RoundTrip checks that well-formed input yields N objects of
// M keys in header order.
func TestAssemble_RoundTrip(t *testing.T) {
	input := "id,name,active,score\n1,Alice,true,9.5\n2,\"Bob \"\"B\"\"\",false,\n3,Carol,true,7\n"

	got, err := assemble(t, input)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(got), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, rec := range records {
		if len(rec) != 4 {
			t.Errorf("record %d has %d keys, want 4", i, len(rec))
		}
	}
	if records[1]["name"] != `Bob "B"` {
		t.Errorf("records[1].name = %v, want %q", records[1]["name"], `Bob "B"`)
	}
	if records[1]["score"] != nil {
		t.Errorf("records[1].score = %v, want nil", records[1]["score"])
	}
	if records[2]["active"] != true {
		t.Errorf("records[2].active = %v, want true", records[2]["active"])
	}

	// Keys are emitted in header order.
	wantPrefix := `[{"id":1,"name":"Alice","active":true,"score":9.5}`
	if len(got) < len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Errorf("output starts with %q, want %q", got, wantPrefix)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	input := "a,b\n\"x\ny\",2\n"
	first, err := assemble(t, input)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	second, _ := assemble(t, input)
	if first != second {
		t.Errorf("outputs differ:\n%s\n%s", first, second)
	}
}
