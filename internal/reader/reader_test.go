package reader

import (
	"errors"
	"strings"
	"testing"

	"lilt/internal/diag"
	"lilt/internal/sexp"
	"lilt/internal/source"
)

func parseOne(t *testing.T, text string) sexp.Node {
	t.Helper()
	fs := source.NewFileSet()
	forms, err := ParseText(fs, "test.lilt", text)
	if err != nil {
		t.Fatalf("ParseText(%q): %v", text, err)
	}
	if len(forms) != 1 {
		t.Fatalf("ParseText(%q) produced %d forms, want 1", text, len(forms))
	}
	return forms[0]
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want sexp.Node
	}{
		{
			name: "simple call",
			text: "(+ 1 1)",
			want: sexp.ListOf(sexp.Sym("+"), sexp.Int(1), sexp.Int(1)),
		},
		{
			name: "nested lists",
			text: "(def x (* 2 3.5))",
			want: sexp.ListOf(sexp.Sym("def"), sexp.Sym("x"),
				sexp.ListOf(sexp.Sym("*"), sexp.Int(2), sexp.Float(3.5))),
		},
		{
			name: "vector",
			text: "[1 2 3]",
			want: &sexp.Vector{Elems: []sexp.Node{sexp.Int(1), sexp.Int(2), sexp.Int(3)}},
		},
		{
			name: "map",
			text: `{"a" 1 "b" 2}`,
			want: &sexp.Map{Pairs: []sexp.Pair{
				{Key: sexp.Str("a"), Val: sexp.Int(1)},
				{Key: sexp.Str("b"), Val: sexp.Int(2)},
			}},
		},
		{
			name: "set",
			text: "#[1 2]",
			want: &sexp.Set{Elems: []sexp.Node{sexp.Int(1), sexp.Int(2)}},
		},
		{
			name: "quote shorthand",
			text: "'(1 2)",
			want: sexp.ListOf(sexp.Sym("quote"), sexp.ListOf(sexp.Int(1), sexp.Int(2))),
		},
		{
			name: "quasiquote with unquote",
			text: "`(a ,b)",
			want: sexp.ListOf(sexp.Sym("quasiquote"),
				sexp.ListOf(sexp.Sym("a"), sexp.ListOf(sexp.Sym("unquote"), sexp.Sym("b")))),
		},
		{
			name: "unquote splicing",
			text: "`(a ,@xs)",
			want: sexp.ListOf(sexp.Sym("quasiquote"),
				sexp.ListOf(sexp.Sym("a"), sexp.ListOf(sexp.Sym("unquote-splicing"), sexp.Sym("xs")))),
		},
		{
			name: "string escapes",
			text: `"a\n\t\"b\"\\"`,
			want: sexp.Str("a\n\t\"b\"\\"),
		},
		{
			name: "unicode escape",
			text: `"\u00e9"`,
			want: sexp.Str("é"),
		},
		{
			name: "negative number",
			text: "(- 0 -12)",
			want: sexp.ListOf(sexp.Sym("-"), sexp.Int(0), sexp.Int(-12)),
		},
		{
			name: "exponent float",
			text: "1e3",
			want: sexp.Float(1000),
		},
		{
			name: "booleans and nil",
			text: "(if true nil false)",
			want: sexp.ListOf(sexp.Sym("if"), sexp.Bool(true), sexp.Nil(), sexp.Bool(false)),
		},
		{
			name: "comment skipped",
			text: "; header\n(def x 1) ; trailing",
			want: sexp.ListOf(sexp.Sym("def"), sexp.Sym("x"), sexp.Int(1)),
		},
		{
			name: "dotted symbol survives reading",
			text: "console.log",
			want: sexp.Sym("console.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOne(t, tt.text)
			if !sexp.Equal(got, tt.want) {
				t.Errorf("parsed %s, want %s", sexp.String(got), sexp.String(tt.want))
			}
		})
	}
}

func TestParse_MultipleTopLevelForms(t *testing.T) {
	fs := source.NewFileSet()
	forms, err := ParseText(fs, "t", "(def a 1)\n(def b 2)\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 2 {
		t.Fatalf("got %d forms, want 2", len(forms))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMsg string
	}{
		{"unmatched closer", "(def x 1))", "unmatched closing delimiter"},
		{"mismatched closer", "(def x ]", "mismatched closing delimiter"},
		{"eof in form", "(def x", "end of input inside open form"},
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"newline in string", "\"abc\ndef\"", "unterminated string literal"},
		{"odd map", "{1}", "even number of forms"},
		{"bad escape", `"\q"`, "unknown string escape"},
		{"dangling quote", "'", "end of input after quote shorthand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			_, err := ParseText(fs, "t.lilt", tt.text)
			if err == nil {
				t.Fatalf("ParseText(%q) succeeded, want error", tt.text)
			}
			var pe *diag.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is %T, want *diag.ParseError", err)
			}
			if !strings.Contains(pe.Msg, tt.wantMsg) {
				t.Errorf("message %q does not contain %q", pe.Msg, tt.wantMsg)
			}
			if pe.Line == 0 || pe.Col == 0 {
				t.Errorf("missing position: line=%d col=%d", pe.Line, pe.Col)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	fs := source.NewFileSet()
	_, err := ParseText(fs, "t.lilt", "(def x 1)\n  )")
	var pe *diag.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is %T, want *diag.ParseError", err)
	}
	if pe.Line != 2 || pe.Col != 3 {
		t.Errorf("position = %d:%d, want 2:3", pe.Line, pe.Col)
	}
	if pe.Snippet != "  )" {
		t.Errorf("snippet = %q", pe.Snippet)
	}
}

func TestParse_SpansCoverForms(t *testing.T) {
	fs := source.NewFileSet()
	forms, err := ParseText(fs, "t", "  (+ 1 1)")
	if err != nil {
		t.Fatal(err)
	}
	sp := forms[0].Span()
	if sp.Start != 2 || sp.End != 9 {
		t.Errorf("span = %v, want 2..9", sp)
	}
}
