package syntax

import (
	"testing"

	"lilt/internal/reader"
	"lilt/internal/sexp"
	"lilt/internal/source"
)

func parse(t *testing.T, text string) []sexp.Node {
	t.Helper()
	fs := source.NewFileSet()
	forms, err := reader.ParseText(fs, "t.lilt", text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return forms
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dotted member access",
			in:   "a.b",
			want: `(js-get a "b")`,
		},
		{
			name: "dotted chain",
			in:   "a.b.c",
			want: `(js-get (js-get a "b") "c")`,
		},
		{
			name: "numeric segment is element access",
			in:   "xs.0",
			want: `(js-get xs 0)`,
		},
		{
			name: "dotted head in call position",
			in:   `(console.log "hi")`,
			want: `((js-get console "log") "hi")`,
		},
		{
			name: "method call sugar",
			in:   "(.push xs 1)",
			want: `((js-get xs "push") 1)`,
		},
		{
			name: "vector literal",
			in:   "[1 2]",
			want: "(vector 1 2)",
		},
		{
			name: "map literal",
			in:   `{"a" 1}`,
			want: `(hash-map "a" 1)`,
		},
		{
			name: "set literal",
			in:   "#[1 2]",
			want: "(hash-set 1 2)",
		},
		{
			name: "nested literal in call",
			in:   `(f [1 {"k" 2}])`,
			want: `(f (vector 1 (hash-map "k" 2)))`,
		},
		{
			name: "fn params vector preserved",
			in:   "(fn [x y] (+ x y))",
			want: "(fn [x y] (+ x y))",
		},
		{
			name: "defn params vector preserved but body rewritten",
			in:   "(defn f [x] [x])",
			want: "(defn f [x] (vector x))",
		},
		{
			name: "let bindings preserved",
			in:   "(let [x [1]] x)",
			want: "(let [x [1]] x)",
		},
		{
			name: "import names vector preserved",
			in:   `(import [f g] "./lib.lilt")`,
			want: `(import [f g] "./lib.lilt")`,
		},
		{
			name: "quoted data untouched",
			in:   "'(a.b [1 2])",
			want: "(quote (a.b [1 2]))",
		},
		{
			name: "leading dot symbol alone untouched",
			in:   ".foo",
			want: ".foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(parse(t, tt.in))
			want := parse(t, tt.want)
			if !sexp.EqualSlices(got, want) {
				t.Errorf("Transform(%s) = %s, want %s", tt.in, sexp.String(got[0]), sexp.String(want[0]))
			}
		})
	}
}

func TestTransform_Idempotent(t *testing.T) {
	inputs := []string{
		"a.b.c",
		`(console.log [1 2] {"a" 1})`,
		"(.push xs #[1])",
		"(fn [x] x.y)",
		"(defmacro m [a] `(f ,a))",
		`(import [f] "./a.lilt")`,
		"'(raw [data])",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Transform(parse(t, in))
			twice := Transform(once)
			if !sexp.EqualSlices(once, twice) {
				t.Errorf("not idempotent for %q:\n once: %s\ntwice: %s",
					in, sexp.String(once[0]), sexp.String(twice[0]))
			}
		})
	}
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	in := parse(t, "(f [1 2])")
	before := sexp.String(in[0])
	_ = Transform(in)
	if sexp.String(in[0]) != before {
		t.Errorf("input mutated: %s -> %s", before, sexp.String(in[0]))
	}
}
