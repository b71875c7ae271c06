package kernel

import (
	"errors"
	"testing"

	"lilt/internal/diag"
	"lilt/internal/macroexp"
	"lilt/internal/reader"
	"lilt/internal/sexp"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

func convertText(t *testing.T, text string) ([]Node, error) {
	t.Helper()
	fs := source.NewFileSet()
	forms, err := reader.ParseText(fs, "t.lilt", text)
	if err != nil {
		t.Fatal(err)
	}
	expanded, err := macroexp.Expand(syntax.Transform(forms), macroexp.NewKernelEnv().Child("t.lilt"))
	if err != nil {
		t.Fatal(err)
	}
	return Convert(expanded)
}

func mustConvert(t *testing.T, text string) []Node {
	t.Helper()
	nodes, err := convertText(t, text)
	if err != nil {
		t.Fatalf("Convert(%q): %v", text, err)
	}
	return nodes
}

func TestConvert_Call(t *testing.T) {
	nodes := mustConvert(t, "(+ 1 1)")
	call, ok := nodes[0].(*Call)
	if !ok {
		t.Fatalf("node is %T, want *Call", nodes[0])
	}
	ref, ok := call.Callee.(*Ref)
	if !ok || ref.Name != "+" {
		t.Errorf("callee = %#v, want Ref(+)", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	for _, a := range call.Args {
		lit, ok := a.(*Lit)
		if !ok || lit.Val.Kind != sexp.LitInt || lit.Val.Int != 1 {
			t.Errorf("arg = %#v, want literal 1", a)
		}
	}
}

func TestConvert_FnRestParams(t *testing.T) {
	nodes := mustConvert(t, "(fn [a b & more] (f a b more))")
	fn := nodes[0].(*Fn)
	if len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Errorf("params = %v", fn.Params)
	}
	if fn.Rest != "more" {
		t.Errorf("rest = %q, want more", fn.Rest)
	}
}

func TestConvert_DefTypeHint(t *testing.T) {
	nodes := mustConvert(t, "(def (: answer number) 42)")
	def := nodes[0].(*Def)
	if def.Name != "answer" || def.TypeHint != "number" {
		t.Errorf("def = %+v", def)
	}
}

func TestConvert_ExportSugar(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []ExportSpec
	}{
		{
			name: "vector shorthand",
			text: "(export [f g])",
			want: []ExportSpec{{Local: "f", Exported: "f"}, {Local: "g", Exported: "g"}},
		},
		{
			name: "renamed export",
			text: `(export "main" entry)`,
			want: []ExportSpec{{Local: "entry", Exported: "main"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := mustConvert(t, tt.text)
			exp := nodes[0].(*Export)
			if len(exp.Specs) != len(tt.want) {
				t.Fatalf("got %d specs, want %d", len(exp.Specs), len(tt.want))
			}
			for i := range tt.want {
				if exp.Specs[i] != tt.want[i] {
					t.Errorf("spec[%d] = %+v, want %+v", i, exp.Specs[i], tt.want[i])
				}
			}
		})
	}
}

func TestConvert_Imports(t *testing.T) {
	nodes := mustConvert(t, `(import [f g] "./lib.lilt")`)
	imp := nodes[0].(*Import)
	if imp.Specifier != "./lib.lilt" || len(imp.Names) != 2 {
		t.Errorf("import = %+v", imp)
	}

	nodes = mustConvert(t, `(import fs "node:fs")`)
	imp = nodes[0].(*Import)
	if imp.Default != "fs" || imp.Specifier != "node:fs" {
		t.Errorf("default import = %+v", imp)
	}
}

func TestConvert_CollectionLiterals(t *testing.T) {
	nodes := mustConvert(t, `(f [1 2] {"k" 3} #[4])`)
	call := nodes[0].(*Call)
	if _, ok := call.Args[0].(*VectorLit); !ok {
		t.Errorf("arg 0 is %T, want *VectorLit", call.Args[0])
	}
	m, ok := call.Args[1].(*MapLit)
	if !ok || len(m.Entries) != 1 {
		t.Errorf("arg 1 = %#v, want one-entry *MapLit", call.Args[1])
	}
	if _, ok := call.Args[2].(*SetLit); !ok {
		t.Errorf("arg 2 is %T, want *SetLit", call.Args[2])
	}
}

func TestConvert_QuotePreservesDatum(t *testing.T) {
	nodes := mustConvert(t, "'(a [1])")
	q := nodes[0].(*Quote)
	if sexp.String(q.Datum) != "(a [1])" {
		t.Errorf("datum = %s", sexp.String(q.Datum))
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"malformed export target", "(export 42)"},
		{"export number name", "(export 1 f)"},
		{"import non-string specifier", "(import [f] 42)"},
		{"def without value", "(def x)"},
		{"if with too many forms", "(if a b c d)"},
		{"stray unquote", ",x"},
		{"fn params not a vector", "(fn x x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertText(t, tt.text)
			if err == nil {
				t.Fatalf("Convert(%q) succeeded, want ValidationError", tt.text)
			}
			var ve *diag.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error is %T (%v), want *diag.ValidationError", err, err)
			}
		})
	}
}

// the closure property: everything Convert produces is in the declared
// kernel vocabulary, checked here by exhaustive dispatch over a program
// exercising every form.
func TestConvert_ClosureProperty(t *testing.T) {
	nodes := mustConvert(t, `
(import [helper] "./helper.lilt")
(defn twice [f x] (f (f x)))
(def base 10)
(when true (print base))
(let [v [1 2 3]] (count v))
'(quoted data)
(export [twice base])
`)
	var walk func(n Node)
	walk = func(n Node) {
		switch x := n.(type) {
		case *Lit, *Ref, *Quote, *Import, *Export:
		case *Fn:
			for _, b := range x.Body {
				walk(b)
			}
		case *If:
			walk(x.Cond)
			walk(x.Then)
			if x.Else != nil {
				walk(x.Else)
			}
		case *Def:
			walk(x.Value)
		case *VectorLit:
			for _, e := range x.Elems {
				walk(e)
			}
		case *SetLit:
			for _, e := range x.Elems {
				walk(e)
			}
		case *MapLit:
			for _, e := range x.Entries {
				walk(e.Key)
				walk(e.Val)
			}
		case *Call:
			walk(x.Callee)
			for _, a := range x.Args {
				walk(a)
			}
		case *Do:
			for _, b := range x.Body {
				walk(b)
			}
		default:
			t.Errorf("node %T outside the kernel vocabulary", n)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
}
