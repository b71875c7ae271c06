package printer

import (
	"strings"
	"testing"

	"lilt/internal/irgen"
	"lilt/internal/jsast"
	"lilt/internal/kernel"
	"lilt/internal/macroexp"
	"lilt/internal/reader"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

func render(t *testing.T, text string, opts Options) string {
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
	nodes, err := kernel.Convert(expanded)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := irgen.Transform(nodes, irgen.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Generate(prog, opts)
	if err != nil {
		t.Fatalf("Generate(%q): %v", text, err)
	}
	return out
}

func TestGenerate_Arithmetic(t *testing.T) {
	got := render(t, "(+ 1 1)", Options{})
	if got != "1 + 1;\n" {
		t.Errorf("got %q, want %q", got, "1 + 1;\n")
	}
}

func TestGenerate_PrecedenceParens(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"(* (+ 1 2) 3)", "(1 + 2) * 3;\n"},
		{"(+ 1 (* 2 3))", "1 + 2 * 3;\n"},
		{"(- 1 (- 2 3))", "1 - (2 - 3);\n"},
		{"(and (= a 1) (or b c))", "a === 1 && (b || c);\n"},
	}
	for _, tt := range tests {
		if got := render(t, tt.text, Options{}); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGenerate_ConstDef(t *testing.T) {
	got := render(t, "(def x 42)", Options{})
	if got != "const x = 42;\n" {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_TypedAnnotations(t *testing.T) {
	src := "(def (: n number) 1)"
	if got := render(t, src, Options{Target: TargetTyped}); got != "const n: number = 1;\n" {
		t.Errorf("typed: got %q", got)
	}
	// scripting target strips the hint
	if got := render(t, src, Options{Target: TargetScripting}); got != "const n = 1;\n" {
		t.Errorf("scripting: got %q", got)
	}
}

func TestGenerate_FunctionBody(t *testing.T) {
	got := render(t, "(def add (fn [a b] (+ a b)))", Options{Formatting: FormatStandard})
	want := "const add = function (a, b) {\n  return a + b;\n};\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_RestParam(t *testing.T) {
	got := render(t, "(def f (fn [a & more] more))", Options{Formatting: FormatStandard})
	if !strings.Contains(got, "function (a, ...more)") {
		t.Errorf("got %q, want rest parameter", got)
	}
}

func TestGenerate_IfStatementAndPrelude(t *testing.T) {
	got := render(t, "(if c (f) (g))", Options{Formatting: FormatStandard})
	want := "const " + irgen.TruthyHelper + " = (v) => v !== false && v !== null;\n" +
		"if (" + irgen.TruthyHelper + "(c)) {\n  f();\n} else {\n  g();\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_BooleanCondSkipsHelper(t *testing.T) {
	got := render(t, "(if (< a b) (f))", Options{Formatting: FormatStandard})
	if strings.Contains(got, irgen.TruthyHelper) {
		t.Errorf("helper emitted for boolean condition: %q", got)
	}
	if !strings.HasPrefix(got, "if (a < b) {") {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_MinimalFormatting(t *testing.T) {
	got := render(t, "(if (< a b) (f) (g))", Options{Formatting: FormatMinimal})
	want := "if (a < b) { f(); } else { g(); }\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_PrettySpacing(t *testing.T) {
	got := render(t, "(def a 1)\n(def b 2)", Options{Formatting: FormatPretty})
	want := "const a = 1;\n\nconst b = 2;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_Imports(t *testing.T) {
	got := render(t, `(import fs "node:fs")
(import [join] "node:path")
(def x 1)`, Options{})
	want := "import fs from \"node:fs\";\nimport { join } from \"node:path\";\n\nconst x = 1;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_Export(t *testing.T) {
	got := render(t, "(export [f g])", Options{})
	if got != "export { f, g };\n" {
		t.Errorf("got %q", got)
	}
	got = render(t, `(export "main" entry)`, Options{})
	if got != "export { entry as main };\n" {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_Collections(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"[1 2 3]", "[1, 2, 3];\n"},
		{`{"k" 1}`, "({ k: 1 });\n"},
		{"#[1 2]", "new Set([1, 2]);\n"},
		{`'(a 1)`, `["a", 1];` + "\n"},
	}
	for _, tt := range tests {
		if got := render(t, tt.text, Options{}); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGenerate_WideObjectBreaks(t *testing.T) {
	got := render(t, `(def o {"a" 1 "b" 2 "c" 3})`, Options{Formatting: FormatStandard})
	want := "const o = {\n  a: 1,\n  b: 2,\n  c: 3,\n};\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_NonIdentifierKeyQuoted(t *testing.T) {
	got := render(t, `(def o {"a-b" 1})`, Options{})
	if !strings.Contains(got, `"a-b": 1`) {
		t.Errorf("got %q, want quoted key", got)
	}
}

func TestGenerate_MemberAccess(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"(console.log x)", "console.log(x);\n"},
		{"v.0", "v[0];\n"},
		{`(.toUpperCase name)`, "name.toUpperCase();\n"},
	}
	for _, tt := range tests {
		if got := render(t, tt.text, Options{}); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGenerate_IIFEWrapped(t *testing.T) {
	got := render(t, "(def x (do (f) 1))", Options{Formatting: FormatMinimal})
	want := "const x = (function () { f(); return 1; })();\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_TernaryExpression(t *testing.T) {
	got := render(t, "(def x (if (< a b) 1 2))", Options{})
	if got != "const x = a < b ? 1 : 2;\n" {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_StringEscapes(t *testing.T) {
	got := render(t, `(def s "line\nquote\"end")`, Options{})
	want := "const s = \"line\\nquote\\\"end\";\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_TabsIndent(t *testing.T) {
	got := render(t, "(def f (fn [] 1))", Options{Formatting: FormatStandard, UseTabs: true})
	if !strings.Contains(got, "{\n\treturn 1;\n}") {
		t.Errorf("got %q, want tab indent", got)
	}
}

func TestGenerateDeclarations(t *testing.T) {
	fs := source.NewFileSet()
	forms, err := reader.ParseText(fs, "t.lilt", `
(def (: answer number) 42)
(def untyped 1)
(export [answer untyped])
(export "main" answer)
`)
	if err != nil {
		t.Fatal(err)
	}
	expanded, err := macroexp.Expand(syntax.Transform(forms), macroexp.NewKernelEnv().Child("t.lilt"))
	if err != nil {
		t.Fatal(err)
	}
	nodes, err := kernel.Convert(expanded)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := irgen.Transform(nodes, irgen.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := GenerateDeclarations(prog)
	want := "export declare const answer: number;\n" +
		"export declare const untyped: any;\n" +
		"declare const answer: number;\nexport { answer as main };\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateDeclarations_NoExports(t *testing.T) {
	if got := GenerateDeclarations(&jsast.Program{}); got != "" {
		t.Errorf("got %q, want empty stub", got)
	}
}

func TestGenerateExpr(t *testing.T) {
	out, err := GenerateExpr(&jsast.BinaryExpr{
		Op: "+",
		L:  &jsast.NumberLit{Text: "1"},
		R:  &jsast.NumberLit{Text: "1"},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "1 + 1" {
		t.Errorf("got %q", out)
	}
}
