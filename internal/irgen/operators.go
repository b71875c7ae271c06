package irgen

import (
	"strings"
	"unicode"

	"lilt/internal/diag"
	"lilt/internal/jsast"
	"lilt/internal/kernel"
	"lilt/internal/sexp"
)

// binaryOps maps arithmetic and comparison callees to output operators.
// Each folds left over two or more operands.
var binaryOps = map[string]string{
	"+":    "+",
	"-":    "-",
	"*":    "*",
	"/":    "/",
	"%":    "%",
	"<":    "<",
	"<=":   "<=",
	">":    ">",
	">=":   ">=",
	"=":    "===",
	"not=": "!==",
	"and":  "&&",
	"or":   "||",
}

func (g *generator) genCall(call *kernel.Call) (jsast.Expr, error) {
	if ref, ok := call.Callee.(*kernel.Ref); ok {
		switch {
		case ref.Name == "js-get":
			return g.genMember(call)
		case ref.Name == "not":
			if len(call.Args) != 1 {
				return nil, &diag.TransformError{
					NodeType: "Call",
					Msg:      "not expects exactly one argument",
					Span:     call.Sp,
				}
			}
			arg, err := g.genCond(call.Args[0])
			if err != nil {
				return nil, err
			}
			return &jsast.UnaryExpr{Op: "!", X: arg}, nil
		}
		if op, ok := binaryOps[ref.Name]; ok {
			return g.genOperator(ref.Name, op, call)
		}
	}

	// calling a property access yields a member-call expression
	if inner, ok := call.Callee.(*kernel.Call); ok {
		if ref, ok := inner.Callee.(*kernel.Ref); ok && ref.Name == "js-get" {
			callee, err := g.genMember(inner)
			if err != nil {
				return nil, err
			}
			args, err := g.genExprs(call.Args)
			if err != nil {
				return nil, err
			}
			return &jsast.CallExpr{Callee: callee, Args: args}, nil
		}
	}

	callee, err := g.genExpr(call.Callee)
	if err != nil {
		return nil, err
	}
	args, err := g.genExprs(call.Args)
	if err != nil {
		return nil, err
	}
	return &jsast.CallExpr{Callee: callee, Args: args}, nil
}

// genMember lowers (js-get obj key). A string key that is a valid
// identifier becomes property access; anything else becomes element
// access.
func (g *generator) genMember(call *kernel.Call) (jsast.Expr, error) {
	if len(call.Args) != 2 {
		return nil, &diag.TransformError{
			NodeType: "Call",
			Msg:      "js-get expects an object and a key",
			Span:     call.Sp,
		}
	}
	obj, err := g.genExpr(call.Args[0])
	if err != nil {
		return nil, err
	}
	if lit, ok := call.Args[1].(*kernel.Lit); ok && lit.Val.Kind == sexp.LitString && isValidIdent(lit.Val.Str) {
		return &jsast.MemberExpr{Obj: obj, Prop: lit.Val.Str}, nil
	}
	key, err := g.genExpr(call.Args[1])
	if err != nil {
		return nil, err
	}
	return &jsast.MemberExpr{Obj: obj, Key: key, Computed: true}, nil
}

func (g *generator) genOperator(name, op string, call *kernel.Call) (jsast.Expr, error) {
	if name == "-" && len(call.Args) == 1 {
		arg, err := g.genExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		return &jsast.UnaryExpr{Op: "-", X: arg}, nil
	}
	if len(call.Args) < 2 {
		return nil, &diag.TransformError{
			NodeType: "Call",
			Msg:      name + " expects at least two arguments",
			Span:     call.Sp,
		}
	}
	args, err := g.genExprs(call.Args)
	if err != nil {
		return nil, err
	}
	acc := args[0]
	for _, r := range args[1:] {
		acc = &jsast.BinaryExpr{Op: op, L: acc, R: r}
	}
	return acc, nil
}

// reservedWords are output-language keywords that cannot be used as
// binding names; Mangle suffixes them.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true,
	"let": true, "static": true, "yield": true, "await": true,
}

// mangleRunes rewrites symbol characters that are not valid in output
// identifiers.
var mangleRunes = map[rune]string{
	'-': "_",
	'?': "_p",
	'!': "_x",
	'*': "_star",
	'+': "_plus",
	'<': "_lt",
	'>': "_gt",
	'=': "_eq",
}

// Mangle maps a symbol name to a valid output-language identifier. Names
// that are already valid pass through unchanged, so the mapping is
// consistent across defining and importing modules.
func Mangle(name string) string {
	if reservedWords[name] {
		return name + "$"
	}
	if isValidIdent(name) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if rep, ok := mangleRunes[r]; ok {
			b.WriteString(rep)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

func isValidIdent(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || r == '$' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
