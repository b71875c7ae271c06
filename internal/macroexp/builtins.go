package macroexp

import (
	"fmt"

	"lilt/internal/diag"
	"lilt/internal/sexp"
)

// registerBuiltins installs the system macros of the kernel scope. Each
// one rewrites sugar into kernel forms; none survives expansion.
func registerBuiltins(env *Env) {
	env.builtins["defn"] = expandDefn
	env.builtins["when"] = expandWhen
	env.builtins["unless"] = expandUnless
	env.builtins["cond"] = expandCond
	env.builtins["->"] = expandThreadFirst
	env.builtins["->>"] = expandThreadLast
	env.builtins["let"] = expandLet
}

func arityError(name string, call *sexp.List, want string) error {
	return &diag.MacroError{
		MacroName: name,
		Msg:       fmt.Sprintf("expects %s, got %d arguments", want, len(call.Elems)-1),
		Span:      call.Sp,
	}
}

// (defn name [params] body...) -> (def name (fn [params] body...))
func expandDefn(call *sexp.List, _ *Env) (sexp.Node, error) {
	if len(call.Elems) < 4 {
		return nil, arityError("defn", call, "a name, a parameter vector and a body")
	}
	fn := append([]sexp.Node{&sexp.Symbol{Name: "fn", Sp: call.Sp}}, call.Elems[2:]...)
	return &sexp.List{
		Elems: []sexp.Node{
			&sexp.Symbol{Name: "def", Sp: call.Sp},
			call.Elems[1],
			&sexp.List{Elems: fn, Sp: call.Sp},
		},
		Sp: call.Sp,
	}, nil
}

// (when c body...) -> (if c (do body...) nil)
func expandWhen(call *sexp.List, _ *Env) (sexp.Node, error) {
	if len(call.Elems) < 3 {
		return nil, arityError("when", call, "a condition and a body")
	}
	return buildIf(call, call.Elems[1], doBlock(call, call.Elems[2:]), sexp.Nil()), nil
}

// (unless c body...) -> (if c nil (do body...))
func expandUnless(call *sexp.List, _ *Env) (sexp.Node, error) {
	if len(call.Elems) < 3 {
		return nil, arityError("unless", call, "a condition and a body")
	}
	return buildIf(call, call.Elems[1], sexp.Nil(), doBlock(call, call.Elems[2:])), nil
}

// (cond c1 e1 c2 e2 ... else eN) -> nested ifs. The symbol else in
// condition position is the unconditional tail.
func expandCond(call *sexp.List, _ *Env) (sexp.Node, error) {
	clauses := call.Elems[1:]
	if len(clauses)%2 != 0 {
		return nil, &diag.MacroError{
			MacroName: "cond",
			Msg:       "expects an even number of clause forms",
			Span:      call.Sp,
		}
	}
	var out sexp.Node = sexp.Nil()
	for i := len(clauses) - 2; i >= 0; i -= 2 {
		cnd, expr := clauses[i], clauses[i+1]
		if sexp.IsSym(cnd, "else") {
			if i != len(clauses)-2 {
				return nil, &diag.MacroError{
					MacroName: "cond",
					Msg:       "else clause must be last",
					Span:      cnd.Span(),
				}
			}
			out = expr
			continue
		}
		out = buildIf(call, cnd, expr, out)
	}
	return out, nil
}

// (-> x (f a) g) -> (g (f x a)): thread as first argument.
func expandThreadFirst(call *sexp.List, _ *Env) (sexp.Node, error) {
	return expandThread(call, "->", func(step *sexp.List, acc sexp.Node) []sexp.Node {
		out := []sexp.Node{step.Elems[0], acc}
		return append(out, step.Elems[1:]...)
	})
}

// (->> x (f a) g) -> (g (f a x)): thread as last argument.
func expandThreadLast(call *sexp.List, _ *Env) (sexp.Node, error) {
	return expandThread(call, "->>", func(step *sexp.List, acc sexp.Node) []sexp.Node {
		out := append([]sexp.Node{}, step.Elems...)
		return append(out, acc)
	})
}

func expandThread(call *sexp.List, name string, weave func(*sexp.List, sexp.Node) []sexp.Node) (sexp.Node, error) {
	if len(call.Elems) < 2 {
		return nil, arityError(name, call, "an initial value")
	}
	acc := call.Elems[1]
	for _, step := range call.Elems[2:] {
		switch s := step.(type) {
		case *sexp.List:
			if len(s.Elems) == 0 {
				return nil, &diag.MacroError{MacroName: name, Msg: "cannot thread through an empty form", Span: s.Sp}
			}
			acc = &sexp.List{Elems: weave(s, acc), Sp: s.Sp}
		default:
			acc = &sexp.List{Elems: []sexp.Node{step, acc}, Sp: step.Span()}
		}
	}
	return acc, nil
}

// (let [a 1 b 2] body...) -> ((fn [a b] body...) 1 2)
func expandLet(call *sexp.List, _ *Env) (sexp.Node, error) {
	if len(call.Elems) < 3 {
		return nil, arityError("let", call, "a binding vector and a body")
	}
	bindings, ok := call.Elems[1].(*sexp.Vector)
	if !ok {
		return nil, &diag.MacroError{MacroName: "let", Msg: "bindings must be a vector", Span: call.Elems[1].Span()}
	}
	if len(bindings.Elems)%2 != 0 {
		return nil, &diag.MacroError{MacroName: "let", Msg: "odd number of binding forms", Span: bindings.Sp}
	}

	var names, values []sexp.Node
	for i := 0; i < len(bindings.Elems); i += 2 {
		if _, ok := bindings.Elems[i].(*sexp.Symbol); !ok {
			return nil, &diag.MacroError{
				MacroName: "let",
				Msg:       "binding names must be symbols",
				Span:      bindings.Elems[i].Span(),
			}
		}
		names = append(names, bindings.Elems[i])
		values = append(values, bindings.Elems[i+1])
	}

	fn := []sexp.Node{
		&sexp.Symbol{Name: "fn", Sp: call.Sp},
		&sexp.Vector{Elems: names, Sp: bindings.Sp},
	}
	fn = append(fn, call.Elems[2:]...)

	out := []sexp.Node{&sexp.List{Elems: fn, Sp: call.Sp}}
	out = append(out, values...)
	return &sexp.List{Elems: out, Sp: call.Sp}, nil
}

func buildIf(call *sexp.List, cnd, then, els sexp.Node) sexp.Node {
	return &sexp.List{
		Elems: []sexp.Node{&sexp.Symbol{Name: "if", Sp: call.Sp}, cnd, then, els},
		Sp:    call.Sp,
	}
}

func doBlock(call *sexp.List, body []sexp.Node) sexp.Node {
	if len(body) == 1 {
		return body[0]
	}
	elems := append([]sexp.Node{&sexp.Symbol{Name: "do", Sp: call.Sp}}, body...)
	return &sexp.List{Elems: elems, Sp: call.Sp}
}
