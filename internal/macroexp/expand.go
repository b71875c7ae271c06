// Package macroexp rewrites macro invocations into kernel forms.
//
// Expansion is a depth-first walk: a list whose head names a macro is
// replaced by the macro's substituted template and the result is
// re-expanded (macros may expand into other macro calls). A fixed budget
// per top-level form bounds total rewrites, so a divergent macro fails
// with MacroError instead of looping; the source language itself has no
// recursion bound, this ceiling is the stage's resource-safety property.
package macroexp

import (
	"fmt"

	"lilt/internal/diag"
	"lilt/internal/sexp"
)

// Budget is the maximum number of macro rewrites for one top-level form.
const Budget = 1000

// Expand processes every top-level form. defmacro forms register into
// env and are removed from the output.
func Expand(forms []sexp.Node, env *Env) ([]sexp.Node, error) {
	out := make([]sexp.Node, 0, len(forms))
	for _, f := range forms {
		if sexp.Head(f) == "defmacro" {
			if err := defineMacro(f.(*sexp.List), env); err != nil {
				return nil, err
			}
			continue
		}
		budget := Budget
		expanded, err := expandForm(f, env, &budget)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// defineMacro parses (defmacro name [params... & rest] template).
func defineMacro(form *sexp.List, env *Env) error {
	if len(form.Elems) != 4 {
		return &diag.MacroError{
			Msg:  "defmacro expects (defmacro name [params] template)",
			Span: form.Sp,
		}
	}
	name, ok := form.Elems[1].(*sexp.Symbol)
	if !ok {
		return &diag.MacroError{Msg: "defmacro name must be a symbol", Span: form.Sp}
	}
	paramVec, ok := form.Elems[2].(*sexp.Vector)
	if !ok {
		return &diag.MacroError{
			MacroName: name.Name,
			Msg:       "defmacro parameter pattern must be a vector",
			Span:      form.Sp,
		}
	}

	var params []string
	rest := ""
	sawAmp := false
	for _, p := range paramVec.Elems {
		s, ok := p.(*sexp.Symbol)
		if !ok {
			return &diag.MacroError{
				MacroName: name.Name,
				Msg:       "macro parameters must be symbols",
				Span:      p.Span(),
			}
		}
		switch {
		case s.Name == "&":
			sawAmp = true
		case sawAmp && rest == "":
			rest = s.Name
		case sawAmp:
			return &diag.MacroError{
				MacroName: name.Name,
				Msg:       "only one rest parameter allowed after &",
				Span:      s.Sp,
			}
		default:
			params = append(params, s.Name)
		}
	}
	if sawAmp && rest == "" {
		return &diag.MacroError{
			MacroName: name.Name,
			Msg:       "missing rest parameter name after &",
			Span:      paramVec.Sp,
		}
	}

	env.Define(&Macro{
		Name:   name.Name,
		Params: params,
		Rest:   rest,
		Body:   form.Elems[3],
	})
	return nil
}

// expandForm expands one form to a fixed point within the shared budget.
func expandForm(n sexp.Node, env *Env, budget *int) (sexp.Node, error) {
	for {
		list, ok := n.(*sexp.List)
		if !ok {
			return expandChildren(n, env, budget)
		}
		head := sexp.Head(list)
		switch head {
		case "quote":
			return list, nil
		case "quasiquote":
			if len(list.Elems) != 2 {
				return nil, &diag.MacroError{Msg: "quasiquote expects one form", Span: list.Sp}
			}
			filled, err := expandQuasiquote(list.Elems[1], env, budget, 1)
			if err != nil {
				return nil, err
			}
			nodes := filled.nodes()
			if len(nodes) != 1 {
				return nil, &diag.MacroError{
					Msg:  "unquote-splicing at quasiquote top level",
					Span: list.Sp,
				}
			}
			return nodes[0], nil
		}

		if head != "" {
			if m, b, found := env.lookup(head); found {
				if *budget <= 0 {
					return nil, &diag.MacroError{
						MacroName: head,
						Msg:       fmt.Sprintf("expansion exceeded %d rewrites; macro does not converge", Budget),
						Span:      list.Sp,
					}
				}
				*budget--

				var replacement sexp.Node
				var err error
				if m != nil {
					replacement, err = substitute(m, list)
				} else {
					replacement, err = b(list, env)
				}
				if err != nil {
					return nil, err
				}
				// re-expand the substitution result
				n = replacement
				continue
			}
		}

		// not a macro call: an unknown head is a plain function call
		return expandChildren(list, env, budget)
	}
}

// expandChildren recurses into a non-macro node, expanding each child.
func expandChildren(n sexp.Node, env *Env, budget *int) (sexp.Node, error) {
	switch x := n.(type) {
	case *sexp.Symbol, *sexp.Literal:
		return n, nil
	case *sexp.List:
		elems, err := expandSlice(x.Elems, env, budget)
		if err != nil {
			return nil, err
		}
		return &sexp.List{Elems: elems, Sp: x.Sp}, nil
	case *sexp.Vector:
		elems, err := expandSlice(x.Elems, env, budget)
		if err != nil {
			return nil, err
		}
		return &sexp.Vector{Elems: elems, Sp: x.Sp}, nil
	case *sexp.Set:
		elems, err := expandSlice(x.Elems, env, budget)
		if err != nil {
			return nil, err
		}
		return &sexp.Set{Elems: elems, Sp: x.Sp}, nil
	case *sexp.Map:
		pairs := make([]sexp.Pair, len(x.Pairs))
		for i, p := range x.Pairs {
			k, err := expandForm(p.Key, env, budget)
			if err != nil {
				return nil, err
			}
			v, err := expandForm(p.Val, env, budget)
			if err != nil {
				return nil, err
			}
			pairs[i] = sexp.Pair{Key: k, Val: v}
		}
		return &sexp.Map{Pairs: pairs, Sp: x.Sp}, nil
	}
	return n, nil
}

func expandSlice(elems []sexp.Node, env *Env, budget *int) ([]sexp.Node, error) {
	out := make([]sexp.Node, len(elems))
	for i, e := range elems {
		expanded, err := expandForm(e, env, budget)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// substitute instantiates a macro template with the call's arguments.
func substitute(m *Macro, call *sexp.List) (sexp.Node, error) {
	args := call.Elems[1:]
	if m.Rest == "" && len(args) != len(m.Params) {
		return nil, &diag.MacroError{
			MacroName: m.Name,
			Msg:       fmt.Sprintf("expects %d arguments, got %d", len(m.Params), len(args)),
			Span:      call.Sp,
		}
	}
	if m.Rest != "" && len(args) < len(m.Params) {
		return nil, &diag.MacroError{
			MacroName: m.Name,
			Msg:       fmt.Sprintf("expects at least %d arguments, got %d", len(m.Params), len(args)),
			Span:      call.Sp,
		}
	}

	bind := make(map[string]sexp.Node, len(m.Params)+1)
	for i, p := range m.Params {
		bind[p] = args[i]
	}
	if m.Rest != "" {
		bind[m.Rest] = &sexp.List{Elems: args[len(m.Params):], Sp: call.Sp}
	}
	return subst(m.Body, bind), nil
}

// subst replaces parameter symbols everywhere in the template, quote
// bodies included: the template is pure syntax, not evaluated code.
func subst(n sexp.Node, bind map[string]sexp.Node) sexp.Node {
	switch x := n.(type) {
	case *sexp.Symbol:
		if repl, ok := bind[x.Name]; ok {
			return repl
		}
		return x
	case *sexp.Literal:
		return x
	case *sexp.List:
		return &sexp.List{Elems: substSlice(x.Elems, bind), Sp: x.Sp}
	case *sexp.Vector:
		return &sexp.Vector{Elems: substSlice(x.Elems, bind), Sp: x.Sp}
	case *sexp.Set:
		return &sexp.Set{Elems: substSlice(x.Elems, bind), Sp: x.Sp}
	case *sexp.Map:
		pairs := make([]sexp.Pair, len(x.Pairs))
		for i, p := range x.Pairs {
			pairs[i] = sexp.Pair{Key: subst(p.Key, bind), Val: subst(p.Val, bind)}
		}
		return &sexp.Map{Pairs: pairs, Sp: x.Sp}
	}
	return n
}

func substSlice(elems []sexp.Node, bind map[string]sexp.Node) []sexp.Node {
	out := make([]sexp.Node, len(elems))
	for i, e := range elems {
		out[i] = subst(e, bind)
	}
	return out
}
