package macroexp

import (
	"lilt/internal/diag"
	"lilt/internal/sexp"
)

// qqResult is the outcome of filling one template position: either a
// single node or a spliced sequence from unquote-splicing.
type qqResult struct {
	spliced bool
	elems   []sexp.Node
	one     sexp.Node
}

func single(n sexp.Node) qqResult { return qqResult{one: n} }

func (q qqResult) nodes() []sexp.Node {
	if q.spliced {
		return q.elems
	}
	return []sexp.Node{q.one}
}

// expandQuasiquote fills a quasiquote template. depth tracks nesting:
// an unquote only fires at depth 1; deeper ones are preserved for the
// enclosing template level.
func expandQuasiquote(n sexp.Node, env *Env, budget *int, depth int) (qqResult, error) {
	list, isList := n.(*sexp.List)
	if isList {
		switch sexp.Head(list) {
		case "unquote":
			if len(list.Elems) != 2 {
				return qqResult{}, &diag.MacroError{Msg: "unquote expects one form", Span: list.Sp}
			}
			if depth == 1 {
				filled, err := expandForm(list.Elems[1], env, budget)
				if err != nil {
					return qqResult{}, err
				}
				return single(filled), nil
			}
			inner, err := expandQuasiquote(list.Elems[1], env, budget, depth-1)
			if err != nil {
				return qqResult{}, err
			}
			return rebuildWrapper(list, "unquote", inner)
		case "unquote-splicing":
			if len(list.Elems) != 2 {
				return qqResult{}, &diag.MacroError{Msg: "unquote-splicing expects one form", Span: list.Sp}
			}
			if depth == 1 {
				filled, err := expandForm(list.Elems[1], env, budget)
				if err != nil {
					return qqResult{}, err
				}
				switch seq := filled.(type) {
				case *sexp.List:
					return qqResult{spliced: true, elems: seq.Elems}, nil
				case *sexp.Vector:
					return qqResult{spliced: true, elems: seq.Elems}, nil
				default:
					return qqResult{}, &diag.MacroError{
						Msg:  "unquote-splicing requires a list or vector",
						Span: list.Sp,
					}
				}
			}
			inner, err := expandQuasiquote(list.Elems[1], env, budget, depth-1)
			if err != nil {
				return qqResult{}, err
			}
			return rebuildWrapper(list, "unquote-splicing", inner)
		case "quasiquote":
			if len(list.Elems) != 2 {
				return qqResult{}, &diag.MacroError{Msg: "quasiquote expects one form", Span: list.Sp}
			}
			inner, err := expandQuasiquote(list.Elems[1], env, budget, depth+1)
			if err != nil {
				return qqResult{}, err
			}
			return rebuildWrapper(list, "quasiquote", inner)
		}
	}

	switch x := n.(type) {
	case *sexp.Symbol, *sexp.Literal:
		return single(n), nil
	case *sexp.List:
		// quoted data inside a template stays exactly as written
		if sexp.Head(x) == "quote" {
			return single(x), nil
		}
		elems, err := fillSlice(x.Elems, env, budget, depth)
		if err != nil {
			return qqResult{}, err
		}
		filled := &sexp.List{Elems: elems, Sp: x.Sp}
		// a macro call constructed by the template is code and must be
		// expanded in turn; preserved nested quasiquote wrappers never
		// reach this branch
		if depth == 1 {
			if head := sexp.Head(filled); head != "" && env.IsMacro(head) {
				expanded, err := expandForm(filled, env, budget)
				if err != nil {
					return qqResult{}, err
				}
				return single(expanded), nil
			}
		}
		return single(filled), nil
	case *sexp.Vector:
		elems, err := fillSlice(x.Elems, env, budget, depth)
		if err != nil {
			return qqResult{}, err
		}
		return single(&sexp.Vector{Elems: elems, Sp: x.Sp}), nil
	case *sexp.Set:
		elems, err := fillSlice(x.Elems, env, budget, depth)
		if err != nil {
			return qqResult{}, err
		}
		return single(&sexp.Set{Elems: elems, Sp: x.Sp}), nil
	case *sexp.Map:
		pairs := make([]sexp.Pair, len(x.Pairs))
		for i, p := range x.Pairs {
			k, err := expandQuasiquote(p.Key, env, budget, depth)
			if err != nil {
				return qqResult{}, err
			}
			v, err := expandQuasiquote(p.Val, env, budget, depth)
			if err != nil {
				return qqResult{}, err
			}
			if k.spliced || v.spliced {
				return qqResult{}, &diag.MacroError{
					Msg:  "unquote-splicing not allowed inside a map literal",
					Span: x.Sp,
				}
			}
			pairs[i] = sexp.Pair{Key: k.one, Val: v.one}
		}
		return single(&sexp.Map{Pairs: pairs, Sp: x.Sp}), nil
	}
	return single(n), nil
}

func fillSlice(elems []sexp.Node, env *Env, budget *int, depth int) ([]sexp.Node, error) {
	var out []sexp.Node
	for _, e := range elems {
		r, err := expandQuasiquote(e, env, budget, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, r.nodes()...)
	}
	return out, nil
}

// rebuildWrapper re-wraps a preserved nested unquote/quasiquote form.
func rebuildWrapper(orig *sexp.List, head string, inner qqResult) (qqResult, error) {
	if inner.spliced {
		return qqResult{}, &diag.MacroError{
			Msg:  "unquote-splicing inside nested " + head,
			Span: orig.Sp,
		}
	}
	return single(&sexp.List{
		Elems: []sexp.Node{orig.Elems[0], inner.one},
		Sp:    orig.Sp,
	}), nil
}
