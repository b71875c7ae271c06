package kernel

import (
	"fmt"

	"lilt/internal/diag"
	"lilt/internal/sexp"
)

// Convert normalizes fully expanded s-expressions into clean-AST nodes.
// Convert is not a rewrite pass: every input form must already be a
// kernel form, and the output union equals the declared kernel
// vocabulary. Malformed special forms fail with ValidationError.
func Convert(forms []sexp.Node) ([]Node, error) {
	out := make([]Node, 0, len(forms))
	for _, f := range forms {
		n, err := convertNode(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func convertNode(n sexp.Node) (Node, error) {
	switch x := n.(type) {
	case *sexp.Literal:
		return &Lit{Val: x}, nil
	case *sexp.Symbol:
		return &Ref{Name: x.Name, Sp: x.Sp}, nil
	case *sexp.Vector:
		elems, err := convertSlice(x.Elems)
		if err != nil {
			return nil, err
		}
		return &VectorLit{Elems: elems, Sp: x.Sp}, nil
	case *sexp.Set:
		elems, err := convertSlice(x.Elems)
		if err != nil {
			return nil, err
		}
		return &SetLit{Elems: elems, Sp: x.Sp}, nil
	case *sexp.Map:
		entries := make([]Entry, len(x.Pairs))
		for i, p := range x.Pairs {
			k, err := convertNode(p.Key)
			if err != nil {
				return nil, err
			}
			v, err := convertNode(p.Val)
			if err != nil {
				return nil, err
			}
			entries[i] = Entry{Key: k, Val: v}
		}
		return &MapLit{Entries: entries, Sp: x.Sp}, nil
	case *sexp.List:
		return convertList(x)
	}
	return nil, &diag.ValidationError{Msg: fmt.Sprintf("unexpected node %T", n)}
}

func convertList(l *sexp.List) (Node, error) {
	if len(l.Elems) == 0 {
		// () is the empty collection
		return &VectorLit{Sp: l.Sp}, nil
	}

	switch sexp.Head(l) {
	case "fn":
		return convertFn(l)
	case "if":
		return convertIf(l)
	case "def":
		return convertDef(l)
	case "do":
		body, err := convertSlice(l.Elems[1:])
		if err != nil {
			return nil, err
		}
		return &Do{Body: body, Sp: l.Sp}, nil
	case "quote":
		if len(l.Elems) != 2 {
			return nil, &diag.ValidationError{Msg: "quote expects one form", Span: l.Sp}
		}
		return &Quote{Datum: l.Elems[1], Sp: l.Sp}, nil
	case "vector":
		elems, err := convertSlice(l.Elems[1:])
		if err != nil {
			return nil, err
		}
		return &VectorLit{Elems: elems, Sp: l.Sp}, nil
	case "hash-set":
		elems, err := convertSlice(l.Elems[1:])
		if err != nil {
			return nil, err
		}
		return &SetLit{Elems: elems, Sp: l.Sp}, nil
	case "hash-map":
		items := l.Elems[1:]
		if len(items)%2 != 0 {
			return nil, &diag.ValidationError{Msg: "hash-map expects key/value pairs", Span: l.Sp}
		}
		entries := make([]Entry, 0, len(items)/2)
		for i := 0; i < len(items); i += 2 {
			k, err := convertNode(items[i])
			if err != nil {
				return nil, err
			}
			v, err := convertNode(items[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: k, Val: v})
		}
		return &MapLit{Entries: entries, Sp: l.Sp}, nil
	case "import":
		return convertImport(l)
	case "export":
		return convertExport(l)
	case "unquote", "unquote-splicing":
		return nil, &diag.ValidationError{Msg: sexp.Head(l) + " outside quasiquote", Span: l.Sp}
	}

	callee, err := convertNode(l.Elems[0])
	if err != nil {
		return nil, err
	}
	args, err := convertSlice(l.Elems[1:])
	if err != nil {
		return nil, err
	}
	return &Call{Callee: callee, Args: args, Sp: l.Sp}, nil
}

func convertFn(l *sexp.List) (Node, error) {
	if len(l.Elems) < 3 {
		return nil, &diag.ValidationError{Msg: "fn expects a parameter vector and a body", Span: l.Sp}
	}
	paramVec, ok := l.Elems[1].(*sexp.Vector)
	if !ok {
		return nil, &diag.ValidationError{Msg: "fn parameters must be a vector", Span: l.Elems[1].Span()}
	}

	var params []string
	rest := ""
	sawAmp := false
	for _, p := range paramVec.Elems {
		s, ok := p.(*sexp.Symbol)
		if !ok {
			return nil, &diag.ValidationError{Msg: "fn parameters must be symbols", Span: p.Span()}
		}
		switch {
		case s.Name == "&":
			sawAmp = true
		case sawAmp && rest == "":
			rest = s.Name
		case sawAmp:
			return nil, &diag.ValidationError{Msg: "only one rest parameter allowed after &", Span: s.Sp}
		default:
			params = append(params, s.Name)
		}
	}
	if sawAmp && rest == "" {
		return nil, &diag.ValidationError{Msg: "missing rest parameter name after &", Span: paramVec.Sp}
	}

	body, err := convertSlice(l.Elems[2:])
	if err != nil {
		return nil, err
	}
	return &Fn{Params: params, Rest: rest, Body: body, Sp: l.Sp}, nil
}

func convertIf(l *sexp.List) (Node, error) {
	if len(l.Elems) != 3 && len(l.Elems) != 4 {
		return nil, &diag.ValidationError{Msg: "if expects a condition, a then form and an optional else form", Span: l.Sp}
	}
	cond, err := convertNode(l.Elems[1])
	if err != nil {
		return nil, err
	}
	then, err := convertNode(l.Elems[2])
	if err != nil {
		return nil, err
	}
	var els Node
	if len(l.Elems) == 4 {
		els, err = convertNode(l.Elems[3])
		if err != nil {
			return nil, err
		}
	}
	return &If{Cond: cond, Then: then, Else: els, Sp: l.Sp}, nil
}

// convertDef accepts (def name expr) and the typed-hint form
// (def (: name ty) expr).
func convertDef(l *sexp.List) (Node, error) {
	if len(l.Elems) != 3 {
		return nil, &diag.ValidationError{Msg: "def expects a name and a value", Span: l.Sp}
	}

	name := ""
	hint := ""
	switch target := l.Elems[1].(type) {
	case *sexp.Symbol:
		name = target.Name
	case *sexp.List:
		if sexp.Head(target) != ":" || len(target.Elems) != 3 {
			return nil, &diag.ValidationError{Msg: "def target must be a symbol or (: name type)", Span: target.Sp}
		}
		sym, ok := target.Elems[1].(*sexp.Symbol)
		if !ok {
			return nil, &diag.ValidationError{Msg: "def name must be a symbol", Span: target.Elems[1].Span()}
		}
		name = sym.Name
		switch ty := target.Elems[2].(type) {
		case *sexp.Symbol:
			hint = ty.Name
		case *sexp.Literal:
			if ty.Kind != sexp.LitString {
				return nil, &diag.ValidationError{Msg: "def type hint must be a symbol or string", Span: ty.Sp}
			}
			hint = ty.Str
		default:
			return nil, &diag.ValidationError{Msg: "def type hint must be a symbol or string", Span: target.Sp}
		}
	default:
		return nil, &diag.ValidationError{Msg: "def target must be a symbol or (: name type)", Span: l.Sp}
	}

	value, err := convertNode(l.Elems[2])
	if err != nil {
		return nil, err
	}
	return &Def{Name: name, TypeHint: hint, Value: value, Sp: l.Sp}, nil
}

// convertImport accepts (import [names...] "spec") and
// (import default "spec").
func convertImport(l *sexp.List) (Node, error) {
	if len(l.Elems) != 3 {
		return nil, &diag.ValidationError{Msg: "import expects a binding form and a specifier", Span: l.Sp}
	}
	spec, ok := l.Elems[2].(*sexp.Literal)
	if !ok || spec.Kind != sexp.LitString {
		return nil, &diag.ValidationError{Msg: "import specifier must be a string", Span: l.Elems[2].Span()}
	}

	imp := &Import{Specifier: spec.Str, Sp: l.Sp}
	switch target := l.Elems[1].(type) {
	case *sexp.Vector:
		for _, e := range target.Elems {
			s, ok := e.(*sexp.Symbol)
			if !ok {
				return nil, &diag.ValidationError{Msg: "import names must be symbols", Span: e.Span()}
			}
			imp.Names = append(imp.Names, s.Name)
		}
	case *sexp.Symbol:
		imp.Default = target.Name
	default:
		return nil, &diag.ValidationError{Msg: "import binding must be a vector of names or a symbol", Span: l.Elems[1].Span()}
	}
	return imp, nil
}

// convertExport accepts (export [f g]) and (export "name" local).
func convertExport(l *sexp.List) (Node, error) {
	switch len(l.Elems) {
	case 2:
		vec, ok := l.Elems[1].(*sexp.Vector)
		if !ok {
			return nil, &diag.ValidationError{Msg: "export expects a vector of names", Span: l.Elems[1].Span()}
		}
		exp := &Export{Sp: l.Sp}
		for _, e := range vec.Elems {
			s, ok := e.(*sexp.Symbol)
			if !ok {
				return nil, &diag.ValidationError{Msg: "export names must be symbols", Span: e.Span()}
			}
			exp.Specs = append(exp.Specs, ExportSpec{Local: s.Name, Exported: s.Name})
		}
		return exp, nil
	case 3:
		name, ok := l.Elems[1].(*sexp.Literal)
		if !ok || name.Kind != sexp.LitString {
			return nil, &diag.ValidationError{Msg: "exported name must be a string", Span: l.Elems[1].Span()}
		}
		local, ok := l.Elems[2].(*sexp.Symbol)
		if !ok {
			return nil, &diag.ValidationError{Msg: "export target must be a symbol", Span: l.Elems[2].Span()}
		}
		return &Export{
			Specs: []ExportSpec{{Local: local.Name, Exported: name.Str}},
			Sp:    l.Sp,
		}, nil
	default:
		return nil, &diag.ValidationError{Msg: "malformed export form", Span: l.Sp}
	}
}

func convertSlice(elems []sexp.Node) ([]Node, error) {
	out := make([]Node, len(elems))
	for i, e := range elems {
		n, err := convertNode(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
