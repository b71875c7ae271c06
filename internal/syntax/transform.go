// Package syntax desugars reader-level shorthand into canonical list
// forms before macro expansion.
//
// Three rewrites happen here: dotted member access (a.b.c and numeric
// index segments), method-call sugar ((.push xs 1)), and collection
// literal shorthand ([..] {..} #[..] into vector/hash-map/hash-set
// constructor calls). The pass is idempotent: canonical forms are fixed
// points, so running it twice is a no-op. It never consults macro
// definitions.
package syntax

import (
	"strconv"
	"strings"

	"lilt/internal/sexp"
)

// paramVectorAt maps special-form heads to the argument position whose
// vector is a binding/name list, not a collection literal.
var paramVectorAt = map[string]int{
	"fn":       1,
	"defn":     2,
	"defmacro": 2,
	"let":      1,
	"import":   1,
	"export":   1,
}

// Transform rewrites every top-level form. Input trees are not mutated.
func Transform(forms []sexp.Node) []sexp.Node {
	out := make([]sexp.Node, len(forms))
	for i, f := range forms {
		out[i] = transformNode(f)
	}
	return out
}

func transformNode(n sexp.Node) sexp.Node {
	switch x := n.(type) {
	case *sexp.Symbol:
		return expandDotted(x)
	case *sexp.Literal:
		return x
	case *sexp.List:
		return transformList(x)
	case *sexp.Vector:
		elems := []sexp.Node{&sexp.Symbol{Name: "vector", Sp: x.Sp}}
		for _, e := range x.Elems {
			elems = append(elems, transformNode(e))
		}
		return &sexp.List{Elems: elems, Sp: x.Sp}
	case *sexp.Set:
		elems := []sexp.Node{&sexp.Symbol{Name: "hash-set", Sp: x.Sp}}
		for _, e := range x.Elems {
			elems = append(elems, transformNode(e))
		}
		return &sexp.List{Elems: elems, Sp: x.Sp}
	case *sexp.Map:
		elems := []sexp.Node{&sexp.Symbol{Name: "hash-map", Sp: x.Sp}}
		for _, p := range x.Pairs {
			elems = append(elems, transformNode(p.Key), transformNode(p.Val))
		}
		return &sexp.List{Elems: elems, Sp: x.Sp}
	}
	return n
}

func transformList(l *sexp.List) sexp.Node {
	if len(l.Elems) == 0 {
		return l
	}

	head := sexp.Head(l)

	// quoted data is left exactly as written
	if head == "quote" {
		return l
	}

	// (.method obj args...) -> ((js-get obj "method") args...)
	if headSym, ok := l.Elems[0].(*sexp.Symbol); ok {
		if strings.HasPrefix(headSym.Name, ".") && len(headSym.Name) > 1 && len(l.Elems) >= 2 {
			obj := transformNode(l.Elems[1])
			access := &sexp.List{
				Elems: []sexp.Node{
					&sexp.Symbol{Name: "js-get", Sp: headSym.Sp},
					obj,
					&sexp.Literal{Kind: sexp.LitString, Str: headSym.Name[1:], Sp: headSym.Sp},
				},
				Sp: l.Sp,
			}
			out := []sexp.Node{access}
			for _, a := range l.Elems[2:] {
				out = append(out, transformNode(a))
			}
			return &sexp.List{Elems: out, Sp: l.Sp}
		}
	}

	skip := -1
	if pos, ok := paramVectorAt[head]; ok {
		skip = pos
	}

	out := make([]sexp.Node, len(l.Elems))
	for i, e := range l.Elems {
		if i == skip {
			out[i] = e
			continue
		}
		out[i] = transformNode(e)
	}
	return &sexp.List{Elems: out, Sp: l.Sp}
}

// expandDotted rewrites a.b.c into nested (js-get a "b") access chains.
// Numeric segments become element access: xs.0 -> (js-get xs 0).
// Symbols with a leading or trailing dot (or no dot at all) are left
// alone, so the output of this rewrite never re-triggers it.
func expandDotted(s *sexp.Symbol) sexp.Node {
	name := s.Name
	if !strings.Contains(name, ".") ||
		strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return s
	}
	parts := strings.Split(name, ".")
	for _, p := range parts {
		if p == "" {
			return s
		}
	}

	var node sexp.Node = &sexp.Symbol{Name: parts[0], Sp: s.Sp}
	for _, part := range parts[1:] {
		var key sexp.Node
		if idx, err := strconv.ParseInt(part, 10, 64); err == nil {
			key = &sexp.Literal{Kind: sexp.LitInt, Int: idx, Sp: s.Sp}
		} else {
			key = &sexp.Literal{Kind: sexp.LitString, Str: part, Sp: s.Sp}
		}
		node = &sexp.List{
			Elems: []sexp.Node{&sexp.Symbol{Name: "js-get", Sp: s.Sp}, node, key},
			Sp:    s.Sp,
		}
	}
	return node
}
