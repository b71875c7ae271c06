package sexp

// Equal reports structural equality of two trees, ignoring spans.
// It is the backbone of the rewrite-stage tests: a pass is a no-op iff
// its output is Equal to its input.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x.Name == y.Name
	case *Literal:
		y, ok := b.(*Literal)
		if !ok || x.Kind != y.Kind {
			return false
		}
		switch x.Kind {
		case LitNil:
			return true
		case LitBool:
			return x.Bool == y.Bool
		case LitInt:
			return x.Int == y.Int
		case LitFloat:
			return x.Float == y.Float
		case LitString:
			return x.Str == y.Str
		}
		return false
	case *List:
		y, ok := b.(*List)
		return ok && equalSlice(x.Elems, y.Elems)
	case *Vector:
		y, ok := b.(*Vector)
		return ok && equalSlice(x.Elems, y.Elems)
	case *Set:
		y, ok := b.(*Set)
		return ok && equalSlice(x.Elems, y.Elems)
	case *Map:
		y, ok := b.(*Map)
		if !ok || len(x.Pairs) != len(y.Pairs) {
			return false
		}
		for i := range x.Pairs {
			if !Equal(x.Pairs[i].Key, y.Pairs[i].Key) || !Equal(x.Pairs[i].Val, y.Pairs[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlice(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualSlices reports structural equality of two top-level form sequences.
func EqualSlices(a, b []Node) bool {
	return equalSlice(a, b)
}
