package pipeline

import (
	"strconv"

	"lilt/internal/kernel"
	"lilt/internal/sexp"
)

// constVal is a statically known value produced by folding literal-only
// expressions. The interactive session uses it to report results without
// running any generated code.
type constVal struct {
	kind sexp.LitKind
	i    int64
	f    float64
	b    bool
	s    string
}

func (v constVal) String() string {
	switch v.kind {
	case sexp.LitNil:
		return "nil"
	case sexp.LitBool:
		return strconv.FormatBool(v.b)
	case sexp.LitInt:
		return strconv.FormatInt(v.i, 10)
	case sexp.LitFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case sexp.LitString:
		return strconv.Quote(v.s)
	}
	return ""
}

func (v constVal) truthy() bool {
	return !(v.kind == sexp.LitNil || (v.kind == sexp.LitBool && !v.b))
}

func (v constVal) asFloat() float64 {
	if v.kind == sexp.LitInt {
		return float64(v.i)
	}
	return v.f
}

func (v constVal) numeric() bool {
	return v.kind == sexp.LitInt || v.kind == sexp.LitFloat
}

// fold evaluates n statically when it consists only of literals,
// references to constant session bindings, operators and conditionals.
func (s *Session) fold(n kernel.Node) (constVal, bool) {
	switch x := n.(type) {
	case *kernel.Lit:
		return litVal(x.Val)
	case *kernel.Ref:
		v, ok := s.consts[x.Name]
		return v, ok
	case *kernel.Def:
		return s.fold(x.Value)
	case *kernel.If:
		cond, ok := s.fold(x.Cond)
		if !ok {
			return constVal{}, false
		}
		if cond.truthy() {
			return s.fold(x.Then)
		}
		if x.Else == nil {
			return constVal{kind: sexp.LitNil}, true
		}
		return s.fold(x.Else)
	case *kernel.Do:
		if len(x.Body) == 0 {
			return constVal{kind: sexp.LitNil}, true
		}
		return s.fold(x.Body[len(x.Body)-1])
	case *kernel.Call:
		return s.foldCall(x)
	}
	return constVal{}, false
}

func (s *Session) foldCall(call *kernel.Call) (constVal, bool) {
	ref, ok := call.Callee.(*kernel.Ref)
	if !ok {
		return constVal{}, false
	}
	args := make([]constVal, len(call.Args))
	for i, a := range call.Args {
		v, ok := s.fold(a)
		if !ok {
			return constVal{}, false
		}
		args[i] = v
	}

	switch ref.Name {
	case "+", "-", "*", "/", "%":
		return foldArith(ref.Name, args)
	case "<", "<=", ">", ">=":
		return foldCompare(ref.Name, args)
	case "=", "not=":
		if len(args) != 2 {
			return constVal{}, false
		}
		eq := args[0] == args[1]
		if ref.Name == "not=" {
			eq = !eq
		}
		return constVal{kind: sexp.LitBool, b: eq}, true
	case "not":
		if len(args) != 1 {
			return constVal{}, false
		}
		return constVal{kind: sexp.LitBool, b: !args[0].truthy()}, true
	case "and":
		if len(args) == 0 {
			return constVal{}, false
		}
		for _, a := range args {
			if !a.truthy() {
				return a, true
			}
		}
		return args[len(args)-1], true
	case "or":
		if len(args) == 0 {
			return constVal{}, false
		}
		for _, a := range args {
			if a.truthy() {
				return a, true
			}
		}
		return args[len(args)-1], true
	}
	return constVal{}, false
}

func foldArith(op string, args []constVal) (constVal, bool) {
	if op == "+" && len(args) > 0 && args[0].kind == sexp.LitString {
		// string concatenation
		out := ""
		for _, a := range args {
			if a.kind != sexp.LitString {
				return constVal{}, false
			}
			out += a.s
		}
		return constVal{kind: sexp.LitString, s: out}, true
	}

	if len(args) == 1 && op == "-" {
		if args[0].kind == sexp.LitInt {
			return constVal{kind: sexp.LitInt, i: -args[0].i}, true
		}
		if args[0].kind == sexp.LitFloat {
			return constVal{kind: sexp.LitFloat, f: -args[0].f}, true
		}
		return constVal{}, false
	}
	if len(args) < 2 {
		return constVal{}, false
	}

	allInt := true
	for _, a := range args {
		if !a.numeric() {
			return constVal{}, false
		}
		if a.kind != sexp.LitInt {
			allInt = false
		}
	}

	// division and any float operand compute in floating point
	if allInt && op != "/" {
		acc := args[0].i
		for _, a := range args[1:] {
			switch op {
			case "+":
				acc += a.i
			case "-":
				acc -= a.i
			case "*":
				acc *= a.i
			case "%":
				if a.i == 0 {
					return constVal{}, false
				}
				acc %= a.i
			}
		}
		return constVal{kind: sexp.LitInt, i: acc}, true
	}

	acc := args[0].asFloat()
	for _, a := range args[1:] {
		switch op {
		case "+":
			acc += a.asFloat()
		case "-":
			acc -= a.asFloat()
		case "*":
			acc *= a.asFloat()
		case "/":
			if a.asFloat() == 0 {
				return constVal{}, false
			}
			acc /= a.asFloat()
		case "%":
			return constVal{}, false
		}
	}
	if acc == float64(int64(acc)) && op == "/" {
		return constVal{kind: sexp.LitInt, i: int64(acc)}, true
	}
	return constVal{kind: sexp.LitFloat, f: acc}, true
}

func foldCompare(op string, args []constVal) (constVal, bool) {
	if len(args) < 2 {
		return constVal{}, false
	}
	for _, a := range args {
		if !a.numeric() {
			return constVal{}, false
		}
	}
	out := true
	for i := 0; i < len(args)-1; i++ {
		l, r := args[i].asFloat(), args[i+1].asFloat()
		switch op {
		case "<":
			out = out && l < r
		case "<=":
			out = out && l <= r
		case ">":
			out = out && l > r
		case ">=":
			out = out && l >= r
		}
	}
	return constVal{kind: sexp.LitBool, b: out}, true
}

func litVal(l *sexp.Literal) (constVal, bool) {
	switch l.Kind {
	case sexp.LitNil:
		return constVal{kind: sexp.LitNil}, true
	case sexp.LitBool:
		return constVal{kind: sexp.LitBool, b: l.Bool}, true
	case sexp.LitInt:
		return constVal{kind: sexp.LitInt, i: l.Int}, true
	case sexp.LitFloat:
		return constVal{kind: sexp.LitFloat, f: l.Float}, true
	case sexp.LitString:
		return constVal{kind: sexp.LitString, s: l.Str}, true
	}
	return constVal{}, false
}
