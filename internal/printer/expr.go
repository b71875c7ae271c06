package printer

import (
	"fmt"

	"lilt/internal/diag"
	"lilt/internal/jsast"
)

// Binding strengths, weakest first. A child expression is parenthesized
// when its own strength is below what its position requires.
const (
	precLowest = iota
	precAssign
	precCond
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precCall
	precPrimary
)

func binPrec(op string) int {
	switch op {
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "===", "!==":
		return precEquality
	case "<", "<=", ">", ">=":
		return precRelational
	case "+", "-":
		return precAdditive
	case "*", "/", "%":
		return precMultiplicative
	}
	return precLowest
}

func exprPrec(e jsast.Expr) int {
	switch x := e.(type) {
	case *jsast.AssignExpr:
		return precAssign
	case *jsast.CondExpr:
		return precCond
	case *jsast.BinaryExpr:
		return binPrec(x.Op)
	case *jsast.UnaryExpr:
		return precUnary
	case *jsast.ArrowExpr, *jsast.FuncExpr:
		return precAssign
	case *jsast.CallExpr, *jsast.NewExpr, *jsast.MemberExpr:
		return precCall
	}
	return precPrimary
}

func (p *printer) expr(e jsast.Expr, min int) error {
	if exprPrec(e) < min {
		p.b.WriteByte('(')
		if err := p.exprInner(e); err != nil {
			return err
		}
		p.b.WriteByte(')')
		return nil
	}
	return p.exprInner(e)
}

func (p *printer) exprInner(e jsast.Expr) error {
	switch x := e.(type) {
	case *jsast.Ident:
		p.b.WriteString(x.Name)
	case *jsast.StringLit:
		p.b.WriteString(quote(x.Value))
	case *jsast.NumberLit:
		p.b.WriteString(x.Text)
	case *jsast.BoolLit:
		if x.Value {
			p.b.WriteString("true")
		} else {
			p.b.WriteString("false")
		}
	case *jsast.NullLit:
		p.b.WriteString("null")
	case *jsast.ArrayLit:
		p.b.WriteByte('[')
		for i, el := range x.Elems {
			if i > 0 {
				p.b.WriteString(", ")
			}
			if err := p.expr(el, precAssign); err != nil {
				return err
			}
		}
		p.b.WriteByte(']')
	case *jsast.ObjectLit:
		return p.objectLit(x)
	case *jsast.NewExpr:
		p.b.WriteString("new ")
		if err := p.expr(x.Callee, precCall); err != nil {
			return err
		}
		return p.argList(x.Args, false)
	case *jsast.CallExpr:
		if err := p.expr(x.Callee, precCall); err != nil {
			return err
		}
		return p.argList(x.Args, x.Spread)
	case *jsast.MemberExpr:
		if err := p.expr(x.Obj, precCall); err != nil {
			return err
		}
		if x.Computed {
			p.b.WriteByte('[')
			if err := p.expr(x.Key, precLowest); err != nil {
				return err
			}
			p.b.WriteByte(']')
			return nil
		}
		p.b.WriteByte('.')
		p.b.WriteString(x.Prop)
	case *jsast.BinaryExpr:
		prec := binPrec(x.Op)
		if err := p.expr(x.L, prec); err != nil {
			return err
		}
		p.b.WriteByte(' ')
		p.b.WriteString(x.Op)
		p.b.WriteByte(' ')
		return p.expr(x.R, prec+1)
	case *jsast.UnaryExpr:
		p.b.WriteString(x.Op)
		return p.expr(x.X, precUnary)
	case *jsast.CondExpr:
		if err := p.expr(x.Cond, precOr); err != nil {
			return err
		}
		p.b.WriteString(" ? ")
		if err := p.expr(x.Then, precAssign); err != nil {
			return err
		}
		p.b.WriteString(" : ")
		return p.expr(x.Else, precAssign)
	case *jsast.FuncExpr:
		p.b.WriteString("function ")
		if err := p.paramList(x.Params); err != nil {
			return err
		}
		p.b.WriteByte(' ')
		return p.block(x.Body, p.depth)
	case *jsast.ArrowExpr:
		if err := p.paramList(x.Params); err != nil {
			return err
		}
		p.b.WriteString(" => ")
		// an object-literal arrow body would parse as a block
		if _, ok := x.X.(*jsast.ObjectLit); ok {
			p.b.WriteByte('(')
			if err := p.exprInner(x.X); err != nil {
				return err
			}
			p.b.WriteByte(')')
			return nil
		}
		return p.expr(x.X, precAssign)
	case *jsast.AssignExpr:
		if err := p.expr(x.Target, precCall); err != nil {
			return err
		}
		p.b.WriteString(" = ")
		return p.expr(x.Value, precAssign)
	default:
		return &diag.CodeGenError{NodeType: fmt.Sprintf("%T", e)}
	}
	return nil
}

func (p *printer) argList(args []jsast.Expr, spread bool) error {
	p.b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			p.b.WriteString(", ")
		}
		if spread && i == len(args)-1 {
			p.b.WriteString("...")
		}
		if err := p.expr(a, precAssign); err != nil {
			return err
		}
	}
	p.b.WriteByte(')')
	return nil
}

// objectLit renders small objects inline; more than two properties break
// across lines unless formatting is minimal.
func (p *printer) objectLit(x *jsast.ObjectLit) error {
	if len(x.Props) == 0 {
		p.b.WriteString("{}")
		return nil
	}
	multi := len(x.Props) > 2 && p.opts.Formatting != FormatMinimal

	p.b.WriteByte('{')
	for i, prop := range x.Props {
		if multi {
			p.b.WriteByte('\n')
			p.indent(p.depth + 1)
		} else {
			if i > 0 {
				p.b.WriteByte(',')
			}
			p.b.WriteByte(' ')
		}
		if err := p.propKey(prop.Key); err != nil {
			return err
		}
		p.b.WriteString(": ")
		if err := p.expr(prop.Value, precAssign); err != nil {
			return err
		}
		if multi {
			p.b.WriteByte(',')
		}
	}
	if multi {
		p.b.WriteByte('\n')
		p.indent(p.depth)
	} else {
		p.b.WriteByte(' ')
	}
	p.b.WriteByte('}')
	return nil
}

// propKey renders a string key as a bare identifier when it is one, and
// any non-literal key as a computed key.
func (p *printer) propKey(key jsast.Expr) error {
	switch k := key.(type) {
	case *jsast.StringLit:
		if validProperty(k.Value) {
			p.b.WriteString(k.Value)
			return nil
		}
		p.b.WriteString(quote(k.Value))
		return nil
	case *jsast.NumberLit:
		p.b.WriteString(k.Text)
		return nil
	default:
		p.b.WriteByte('[')
		if err := p.expr(key, precAssign); err != nil {
			return err
		}
		p.b.WriteByte(']')
		return nil
	}
}
