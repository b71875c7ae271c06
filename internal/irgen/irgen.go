// Package irgen lowers the clean AST into the output-language AST.
//
// The generator tracks expression versus statement context: a
// conditional becomes a ternary in expression position and an if/else
// in statement position, and the last form of a function body is
// wrapped in a return statement unless it already is a declaration.
package irgen

import (
	"strconv"

	"lilt/internal/diag"
	"lilt/internal/jsast"
	"lilt/internal/kernel"
	"lilt/internal/sexp"
)

// TruthyHelper is the one runtime helper the generator may emit: Lilt
// truthiness (only false and nil are falsy) differs from the output
// language's.
const TruthyHelper = "__lilt_truthy"

// Options controls lowering.
type Options struct {
	BaseDir string
	// REPLMode emits re-assignable top-level bindings so an interactive
	// session can redefine names across inputs.
	REPLMode bool
	// NoPrelude suppresses re-declaration of the runtime helpers; the
	// REPL session sets it once the helpers have been emitted.
	NoPrelude bool
}

type generator struct {
	opts       Options
	needTruthy bool
}

// Transform lowers a module's clean-AST forms into one output program.
func Transform(nodes []kernel.Node, opts Options) (*jsast.Program, error) {
	g := &generator{opts: opts}
	prog := &jsast.Program{}

	var stmts []jsast.Stmt
	for _, n := range nodes {
		switch x := n.(type) {
		case *kernel.Import:
			prog.Imports = append(prog.Imports, g.importDecl(x))
		case *kernel.Export:
			stmts = append(stmts, g.exportDecl(x))
		default:
			s, err := g.genStmt(n)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
	}

	if g.needTruthy && !opts.NoPrelude {
		prog.Stmts = append(prog.Stmts, truthyPrelude())
	}
	prog.Stmts = append(prog.Stmts, stmts...)
	return prog, nil
}

// truthyPrelude declares the truthiness helper.
func truthyPrelude() jsast.Stmt {
	v := "v"
	return &jsast.VarStmt{
		Kind: jsast.DeclConst,
		Name: TruthyHelper,
		Init: &jsast.ArrowExpr{
			Params: []jsast.Param{{Name: v}},
			X: &jsast.BinaryExpr{
				Op: "&&",
				L: &jsast.BinaryExpr{
					Op: "!==",
					L:  &jsast.Ident{Name: v},
					R:  &jsast.BoolLit{Value: false},
				},
				R: &jsast.BinaryExpr{
					Op: "!==",
					L:  &jsast.Ident{Name: v},
					R:  &jsast.NullLit{},
				},
			},
		},
	}
}

func (g *generator) importDecl(imp *kernel.Import) *jsast.ImportDecl {
	decl := &jsast.ImportDecl{From: imp.Specifier}
	if imp.Default != "" {
		decl.Default = Mangle(imp.Default)
	}
	for _, n := range imp.Names {
		decl.Names = append(decl.Names, jsast.ImportName{Name: Mangle(n)})
	}
	return decl
}

func (g *generator) exportDecl(exp *kernel.Export) jsast.Stmt {
	decl := &jsast.ExportDecl{}
	for _, s := range exp.Specs {
		decl.Names = append(decl.Names, jsast.ExportName{
			Local:    Mangle(s.Local),
			Exported: Mangle(s.Exported),
		})
	}
	return decl
}

// genStmt lowers a node in statement position.
func (g *generator) genStmt(n kernel.Node) (jsast.Stmt, error) {
	switch x := n.(type) {
	case *kernel.Def:
		value, err := g.genExpr(x.Value)
		if err != nil {
			return nil, err
		}
		if g.opts.REPLMode {
			// re-assignable binding for interactive redefinition
			return &jsast.ExprStmt{X: &jsast.AssignExpr{
				Target: &jsast.MemberExpr{Obj: &jsast.Ident{Name: "globalThis"}, Prop: Mangle(x.Name)},
				Value:  value,
			}}, nil
		}
		return &jsast.VarStmt{
			Kind: jsast.DeclConst,
			Name: Mangle(x.Name),
			Type: x.TypeHint,
			Init: value,
		}, nil
	case *kernel.If:
		cond, err := g.genCond(x.Cond)
		if err != nil {
			return nil, err
		}
		thenStmt, err := g.genStmt(x.Then)
		if err != nil {
			return nil, err
		}
		out := &jsast.IfStmt{Cond: cond, Then: blockOf(thenStmt)}
		if x.Else != nil {
			elseStmt, err := g.genStmt(x.Else)
			if err != nil {
				return nil, err
			}
			out.Else = blockOf(elseStmt)
		}
		return out, nil
	case *kernel.Do:
		block := &jsast.Block{}
		for _, b := range x.Body {
			s, err := g.genStmt(b)
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, s)
		}
		return block, nil
	case *kernel.Import, *kernel.Export:
		return nil, &diag.TransformError{
			NodeType: nodeTypeName(n),
			Msg:      "declaration not allowed in nested position",
			Span:     n.Span(),
		}
	default:
		expr, err := g.genExpr(n)
		if err != nil {
			return nil, err
		}
		return &jsast.ExprStmt{X: expr}, nil
	}
}

func blockOf(s jsast.Stmt) *jsast.Block {
	if b, ok := s.(*jsast.Block); ok {
		return b
	}
	return &jsast.Block{Stmts: []jsast.Stmt{s}}
}

// genBody lowers a function body; the last form becomes the return value
// unless it is a definition, in which case its bound name is returned.
func (g *generator) genBody(body []kernel.Node) (*jsast.Block, error) {
	block := &jsast.Block{}
	for i, n := range body {
		last := i == len(body)-1
		if !last {
			s, err := g.genStmt(n)
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, s)
			continue
		}
		ret, err := g.genTail(n)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, ret...)
	}
	return block, nil
}

// genTail lowers the final form of a function body.
func (g *generator) genTail(n kernel.Node) ([]jsast.Stmt, error) {
	switch x := n.(type) {
	case *kernel.Def:
		s, err := g.genStmt(x)
		if err != nil {
			return nil, err
		}
		return []jsast.Stmt{s, &jsast.ReturnStmt{X: &jsast.Ident{Name: Mangle(x.Name)}}}, nil
	case *kernel.Do:
		if len(x.Body) == 0 {
			return []jsast.Stmt{&jsast.ReturnStmt{X: &jsast.NullLit{}}}, nil
		}
		var out []jsast.Stmt
		for _, b := range x.Body[:len(x.Body)-1] {
			s, err := g.genStmt(b)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		tail, err := g.genTail(x.Body[len(x.Body)-1])
		if err != nil {
			return nil, err
		}
		return append(out, tail...), nil
	default:
		expr, err := g.genExpr(n)
		if err != nil {
			return nil, err
		}
		return []jsast.Stmt{&jsast.ReturnStmt{X: expr}}, nil
	}
}

// genExpr lowers a node in expression position.
func (g *generator) genExpr(n kernel.Node) (jsast.Expr, error) {
	switch x := n.(type) {
	case *kernel.Lit:
		return litExpr(x.Val), nil
	case *kernel.Ref:
		return &jsast.Ident{Name: Mangle(x.Name)}, nil
	case *kernel.Fn:
		body, err := g.genBody(x.Body)
		if err != nil {
			return nil, err
		}
		return &jsast.FuncExpr{Params: params(x), Body: body}, nil
	case *kernel.If:
		cond, err := g.genCond(x.Cond)
		if err != nil {
			return nil, err
		}
		then, err := g.genExpr(x.Then)
		if err != nil {
			return nil, err
		}
		var els jsast.Expr = &jsast.NullLit{}
		if x.Else != nil {
			els, err = g.genExpr(x.Else)
			if err != nil {
				return nil, err
			}
		}
		return &jsast.CondExpr{Cond: cond, Then: then, Else: els}, nil
	case *kernel.Do:
		// expression-position do becomes an immediately invoked function
		body, err := g.genBody(x.Body)
		if err != nil {
			return nil, err
		}
		return &jsast.CallExpr{Callee: &jsast.FuncExpr{Body: body}}, nil
	case *kernel.Quote:
		return quoteExpr(x.Datum), nil
	case *kernel.VectorLit:
		elems, err := g.genExprs(x.Elems)
		if err != nil {
			return nil, err
		}
		return &jsast.ArrayLit{Elems: elems}, nil
	case *kernel.SetLit:
		elems, err := g.genExprs(x.Elems)
		if err != nil {
			return nil, err
		}
		return &jsast.NewExpr{
			Callee: &jsast.Ident{Name: "Set"},
			Args:   []jsast.Expr{&jsast.ArrayLit{Elems: elems}},
		}, nil
	case *kernel.MapLit:
		props := make([]jsast.Prop, len(x.Entries))
		for i, e := range x.Entries {
			k, err := g.genExpr(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := g.genExpr(e.Val)
			if err != nil {
				return nil, err
			}
			props[i] = jsast.Prop{Key: k, Value: v}
		}
		return &jsast.ObjectLit{Props: props}, nil
	case *kernel.Call:
		return g.genCall(x)
	case *kernel.Def:
		return nil, &diag.TransformError{
			NodeType: "Def",
			Msg:      "definition not allowed in expression position",
			Span:     x.Sp,
		}
	}
	// unreachable while the converter's closure invariant holds
	return nil, &diag.TransformError{NodeType: nodeTypeName(n), Span: n.Span()}
}

func (g *generator) genExprs(nodes []kernel.Node) ([]jsast.Expr, error) {
	out := make([]jsast.Expr, len(nodes))
	for i, n := range nodes {
		e, err := g.genExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// genCond lowers a condition, wrapping it in the truthiness helper
// unless it already yields a boolean.
func (g *generator) genCond(n kernel.Node) (jsast.Expr, error) {
	expr, err := g.genExpr(n)
	if err != nil {
		return nil, err
	}
	if isBooleanExpr(expr) {
		return expr, nil
	}
	g.needTruthy = true
	return &jsast.CallExpr{
		Callee: &jsast.Ident{Name: TruthyHelper},
		Args:   []jsast.Expr{expr},
	}, nil
}

func isBooleanExpr(e jsast.Expr) bool {
	switch x := e.(type) {
	case *jsast.BoolLit:
		return true
	case *jsast.UnaryExpr:
		return x.Op == "!"
	case *jsast.BinaryExpr:
		switch x.Op {
		case "===", "!==", "<", "<=", ">", ">=":
			return true
		case "&&", "||":
			return isBooleanExpr(x.L) && isBooleanExpr(x.R)
		}
	}
	return false
}

func params(fn *kernel.Fn) []jsast.Param {
	out := make([]jsast.Param, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		out = append(out, jsast.Param{Name: Mangle(p)})
	}
	if fn.Rest != "" {
		out = append(out, jsast.Param{Name: Mangle(fn.Rest), Rest: true})
	}
	return out
}

func litExpr(l *sexp.Literal) jsast.Expr {
	switch l.Kind {
	case sexp.LitNil:
		return &jsast.NullLit{}
	case sexp.LitBool:
		return &jsast.BoolLit{Value: l.Bool}
	case sexp.LitInt:
		return &jsast.NumberLit{Text: strconv.FormatInt(l.Int, 10)}
	case sexp.LitFloat:
		return &jsast.NumberLit{Text: strconv.FormatFloat(l.Float, 'g', -1, 64)}
	case sexp.LitString:
		return &jsast.StringLit{Value: l.Str}
	}
	return &jsast.NullLit{}
}

// quoteExpr lowers quoted data: lists and vectors become array literals,
// maps become object literals, symbols become their names as strings.
func quoteExpr(datum sexp.Node) jsast.Expr {
	switch x := datum.(type) {
	case *sexp.Literal:
		return litExpr(x)
	case *sexp.Symbol:
		return &jsast.StringLit{Value: x.Name}
	case *sexp.List:
		return quoteSeq(x.Elems)
	case *sexp.Vector:
		return quoteSeq(x.Elems)
	case *sexp.Set:
		return &jsast.NewExpr{
			Callee: &jsast.Ident{Name: "Set"},
			Args:   []jsast.Expr{quoteSeq(x.Elems)},
		}
	case *sexp.Map:
		props := make([]jsast.Prop, len(x.Pairs))
		for i, p := range x.Pairs {
			props[i] = jsast.Prop{Key: quoteExpr(p.Key), Value: quoteExpr(p.Val)}
		}
		return &jsast.ObjectLit{Props: props}
	}
	return &jsast.NullLit{}
}

func quoteSeq(elems []sexp.Node) *jsast.ArrayLit {
	out := make([]jsast.Expr, len(elems))
	for i, e := range elems {
		out[i] = quoteExpr(e)
	}
	return &jsast.ArrayLit{Elems: out}
}

func nodeTypeName(n kernel.Node) string {
	switch n.(type) {
	case *kernel.Lit:
		return "Lit"
	case *kernel.Ref:
		return "Ref"
	case *kernel.Fn:
		return "Fn"
	case *kernel.If:
		return "If"
	case *kernel.Def:
		return "Def"
	case *kernel.Quote:
		return "Quote"
	case *kernel.VectorLit:
		return "VectorLit"
	case *kernel.MapLit:
		return "MapLit"
	case *kernel.SetLit:
		return "SetLit"
	case *kernel.Call:
		return "Call"
	case *kernel.Do:
		return "Do"
	case *kernel.Import:
		return "Import"
	case *kernel.Export:
		return "Export"
	}
	return "unknown"
}
