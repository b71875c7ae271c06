// Package printer renders the output-language AST to source text.
//
// Generation dispatches exhaustively over the node unions; an
// unrecognized node means the IR generator's closed-union invariant was
// broken upstream and surfaces as CodeGenError rather than silently
// emitting nothing.
package printer

import (
	"fmt"
	"strings"
	"unicode"

	"lilt/internal/diag"
	"lilt/internal/jsast"
)

// Target selects the output dialect.
type Target uint8

const (
	// TargetScripting emits plain untyped output; annotations are
	// stripped.
	TargetScripting Target = iota
	// TargetTyped emits type annotations where the AST carries them.
	TargetTyped
)

// Formatting selects output density.
type Formatting uint8

const (
	// FormatMinimal writes one statement per line with no indentation.
	FormatMinimal Formatting = iota
	// FormatStandard indents nested statements.
	FormatStandard
	// FormatPretty additionally separates top-level statements with
	// blank lines.
	FormatPretty
)

// Options controls rendering. The zero value is scripting output with
// minimal formatting and a two-space indent.
type Options struct {
	IndentSize int // 0 means 2
	UseTabs    bool
	Target     Target
	Formatting Formatting
}

// Generate renders a full program: imports first, then statements in
// order, each terminated per its kind.
func Generate(prog *jsast.Program, opts Options) (string, error) {
	p := &printer{opts: opts}
	if p.opts.IndentSize == 0 {
		p.opts.IndentSize = 2
	}

	for _, imp := range prog.Imports {
		if err := p.stmt(imp, 0); err != nil {
			return "", err
		}
		p.b.WriteByte('\n')
	}
	if len(prog.Imports) > 0 && len(prog.Stmts) > 0 {
		p.b.WriteByte('\n')
	}

	for i, s := range prog.Stmts {
		if i > 0 && opts.Formatting == FormatPretty {
			p.b.WriteByte('\n')
		}
		if err := p.stmt(s, 0); err != nil {
			return "", err
		}
		p.b.WriteByte('\n')
	}
	return p.b.String(), nil
}

// GenerateExpr renders a single expression with no terminator.
func GenerateExpr(e jsast.Expr, opts Options) (string, error) {
	p := &printer{opts: opts}
	if p.opts.IndentSize == 0 {
		p.opts.IndentSize = 2
	}
	if err := p.expr(e, precLowest); err != nil {
		return "", err
	}
	return p.b.String(), nil
}

type printer struct {
	b     strings.Builder
	opts  Options
	depth int // statement depth, for expression-level line breaks
}

func (p *printer) indent(depth int) {
	if p.opts.Formatting == FormatMinimal {
		return
	}
	if p.opts.UseTabs {
		p.b.WriteString(strings.Repeat("\t", depth))
		return
	}
	p.b.WriteString(strings.Repeat(" ", depth*p.opts.IndentSize))
}

func (p *printer) stmt(s jsast.Stmt, depth int) error {
	p.depth = depth
	p.indent(depth)
	switch x := s.(type) {
	case *jsast.VarStmt:
		if x.Kind == jsast.DeclLet {
			p.b.WriteString("let ")
		} else {
			p.b.WriteString("const ")
		}
		p.b.WriteString(x.Name)
		p.annotate(x.Type)
		p.b.WriteString(" = ")
		if err := p.expr(x.Init, precAssign); err != nil {
			return err
		}
		p.b.WriteByte(';')
	case *jsast.FuncDecl:
		p.b.WriteString("function ")
		p.b.WriteString(x.Name)
		if err := p.paramList(x.Params); err != nil {
			return err
		}
		p.b.WriteByte(' ')
		return p.block(x.Body, depth)
	case *jsast.ExprStmt:
		// leading function/object tokens would parse as declarations
		needParens := startsAmbiguously(x.X)
		if needParens {
			p.b.WriteByte('(')
		}
		if err := p.expr(x.X, precLowest); err != nil {
			return err
		}
		if needParens {
			p.b.WriteByte(')')
		}
		p.b.WriteByte(';')
	case *jsast.ReturnStmt:
		if x.X == nil {
			p.b.WriteString("return;")
			return nil
		}
		p.b.WriteString("return ")
		if err := p.expr(x.X, precLowest); err != nil {
			return err
		}
		p.b.WriteByte(';')
	case *jsast.IfStmt:
		return p.ifStmt(x, depth)
	case *jsast.Block:
		return p.block(x, depth)
	case *jsast.ImportDecl:
		return p.importDecl(x)
	case *jsast.ExportDecl:
		p.b.WriteString("export { ")
		for i, n := range x.Names {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.b.WriteString(n.Local)
			if n.Exported != n.Local {
				p.b.WriteString(" as ")
				p.b.WriteString(n.Exported)
			}
		}
		p.b.WriteString(" };")
	default:
		return &diag.CodeGenError{NodeType: fmt.Sprintf("%T", s)}
	}
	return nil
}

func (p *printer) ifStmt(x *jsast.IfStmt, depth int) error {
	p.b.WriteString("if (")
	if err := p.expr(x.Cond, precLowest); err != nil {
		return err
	}
	p.b.WriteString(") ")
	if err := p.block(x.Then, depth); err != nil {
		return err
	}
	if x.Else == nil {
		return nil
	}
	p.b.WriteString(" else ")
	switch e := x.Else.(type) {
	case *jsast.IfStmt:
		return p.ifStmt(e, depth)
	case *jsast.Block:
		return p.block(e, depth)
	default:
		return p.block(&jsast.Block{Stmts: []jsast.Stmt{e}}, depth)
	}
}

func (p *printer) block(b *jsast.Block, depth int) error {
	if len(b.Stmts) == 0 {
		p.b.WriteString("{}")
		return nil
	}
	p.b.WriteByte('{')
	p.newline()
	for _, s := range b.Stmts {
		if err := p.stmt(s, depth+1); err != nil {
			return err
		}
		p.newline()
	}
	p.indent(depth)
	p.b.WriteByte('}')
	return nil
}

func (p *printer) newline() {
	if p.opts.Formatting == FormatMinimal {
		p.b.WriteByte(' ')
		return
	}
	p.b.WriteByte('\n')
}

func (p *printer) importDecl(x *jsast.ImportDecl) error {
	p.b.WriteString("import ")
	if x.Default != "" {
		p.b.WriteString(x.Default)
		if len(x.Names) > 0 {
			p.b.WriteString(", ")
		}
	}
	if len(x.Names) > 0 {
		p.b.WriteString("{ ")
		for i, n := range x.Names {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.b.WriteString(n.Name)
			if n.Alias != "" {
				p.b.WriteString(" as ")
				p.b.WriteString(n.Alias)
			}
		}
		p.b.WriteString(" }")
	}
	if x.Default != "" || len(x.Names) > 0 {
		p.b.WriteString(" from ")
	}
	p.b.WriteString(quote(x.From))
	p.b.WriteByte(';')
	return nil
}

// annotate writes a type annotation for the typed target only.
func (p *printer) annotate(ty string) {
	if ty == "" || p.opts.Target != TargetTyped {
		return
	}
	p.b.WriteString(": ")
	p.b.WriteString(ty)
}

func (p *printer) paramList(params []jsast.Param) error {
	p.b.WriteByte('(')
	for i, prm := range params {
		if i > 0 {
			p.b.WriteString(", ")
		}
		if prm.Rest {
			p.b.WriteString("...")
		}
		p.b.WriteString(prm.Name)
		p.annotate(prm.Type)
	}
	p.b.WriteByte(')')
	return nil
}

// startsAmbiguously reports whether an expression statement would need
// wrapping parentheses because its first token opens a declaration or a
// block.
func startsAmbiguously(e jsast.Expr) bool {
	switch x := e.(type) {
	case *jsast.FuncExpr, *jsast.ObjectLit:
		return true
	case *jsast.CallExpr:
		return startsAmbiguously(x.Callee)
	case *jsast.MemberExpr:
		return startsAmbiguously(x.Obj)
	case *jsast.BinaryExpr:
		return startsAmbiguously(x.L)
	case *jsast.CondExpr:
		return startsAmbiguously(x.Cond)
	case *jsast.AssignExpr:
		return startsAmbiguously(x.Target)
	}
	return false
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func validProperty(s string) bool {
	if s == "" {
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
