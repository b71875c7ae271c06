// Package jsast models the output-language AST: the subset of
// JavaScript/TypeScript grammar the generator emits. Only the IR
// generator constructs these nodes; the printer only reads them.
//
// Statements and expressions are separate closed unions with marker
// methods, dispatched exhaustively in the printer. A new node kind
// without a printer case fails the build instead of falling through.
package jsast

// Program is one output module: hoisted imports first, then one
// statement per top-level clean-AST form in source order.
type Program struct {
	Imports []*ImportDecl
	Stmts   []Stmt
}

// Stmt is one output statement.
type Stmt interface{ stmt() }

// Expr is one output expression.
type Expr interface{ expr() }

// DeclKind selects the variable statement keyword.
type DeclKind uint8

const (
	DeclConst DeclKind = iota
	DeclLet
)

// Param is one function parameter. Rest marks a ...rest parameter and is
// only valid in the last position.
type Param struct {
	Name string
	Type string // optional annotation, typed target only
	Rest bool
}

// VarStmt is `const name = init;` or `let name = init;`.
type VarStmt struct {
	Kind DeclKind
	Name string
	Type string // optional annotation, typed target only
	Init Expr
}

// FuncDecl is a named function declaration.
type FuncDecl struct {
	Name   string
	Params []Param
	Body   *Block
}

// ExprStmt is an expression in statement position.
type ExprStmt struct {
	X Expr
}

// ReturnStmt returns X, or nothing when X is nil.
type ReturnStmt struct {
	X Expr
}

// IfStmt is a statement-position conditional.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt, or nil
}

// Block is a braced statement list.
type Block struct {
	Stmts []Stmt
}

// ImportName is one named import binding.
type ImportName struct {
	Name  string
	Alias string // "" when not renamed
}

// ImportDecl is an ES-module import statement. Either Default or Names
// is set. From holds the (possibly rewritten) specifier.
type ImportDecl struct {
	Default string
	Names   []ImportName
	From    string
}

// ExportName is one exported binding.
type ExportName struct {
	Local    string
	Exported string
}

// ExportDecl is `export { local as exported, ... };`.
type ExportDecl struct {
	Names []ExportName
}

func (*VarStmt) stmt()    {}
func (*FuncDecl) stmt()   {}
func (*ExprStmt) stmt()   {}
func (*ReturnStmt) stmt() {}
func (*IfStmt) stmt()     {}
func (*Block) stmt()      {}
func (*ImportDecl) stmt() {}
func (*ExportDecl) stmt() {}

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// StringLit is a string literal; Value is unescaped.
type StringLit struct {
	Value string
}

// NumberLit carries the literal's exact source text.
type NumberLit struct {
	Text string
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

// NullLit is null.
type NullLit struct{}

// ArrayLit is [elems...].
type ArrayLit struct {
	Elems []Expr
}

// Prop is one key/value of an object literal.
type Prop struct {
	Key   Expr
	Value Expr
}

// ObjectLit is {props...}.
type ObjectLit struct {
	Props []Prop
}

// NewExpr is `new Callee(args...)`.
type NewExpr struct {
	Callee Expr
	Args   []Expr
}

// CallExpr applies Callee to Args. Spread marks the last argument as
// ...spread.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Spread bool
}

// MemberExpr is property access obj.prop, or element access obj[key]
// when Computed.
type MemberExpr struct {
	Obj      Expr
	Prop     string // when !Computed
	Key      Expr   // when Computed
	Computed bool
}

// BinaryExpr is `L op R`.
type BinaryExpr struct {
	Op string
	L  Expr
	R  Expr
}

// UnaryExpr is `op X`.
type UnaryExpr struct {
	Op string
	X  Expr
}

// CondExpr is the ternary `Cond ? Then : Else`.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// FuncExpr is an anonymous function expression.
type FuncExpr struct {
	Params []Param
	Body   *Block
}

// ArrowExpr is `(params) => expr`.
type ArrowExpr struct {
	Params []Param
	X      Expr
}

// AssignExpr is `Target = Value`.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

func (*Ident) expr()      {}
func (*StringLit) expr()  {}
func (*NumberLit) expr()  {}
func (*BoolLit) expr()    {}
func (*NullLit) expr()    {}
func (*ArrayLit) expr()   {}
func (*ObjectLit) expr()  {}
func (*NewExpr) expr()    {}
func (*CallExpr) expr()   {}
func (*MemberExpr) expr() {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*CondExpr) expr()   {}
func (*FuncExpr) expr()   {}
func (*ArrowExpr) expr()  {}
func (*AssignExpr) expr() {}
