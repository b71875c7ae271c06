// Package kernel defines the clean AST: the small vocabulary of primitive
// forms every program reduces to after macro expansion, and the converter
// that normalizes expanded s-expressions into it.
package kernel

import (
	"lilt/internal/sexp"
	"lilt/internal/source"
)

// Node is one clean-AST node. The union is closed; after Convert no
// macro-only or sugar form remains, and every consumer dispatches with an
// exhaustive type switch.
type Node interface {
	Span() source.Span
	kernelNode()
}

// Lit is a self-evaluating literal.
type Lit struct {
	Val *sexp.Literal
}

// Ref is a reference to a bound name.
type Ref struct {
	Name string
	Sp   source.Span
}

// Fn is a function with positional parameters and an optional rest
// parameter. The last body form is the function's value.
type Fn struct {
	Params []string
	Rest   string // "" when absent
	Body   []Node
	Sp     source.Span
}

// If is the conditional. Else may be nil.
type If struct {
	Cond Node
	Then Node
	Else Node
	Sp   source.Span
}

// Def binds a name at the top of the enclosing scope. TypeHint is an
// optional output-language type annotation from a (def (: name ty) expr)
// form; it is emitted only for the typed target.
type Def struct {
	Name     string
	TypeHint string
	Value    Node
	Sp       source.Span
}

// Quote holds unevaluated data.
type Quote struct {
	Datum sexp.Node
	Sp    source.Span
}

// VectorLit constructs a sequential collection.
type VectorLit struct {
	Elems []Node
	Sp    source.Span
}

// Entry is one key/value of a MapLit.
type Entry struct {
	Key Node
	Val Node
}

// MapLit constructs a keyed collection.
type MapLit struct {
	Entries []Entry
	Sp      source.Span
}

// SetLit constructs a unique-element collection.
type SetLit struct {
	Elems []Node
	Sp    source.Span
}

// Call applies Callee to Args.
type Call struct {
	Callee Node
	Args   []Node
	Sp     source.Span
}

// Do evaluates Body in order; its value is the last form's.
type Do struct {
	Body []Node
	Sp   source.Span
}

// Import declares dependencies on another module. Either Names (named
// imports) or Default (a single default binding) is set.
type Import struct {
	Names     []string
	Default   string
	Specifier string
	Sp        source.Span
}

// ExportSpec is one exported binding.
type ExportSpec struct {
	Local    string
	Exported string
}

// Export declares the module's exported bindings.
type Export struct {
	Specs []ExportSpec
	Sp    source.Span
}

func (n *Lit) Span() source.Span       { return n.Val.Sp }
func (n *Ref) Span() source.Span       { return n.Sp }
func (n *Fn) Span() source.Span        { return n.Sp }
func (n *If) Span() source.Span        { return n.Sp }
func (n *Def) Span() source.Span       { return n.Sp }
func (n *Quote) Span() source.Span     { return n.Sp }
func (n *VectorLit) Span() source.Span { return n.Sp }
func (n *MapLit) Span() source.Span    { return n.Sp }
func (n *SetLit) Span() source.Span    { return n.Sp }
func (n *Call) Span() source.Span      { return n.Sp }
func (n *Do) Span() source.Span        { return n.Sp }
func (n *Import) Span() source.Span    { return n.Sp }
func (n *Export) Span() source.Span    { return n.Sp }

func (*Lit) kernelNode()       {}
func (*Ref) kernelNode()       {}
func (*Fn) kernelNode()        {}
func (*If) kernelNode()        {}
func (*Def) kernelNode()       {}
func (*Quote) kernelNode()     {}
func (*VectorLit) kernelNode() {}
func (*MapLit) kernelNode()    {}
func (*SetLit) kernelNode()    {}
func (*Call) kernelNode()      {}
func (*Do) kernelNode()        {}
func (*Import) kernelNode()    {}
func (*Export) kernelNode()    {}
