package sexp

import (
	"lilt/internal/source"
)

// Node is one symbolic-expression tree node. The union is closed: Symbol,
// Literal, List, Vector, Map and Set are the only implementations, and
// every consumer dispatches with an exhaustive type switch.
//
// Nodes are immutable once constructed; transformation stages build new
// trees instead of mutating in place.
type Node interface {
	Span() source.Span
	node()
}

// Symbol is an unquoted identifier.
type Symbol struct {
	Name string
	Sp   source.Span
}

// LitKind discriminates Literal payloads.
type LitKind uint8

const (
	LitNil LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
)

// Literal is a self-evaluating value: string, number, boolean or nil.
type Literal struct {
	Kind  LitKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Sp    source.Span
}

// List is a parenthesized form. The head position names the operator.
type List struct {
	Elems []Node
	Sp    source.Span
}

// Vector is a square-bracket collection literal.
type Vector struct {
	Elems []Node
	Sp    source.Span
}

// Pair is one key/value entry of a Map.
type Pair struct {
	Key Node
	Val Node
}

// Map is a curly-brace collection literal with ordered pairs.
type Map struct {
	Pairs []Pair
	Sp    source.Span
}

// Set is the tagged #[...] variant of a vector.
type Set struct {
	Elems []Node
	Sp    source.Span
}

func (n *Symbol) Span() source.Span  { return n.Sp }
func (n *Literal) Span() source.Span { return n.Sp }
func (n *List) Span() source.Span    { return n.Sp }
func (n *Vector) Span() source.Span  { return n.Sp }
func (n *Map) Span() source.Span     { return n.Sp }
func (n *Set) Span() source.Span     { return n.Sp }

func (*Symbol) node()  {}
func (*Literal) node() {}
func (*List) node()    {}
func (*Vector) node()  {}
func (*Map) node()     {}
func (*Set) node()     {}

// Sym builds a span-less symbol. Synthesized nodes carry empty spans;
// spans are diagnostic-only and never load-bearing.
func Sym(name string) *Symbol { return &Symbol{Name: name} }

// ListOf builds a span-less list.
func ListOf(elems ...Node) *List { return &List{Elems: elems} }

// Nil builds the nil literal.
func Nil() *Literal { return &Literal{Kind: LitNil} }

// Bool builds a boolean literal.
func Bool(v bool) *Literal { return &Literal{Kind: LitBool, Bool: v} }

// Int builds an integer literal.
func Int(v int64) *Literal { return &Literal{Kind: LitInt, Int: v} }

// Float builds a float literal.
func Float(v float64) *Literal { return &Literal{Kind: LitFloat, Float: v} }

// Str builds a string literal.
func Str(v string) *Literal { return &Literal{Kind: LitString, Str: v} }

// IsSym reports whether n is the symbol named name.
func IsSym(n Node, name string) bool {
	s, ok := n.(*Symbol)
	return ok && s.Name == name
}

// Head returns the head symbol name of a list form, or "" when n is not a
// list or its head is not a symbol.
func Head(n Node) string {
	l, ok := n.(*List)
	if !ok || len(l.Elems) == 0 {
		return ""
	}
	s, ok := l.Elems[0].(*Symbol)
	if !ok {
		return ""
	}
	return s.Name
}
