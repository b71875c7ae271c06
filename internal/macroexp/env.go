package macroexp

import (
	"lilt/internal/sexp"
)

// Macro is one user-defined template macro.
type Macro struct {
	Name   string
	Params []string
	Rest   string // name bound to remaining args, "" when absent
	Body   sexp.Node
	Module string // canonical path of the defining module
}

// Builtin is a system macro implemented in Go. It receives the whole
// call form and returns the replacement tree.
type Builtin func(call *sexp.List, env *Env) (sexp.Node, error)

// Env is a chain of macro scopes: the global kernel scope at the root,
// one child scope per module. Lookup walks the chain outward; definition
// always lands in the innermost scope, so an inner definition shadows but
// never mutates an outer one. Envs are never cyclic; the parent link is
// traversal-only.
type Env struct {
	parent   *Env
	macros   map[string]*Macro
	builtins map[string]Builtin
	module   string
}

// NewKernelEnv creates the root scope with the built-in system macros.
func NewKernelEnv() *Env {
	env := &Env{
		macros:   make(map[string]*Macro),
		builtins: make(map[string]Builtin),
	}
	registerBuiltins(env)
	return env
}

// Child creates a per-module scope under e.
func (e *Env) Child(module string) *Env {
	return &Env{
		parent:   e,
		macros:   make(map[string]*Macro),
		builtins: make(map[string]Builtin),
		module:   module,
	}
}

// Define registers m in this scope, shadowing any outer definition.
func (e *Env) Define(m *Macro) {
	m.Module = e.module
	e.macros[m.Name] = m
}

// lookup resolves name to a template macro or a builtin, walking outward.
func (e *Env) lookup(name string) (*Macro, Builtin, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if m, ok := scope.macros[name]; ok {
			return m, nil, true
		}
		if b, ok := scope.builtins[name]; ok {
			return nil, b, true
		}
	}
	return nil, nil, false
}

// IsMacro reports whether name resolves to any macro in the chain.
func (e *Env) IsMacro(name string) bool {
	_, _, ok := e.lookup(name)
	return ok
}
