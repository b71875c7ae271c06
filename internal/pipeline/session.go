package pipeline

import (
	"fmt"

	"lilt/internal/irgen"
	"lilt/internal/jsast"
	"lilt/internal/kernel"
	"lilt/internal/macroexp"
	"lilt/internal/printer"
	"lilt/internal/reader"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

// Session holds the state of an interactive evaluation loop: the macro
// environment and constant bindings grow across inputs, and the runtime
// helper prelude is emitted at most once.
type Session struct {
	fs      *source.FileSet
	env     *macroexp.Env
	consts  map[string]constVal
	emitted bool // helper prelude already generated
	seq     int
}

// NewSession creates an empty interactive session.
func NewSession() *Session {
	return &Session{
		fs:     source.NewFileSet(),
		env:    macroexp.NewKernelEnv().Child("repl"),
		consts: make(map[string]constVal),
	}
}

// EvalResult is one input's outcome. Code is the generated output text.
// Value is the statically known result when the input folds to a
// constant, and "" otherwise.
type EvalResult struct {
	Code  string
	Value string
}

// EvaluateOne compiles a single interactive input against the session's
// accumulated state. Macro definitions persist; definitions become
// re-assignable bindings so later inputs may shadow them.
func (s *Session) EvaluateOne(text string) (*EvalResult, error) {
	s.seq++
	name := fmt.Sprintf("repl-%d", s.seq)

	forms, err := reader.ParseText(s.fs, name, text)
	if err != nil {
		return nil, err
	}
	expanded, err := macroexp.Expand(syntax.Transform(forms), s.env)
	if err != nil {
		return nil, err
	}
	nodes, err := kernel.Convert(expanded)
	if err != nil {
		return nil, err
	}

	prog, err := irgen.Transform(nodes, irgen.Options{
		REPLMode:  true,
		NoPrelude: s.emitted,
	})
	if err != nil {
		return nil, err
	}
	if preludePresent(prog) {
		s.emitted = true
	}

	code, err := printer.Generate(prog, printer.Options{})
	if err != nil {
		return nil, err
	}

	res := &EvalResult{Code: code}
	if len(nodes) > 0 {
		s.recordConsts(nodes)
		if v, ok := s.fold(nodes[len(nodes)-1]); ok {
			res.Value = v.String()
		}
	}
	return res, nil
}

// recordConsts remembers definitions whose value folds to a constant, so
// later inputs referencing them can fold too.
func (s *Session) recordConsts(nodes []kernel.Node) {
	for _, n := range nodes {
		def, ok := n.(*kernel.Def)
		if !ok {
			continue
		}
		if v, folded := s.fold(def.Value); folded {
			s.consts[def.Name] = v
		} else {
			// redefinition to a non-constant invalidates the binding
			delete(s.consts, def.Name)
		}
	}
}

func preludePresent(prog *jsast.Program) bool {
	for _, st := range prog.Stmts {
		if v, ok := st.(*jsast.VarStmt); ok && v.Name == irgen.TruthyHelper {
			return true
		}
	}
	return false
}
