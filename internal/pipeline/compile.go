// Package pipeline runs the front half of the compiler: reader, syntax
// desugaring, macro expansion, clean-AST conversion and IR generation,
// producing an output-AST program for the printer. The module resolver
// drives it once per file; the interactive session drives it once per
// input.
package pipeline

import (
	"lilt/internal/irgen"
	"lilt/internal/jsast"
	"lilt/internal/kernel"
	"lilt/internal/macroexp"
	"lilt/internal/reader"
	"lilt/internal/sexp"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

// Options selects the compilation mode.
type Options struct {
	// REPLMode emits re-assignable top-level bindings.
	REPLMode bool
	// NoPrelude suppresses runtime-helper re-declaration.
	NoPrelude bool
	// Env is the macro environment to expand under; nil gets a fresh
	// kernel child scoped to the file.
	Env *macroexp.Env
}

// Compile runs a loaded file through every stage up to the printer.
func Compile(fs *source.FileSet, id source.FileID, opts Options) (*jsast.Program, error) {
	forms, err := reader.Parse(fs, id)
	if err != nil {
		return nil, err
	}
	return compileForms(forms, fs.Get(id).Path, opts)
}

// CompileText compiles an in-memory snippet registered under name.
func CompileText(fs *source.FileSet, name, text string, opts Options) (*jsast.Program, error) {
	forms, err := reader.ParseText(fs, name, text)
	if err != nil {
		return nil, err
	}
	return compileForms(forms, name, opts)
}

// CompileFile loads path from disk and compiles it.
func CompileFile(fs *source.FileSet, path string, opts Options) (*jsast.Program, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(fs, id, opts)
}

func compileForms(forms []sexp.Node, scope string, opts Options) (*jsast.Program, error) {
	env := opts.Env
	if env == nil {
		env = macroexp.NewKernelEnv().Child(scope)
	}
	expanded, err := macroexp.Expand(syntax.Transform(forms), env)
	if err != nil {
		return nil, err
	}
	nodes, err := kernel.Convert(expanded)
	if err != nil {
		return nil, err
	}
	return irgen.Transform(nodes, irgen.Options{
		REPLMode:  opts.REPLMode,
		NoPrelude: opts.NoPrelude,
	})
}
