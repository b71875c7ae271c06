package diag

import (
	"fmt"

	"lilt/internal/source"
)

// ParseError reports malformed source text. Line and Col are 1-based.
type ParseError struct {
	Path    string
	Msg     string
	Line    uint32
	Col     uint32
	Offset  uint32
	Snippet string // the offending source line, may be empty
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: parse error: %s", e.Path, e.Line, e.Col, e.Msg)
}

// MacroError reports a macro-template arity mismatch or a non-terminating
// expansion.
type MacroError struct {
	MacroName string
	Msg       string
	Span      source.Span
}

func (e *MacroError) Error() string {
	if e.MacroName == "" {
		return "macro error: " + e.Msg
	}
	return fmt.Sprintf("macro error in %s: %s", e.MacroName, e.Msg)
}

// ImportError reports an unresolvable or unreadable import target.
// Err, when set, is the dependency's own failure; the chain of nested
// ImportErrors reconstructs the import path from the entry module down.
type ImportError struct {
	ImportPath string
	SourceFile string
	Msg        string
	Err        error
}

func (e *ImportError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.SourceFile == "" {
		return fmt.Sprintf("cannot import %q: %s", e.ImportPath, msg)
	}
	return fmt.Sprintf("%s: cannot import %q: %s", e.SourceFile, e.ImportPath, msg)
}

func (e *ImportError) Unwrap() error { return e.Err }

// TransformError reports a clean-AST node that matched no IR-generation
// rule. Reaching this error means the AST converter's closure invariant
// was violated upstream.
type TransformError struct {
	NodeType string
	Msg      string
	Span     source.Span
}

func (e *TransformError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("transform error: no rule for node %s", e.NodeType)
	}
	return fmt.Sprintf("transform error: %s (node %s)", e.Msg, e.NodeType)
}

// CodeGenError reports an output-AST node the generator does not
// recognize. Reaching this error means the IR generator's invariant was
// violated upstream.
type CodeGenError struct {
	NodeType string
}

func (e *CodeGenError) Error() string {
	return fmt.Sprintf("codegen error: unrecognized output node %s", e.NodeType)
}

// ValidationError reports a generic semantic check failure, e.g. a
// malformed export target.
type ValidationError struct {
	Msg  string
	Span source.Span
}

func (e *ValidationError) Error() string {
	return "invalid form: " + e.Msg
}
