// Package diag defines the transpiler's error taxonomy and renders
// source-located messages.
//
// Every stage reports failures through one of the structured error types
// here (ParseError, MacroError, ImportError, TransformError, CodeGenError,
// ValidationError). Each type carries enough context to reconstruct a
// human-readable, source-located message without re-parsing; callers
// branch with errors.As. The resolver wraps dependency failures in
// ImportError so the top-level caller sees one contextualized chain
// instead of a raw stack from deep inside the pipeline.
package diag
