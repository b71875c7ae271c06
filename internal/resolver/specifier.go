// Package resolver builds the module graph: it compiles every reachable
// source module at most once, copies script dependencies through with
// their own imports resolved, passes registry, remote and data
// specifiers through untouched, and breaks import cycles with forward
// bindings that are patched once the dependency's output location is
// final.
package resolver

import (
	"fmt"
	"path"
	"strings"
)

// Kind classifies an import specifier.
type Kind uint8

const (
	// KindLilt is a compiled source module.
	KindLilt Kind = iota
	// KindJS is a script dependency copied through with its imports
	// resolved.
	KindJS
	// KindTS is a typed script dependency, handled like KindJS.
	KindTS
	// KindRegistry is a package specifier (npm:, jsr:, node:, or bare)
	// left for the runtime's own resolver.
	KindRegistry
	// KindRemote is an http(s) URL, emitted untouched.
	KindRemote
	// KindData is a data: URL, emitted untouched.
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindLilt:
		return "lilt"
	case KindJS:
		return "js"
	case KindTS:
		return "ts"
	case KindRegistry:
		return "registry"
	case KindRemote:
		return "remote"
	case KindData:
		return "data"
	}
	return "unknown"
}

// External reports whether specifiers of this kind pass through to the
// output without being followed.
func (k Kind) External() bool {
	return k == KindRegistry || k == KindRemote || k == KindData
}

// Classify determines how an import specifier is handled. Relative and
// absolute paths must carry a recognized file extension; anything else
// that is not a known scheme is treated as a bare package specifier.
func Classify(spec string) (Kind, error) {
	switch {
	case strings.HasPrefix(spec, "npm:"),
		strings.HasPrefix(spec, "jsr:"),
		strings.HasPrefix(spec, "node:"):
		return KindRegistry, nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return KindRemote, nil
	case strings.HasPrefix(spec, "data:"):
		return KindData, nil
	}

	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || strings.HasPrefix(spec, "/") {
		switch ext := path.Ext(spec); ext {
		case ".lilt":
			return KindLilt, nil
		case ".js", ".mjs", ".cjs", ".jsx":
			return KindJS, nil
		case ".ts", ".mts", ".cts", ".tsx":
			return KindTS, nil
		case "":
			return 0, fmt.Errorf("relative import %q has no file extension", spec)
		default:
			return 0, fmt.Errorf("unsupported file extension %q", ext)
		}
	}

	return KindRegistry, nil
}
