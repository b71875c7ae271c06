package reader

import (
	"golang.org/x/text/unicode/norm"

	"lilt/internal/sexp"
)

// isSymbolEnd reports bytes that terminate a symbol token.
func isSymbolEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '{', '}', '"', ';', '\'', '`', ',':
		return true
	}
	return false
}

// readSymbol scans a symbol token. Fixed tokens true/false/nil become
// literals; anything else is a symbol. Symbol names are NFC-normalized so
// the same identifier typed with different Unicode compositions resolves
// to one name.
func (r *reader) readSymbol() (sexp.Node, error) {
	start := r.cursor.off
	for !r.cursor.eof() && !isSymbolEnd(r.cursor.peek()) {
		if r.cursor.peek() < 0x80 {
			r.cursor.bump()
		} else {
			r.cursor.bumpRune()
		}
	}
	sp := r.cursor.spanFrom(start)
	text := string(r.cursor.file.Content[start:r.cursor.off])
	switch text {
	case "true":
		return &sexp.Literal{Kind: sexp.LitBool, Bool: true, Sp: sp}, nil
	case "false":
		return &sexp.Literal{Kind: sexp.LitBool, Bool: false, Sp: sp}, nil
	case "nil":
		return &sexp.Literal{Kind: sexp.LitNil, Sp: sp}, nil
	}
	return &sexp.Symbol{Name: norm.NFC.String(text), Sp: sp}, nil
}
