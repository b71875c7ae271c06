package reader

import (
	"strings"
	"unicode/utf16"

	"lilt/internal/sexp"
)

// readString scans a double-quoted string literal with escape handling.
// Supported escapes: \n \t \r \\ \" \uXXXX (with surrogate pairing).
func (r *reader) readString() (sexp.Node, error) {
	start := r.cursor.off
	r.cursor.bump() // opening quote

	var sb strings.Builder
	for {
		if r.cursor.eof() {
			return nil, r.errorAt(start, "unterminated string literal")
		}
		ch := r.cursor.peek()
		switch ch {
		case '"':
			r.cursor.bump()
			return &sexp.Literal{Kind: sexp.LitString, Str: sb.String(), Sp: r.cursor.spanFrom(start)}, nil
		case '\n':
			return nil, r.errorAt(start, "unterminated string literal")
		case '\\':
			r.cursor.bump()
			if r.cursor.eof() {
				return nil, r.errorAt(start, "unterminated string literal")
			}
			esc := r.cursor.peek()
			r.cursor.bump()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'u':
				ru, err := r.readHexEscape(start)
				if err != nil {
					return nil, err
				}
				// pair a high surrogate with a following \uXXXX low half
				if utf16.IsSurrogate(ru) && r.cursor.peek() == '\\' && r.cursor.peekAt(1) == 'u' {
					r.cursor.bump()
					r.cursor.bump()
					lo, err := r.readHexEscape(start)
					if err != nil {
						return nil, err
					}
					ru = utf16.DecodeRune(ru, lo)
				}
				sb.WriteRune(ru)
			default:
				return nil, r.errorAt(r.cursor.off-1, "unknown string escape \\"+string(esc))
			}
		default:
			sb.WriteByte(ch)
			r.cursor.bump()
		}
	}
}

func (r *reader) readHexEscape(strStart uint32) (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		if r.cursor.eof() {
			return 0, r.errorAt(strStart, "unterminated string literal")
		}
		ch := r.cursor.peek()
		var d rune
		switch {
		case ch >= '0' && ch <= '9':
			d = rune(ch - '0')
		case ch >= 'a' && ch <= 'f':
			d = rune(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			d = rune(ch-'A') + 10
		default:
			return 0, r.errorAt(r.cursor.off, "invalid \\u escape digit")
		}
		v = v<<4 | d
		r.cursor.bump()
	}
	return v, nil
}
