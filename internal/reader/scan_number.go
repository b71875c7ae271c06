package reader

import (
	"strconv"

	"lilt/internal/sexp"
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// readNumber scans an integer or float token. Floats are recognized by a
// decimal point or exponent; everything else parses as int64.
func (r *reader) readNumber() (sexp.Node, error) {
	start := r.cursor.off
	if r.cursor.peek() == '-' {
		r.cursor.bump()
	}
	isFloat := false
	for !r.cursor.eof() {
		ch := r.cursor.peek()
		switch {
		case isDigit(ch):
			r.cursor.bump()
		case ch == '.' && isDigit(r.cursor.peekAt(1)):
			isFloat = true
			r.cursor.bump()
		case (ch == 'e' || ch == 'E') && (isDigit(r.cursor.peekAt(1)) ||
			((r.cursor.peekAt(1) == '+' || r.cursor.peekAt(1) == '-') && isDigit(r.cursor.peekAt(2)))):
			isFloat = true
			r.cursor.bump()
			r.cursor.bump()
		default:
			goto done
		}
	}
done:
	sp := r.cursor.spanFrom(start)
	text := string(r.cursor.file.Content[start:r.cursor.off])
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, r.errorAt(start, "malformed number "+text)
		}
		return &sexp.Literal{Kind: sexp.LitFloat, Float: v, Sp: sp}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// out of int64 range: keep the value as a float
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, r.errorAt(start, "malformed number "+text)
		}
		return &sexp.Literal{Kind: sexp.LitFloat, Float: f, Sp: sp}, nil
	}
	return &sexp.Literal{Kind: sexp.LitInt, Int: v, Sp: sp}, nil
}
