// Package reader parses Lilt source text into symbolic-expression trees.
//
// The grammar is the usual Lisp surface: lists (), vectors [], maps {},
// sets #[], strings with escapes, line comments starting with ';', and
// the quote family of reader shorthands ('x `x ,x ,@x). Anything
// unquoted that is not a fixed literal token is a symbol. A single
// malformed top-level form fails the whole parse; there is no partial
// recovery.
package reader

import (
	"fmt"

	"lilt/internal/diag"
	"lilt/internal/sexp"
	"lilt/internal/source"
)

type reader struct {
	fs     *source.FileSet
	cursor cursor
}

// Parse reads every top-level form of the file identified by id.
func Parse(fs *source.FileSet, id source.FileID) ([]sexp.Node, error) {
	r := &reader{fs: fs, cursor: newCursor(fs.Get(id))}

	var forms []sexp.Node
	for {
		r.skipTrivia()
		if r.cursor.eof() {
			return forms, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

// ParseText parses source text under a virtual file name. The REPL seam
// and most tests enter here.
func ParseText(fs *source.FileSet, name, text string) ([]sexp.Node, error) {
	id := fs.AddVirtual(name, []byte(text))
	return Parse(fs, id)
}

// skipTrivia consumes whitespace and ; line comments.
func (r *reader) skipTrivia() {
	for !r.cursor.eof() {
		switch r.cursor.peek() {
		case ' ', '\t', '\n', '\r':
			r.cursor.bump()
		case ';':
			for !r.cursor.eof() && r.cursor.peek() != '\n' {
				r.cursor.bump()
			}
		default:
			return
		}
	}
}

func (r *reader) readForm() (sexp.Node, error) {
	start := r.cursor.off
	switch ch := r.cursor.peek(); {
	case ch == '(':
		r.cursor.bump()
		return r.readSeq(start, ')', func(elems []sexp.Node, sp source.Span) sexp.Node {
			return &sexp.List{Elems: elems, Sp: sp}
		})
	case ch == '[':
		r.cursor.bump()
		return r.readSeq(start, ']', func(elems []sexp.Node, sp source.Span) sexp.Node {
			return &sexp.Vector{Elems: elems, Sp: sp}
		})
	case ch == '#' && r.cursor.peekAt(1) == '[':
		r.cursor.bump()
		r.cursor.bump()
		return r.readSeq(start, ']', func(elems []sexp.Node, sp source.Span) sexp.Node {
			return &sexp.Set{Elems: elems, Sp: sp}
		})
	case ch == '{':
		r.cursor.bump()
		return r.readMap(start)
	case ch == ')' || ch == ']' || ch == '}':
		return nil, r.errorAt(start, fmt.Sprintf("unmatched closing delimiter %q", string(ch)))
	case ch == '"':
		return r.readString()
	case ch == '\'':
		r.cursor.bump()
		return r.readShorthand(start, "quote")
	case ch == '`':
		r.cursor.bump()
		return r.readShorthand(start, "quasiquote")
	case ch == ',':
		r.cursor.bump()
		if r.cursor.peek() == '@' {
			r.cursor.bump()
			return r.readShorthand(start, "unquote-splicing")
		}
		return r.readShorthand(start, "unquote")
	case isDigit(ch) || (ch == '-' && isDigit(r.cursor.peekAt(1))):
		return r.readNumber()
	default:
		return r.readSymbol()
	}
}

// readSeq reads forms until the matching closer and wraps them via build.
func (r *reader) readSeq(start uint32, closer byte, build func([]sexp.Node, source.Span) sexp.Node) (sexp.Node, error) {
	var elems []sexp.Node
	for {
		r.skipTrivia()
		if r.cursor.eof() {
			return nil, r.errorAt(start, "end of input inside open form")
		}
		ch := r.cursor.peek()
		if ch == closer {
			r.cursor.bump()
			return build(elems, r.cursor.spanFrom(start)), nil
		}
		if ch == ')' || ch == ']' || ch == '}' {
			return nil, r.errorAt(r.cursor.off,
				fmt.Sprintf("mismatched closing delimiter %q, expected %q", string(ch), string(closer)))
		}
		elem, err := r.readForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
}

func (r *reader) readMap(start uint32) (sexp.Node, error) {
	var items []sexp.Node
	for {
		r.skipTrivia()
		if r.cursor.eof() {
			return nil, r.errorAt(start, "end of input inside open form")
		}
		ch := r.cursor.peek()
		if ch == '}' {
			r.cursor.bump()
			break
		}
		if ch == ')' || ch == ']' {
			return nil, r.errorAt(r.cursor.off,
				fmt.Sprintf("mismatched closing delimiter %q, expected %q", string(ch), "}"))
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items)%2 != 0 {
		return nil, r.errorAt(start, "map literal requires an even number of forms")
	}
	pairs := make([]sexp.Pair, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		pairs = append(pairs, sexp.Pair{Key: items[i], Val: items[i+1]})
	}
	return &sexp.Map{Pairs: pairs, Sp: r.cursor.spanFrom(start)}, nil
}

// readShorthand desugars 'x / `x / ,x / ,@x into (quote x) etc.
func (r *reader) readShorthand(start uint32, name string) (sexp.Node, error) {
	r.skipTrivia()
	if r.cursor.eof() {
		return nil, r.errorAt(start, "end of input after "+name+" shorthand")
	}
	form, err := r.readForm()
	if err != nil {
		return nil, err
	}
	sp := r.cursor.spanFrom(start)
	return &sexp.List{
		Elems: []sexp.Node{&sexp.Symbol{Name: name, Sp: sp}, form},
		Sp:    sp,
	}, nil
}

func (r *reader) errorAt(off uint32, msg string) error {
	f := r.cursor.file
	pos, _ := r.fs.Resolve(source.Span{File: f.ID, Start: off, End: off})
	return &diag.ParseError{
		Path:    f.Path,
		Msg:     msg,
		Line:    pos.Line,
		Col:     pos.Col,
		Offset:  off,
		Snippet: f.GetLine(pos.Line),
	}
}
