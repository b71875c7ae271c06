package reader

import (
	"unicode/utf8"

	"fortio.org/safecast"
	"lilt/internal/source"
)

// cursor walks the raw bytes of one source file. Offsets are byte
// offsets, matching source.Span.
type cursor struct {
	file *source.File
	off  uint32
	len  uint32
}

func newCursor(file *source.File) cursor {
	n, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(err)
	}
	return cursor{file: file, len: n}
}

func (c *cursor) eof() bool {
	return c.off >= c.len
}

// peek returns the current byte, or 0 at EOF.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.off]
}

// peekAt returns the byte n positions ahead, or 0 past EOF.
func (c *cursor) peekAt(n uint32) byte {
	if c.off+n >= c.len {
		return 0
	}
	return c.file.Content[c.off+n]
}

func (c *cursor) bump() {
	if !c.eof() {
		c.off++
	}
}

// bumpRune advances over one UTF-8 rune and returns it.
func (c *cursor) bumpRune() rune {
	r, size := utf8.DecodeRune(c.file.Content[c.off:])
	c.off += uint32(size)
	return r
}

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.off}
}
