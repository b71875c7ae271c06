package sexp

import (
	"strconv"
	"strings"
)

// String renders a node back into reader syntax. Used by the debug dump
// commands and test failure messages; not part of code generation.
func String(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

func write(sb *strings.Builder, n Node) {
	switch x := n.(type) {
	case *Symbol:
		sb.WriteString(x.Name)
	case *Literal:
		switch x.Kind {
		case LitNil:
			sb.WriteString("nil")
		case LitBool:
			sb.WriteString(strconv.FormatBool(x.Bool))
		case LitInt:
			sb.WriteString(strconv.FormatInt(x.Int, 10))
		case LitFloat:
			sb.WriteString(strconv.FormatFloat(x.Float, 'g', -1, 64))
		case LitString:
			sb.WriteString(strconv.Quote(x.Str))
		}
	case *List:
		writeSeq(sb, "(", ")", x.Elems)
	case *Vector:
		writeSeq(sb, "[", "]", x.Elems)
	case *Set:
		writeSeq(sb, "#[", "]", x.Elems)
	case *Map:
		sb.WriteString("{")
		for i, p := range x.Pairs {
			if i > 0 {
				sb.WriteString(" ")
			}
			write(sb, p.Key)
			sb.WriteString(" ")
			write(sb, p.Val)
		}
		sb.WriteString("}")
	}
}

func writeSeq(sb *strings.Builder, open, close string, elems []Node) {
	sb.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(" ")
		}
		write(sb, e)
	}
	sb.WriteString(close)
}
