package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lilt/internal/source"
)

var (
	errHeadColor = color.New(color.FgRed, color.Bold)
	locColor     = color.New(color.FgCyan)
	caretColor   = color.New(color.FgRed, color.Bold)
	noteColor    = color.New(color.FgYellow)
)

// Render formats err as a human-readable, source-located message.
// Structured errors get a location header and, when a snippet is
// available, the offending line with a caret underneath. ImportError
// chains render one "imported from" note per hop.
func Render(fs *source.FileSet, err error) string {
	var sb strings.Builder

	var imp *ImportError
	for errors.As(err, &imp) {
		fmt.Fprintf(&sb, "%s %s\n", noteColor.Sprint("while building"), imp.SourceFile)
		if imp.Err == nil {
			break
		}
		err = imp.Err
	}

	var parse *ParseError
	if errors.As(err, &parse) {
		fmt.Fprintf(&sb, "%s %s\n", errHeadColor.Sprint("error:"), parse.Msg)
		fmt.Fprintf(&sb, "  %s\n", locColor.Sprintf("%s:%d:%d", parse.Path, parse.Line, parse.Col))
		if parse.Snippet != "" {
			sb.WriteString(renderCaret(parse.Snippet, parse.Col))
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s %s\n", errHeadColor.Sprint("error:"), err.Error())
	return sb.String()
}

// RenderSpan formats a one-line snippet with a caret for an arbitrary span.
func RenderSpan(fs *source.FileSet, span source.Span, msg string) string {
	var sb strings.Builder
	start, _ := fs.Resolve(span)
	f := fs.Get(span.File)
	fmt.Fprintf(&sb, "%s %s\n", errHeadColor.Sprint("error:"), msg)
	fmt.Fprintf(&sb, "  %s\n", locColor.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col))
	if line := f.GetLine(start.Line); line != "" {
		sb.WriteString(renderCaret(line, start.Col))
	}
	return sb.String()
}

// renderCaret prints the source line and a caret aligned under col.
// Alignment uses display width so wide runes and tabs in the prefix do
// not skew the caret.
func renderCaret(line string, col uint32) string {
	var sb strings.Builder
	sb.WriteString("  | ")
	sb.WriteString(strings.ReplaceAll(line, "\t", "    "))
	sb.WriteByte('\n')

	prefix := line
	if int(col-1) <= len(line) {
		prefix = line[:col-1]
	}
	prefix = strings.ReplaceAll(prefix, "\t", "    ")
	pad := runewidth.StringWidth(prefix)
	sb.WriteString("  | ")
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(caretColor.Sprint("^"))
	sb.WriteByte('\n')
	return sb.String()
}
