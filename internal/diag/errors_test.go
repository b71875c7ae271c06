package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"lilt/internal/source"
)

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Path: "main.lilt", Msg: "unterminated string", Line: 3, Col: 7}
	want := "main.lilt:3:7: parse error: unterminated string"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestImportError_Chain(t *testing.T) {
	inner := &ParseError{Path: "dep.lilt", Msg: "unmatched )", Line: 1, Col: 2}
	mid := &ImportError{ImportPath: "./dep.lilt", SourceFile: "lib.lilt", Err: inner}
	outer := &ImportError{ImportPath: "./lib.lilt", SourceFile: "main.lilt", Err: mid}

	var pe *ParseError
	if !errors.As(outer, &pe) {
		t.Fatal("ParseError not reachable through the import chain")
	}
	if pe.Path != "dep.lilt" {
		t.Errorf("unwrapped wrong error: %v", pe)
	}
	if !strings.Contains(outer.Error(), "./lib.lilt") {
		t.Errorf("outer message lost import path: %q", outer.Error())
	}
}

func TestRender_ParseErrorSnippet(t *testing.T) {
	color.NoColor = true
	fs := source.NewFileSet()
	err := &ParseError{
		Path:    "main.lilt",
		Msg:     "unmatched closing delimiter",
		Line:    1,
		Col:     9,
		Snippet: "(def x 1))",
	}
	out := Render(fs, err)
	if !strings.Contains(out, "main.lilt:1:9") {
		t.Errorf("missing location: %q", out)
	}
	if !strings.Contains(out, "(def x 1))") {
		t.Errorf("missing snippet: %q", out)
	}
	caretLine := ""
	for line := range strings.SplitSeq(out, "\n") {
		if strings.Contains(line, "^") {
			caretLine = line
		}
	}
	if caretLine == "" {
		t.Fatalf("no caret rendered: %q", out)
	}
	if got := strings.Index(caretLine, "^"); got != 4+8 {
		t.Errorf("caret at %d, want %d", got, 12)
	}
}

func TestRender_ImportChainNotes(t *testing.T) {
	color.NoColor = true
	fs := source.NewFileSet()
	inner := &ParseError{Path: "dep.lilt", Msg: "eof in form", Line: 2, Col: 1}
	err := &ImportError{ImportPath: "./dep.lilt", SourceFile: "main.lilt", Err: inner}
	out := Render(fs, err)
	if !strings.Contains(out, "while building main.lilt") {
		t.Errorf("missing import note: %q", out)
	}
	if !strings.Contains(out, "eof in form") {
		t.Errorf("missing inner message: %q", out)
	}
}
