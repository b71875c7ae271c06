package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_AddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("repl", []byte("(+ 1 1)\n(def x 2)"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Error("virtual file missing FileVirtual flag")
	}
	if len(f.LineIdx) != 1 {
		t.Errorf("LineIdx length = %d, want 1", len(f.LineIdx))
	}
	var zero Digest
	if f.Hash == zero {
		t.Error("content hash not computed")
	}
}

func TestFileSet_LoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.lilt")
	content := []byte{0xEF, 0xBB, 0xBF}
	content = append(content, []byte("(def a 1)\r\n(def b 2)\r\n")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 {
		t.Error("BOM flag not set")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("CRLF flag not set")
	}
	if string(f.Content) != "(def a 1)\n(def b 2)\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
}

func TestFileSet_Resolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t", []byte("(def a 1)\n(def b\n  2)"))

	tests := []struct {
		name  string
		span  Span
		start LineCol
		end   LineCol
	}{
		{
			name:  "first line start",
			span:  Span{File: id, Start: 0, End: 9},
			start: LineCol{Line: 1, Col: 1},
			end:   LineCol{Line: 1, Col: 10},
		},
		{
			name:  "second line",
			span:  Span{File: id, Start: 10, End: 16},
			start: LineCol{Line: 2, Col: 1},
			end:   LineCol{Line: 2, Col: 7},
		},
		{
			name:  "third line indented",
			span:  Span{File: id, Start: 20, End: 21},
			start: LineCol{Line: 3, Col: 3},
			end:   LineCol{Line: 3, Col: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start || end != tt.end {
				t.Errorf("Resolve() = %+v..%+v, want %+v..%+v", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestCanonicalPath(t *testing.T) {
	got := CanonicalPath("/proj/src", "./lib/../util.lilt")
	if got != "/proj/src/util.lilt" {
		t.Errorf("CanonicalPath = %q", got)
	}
	abs := CanonicalPath("/proj/src", "/other/x.lilt")
	if abs != "/other/x.lilt" {
		t.Errorf("CanonicalPath abs = %q", abs)
	}
}
