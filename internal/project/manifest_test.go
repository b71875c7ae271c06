package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lilt/internal/printer"
)

func writeManifest(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
version = "0.1.0"

[build]
entries = ["src/main.lilt"]
out = "build"
target = "typed"
formatting = "pretty"
indent = 4
cache = true
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Package.Name != "demo" || m.Build.Out != "build" {
		t.Errorf("manifest = %+v", m)
	}
	opts := m.PrinterOptions()
	if opts.Target != printer.TargetTyped || opts.Formatting != printer.FormatPretty || opts.IndentSize != 4 {
		t.Errorf("printer options = %+v", opts)
	}
	if !strings.HasSuffix(m.OutDir(), "build") {
		t.Errorf("OutDir = %q", m.OutDir())
	}
	if m.CacheDir() == "" {
		t.Error("cache enabled but CacheDir is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(m.OutDir(), "dist") {
		t.Errorf("OutDir = %q, want dist default", m.OutDir())
	}
	if m.CacheDir() != "" {
		t.Errorf("CacheDir = %q, want disabled by default", m.CacheDir())
	}
	opts := m.PrinterOptions()
	if opts.Target != printer.TargetScripting || opts.Formatting != printer.FormatMinimal {
		t.Errorf("printer options = %+v", opts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bad target", "[build]\ntarget = \"wasm\"\n"},
		{"bad formatting", "[build]\nformatting = \"dense\"\n"},
		{"unknown key", "[build]\nspeed = 11\n"},
		{"negative indent", "[build]\nindent = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.text)
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.text)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Package.Name != "demo" {
		t.Fatalf("Find = %+v", m)
	}

	// no manifest anywhere above an isolated tree
	m, err = Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Errorf("Find in bare tree = %+v, want nil", m)
	}
}
