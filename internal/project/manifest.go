// Package project loads the lilt.toml manifest that pins a project's
// entry points and build settings, so invocations inside the tree don't
// need to repeat them as flags.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"lilt/internal/printer"
)

// ManifestName is the file looked up from the working directory upward.
const ManifestName = "lilt.toml"

// Manifest is the parsed project file.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`

	// Dir is the directory the manifest was loaded from.
	Dir string `toml:"-"`
}

// PackageSection names the project.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildSection mirrors the build command's flags.
type BuildSection struct {
	Entries    []string `toml:"entries"`
	Out        string   `toml:"out"`
	Target     string   `toml:"target"`     // "scripting" or "typed"
	Formatting string   `toml:"formatting"` // "minimal", "standard" or "pretty"
	Indent     int      `toml:"indent"`
	Tabs       bool     `toml:"tabs"`
	Cache      bool     `toml:"cache"`
	CacheDir   string   `toml:"cache-dir"`
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Find walks from dir toward the filesystem root looking for a
// manifest. A missing manifest is not an error; it returns nil.
func Find(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	switch m.Build.Target {
	case "", "scripting", "typed":
	default:
		return fmt.Errorf("invalid target %q", m.Build.Target)
	}
	switch m.Build.Formatting {
	case "", "minimal", "standard", "pretty":
	default:
		return fmt.Errorf("invalid formatting %q", m.Build.Formatting)
	}
	if m.Build.Indent < 0 {
		return fmt.Errorf("invalid indent %d", m.Build.Indent)
	}
	return nil
}

// OutDir resolves the output directory against the manifest's own
// location.
func (m *Manifest) OutDir() string {
	out := m.Build.Out
	if out == "" {
		out = "dist"
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(m.Dir, out)
	}
	return out
}

// CacheDir resolves the cache directory; "" disables caching unless
// Build.Cache asked for the default location.
func (m *Manifest) CacheDir() string {
	if !m.Build.Cache {
		return ""
	}
	dir := m.Build.CacheDir
	if dir == "" {
		dir = ".lilt-cache"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.Dir, dir)
	}
	return dir
}

// PrinterOptions maps the build section onto code generation settings.
func (m *Manifest) PrinterOptions() printer.Options {
	opts := printer.Options{
		IndentSize: m.Build.Indent,
		UseTabs:    m.Build.Tabs,
	}
	if m.Build.Target == "typed" {
		opts.Target = printer.TargetTyped
	}
	switch m.Build.Formatting {
	case "standard":
		opts.Formatting = printer.FormatStandard
	case "pretty":
		opts.Formatting = printer.FormatPretty
	}
	return opts
}
