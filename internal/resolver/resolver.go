package resolver

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"lilt/internal/diag"
	"lilt/internal/jsast"
	"lilt/internal/pipeline"
	"lilt/internal/printer"
	"lilt/internal/source"
)

// Options configures a build.
type Options struct {
	// BaseDir anchors relative entry paths and the output mirror; ""
	// means the current directory.
	BaseDir string
	// OutDir receives the emitted files; "" means <BaseDir>/dist.
	OutDir string
	// Print controls code generation for every compiled module.
	Print printer.Options
	// Store enables build caching when non-nil.
	Store Store
}

// Resolver walks one entry module's import graph. Every module resolves
// at most once per Resolver; concurrent builds share work through the
// singleflight group and the Store.
type Resolver struct {
	opts    Options
	modules map[string]*Module
	order   []*Module
	patches []patch
	flight  *singleflight.Group
	nextFwd int

	compiles int // pipeline runs, for cache accounting
}

// patch defers one import binding of a cycle edge: from's code holds
// token until dep's output location is final.
type patch struct {
	from  *Module
	dep   *Module
	token string
}

// New creates a Resolver with its own singleflight group.
func New(opts Options) *Resolver {
	return newResolver(opts, &singleflight.Group{})
}

func newResolver(opts Options, flight *singleflight.Group) *Resolver {
	if opts.BaseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.BaseDir = wd
		}
	}
	if opts.OutDir == "" {
		opts.OutDir = filepath.Join(opts.BaseDir, "dist")
	}
	return &Resolver{
		opts:    opts,
		modules: make(map[string]*Module),
		flight:  flight,
	}
}

// Modules returns every resolved module in emission order: dependencies
// before dependents, cycle edges excepted.
func (r *Resolver) Modules() []*Module { return r.order }

// Resolve builds the graph rooted at entry and returns its module.
func (r *Resolver) Resolve(entry string) (*Module, error) {
	root := source.CanonicalPath(r.opts.BaseDir, entry)
	m, err := r.resolveLilt(root)
	if err != nil {
		return nil, err
	}
	if err := r.applyPatches(); err != nil {
		return nil, err
	}
	if err := r.flushCache(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteOutputs emits every resolved module under the output directory.
func (r *Resolver) WriteOutputs() error {
	for _, m := range r.order {
		dir := filepath.Dir(m.OutPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(m.OutPath, []byte(m.Code), 0o644); err != nil {
			return err
		}
		if m.DTS != "" {
			stub := strings.TrimSuffix(m.OutPath, filepath.Ext(m.OutPath)) + ".d.ts"
			if err := os.WriteFile(stub, []byte(m.DTS), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveLilt memoizes by canonical path; a hit during StatusResolving
// is a cycle edge and is handled by the caller.
func (r *Resolver) resolveLilt(path string) (*Module, error) {
	if m, ok := r.modules[path]; ok {
		return m, m.Err
	}
	m := &Module{Path: path, Kind: KindLilt, Status: StatusResolving}
	r.modules[path] = m

	if err := r.buildLilt(m); err != nil {
		m.Status = StatusError
		m.Err = err
		return m, err
	}
	m.Status = StatusResolved
	r.order = append(r.order, m)
	return m, nil
}

func (r *Resolver) buildLilt(m *Module) error {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return err
	}
	m.fingerprint = fingerprint(content, r.opts.Print)
	m.OutPath = r.outPath(m.Path, r.outExt())

	if payload, ok := r.cacheGet(m.fingerprint); ok {
		m.Code = payload.Code
		m.DTS = payload.Dts
		m.Imports = payload.Imports
		m.fromCache = true
		// dependencies still resolve so the whole graph gets emitted
		for _, spec := range payload.Imports {
			if _, err := r.resolveDep(m, spec, false); err != nil {
				return err
			}
		}
		return nil
	}

	prog, err := r.compile(m.Path, m.fingerprint, content)
	if err != nil {
		return err
	}

	// the compiled program may be shared between builds; rewrite a copy
	decls := make([]*jsast.ImportDecl, len(prog.Imports))
	for i, d := range prog.Imports {
		m.Imports = append(m.Imports, d.From)
		from, err := r.resolveDep(m, d.From, true)
		if err != nil {
			return err
		}
		clone := *d
		clone.From = from
		decls[i] = &clone
	}

	code, err := printer.Generate(&jsast.Program{Imports: decls, Stmts: prog.Stmts}, r.opts.Print)
	if err != nil {
		return err
	}
	m.Code = code
	if r.opts.Print.Target != printer.TargetTyped {
		m.DTS = printer.GenerateDeclarations(prog)
	}
	return nil
}

// compile runs the pipeline for one source file, shared per fingerprint
// across concurrent builds.
func (r *Resolver) compile(path, fp string, content []byte) (*jsast.Program, error) {
	v, err, _ := r.flight.Do(fp, func() (any, error) {
		fs := source.NewFileSet()
		id := fs.Add(path, content, 0)
		return pipeline.Compile(fs, id, pipeline.Options{})
	})
	if err != nil {
		return nil, err
	}
	r.compiles++
	return v.(*jsast.Program), nil
}

// resolveDep resolves one import edge and returns the specifier to emit.
// record enables forward-binding patches; it is off when re-resolving a
// cached module whose code already carries final specifiers.
func (r *Resolver) resolveDep(from *Module, spec string, record bool) (string, error) {
	kind, err := Classify(spec)
	if err != nil {
		return "", &diag.ImportError{ImportPath: spec, SourceFile: from.Path, Msg: err.Error()}
	}
	if kind.External() {
		return spec, nil
	}

	depPath := source.CanonicalPath(filepath.Dir(from.Path), spec)
	switch kind {
	case KindJS, KindTS:
		dep, err := r.resolveAsset(depPath, kind)
		if err != nil {
			return "", &diag.ImportError{ImportPath: spec, SourceFile: from.Path, Err: err}
		}
		link(from, dep)
		return spec, nil
	default:
		dep, err := r.resolveLilt(depPath)
		if err != nil {
			return "", &diag.ImportError{ImportPath: spec, SourceFile: from.Path, Err: err}
		}
		link(from, dep)
		if dep.Status == StatusResolving {
			if !record {
				return "", nil
			}
			token := r.forwardToken()
			r.patches = append(r.patches, patch{from: from, dep: dep, token: token})
			return token, nil
		}
		return r.outSpecifier(from, dep), nil
	}
}

func link(from, dep *Module) {
	from.Deps = append(from.Deps, dep)
	dep.Dependents = append(dep.Dependents, from)
}

// resolveAsset copies a script dependency through, resolving the imports
// found in its text. Source-module specifiers inside scripts rewrite by
// extension swap, which needs no forward binding.
func (r *Resolver) resolveAsset(path string, kind Kind) (*Module, error) {
	if m, ok := r.modules[path]; ok {
		return m, m.Err
	}
	m := &Module{Path: path, Kind: kind, Status: StatusResolving}
	r.modules[path] = m

	if err := r.buildAsset(m); err != nil {
		m.Status = StatusError
		m.Err = err
		return m, err
	}
	m.Status = StatusResolved
	r.order = append(r.order, m)
	return m, nil
}

func (r *Resolver) buildAsset(m *Module) error {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return err
	}
	m.OutPath = r.outPath(m.Path, filepath.Ext(m.Path))

	text := string(content)
	for _, spec := range scanImports(text) {
		kind, err := Classify(spec)
		if err != nil {
			return &diag.ImportError{ImportPath: spec, SourceFile: m.Path, Msg: err.Error()}
		}
		if kind.External() {
			continue
		}
		m.Imports = append(m.Imports, spec)
		depPath := source.CanonicalPath(filepath.Dir(m.Path), spec)
		switch kind {
		case KindJS, KindTS:
			if dep, ok := r.modules[depPath]; ok && dep.Status == StatusResolving {
				link(m, dep) // cycle between scripts, specifier unchanged
				continue
			}
			dep, err := r.resolveAsset(depPath, kind)
			if err != nil {
				return &diag.ImportError{ImportPath: spec, SourceFile: m.Path, Err: err}
			}
			link(m, dep)
		default:
			dep, ok := r.modules[depPath]
			if !ok || dep.Status != StatusResolving {
				dep, err = r.resolveLilt(depPath)
				if err != nil {
					return &diag.ImportError{ImportPath: spec, SourceFile: m.Path, Err: err}
				}
			}
			link(m, dep)
			text = rewriteSpecifier(text, spec, swapExt(spec, r.outExt()))
		}
	}
	m.Code = text
	return nil
}

// applyPatches replaces every forward-binding token with the
// dependency's final specifier, exactly once per token.
func (r *Resolver) applyPatches() error {
	for _, p := range r.patches {
		n := strings.Count(p.from.Code, p.token)
		if n != 1 {
			return fmt.Errorf("forward binding for %s occurs %d times in %s", p.dep.Path, n, p.from.Path)
		}
		p.from.Code = strings.Replace(p.from.Code, p.token, r.outSpecifier(p.from, p.dep), 1)
	}
	r.patches = nil
	return nil
}

// flushCache stores compiled modules after patching, so cached code
// never carries an unresolved forward binding.
func (r *Resolver) flushCache() error {
	if r.opts.Store == nil {
		return nil
	}
	for _, m := range r.order {
		if m.Kind != KindLilt || m.fromCache {
			continue
		}
		data, err := encodePayload(&cachePayload{Code: m.Code, Dts: m.DTS, Imports: m.Imports})
		if err != nil {
			return err
		}
		if err := r.opts.Store.Put(m.fingerprint, data); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) cacheGet(fp string) (*cachePayload, bool) {
	if r.opts.Store == nil {
		return nil, false
	}
	data, ok, err := r.opts.Store.Get(fp)
	if err != nil || !ok {
		// a broken cache entry degrades to a rebuild
		return nil, false
	}
	payload, err := decodePayload(data)
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (r *Resolver) forwardToken() string {
	r.nextFwd++
	return fmt.Sprintf("__LILT_FWD_%d__", r.nextFwd)
}

func (r *Resolver) outExt() string {
	if r.opts.Print.Target == printer.TargetTyped {
		return ".ts"
	}
	return ".js"
}

// outPath mirrors the source path relative to BaseDir under OutDir,
// swapping the extension. Sources outside BaseDir flatten to their base
// name.
func (r *Resolver) outPath(srcPath, ext string) string {
	rel, err := filepath.Rel(r.opts.BaseDir, filepath.FromSlash(srcPath))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(srcPath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
	return source.CanonicalPath(r.opts.OutDir, rel)
}

// outSpecifier is the relative specifier from's output uses to import
// dep's output.
func (r *Resolver) outSpecifier(from, dep *Module) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(from.OutPath)), filepath.FromSlash(dep.OutPath))
	if err != nil {
		rel = filepath.Base(dep.OutPath)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func swapExt(spec, ext string) string {
	return strings.TrimSuffix(spec, path.Ext(spec)) + ext
}
