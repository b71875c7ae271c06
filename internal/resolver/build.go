package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Result is one finished entry build.
type Result struct {
	// Entry is the entry module.
	Entry *Module
	// Modules holds every emitted module in emission order.
	Modules []*Module
	// OutDir is where the outputs were written.
	OutDir string
}

// BuildModule resolves, compiles and emits one entry module's graph.
func BuildModule(entry string, opts Options) (*Result, error) {
	r := New(opts)
	m, err := r.Resolve(entry)
	if err != nil {
		return nil, err
	}
	if err := r.WriteOutputs(); err != nil {
		return nil, err
	}
	return &Result{Entry: m, Modules: r.Modules(), OutDir: r.opts.OutDir}, nil
}

// BuildAll builds several entry modules concurrently. The builds share
// the Store and a singleflight group, so a module reached from more
// than one entry compiles once.
func BuildAll(ctx context.Context, entries []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(entries))
	var flight singleflight.Group

	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := newResolver(opts, &flight)
			m, err := r.Resolve(entry)
			if err != nil {
				return err
			}
			if err := r.WriteOutputs(); err != nil {
				return err
			}
			results[i] = &Result{Entry: m, Modules: r.Modules(), OutDir: r.opts.OutDir}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
