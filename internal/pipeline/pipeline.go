package pipeline

import (
	"context"
	"log"
	"runtime"
	"sync"

	"codedigest/internal/apisurface"
	"codedigest/internal/config"
	"codedigest/internal/digest"
	"codedigest/internal/filemap"
	"codedigest/internal/graph"
	"codedigest/internal/imports"
	"codedigest/internal/lang"
	"codedigest/internal/scan"
)

// Result is the complete output of one ingestion run. All structures are
// built fresh per run and immutable once returned; a new run produces a new
// Result rather than updating an old one.
type Result struct {
	Graph   *graph.DependencyGraph
	Surface *apisurface.Surface
	Tree    string
	Digest  *digest.Digest
	// Skipped lists analyzable files excluded mid-run (size ceiling).
	Skipped []string
}

// fileOut carries one file's extraction results from a worker to the merge
// barrier.
type fileOut struct {
	path      string
	specs     []string
	endpoints []apisurface.Endpoint
	library   *apisurface.Library
	skipped   bool
}

// Run executes the full pipeline over a loaded FileMap: ignore filtering,
// tree rendering, parallel per-file extraction, import resolution over the
// completed node set, and digest generation. Per-file failures degrade to a
// sparser result; only context cancellation aborts the run.
func Run(ctx context.Context, fm *filemap.FileMap, cfg config.Config) (*Result, error) {
	filter, err := scan.NewFilter(cfg.IgnoreFragments, cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	admitted := scan.Admitted(fm, filter)
	tree := scan.RenderTree(fm.Root, admitted)
	log.Printf("pipeline: admitted %d of %d files", len(admitted), fm.Len())

	// Pass 1: a node for every admitted, classifiable file. No edges exist
	// until the node set is complete.
	g := graph.New()
	var analyzable []string
	for _, p := range admitted {
		if l := lang.Classify(p); l != lang.Unknown {
			g.AddNode(p, l)
			analyzable = append(analyzable, p)
		}
	}

	outs, err := extractAll(ctx, fm, analyzable, cfg)
	if err != nil {
		return nil, err
	}

	// Pass 2: resolve imports over the read-only admitted snapshot. Each
	// successful resolution adds one symmetric edge; self-resolutions and
	// duplicates collapse inside the graph.
	resolver := imports.NewResolver(admitted, cfg.AliasMarker)
	for _, p := range analyzable {
		out, ok := outs[p]
		if !ok {
			continue
		}
		l := lang.Classify(p)
		for _, spec := range out.specs {
			if target := resolver.Resolve(spec, p, l); target != "" {
				g.AddEdge(p, target)
			}
		}
	}

	surface := &apisurface.Surface{}
	var skipped []string
	for _, p := range analyzable {
		out, ok := outs[p]
		if !ok {
			continue
		}
		if out.skipped {
			skipped = append(skipped, p)
			continue
		}
		surface.Endpoints = append(surface.Endpoints, out.endpoints...)
		if out.library != nil {
			surface.Libraries = append(surface.Libraries, *out.library)
		}
	}
	if len(skipped) > 0 {
		log.Printf("pipeline: skipped %d oversized files", len(skipped))
	}

	d := digest.Generate(g, surface, cfg.DigestTopN)
	log.Printf("pipeline: %d modules, %d edges, %d endpoints, %d exports",
		d.ModuleCount, d.EdgeCount, d.EndpointCount, d.ExportCount)

	return &Result{Graph: g, Surface: surface, Tree: tree, Digest: d, Skipped: skipped}, nil
}

// extractAll runs per-file extraction on a bounded worker pool. Each file's
// analysis depends only on its own bytes, so workers share nothing; results
// merge into one map behind a single collector, the only writer.
func extractAll(ctx context.Context, fm *filemap.FileMap, paths []string, cfg config.Config) (map[string]fileOut, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	tasks := make(chan string, 64)
	results := make(chan fileOut, 64)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case p, ok := <-tasks:
					if !ok {
						return
					}
					results <- extractOne(fm, p, cfg)
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case tasks <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outs := make(map[string]fileOut, len(paths))
	for out := range results {
		outs[out.path] = out
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outs, nil
}

func extractOne(fm *filemap.FileMap, p string, cfg config.Config) fileOut {
	out := fileOut{path: p}
	content, ok := fm.Get(p)
	if !ok {
		return out
	}
	if cfg.MaxFileSize > 0 && int64(len(content)) > cfg.MaxFileSize {
		out.skipped = true
		return out
	}
	l := lang.Classify(p)
	out.specs = imports.Extract(content, l, cfg.AliasMarker)
	out.endpoints = apisurface.ExtractEndpoints(p, content, l)
	out.library = apisurface.ExtractExports(p, content, l)
	return out
}
