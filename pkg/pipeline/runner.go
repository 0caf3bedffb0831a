package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/curriculummap/pkg/cache"
	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/graph"
	"github.com/matzehuels/curriculummap/pkg/observability"
	"github.com/matzehuels/curriculummap/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute generates a dataset and runs the remaining stages on it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	g, hit, err := r.GenerateWithCacheInfo(ctx, opts.Generate, opts.Refresh)
	if err != nil {
		return nil, err
	}
	generateTime := time.Since(start)

	result, err := r.ExecuteGraph(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.GenerateTime = generateTime
	result.CacheInfo.GraphHit = hit
	return result, nil
}

// ExecuteGraph runs layout, tracing and rendering on an existing dataset.
func (r *Runner) ExecuteGraph(ctx context.Context, g *curriculum.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result := &Result{}

	vp := opts.Viewport
	if opts.pixelOutput() {
		vp = curriculum.FloorViewport(vp)
	}

	layoutStart := time.Now()
	g = r.Layout(ctx, g, vp, opts.Layout)
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = g.Len()

	if data, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	edges, err := r.Resolve(ctx, g, opts.Selected, opts.Trace)
	if err != nil {
		return nil, err
	}
	result.Edges = edges
	result.Stats.EdgeCount = len(edges)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo builds a dataset, reusing a cached one for the same
// options unless refresh is set, and reports whether the cache was hit.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts curriculum.GenerateOptions, refresh bool) (*curriculum.Graph, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.GraphKey(cache.GraphKeyOpts{
		Seed:           opts.Seed,
		Sizes:          opts.Sizes[:],
		ClassTopics:    [2]int{opts.ClassTopics.Min, opts.ClassTopics.Max},
		ObjectiveLinks: [2]int{opts.ObjectiveLinks.Min, opts.ObjectiveLinks.Max},
	})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := graph.Unmarshal(data); err == nil {
				r.Logger.Debug("dataset from cache", "seed", opts.Seed, "nodes", g.Len())
				return g, true, nil
			}
			r.Logger.Warn("discarding unreadable cached dataset", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	start := time.Now()
	g, err := curriculum.Generate(opts)
	nodes := 0
	if g != nil {
		nodes = g.Len()
	}
	observability.Engine().OnGenerate(ctx, opts.Seed, nodes, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("generated dataset", "seed", opts.Seed, "nodes", nodes, "duration", time.Since(start))

	if data, err := graph.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return g, false, nil
}

// Generate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts curriculum.GenerateOptions) (*curriculum.Graph, error) {
	g, _, err := r.GenerateWithCacheInfo(ctx, opts, false)
	return g, err
}

// Layout positions g for vp.
func (r *Runner) Layout(ctx context.Context, g *curriculum.Graph, vp curriculum.Viewport, opts curriculum.LayoutOptions) *curriculum.Graph {
	hooks := observability.Engine()
	hooks.OnLayoutStart(ctx, g.Len())
	start := time.Now()
	out := g.AssignPositions(vp, opts)
	hooks.OnLayoutComplete(ctx, g.Len(), time.Since(start), nil)
	r.Logger.Debug("assigned positions", "width", out.Viewport().Width, "height", out.Viewport().Height)
	return out
}

// Resolve traces the connections of sel.
func (r *Runner) Resolve(ctx context.Context, g *curriculum.Graph, sel curriculum.NodeID, opts curriculum.TraceOptions) ([]curriculum.Edge, error) {
	start := time.Now()
	edges, err := g.ResolveConnections(sel, opts)
	observability.Engine().OnResolve(ctx, tierLabel(sel), len(edges), time.Since(start), err)
	return edges, err
}

// Scene builds the presentation scene for a view.
func (r *Runner) Scene(ctx context.Context, g *curriculum.Graph, v curriculum.ViewState, opts curriculum.TraceOptions) (scene.Scene, error) {
	start := time.Now()
	s, err := scene.Build(g, v, opts)
	observability.Engine().OnResolve(ctx, tierLabel(v.Selected), len(s.Curves), time.Since(start), err)
	return s, err
}

func tierLabel(id curriculum.NodeID) string {
	if id.IsZero() {
		return "none"
	}
	return id.Tier.String()
}
