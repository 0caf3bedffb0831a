package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/curriculummap/pkg/cache"
	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
	"github.com/matzehuels/curriculummap/pkg/graph"
	"github.com/matzehuels/curriculummap/pkg/observability"
	"github.com/matzehuels/curriculummap/pkg/render"
	"github.com/matzehuels/curriculummap/pkg/render/nodelink"
	"github.com/matzehuels/curriculummap/pkg/render/svg"
	"github.com/matzehuels/curriculummap/pkg/scene"
)

// RenderWithCacheInfo renders every requested format of a positioned graph
// concurrently. Each artifact is cached on its own; hit is true only when
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *curriculum.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	if graphHash == "" {
		data, err := graph.Marshal(g)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
		}
		graphHash = cache.Hash(data)
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		allHit    = true
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			data, hit, err := r.renderCached(ctx, g, graphHash, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			allHit = allHit && hit
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *curriculum.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, "", opts)
	return artifacts, err
}

func (r *Runner) artifactKey(graphHash, format string, g *curriculum.Graph, opts Options) string {
	vp := g.Viewport()
	return r.Keyer.ArtifactKey(graphHash, cache.ArtifactKeyOpts{
		Format:      format,
		Style:       opts.Style,
		Width:       vp.Width,
		Height:      vp.Height,
		Selected:    opts.Selected.String(),
		Trace:       opts.traceKey(),
		Interactive: opts.Interactive,
		Scale:       opts.Scale,
		Title:       opts.Title,
	})
}

func (r *Runner) renderCached(ctx context.Context, g *curriculum.Graph, graphHash, format string, opts Options) ([]byte, bool, error) {
	key := r.artifactKey(graphHash, format, g, opts)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
	}

	hooks := observability.Engine()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := renderFormat(ctx, g, format, opts)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("rendered", "format", format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	}
	return data, false, nil
}

// renderFormat produces one artifact without caching.
func renderFormat(ctx context.Context, g *curriculum.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.Marshal(g)
	case FormatDOT:
		dot, err := dotSource(g, opts)
		return []byte(dot), err
	}

	if opts.Style == StyleNodelink {
		dot, err := dotSource(g, opts)
		if err != nil {
			return nil, err
		}
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			return nodelink.RenderPDF(ctx, dot)
		}
		return nil, ValidateFormat(format)
	}

	doc, err := mapSVG(g, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return doc, nil
	case FormatPNG:
		return render.ToPNG(ctx, doc, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, doc)
	}
	return nil, ValidateFormat(format)
}

// mapSVG draws the curriculum map for the selection in opts.
func mapSVG(g *curriculum.Graph, opts Options) ([]byte, error) {
	view := curriculum.NewViewState(g.Viewport()).Toggle(opts.Selected).Hover(opts.Hovered)
	s, err := scene.Build(g, view, opts.Trace)
	if err != nil {
		return nil, err
	}
	svgOpts := []svg.Option{}
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, svg.WithInteraction(scene.Interactions(g, opts.Trace)))
	}
	return svg.RenderSVG(s, svgOpts...), nil
}

// dotSource exports the graph to DOT with the selection highlighted.
func dotSource(g *curriculum.Graph, opts Options) (string, error) {
	edges, err := g.ResolveConnections(opts.Selected, opts.Trace)
	if err != nil {
		return "", err
	}
	d, err := g.ToDAG()
	if err != nil {
		return "", err
	}
	return nodelink.ToDOT(d, nodelink.Options{Highlight: edges}), nil
}
