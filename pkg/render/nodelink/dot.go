package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/dag"
	"github.com/matzehuels/curriculummap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the tier and metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool

	// Highlight lists resolved edges to emphasize. Nodes that are not an
	// endpoint of any highlighted edge are drawn greyed out.
	Highlight []curriculum.Edge
}

// ToDOT converts a DAG to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *dag.DAG, opts Options) string {
	hl := newHighlightSet(opts.Highlight)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#e5e7eb\", color=\"#3b82f6\", fontsize=14, fixedsize=false];\n")
	buf.WriteString("  edge [color=\"#60a5fa\", arrowsize=0.6];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, row := range g.RowIDs() {
		fmt.Fprintf(&buf, "  subgraph rank_%d {\n    rank=same;\n", row)
		for _, n := range g.NodesInRow(row) {
			label := fmtLabel(*n, opts.Detailed)
			attrs := fmtAttrs(*n, label, hl)
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if e.IsLateral() {
			attrs = append(attrs, "style=dashed", "color=\"#c084fc\"", "constraint=false")
		}
		if hl.edge(e.From, e.To) {
			attrs = append(attrs, "penwidth=3")
		} else if hl.active() {
			attrs = append(attrs, "color=\"#d1d5db\"")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

type highlightSet struct {
	edges map[[2]string]bool
	nodes map[string]bool
}

func newHighlightSet(edges []curriculum.Edge) highlightSet {
	hs := highlightSet{edges: map[[2]string]bool{}, nodes: map[string]bool{}}
	for _, e := range edges {
		from, to := e.From.String(), e.To.String()
		hs.nodes[from] = true
		hs.nodes[to] = true
		hs.edges[[2]string{from, to}] = true
		// Upward edges run child to parent while the DAG stores parent to child.
		hs.edges[[2]string{to, from}] = true
	}
	return hs
}

func (h highlightSet) active() bool              { return len(h.edges) > 0 }
func (h highlightSet) edge(from, to string) bool { return h.edges[[2]string{from, to}] }
func (h highlightSet) node(id string) bool       { return !h.active() || h.nodes[id] }

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}

	parts := []string{fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.DisplayLabel() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string, hl highlightSet) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", n.ID)}
	if !hl.node(n.ID) {
		attrs = append(attrs, "fontcolor=\"#9ca3af\"", "color=\"#9ca3af\"", "fillcolor=\"#f3f4f6\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
