// Package nodelink renders curriculum hierarchies as Graphviz node-link
// diagrams.
//
// # Overview
//
// The fixed tier layout in pkg/curriculum spreads nodes evenly. Graphviz
// instead orders nodes within a tier to reduce crossings, which reads better
// for large or irregular curricula. Each tier is pinned to one rank so the
// five-row structure survives.
//
// # Usage
//
// Export the graph to a DAG, convert to DOT, then render:
//
//	d, err := g.ToDAG()
//	dot := nodelink.ToDOT(d, nodelink.Options{Highlight: edges})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include the tier and metadata
//   - Highlight: resolved edges drawn bold; nodes off the highlight are greyed
//
// Lateral edges are dashed and carry constraint=false so they never pull
// nodes out of their rank.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
