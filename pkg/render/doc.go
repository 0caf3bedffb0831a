// Package render provides output formats for curriculum diagrams.
//
// # Overview
//
// Rendering starts from a [scene.Scene] (markers and curves computed by
// pkg/scene) or from a [dag.DAG] export of the hierarchy:
//
//   - Standalone SVG with optional click-to-highlight (in [svg] subpackage)
//   - Graphviz node-link diagrams (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG, this package)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them.
//
//	out := svg.RenderSVG(s, svg.WithTitle("Curriculum"))
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the functions return an UNSUPPORTED
// error that names the package to install.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage lets Graphviz place the nodes instead of the
// fixed tier layout. Each tier becomes one rank; lateral links are dashed.
//
//	d, err := g.ToDAG()
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
