// Package pkg holds the curriculummap libraries.
//
// # Overview
//
// A curriculum is a five-tier hierarchy: Topics, Classes, Course
// Objectives, Lecture Objectives and Assessments. Each node references one
// or more parents in the tier above, and Course Objectives also reference
// peers in their own tier. curriculummap lays the tiers out as horizontal
// rows, traces the connections of a selected node and draws the result.
//
// The data flow:
//
//	generate or read a dataset
//	         ↓
//	    [curriculum] AssignPositions (viewport → positions)
//	         ↓
//	    [curriculum] ResolveConnections / Highlight (selection → edges)
//	         ↓
//	    [scene] Build (presentation model)
//	         ↓
//	    [render/svg], [render/nodelink], [render] (SVG, DOT, PNG, PDF)
//
// # Quick Start
//
//	g, _ := curriculum.Generate(curriculum.DefaultGenerateOptions())
//	g = g.AssignPositions(curriculum.Viewport{Width: 1200, Height: 800}, curriculum.DefaultLayoutOptions())
//
//	v := curriculum.NewViewState(g.Viewport()).Toggle(curriculum.ID(curriculum.TierClass, 2))
//	s, _ := scene.Build(g, v, curriculum.DefaultTraceOptions())
//	out := svg.RenderSVG(s)
//
// # Main Packages
//
// [curriculum] - The hierarchy model: tiers, node ids, validation, seeded
// generation, layout, connection tracing and view state.
//
// [dag] - Row-indexed directed graph used for cycle detection on lateral
// links and as input to the Graphviz exporter.
//
// [scene] - Positions, opacities and curve geometry for one view, shared by
// every renderer.
//
// [render/svg] - Standalone SVG, optionally with click-to-highlight script.
//
// [render/nodelink] - DOT export and Graphviz rendering.
//
// [render] - SVG to PNG and PDF conversion.
//
// [graph] - JSON and YAML wire format of datasets and edge lists.
//
// [pipeline] - Generate, layout, resolve and render with caching, shared by
// the CLI and the server.
//
// [cache] - File, Redis and no-op caches with key derivation.
//
// [config] - Layered configuration (defaults, TOML or YAML file, environment).
//
// [server] - HTTP API and interactive viewer.
//
// [observability] - Hooks for metrics and tracing, with a Prometheus
// implementation.
//
// [errors] - Coded errors mapped to user messages and HTTP statuses.
package pkg
