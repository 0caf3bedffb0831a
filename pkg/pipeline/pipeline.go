// Package pipeline runs the generate → layout → render flow for curriculummap.
//
// The CLI and the HTTP server share this package so that both produce the
// same artifacts for the same inputs and share one cache key space.
//
// # Stages
//
//  1. Generate: build a synthetic curriculum from a seed (or take a loaded one)
//  2. Layout: assign tier rows and x positions for a viewport
//  3. Render: produce SVG, DOT, PNG, PDF or JSON output
//
// Each stage can be run on its own through [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Generate: curriculum.DefaultGenerateOptions(),
//	    Viewport: curriculum.Viewport{Width: 1200, Height: 800},
//	    Selected: curriculum.ID(curriculum.TierClass, 1),
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Style constants select the drawing used for SVG, PNG and PDF.
const (
	// StyleMap draws markers at their computed positions with curved
	// connections (the interactive curriculum map).
	StyleMap = "map"
	// StyleNodelink lets Graphviz place the nodes, one rank per tier.
	StyleNodelink = "nodelink"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported drawing styles.
var ValidStyles = map[string]bool{
	StyleMap:      true,
	StyleNodelink: true,
}

// Options configures a full pipeline run.
type Options struct {
	// Generate options. Ignored when Execute is given a graph.
	Generate curriculum.GenerateOptions

	// Layout options
	Viewport curriculum.Viewport
	Layout   curriculum.LayoutOptions

	// Selection and tracing
	Selected curriculum.NodeID
	Hovered  string
	Trace    curriculum.TraceOptions

	// Render options
	Formats     []string
	Style       string
	Interactive bool
	Title       string
	Scale       float64

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the positioned dataset.
	Graph *curriculum.Graph

	// GraphHash is the content hash of the positioned dataset.
	GraphHash string

	// Edges are the resolved connections of the selection.
	Edges []curriculum.Edge

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // generated dataset came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid style: %q (must be one of: map, nodelink)", style)
	}
	return nil
}

// Validate checks formats, style and viewport and fills defaults.
func (o *Options) Validate() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = StyleMap
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := errors.ValidateDimension("width", o.Viewport.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Viewport.Height); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > 10 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v out of range (0, 10]", o.Scale)
	}
	return nil
}

// pixelOutput reports whether any requested format is drawn at a viewport
// size, which raises the viewport to the drawing floor.
func (o Options) pixelOutput() bool {
	for _, f := range o.Formats {
		if f == FormatSVG || f == FormatPNG || f == FormatPDF {
			return true
		}
	}
	return false
}

func (o Options) traceKey() string {
	return fmt.Sprintf("%t/%t/%t", o.Trace.ClassUpward, o.Trace.AssessmentUpward, o.Trace.OutgoingLateral)
}
