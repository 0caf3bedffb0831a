// Package svg renders a [scene.Scene] as a standalone SVG document.
//
// Markers are circles with the label below them; dimmed markers are drawn at
// reduced opacity. Highlighted connections are dashed cubic curves, purple
// within a tier and blue across tiers. With [WithInteraction] the document
// also embeds a small script that switches highlights on click, so the file
// works in any browser without a server.
package svg

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/scene"
)

// Palette holds the colors used for markers and curves.
type Palette struct {
	Background     string
	MarkerFill     string
	SelectedFill   string
	ActiveStroke   string
	InactiveStroke string
	Label          string
	SameTier       string
	CrossTier      string
}

// DefaultPalette is a light theme.
var DefaultPalette = Palette{
	Background:     "#ffffff",
	MarkerFill:     "#e5e7eb",
	SelectedFill:   "#3b82f6",
	ActiveStroke:   "#3b82f6",
	InactiveStroke: "#9ca3af",
	Label:          "#374151",
	SameTier:       "#c084fc",
	CrossTier:      "#60a5fa",
}

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	title        string
	palette      Palette
	interactions map[curriculum.NodeID]scene.Interaction
}

// WithTitle adds a <title> element.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithPalette overrides the default colors.
func WithPalette(p Palette) Option { return func(r *renderer) { r.palette = p } }

// WithInteraction embeds precomputed highlights (see [scene.Interactions])
// and the script that applies them on click.
func WithInteraction(in map[curriculum.NodeID]scene.Interaction) Option {
	return func(r *renderer) { r.interactions = in }
}

// RenderSVG renders the scene.
func RenderSVG(s scene.Scene, opts ...Option) []byte {
	r := renderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-selected="%s">`+"\n",
		s.Width, s.Height, s.Width, s.Height, s.Selected)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <rect class="background" width="%.1f" height="%.1f" fill="%s"/>`+"\n", s.Width, s.Height, r.palette.Background)

	buf.WriteString(`  <g class="curves">` + "\n")
	for _, c := range s.Curves {
		r.renderCurve(&buf, c)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="markers">` + "\n")
	for _, m := range s.Markers {
		r.renderMarker(&buf, m)
	}
	buf.WriteString("  </g>\n")

	if r.interactions != nil {
		r.renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) curveColor(sameTier bool) string {
	if sameTier {
		return r.palette.SameTier
	}
	return r.palette.CrossTier
}

func (r *renderer) renderCurve(buf *bytes.Buffer, c scene.Curve) {
	class := "curve cross-tier"
	if c.SameTier {
		class = "curve same-tier"
	}
	opacity := 0.6
	if c.Hovered {
		class += " hovered"
		opacity = 1
	}
	fmt.Fprintf(buf, `    <path class="%s" data-key="%s" d="%s" fill="none" stroke="%s" stroke-width="%.0f" stroke-opacity="%.1f" stroke-dasharray="4"/>`+"\n",
		class, c.Key, c.PathData(), r.curveColor(c.SameTier), c.StrokeWidth(), opacity)
}

func (r *renderer) renderMarker(buf *bytes.Buffer, m scene.Marker) {
	fill := r.palette.MarkerFill
	if m.Selected {
		fill = r.palette.SelectedFill
	}
	stroke, width := r.palette.InactiveStroke, 1
	if m.Visible {
		stroke, width = r.palette.ActiveStroke, 2
	}
	fmt.Fprintf(buf, `    <g class="node" id="node-%s" data-id="%s" transform="translate(%.1f,%.1f)" opacity="%.1f" style="cursor:pointer">`+"\n",
		m.ID, m.ID, m.X, m.Y, m.Opacity())
	fmt.Fprintf(buf, `      <circle r="%.0f" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n", scene.NodeRadius, fill, stroke, width)
	fmt.Fprintf(buf, `      <text dy="%.0f" text-anchor="middle" font-family="sans-serif" font-size="14" fill="%s">%s</text>`+"\n",
		scene.LabelOffset, r.palette.Label, escapeXML(m.Label))
	buf.WriteString("    </g>\n")
}

type jsCurve struct {
	Key  string `json:"key"`
	D    string `json:"d"`
	Same bool   `json:"same"`
}

type jsInteraction struct {
	Curves  []jsCurve `json:"curves"`
	Visible []string  `json:"visible"`
}

func (r *renderer) interactionJSON() []byte {
	out := make(map[string]jsInteraction, len(r.interactions))
	for id, in := range r.interactions {
		js := jsInteraction{Curves: make([]jsCurve, len(in.Curves)), Visible: make([]string, len(in.Visible))}
		for i, c := range in.Curves {
			js.Curves[i] = jsCurve{Key: c.Key, D: c.PathData(), Same: c.SameTier}
		}
		for i, v := range in.Visible {
			js.Visible[i] = v.String()
		}
		out[id.String()] = js
	}
	data, _ := json.Marshal(out)
	return data
}

func (r *renderer) renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", interactionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[\n    const highlights = %s;\n    const palette = %s;%s\n  ]]></script>\n",
		r.interactionJSON(), r.paletteJSON(), interactionJS)
}

func (r *renderer) paletteJSON() []byte {
	data, _ := json.Marshal(map[string]string{
		"fill":     r.palette.MarkerFill,
		"selected": r.palette.SelectedFill,
		"active":   r.palette.ActiveStroke,
		"inactive": r.palette.InactiveStroke,
		"same":     r.palette.SameTier,
		"cross":    r.palette.CrossTier,
	})
	return data
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
