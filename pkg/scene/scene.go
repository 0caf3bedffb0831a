// Package scene turns a positioned curriculum graph and a view state into
// drawable geometry: node markers, Bezier curves for the highlighted
// connections, and the canvas size. Renderers in pkg/render consume a
// [Scene] and never query the graph themselves.
package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

// Drawing constants, in layout units.
const (
	NodeRadius    = 15.0
	LabelOffset   = 30.0
	DimmedOpacity = 0.3
	BottomMargin  = 50.0

	// MaxSameTierOffset caps how far a same-tier curve bulges.
	MaxSameTierOffset = 100.0
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is a drawable node.
type Marker struct {
	ID       curriculum.NodeID
	Label    string
	X, Y     float64
	Visible  bool
	Selected bool
}

// Opacity is 1 for visible markers and [DimmedOpacity] otherwise.
func (m Marker) Opacity() float64 {
	if m.Visible {
		return 1
	}
	return DimmedOpacity
}

// Curve is a cubic Bezier connection between two markers.
type Curve struct {
	Key      string
	From, To curriculum.NodeID
	P0, C1   Point
	C2, P3   Point
	SameTier bool
	Hovered  bool
}

// PathData renders the curve as an SVG path "M x0 y0 C x1 y1, x2 y2, x3 y3".
func (c Curve) PathData() string {
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
		c.P0.X, c.P0.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.P3.X, c.P3.Y)
}

// StrokeWidth is 3 for the hovered curve and 2 otherwise.
func (c Curve) StrokeWidth() float64 {
	if c.Hovered {
		return 3
	}
	return 2
}

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Width, Height float64
	Markers       []Marker
	Curves        []Curve
	Selected      curriculum.NodeID
}

// ControlPoints returns the two Bezier control points for a curve from p0 to p3.
//
// Cross-tier curves leave and enter almost vertically:
// C1 = p0 + (0.25dx, 0.1dy), C2 = (p0.x + 0.75dx, p3.y - 0.1dy).
// Same-tier curves arch away from the tier line with an offset of
// min(|dx|, 100), signed by dy.
func ControlPoints(p0, p3 Point, sameTier bool) (c1, c2 Point) {
	dx := p3.X - p0.X
	dy := p3.Y - p0.Y
	if sameTier {
		mid := Point{X: (p0.X + p3.X) / 2, Y: (p0.Y + p3.Y) / 2}
		off := math.Min(math.Abs(dx), MaxSameTierOffset)
		if dy < 0 {
			off = -off
		}
		return Point{mid.X - off, mid.Y - off}, Point{mid.X + off, mid.Y - off}
	}
	return Point{p0.X + dx*0.25, p0.Y + dy*0.1}, Point{p0.X + dx*0.75, p3.Y - dy*0.1}
}

// NewCurve builds the curve for a resolved edge.
func NewCurve(e curriculum.Edge, hovered string) Curve {
	p0 := Point(e.FromPos)
	p3 := Point(e.ToPos)
	c1, c2 := ControlPoints(p0, p3, e.SameTier())
	key := e.Key()
	return Curve{
		Key:      key,
		From:     e.From,
		To:       e.To,
		P0:       p0,
		C1:       c1,
		C2:       c2,
		P3:       p3,
		SameTier: e.SameTier(),
		Hovered:  hovered != "" && key == hovered,
	}
}

// Build lays out g for the view's viewport when needed and resolves the
// view's selection into markers and curves.
//
// If g is already positioned for the effective viewport of v, or v carries
// no viewport at all, g is used as is. Otherwise g is laid out again with
// the options it recorded (see [curriculum.Graph.Layout]). An unknown selection fails with
// NODE_NOT_FOUND.
func Build(g *curriculum.Graph, v curriculum.ViewState, opts curriculum.TraceOptions) (Scene, error) {
	g = positioned(g, v.Viewport)

	h, err := g.Highlight(v.Selected, opts)
	if err != nil {
		return Scene{}, err
	}

	vp := g.Viewport()
	s := Scene{Width: vp.Width, Height: vp.Height, Selected: v.Selected}
	lowest := 0.0
	for _, n := range g.Nodes() {
		s.Markers = append(s.Markers, Marker{
			ID:       n.ID,
			Label:    n.Name,
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Visible:  h.Visible(n.ID),
			Selected: n.ID == v.Selected,
		})
		lowest = math.Max(lowest, n.Pos.Y)
	}
	s.Height = math.Max(s.Height, lowest+BottomMargin)

	for _, e := range h.Edges {
		s.Curves = append(s.Curves, NewCurve(e, v.Hovered))
	}
	return s, nil
}

// positioned relays g out with the options it was last laid out with.
func positioned(g *curriculum.Graph, vp curriculum.Viewport) *curriculum.Graph {
	opts := g.Layout()
	if g.Positioned() && (vp == curriculum.Viewport{} || g.Viewport() == curriculum.EffectiveViewport(vp, opts)) {
		return g
	}
	return g.AssignPositions(vp, opts)
}
