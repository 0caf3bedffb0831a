package curriculum

// Viewport is the drawing area positions are computed for.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Layout defaults, in pixels.
const (
	DefaultMarginLeft   = 50.0
	DefaultMarginRight  = 50.0
	DefaultMarginTop    = 50.0
	DefaultLayerSpacing = 200.0

	// MinInnerWidth is the narrowest horizontal band nodes are spread over.
	MinInnerWidth = 100.0
	// MinLayoutHeight replaces non-positive viewport heights.
	MinLayoutHeight = 2*DefaultMarginTop + (NumTiers-1)*DefaultLayerSpacing

	// Floors applied by pixel adapters before layout.
	FloorWidth  = 800.0
	FloorHeight = 600.0
)

// LayoutOptions controls [Graph.AssignPositions]. The zero value means
// [DefaultLayoutOptions].
type LayoutOptions struct {
	MarginLeft   float64 `json:"margin_left" yaml:"margin_left" toml:"margin_left"`
	MarginRight  float64 `json:"margin_right" yaml:"margin_right" toml:"margin_right"`
	MarginTop    float64 `json:"margin_top" yaml:"margin_top" toml:"margin_top"`
	LayerSpacing float64 `json:"layer_spacing" yaml:"layer_spacing" toml:"layer_spacing"`
}

// DefaultLayoutOptions returns 50px margins and 200px between tiers.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		MarginLeft:   DefaultMarginLeft,
		MarginRight:  DefaultMarginRight,
		MarginTop:    DefaultMarginTop,
		LayerSpacing: DefaultLayerSpacing,
	}
}

func (o LayoutOptions) normalized() LayoutOptions {
	if o == (LayoutOptions{}) {
		return DefaultLayoutOptions()
	}
	o.MarginLeft = max(o.MarginLeft, 0)
	o.MarginRight = max(o.MarginRight, 0)
	o.MarginTop = max(o.MarginTop, 0)
	if o.LayerSpacing <= 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	return o
}

// EffectiveViewport applies the degenerate-viewport guard: the width is
// raised so at least [MinInnerWidth] remains between the margins, and a
// non-positive height becomes [MinLayoutHeight].
func EffectiveViewport(vp Viewport, o LayoutOptions) Viewport {
	o = o.normalized()
	if minWidth := o.MarginLeft + o.MarginRight + MinInnerWidth; !(vp.Width >= minWidth) {
		vp.Width = minWidth
	}
	if !(vp.Height > 0) {
		vp.Height = MinLayoutHeight
	}
	return vp
}

// FloorViewport raises a window size to the minimum a pixel adapter draws:
// [FloorWidth] x [FloorHeight].
func FloorViewport(vp Viewport) Viewport {
	return Viewport{Width: max(vp.Width, FloorWidth), Height: max(vp.Height, FloorHeight)}
}

// AssignPositions returns a snapshot with every node positioned for vp.
//
// Tier L sits at y = MarginTop + L*LayerSpacing. Inside a tier of n nodes,
// node i (0-based) sits at
//
//	x = MarginLeft + (W - MarginLeft - MarginRight) / (n+1) * (i+1)
//
// where W is the effective width (see [EffectiveViewport]). Positions depend
// only on topology, viewport and options, so the call is idempotent. The
// normalized options are recorded and returned by [Graph.Layout].
func (g *Graph) AssignPositions(vp Viewport, o LayoutOptions) *Graph {
	o = o.normalized()
	vp = EffectiveViewport(vp, o)
	out := g.clone()
	inner := vp.Width - o.MarginLeft - o.MarginRight
	for t := range out.tiers {
		nodes := out.tiers[t]
		step := inner / float64(len(nodes)+1)
		y := o.MarginTop + float64(t)*o.LayerSpacing
		for i := range nodes {
			nodes[i].Pos = Position{X: o.MarginLeft + step*float64(i+1), Y: y}
		}
	}
	out.viewport = vp
	out.layout = o
	out.laidOut = true
	return out
}

// ContentHeight is the vertical extent occupied by all tiers plus the top
// margin repeated below the last tier.
func ContentHeight(o LayoutOptions) float64 {
	o = o.normalized()
	return 2*o.MarginTop + float64(NumTiers-1)*o.LayerSpacing
}
