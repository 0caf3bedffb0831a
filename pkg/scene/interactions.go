package scene

import (
	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

// Interaction is the precomputed highlight for one selectable node: the
// curves to draw and the nodes that stay fully visible.
type Interaction struct {
	Curves  []Curve
	Visible []curriculum.NodeID
}

// Interactions resolves every node of a positioned graph once, so a static
// renderer can switch highlights without the engine.
func Interactions(g *curriculum.Graph, opts curriculum.TraceOptions) map[curriculum.NodeID]Interaction {
	nodes := g.Nodes()
	out := make(map[curriculum.NodeID]Interaction, len(nodes))
	for _, n := range nodes {
		h, err := g.Highlight(n.ID, opts)
		if err != nil {
			continue
		}
		in := Interaction{Curves: make([]Curve, 0, len(h.Edges))}
		for _, e := range h.Edges {
			in.Curves = append(in.Curves, NewCurve(e, ""))
		}
		for _, m := range nodes {
			if h.Visible(m.ID) {
				in.Visible = append(in.Visible, m.ID)
			}
		}
		out[n.ID] = in
	}
	return out
}
