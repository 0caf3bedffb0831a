package graph

import (
	"encoding/json"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

// Edge is the serialized form of a resolved connection. Coordinates are
// those of the positioned endpoints.
type Edge struct {
	ID   string  `json:"id" yaml:"id"`
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	X1   float64 `json:"x1" yaml:"x1"`
	Y1   float64 `json:"y1" yaml:"y1"`
	X2   float64 `json:"x2" yaml:"x2"`
	Y2   float64 `json:"y2" yaml:"y2"`
}

// Connections is the response shape for one selection.
type Connections struct {
	Selected string   `json:"selected" yaml:"selected"`
	Edges    []Edge   `json:"edges" yaml:"edges"`
	Visible  []string `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// FromEdges converts resolved edges, keeping their order and duplicates.
func FromEdges(edges []curriculum.Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{
			ID:   e.Key(),
			From: e.From.String(),
			To:   e.To.String(),
			X1:   e.FromPos.X,
			Y1:   e.FromPos.Y,
			X2:   e.ToPos.X,
			Y2:   e.ToPos.Y,
		}
	}
	return out
}

// FromHighlight builds the response for a resolved selection, listing the
// visible nodes of g in tier order.
func FromHighlight(g *curriculum.Graph, h curriculum.Highlight) Connections {
	c := Connections{Selected: h.Selected.String(), Edges: FromEdges(h.Edges)}
	for _, n := range g.Nodes() {
		if h.Active() && h.Visible(n.ID) {
			c.Visible = append(c.Visible, n.ID.String())
		}
	}
	return c
}

// MarshalEdges encodes resolved edges as an indented JSON array.
func MarshalEdges(edges []curriculum.Edge) ([]byte, error) {
	return json.MarshalIndent(FromEdges(edges), "", "  ")
}
