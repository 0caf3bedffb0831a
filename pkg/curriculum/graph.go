package curriculum

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/curriculummap/pkg/dag"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Position is a point in layout coordinates (pixels, origin top-left).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one element of the hierarchy.
//
// Up and Lateral hold ordinals: Up points into the tier above, Lateral into
// the node's own tier (Course Objectives only). Slices returned by [Graph]
// accessors are shared with the graph and must be treated as read-only.
type Node struct {
	ID      NodeID
	Name    string
	Pos     Position
	Up      []int
	Lateral []int
}

// Graph is an immutable snapshot of a curriculum hierarchy: five ordered
// tiers, dataset identity and the positions computed for one viewport.
//
// A Graph is safe for concurrent readers.
type Graph struct {
	id       uuid.UUID
	seed     uint64
	tiers    [NumTiers][]Node
	viewport Viewport
	layout   LayoutOptions
	laidOut  bool

	lateralCycle bool
}

// Options carries dataset identity into [New].
type Options struct {
	// ID identifies the dataset. uuid.Nil draws a fresh random ID.
	ID uuid.UUID
	// Seed records the generator seed the tiers came from, 0 if hand-built.
	Seed uint64
}

// New validates tiers and returns a graph that owns a deep copy of them.
//
// Node IDs may be left zero; they are filled from the tier and slice
// position. Empty names default to the generated form ("CO 3"). Every
// reference is checked (see [Validate]) and the first violation is returned
// as an INVALID_REFERENCE or INVALID_NODE_ID error.
func New(tiers [NumTiers][]Node, opts Options) (*Graph, error) {
	g := &Graph{id: opts.ID, seed: opts.Seed}
	if g.id == uuid.Nil {
		g.id = uuid.New()
	}
	for t := range tiers {
		g.tiers[t] = make([]Node, len(tiers[t]))
		for i, n := range tiers[t] {
			if n.ID.IsZero() {
				n.ID = ID(Tier(t), i+1)
			}
			if n.Name == "" && n.ID.Tier == Tier(t) {
				n.Name = defaultName(Tier(t), i+1)
			}
			n.Up = slices.Clone(n.Up)
			n.Lateral = slices.Clone(n.Lateral)
			g.tiers[t][i] = n
		}
	}
	if err := Validate(g.tiers); err != nil {
		return nil, err
	}
	d, err := g.ToDAG()
	if err != nil {
		return nil, err
	}
	g.lateralCycle = d.DetectCycles() != nil
	return g, nil
}

// ID returns the dataset identifier.
func (g *Graph) ID() uuid.UUID { return g.id }

// Seed returns the generator seed, or 0 for hand-built graphs.
func (g *Graph) Seed() uint64 { return g.seed }

// Tier returns the nodes of t in ordinal order.
func (g *Graph) Tier(t Tier) []Node {
	if !t.Valid() {
		return nil
	}
	return slices.Clone(g.tiers[t])
}

// Nodes returns every node, tier by tier.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, g.Len())
	for _, nodes := range g.tiers {
		out = append(out, nodes...)
	}
	return out
}

// Len returns the total node count.
func (g *Graph) Len() int {
	n := 0
	for _, nodes := range g.tiers {
		n += len(nodes)
	}
	return n
}

// Node looks up a node by ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n := g.lookup(id)
	if n == nil {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether id names a node in the graph.
func (g *Graph) Has(id NodeID) bool { return g.lookup(id) != nil }

// Viewport returns the effective viewport the positions were computed for.
// It is the zero Viewport until [Graph.AssignPositions] has run.
func (g *Graph) Viewport() Viewport { return g.viewport }

// Layout returns the options the positions were computed with, or
// [DefaultLayoutOptions] before [Graph.AssignPositions] has run.
func (g *Graph) Layout() LayoutOptions {
	if !g.laidOut {
		return DefaultLayoutOptions()
	}
	return g.layout
}

// Positioned reports whether the snapshot carries computed positions.
func (g *Graph) Positioned() bool { return g.laidOut }

func (g *Graph) lookup(id NodeID) *Node {
	if !id.Tier.Valid() || id.Ordinal < 1 || id.Ordinal > len(g.tiers[id.Tier]) {
		return nil
	}
	return &g.tiers[id.Tier][id.Ordinal-1]
}

func (g *Graph) clone() *Graph {
	c := *g
	for t := range g.tiers {
		c.tiers[t] = slices.Clone(g.tiers[t])
	}
	return &c
}

// Stats summarizes graph shape.
type Stats struct {
	Nodes        int
	PerTier      [NumTiers]int
	UpLinks      int
	LateralLinks int
	// LateralCycle reports whether the Course Objective lateral links
	// contain a directed cycle.
	LateralCycle bool
}

// Stats counts nodes and references. The lateral cycle check runs once, in
// [New].
func (g *Graph) Stats() Stats {
	var s Stats
	for t, nodes := range g.tiers {
		s.PerTier[t] = len(nodes)
		s.Nodes += len(nodes)
		for _, n := range nodes {
			s.UpLinks += len(n.Up)
			s.LateralLinks += len(n.Lateral)
		}
	}
	s.LateralCycle = g.lateralCycle
	return s
}

// ToDAG exports the hierarchy as a row-indexed graph for layered renderers.
// Hierarchy edges point from parent to child; lateral edges from a Course
// Objective to each peer it references. Node metadata carries the tier title
// and, once positioned, the computed coordinates.
//
// The export is checked with [dag.DAG.Validate]. Hierarchy edges always
// join consecutive rows, so a cycle found on the export is a lateral one.
func (g *Graph) ToDAG() (*dag.DAG, error) {
	d := dag.New(dag.Metadata{
		"id":   g.id.String(),
		"seed": g.seed,
	})
	for _, n := range g.Nodes() {
		meta := dag.Metadata{"tier": n.ID.Tier.Title()}
		if g.laidOut {
			meta["x"] = n.Pos.X
			meta["y"] = n.Pos.Y
		}
		if err := d.AddNode(dag.Node{ID: n.ID.String(), Label: n.Name, Row: int(n.ID.Tier), Meta: meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if parent, ok := n.ID.Tier.Parent(); ok {
			for _, p := range n.Up {
				e := dag.Edge{From: ID(parent, p).String(), To: n.ID.String(), Kind: dag.EdgeHierarchy}
				if err := d.AddEdge(e); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s -> %s", e.From, e.To)
				}
			}
		}
		for _, k := range n.Lateral {
			e := dag.Edge{From: n.ID.String(), To: ID(n.ID.Tier, k).String(), Kind: dag.EdgeLateral}
			if err := d.AddEdge(e); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s -> %s", e.From, e.To)
			}
		}
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "export")
	}
	return d, nil
}
