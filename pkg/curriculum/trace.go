package curriculum

import (
	"slices"

	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Edge is one resolved connection between two positioned nodes.
type Edge struct {
	From    NodeID   `json:"from"`
	To      NodeID   `json:"to"`
	FromPos Position `json:"fromPos"`
	ToPos   Position `json:"toPos"`
}

// Key identifies the edge as "from-to", e.g. "objective-2-class-1".
// It is what hover state refers to.
func (e Edge) Key() string { return e.From.String() + "-" + e.To.String() }

// SameTier reports whether both endpoints share a tier (a lateral link).
func (e Edge) SameTier() bool { return e.From.Tier == e.To.Tier }

// TraceOptions selects the tracing rules that go beyond a strictly
// downward walk from Topics and Classes.
type TraceOptions struct {
	// ClassUpward adds edges from a selected Class to its Topics.
	ClassUpward bool `json:"class_upward" yaml:"class_upward" toml:"class_upward"`
	// AssessmentUpward traces a selected Assessment up to its Topics.
	AssessmentUpward bool `json:"assessment_upward" yaml:"assessment_upward" toml:"assessment_upward"`
	// OutgoingLateral adds edges from a selected Course Objective to the
	// peers it references, in addition to the peers referencing it.
	OutgoingLateral bool `json:"outgoing_lateral" yaml:"outgoing_lateral" toml:"outgoing_lateral"`
}

// DefaultTraceOptions enables every rule.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{ClassUpward: true, AssessmentUpward: true, OutgoingLateral: true}
}

// LegacyTraceOptions disables every optional rule: Classes trace only
// downward, Assessments resolve to nothing and lateral links are followed
// only from the referencing side.
func LegacyTraceOptions() TraceOptions { return TraceOptions{} }

// ResolveConnections returns the edges to highlight when sel is selected.
//
// Edges come upward first (child to parent, chained to the Topics), then
// downward (selected node to each child referencing it), then lateral for
// Course Objectives (peers referencing sel, then peers sel references).
// Upward chains follow only [Node.Up], never lateral links. Duplicates are
// kept.
//
// The empty selection yields nil. An ID that names no node yields a
// NODE_NOT_FOUND error.
func (g *Graph) ResolveConnections(sel NodeID, opts TraceOptions) ([]Edge, error) {
	if sel.IsZero() {
		return nil, nil
	}
	n := g.lookup(sel)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node %q in graph", sel)
	}

	t := tracer{g: g, visited: make(map[NodeID]bool)}
	switch sel.Tier {
	case TierTopic:
		t.down(n)
	case TierClass:
		if opts.ClassUpward {
			t.up(n, 0)
		}
		t.down(n)
	case TierObjective:
		t.up(n, 0)
		t.down(n)
		t.lateral(n, opts.OutgoingLateral)
	case TierLecture:
		t.up(n, 0)
		t.down(n)
	case TierAssessment:
		if opts.AssessmentUpward {
			t.up(n, 0)
		}
	}
	return t.edges, nil
}

type tracer struct {
	g       *Graph
	visited map[NodeID]bool
	edges   []Edge
}

func (t *tracer) emit(from, to *Node) {
	t.edges = append(t.edges, Edge{From: from.ID, To: to.ID, FromPos: from.Pos, ToPos: to.Pos})
}

// up walks parent references toward the Topics. The visited set and the
// depth bound keep the walk finite whatever the data looks like.
func (t *tracer) up(n *Node, depth int) {
	if depth >= NumTiers || t.visited[n.ID] {
		return
	}
	t.visited[n.ID] = true
	parentTier, ok := n.ID.Tier.Parent()
	if !ok {
		return
	}
	for _, ord := range n.Up {
		p := t.g.lookup(ID(parentTier, ord))
		if p == nil {
			continue
		}
		t.emit(n, p)
		t.up(p, depth+1)
	}
}

func (t *tracer) down(n *Node) {
	childTier, ok := n.ID.Tier.Child()
	if !ok {
		return
	}
	for i := range t.g.tiers[childTier] {
		c := &t.g.tiers[childTier][i]
		if slices.Contains(c.Up, n.ID.Ordinal) {
			t.emit(n, c)
		}
	}
}

func (t *tracer) lateral(n *Node, outgoing bool) {
	peers := t.g.tiers[n.ID.Tier]
	for i := range peers {
		o := &peers[i]
		if o.ID != n.ID && slices.Contains(o.Lateral, n.ID.Ordinal) {
			t.emit(n, o)
		}
	}
	if !outgoing {
		return
	}
	for _, k := range n.Lateral {
		if o := t.g.lookup(ID(n.ID.Tier, k)); o != nil && o.ID != n.ID {
			t.emit(n, o)
		}
	}
}
