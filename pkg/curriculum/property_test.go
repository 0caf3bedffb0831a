package curriculum

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func generated(seed uint64, topics, objectives int) (*Graph, error) {
	opts := DefaultGenerateOptions()
	opts.Seed = seed
	opts.Sizes = [NumTiers]int{topics, 5, objectives, objectives * 2, objectives * 3}
	return Generate(opts)
}

// TestGraphProperties checks invariants that must hold for every seed and
// every viewport, not just the fixtures above.
func TestGraphProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("generation is deterministic per seed", prop.ForAll(
		func(seed uint64, topics, objectives int) bool {
			a, errA := generated(seed, topics, objectives)
			b, errB := generated(seed, topics, objectives)
			return errA == nil && errB == nil && reflect.DeepEqual(a.Nodes(), b.Nodes())
		},
		gen.UInt64(),
		gen.IntRange(2, 8),
		gen.IntRange(2, 20),
	))

	properties.Property("generated references respect tier cardinality", prop.ForAll(
		func(seed uint64, topics, objectives int) bool {
			g, err := generated(seed, topics, objectives)
			if err != nil {
				return false
			}
			for _, n := range g.Tier(TierClass) {
				if len(n.Up) < 1 || len(n.Up) > 2 {
					return false
				}
			}
			for _, n := range g.Tier(TierObjective) {
				if len(n.Up) != 1 || len(n.Lateral) < 1 || len(n.Lateral) > 2 {
					return false
				}
				for _, k := range n.Lateral {
					if k == n.ID.Ordinal {
						return false
					}
				}
			}
			return Validate(g.tiers) == nil
		},
		gen.UInt64(),
		gen.IntRange(2, 8),
		gen.IntRange(2, 20),
	))

	properties.Property("x stays inside the margins and increases within a tier", prop.ForAll(
		func(seed uint64, width float64) bool {
			g, err := generated(seed, 5, 15)
			if err != nil {
				return false
			}
			g = g.AssignPositions(Viewport{Width: width, Height: 600}, DefaultLayoutOptions())
			eff := g.Viewport()
			for _, tier := range Tiers() {
				prev := DefaultMarginLeft
				for _, n := range g.Tier(tier) {
					if !(n.Pos.X > prev) || !(n.Pos.X < eff.Width-DefaultMarginRight) {
						return false
					}
					if n.Pos.Y != DefaultMarginTop+float64(tier)*DefaultLayerSpacing {
						return false
					}
					prev = n.Pos.X
				}
			}
			return true
		},
		gen.UInt64(),
		gen.Float64Range(-2000, 20000),
	))

	properties.Property("every resolved edge joins existing nodes and touches the selection's chain", prop.ForAll(
		func(seed uint64, pick int) bool {
			g, err := generated(seed, 5, 15)
			if err != nil {
				return false
			}
			nodes := g.Nodes()
			sel := nodes[pick%len(nodes)].ID
			edges, err := g.ResolveConnections(sel, DefaultTraceOptions())
			if err != nil {
				return false
			}
			for _, e := range edges {
				if !g.Has(e.From) || !g.Has(e.To) {
					return false
				}
				if sel.Tier == TierTopic && (e.From != sel || e.To.Tier != TierClass) {
					return false
				}
				if e.SameTier() && e.From != sel {
					return false
				}
			}
			return len(edges) <= g.Len()*4
		},
		gen.UInt64(),
		gen.IntRange(0, 1000),
	))

	properties.Property("toggling the same node twice clears the selection", prop.ForAll(
		func(tier, ordinal int) bool {
			id := ID(Tier(tier), ordinal)
			v := NewViewState(Viewport{Width: 800, Height: 600})
			return !v.Toggle(id).Toggle(id).HasSelection() && v.Toggle(id).Selected == id
		},
		gen.IntRange(0, NumTiers-1),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}
