package curriculum

import (
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/curriculummap/pkg/dag"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

func TestNewFillsIDsAndNames(t *testing.T) {
	g, err := New(smallTiers(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Len() != 16 {
		t.Errorf("Len = %d, want 16", g.Len())
	}
	if g.Seed() != 7 {
		t.Errorf("Seed = %d, want 7", g.Seed())
	}
	if g.ID() == uuid.Nil {
		t.Error("expected a generated dataset ID")
	}
	n, ok := g.Node(ID(TierObjective, 2))
	if !ok {
		t.Fatal("objective-2 missing")
	}
	if n.Name != "CO 2" {
		t.Errorf("Name = %q, want %q", n.Name, "CO 2")
	}
	if g.Positioned() {
		t.Error("fresh graph should not be positioned")
	}
	if _, ok := g.Node(ID(TierClass, 3)); ok {
		t.Error("class-3 should not exist")
	}
}

func TestNewCopiesInput(t *testing.T) {
	tiers := smallTiers()
	g, err := New(tiers, Options{})
	if err != nil {
		t.Fatal(err)
	}
	tiers[TierClass][0].Up[0] = 2
	n, _ := g.Node(ID(TierClass, 1))
	if n.Up[0] != 1 {
		t.Error("graph shares reference slices with its input")
	}
}

func TestNewKeepsGivenID(t *testing.T) {
	id := uuid.MustParse("9b2f3c1e-4d5a-4b6c-8d7e-0f1a2b3c4d5e")
	g, err := New(smallTiers(), Options{ID: id})
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != id {
		t.Errorf("ID = %v, want %v", g.ID(), id)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*[NumTiers][]Node)
		code   errors.Code
	}{
		{"topic with upward ref", func(ts *[NumTiers][]Node) { ts[TierTopic][0].Up = []int{1} }, errors.ErrCodeInvalidReference},
		{"class without topics", func(ts *[NumTiers][]Node) { ts[TierClass][0].Up = nil }, errors.ErrCodeInvalidReference},
		{"class with three topics", func(ts *[NumTiers][]Node) { ts[TierClass][0].Up = []int{1, 2, 1} }, errors.ErrCodeInvalidReference},
		{"class with unknown topic", func(ts *[NumTiers][]Node) { ts[TierClass][0].Up = []int{3} }, errors.ErrCodeInvalidReference},
		{"class with duplicate topic", func(ts *[NumTiers][]Node) { ts[TierClass][1].Up = []int{2, 2} }, errors.ErrCodeInvalidReference},
		{"objective with two classes", func(ts *[NumTiers][]Node) { ts[TierObjective][0].Up = []int{1, 2} }, errors.ErrCodeInvalidReference},
		{"objective self link", func(ts *[NumTiers][]Node) { ts[TierObjective][0].Lateral = []int{1} }, errors.ErrCodeInvalidReference},
		{"objective without peers", func(ts *[NumTiers][]Node) { ts[TierObjective][2].Lateral = nil }, errors.ErrCodeInvalidReference},
		{"objective with unknown peer", func(ts *[NumTiers][]Node) { ts[TierObjective][2].Lateral = []int{4} }, errors.ErrCodeInvalidReference},
		{"lecture with lateral link", func(ts *[NumTiers][]Node) { ts[TierLecture][0].Lateral = []int{2} }, errors.ErrCodeInvalidReference},
		{"lecture with unknown objective", func(ts *[NumTiers][]Node) { ts[TierLecture][0].Up = []int{0} }, errors.ErrCodeInvalidReference},
		{"assessment with unknown lecture", func(ts *[NumTiers][]Node) { ts[TierAssessment][0].Up = []int{9} }, errors.ErrCodeInvalidReference},
		{"misplaced id", func(ts *[NumTiers][]Node) { ts[TierClass][1].ID = ID(TierClass, 5) }, errors.ErrCodeInvalidNodeID},
		{"id from wrong tier", func(ts *[NumTiers][]Node) { ts[TierLecture][0].ID = ID(TierClass, 1) }, errors.ErrCodeInvalidNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiers := smallTiers()
			tt.mutate(&tiers)
			_, err := New(tiers, Options{})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestNewAllowsEmptyLowerTiers(t *testing.T) {
	tiers := [NumTiers][]Node{
		TierTopic: {{}},
		TierClass: {{Up: []int{1}}},
	}
	g, err := New(tiers, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(g.Tier(TierAssessment)) != 0 {
		t.Error("expected no assessments")
	}
}

func TestStats(t *testing.T) {
	g := smallGraph(t)
	s := g.Stats()
	if s.Nodes != 16 {
		t.Errorf("Nodes = %d, want 16", s.Nodes)
	}
	if s.PerTier != [NumTiers]int{2, 2, 3, 3, 3} {
		t.Errorf("PerTier = %v", s.PerTier)
	}
	if s.UpLinks != 12 {
		t.Errorf("UpLinks = %d, want 12", s.UpLinks)
	}
	if s.LateralLinks != 4 {
		t.Errorf("LateralLinks = %d, want 4", s.LateralLinks)
	}
	if !s.LateralCycle {
		t.Error("objective-1 <-> objective-2 is a cycle")
	}
}

func TestToDAG(t *testing.T) {
	g := smallGraph(t)
	d, err := g.ToDAG()
	if err != nil {
		t.Fatalf("ToDAG: %v", err)
	}
	if d.NodeCount() != 16 {
		t.Errorf("NodeCount = %d, want 16", d.NodeCount())
	}
	if d.EdgeCount() != 16 {
		t.Errorf("EdgeCount = %d, want 16", d.EdgeCount())
	}
	if got := d.RowIDs(); len(got) != NumTiers {
		t.Errorf("RowIDs = %v, want %d rows", got, NumTiers)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("export fails validation: %v", err)
	}
	lateral := 0
	for _, e := range d.Edges() {
		if e.Kind == dag.EdgeLateral {
			lateral++
		}
	}
	if lateral != 4 {
		t.Errorf("lateral edges = %d, want 4", lateral)
	}
	n, ok := d.Node("class-2")
	if !ok {
		t.Fatal("class-2 missing from DAG")
	}
	if n.Label != "Class 2" || n.Meta["x"] == nil {
		t.Errorf("class-2 = %+v", n)
	}
	parents := 0
	for _, e := range d.Edges() {
		if e.To == "class-2" && e.Kind == dag.EdgeHierarchy {
			parents++
		}
	}
	if parents != 2 {
		t.Errorf("class-2 has %d parents, want 2", parents)
	}
}

func TestStatsWithoutObjectives(t *testing.T) {
	tiers := [NumTiers][]Node{
		TierTopic: {{}},
		TierClass: {{Up: []int{1}}},
	}
	g, err := New(tiers, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if s := g.Stats(); s.LateralCycle || s.LateralLinks != 0 {
		t.Errorf("Stats = %+v, want no lateral links or cycle", s)
	}
	d, err := g.ToDAG()
	if err != nil {
		t.Fatal(err)
	}
	if err := d.DetectCycles(); err != nil {
		t.Errorf("hierarchy-only export has a cycle: %v", err)
	}
}
