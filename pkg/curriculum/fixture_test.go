package curriculum

import "testing"

// smallTiers is a hand-built hierarchy small enough to reason about:
//
//	topic-1  topic-2
//	class-1 -> {1}      class-2 -> {1,2}
//	objective-1 -> class-1, lateral {2}
//	objective-2 -> class-2, lateral {1,3}
//	objective-3 -> class-2, lateral {1}
//	lecture-1 -> objective-1, lecture-2 -> objective-2, lecture-3 -> objective-2
//	assessment-1 -> lecture-2, assessment-2 -> lecture-2, assessment-3 -> lecture-3
func smallTiers() [NumTiers][]Node {
	return [NumTiers][]Node{
		TierTopic: {{}, {}},
		TierClass: {
			{Up: []int{1}},
			{Up: []int{1, 2}},
		},
		TierObjective: {
			{Up: []int{1}, Lateral: []int{2}},
			{Up: []int{2}, Lateral: []int{1, 3}},
			{Up: []int{2}, Lateral: []int{1}},
		},
		TierLecture: {
			{Up: []int{1}},
			{Up: []int{2}},
			{Up: []int{2}},
		},
		TierAssessment: {
			{Up: []int{2}},
			{Up: []int{2}},
			{Up: []int{3}},
		},
	}
}

func smallGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New(smallTiers(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g.AssignPositions(Viewport{Width: 1000, Height: 800}, DefaultLayoutOptions())
}

func keys(edges []Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.Key()
	}
	return out
}
