package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/scene"
)

func buildScene(t *testing.T, sel curriculum.NodeID) (*curriculum.Graph, scene.Scene) {
	t.Helper()
	tiers := [curriculum.NumTiers][]curriculum.Node{
		curriculum.TierTopic: {{Name: "Graphs & Trees"}},
		curriculum.TierClass: {{Up: []int{1}}},
		curriculum.TierObjective: {
			{Up: []int{1}, Lateral: []int{2}},
			{Up: []int{1}, Lateral: []int{1}},
		},
	}
	g, err := curriculum.New(tiers, curriculum.Options{})
	if err != nil {
		t.Fatal(err)
	}
	g = g.AssignPositions(curriculum.Viewport{Width: 800, Height: 600}, curriculum.DefaultLayoutOptions())
	s, err := scene.Build(g, curriculum.NewViewState(g.Viewport()).Toggle(sel), curriculum.DefaultTraceOptions())
	if err != nil {
		t.Fatal(err)
	}
	return g, s
}

func TestRenderSVGWellFormed(t *testing.T) {
	g, s := buildScene(t, curriculum.ID(curriculum.TierObjective, 1))
	out := RenderSVG(s, WithTitle("Curriculum <map>"), WithInteraction(scene.Interactions(g, curriculum.DefaultTraceOptions())))

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
}

func TestRenderSVGContent(t *testing.T) {
	_, s := buildScene(t, curriculum.ID(curriculum.TierObjective, 1))
	out := string(RenderSVG(s))

	checks := []string{
		`viewBox="0 0 800.0 600.0"`,
		`data-selected="objective-1"`,
		`id="node-topic-1"`,
		`Graphs &amp; Trees`,
		`class="curve cross-tier" data-key="objective-1-class-1"`,
		`class="curve same-tier" data-key="objective-1-objective-2"`,
		`stroke-dasharray="4"`,
		`fill="#3b82f6"`,
	}
	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Errorf("output missing %s", c)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("static render should not embed a script")
	}
	if n := strings.Count(out, `<g class="node"`); n != 4 {
		t.Errorf("markers = %d, want 4", n)
	}
}

func TestRenderSVGWithoutSelection(t *testing.T) {
	_, s := buildScene(t, curriculum.None)
	out := string(RenderSVG(s))
	if strings.Contains(out, `<path`) {
		t.Error("curves drawn without a selection")
	}
	if strings.Contains(out, `opacity="0.3"`) {
		t.Error("markers dimmed without a selection")
	}
}

func TestRenderSVGInteraction(t *testing.T) {
	g, s := buildScene(t, curriculum.None)
	out := string(RenderSVG(s, WithInteraction(scene.Interactions(g, curriculum.DefaultTraceOptions()))))
	for _, c := range []string{"<script", "const highlights", `"topic-1":`, `"visible":`, ".curve:hover"} {
		if !strings.Contains(out, c) {
			t.Errorf("interactive output missing %s", c)
		}
	}
}
