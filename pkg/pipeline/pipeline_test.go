package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/curriculummap/pkg/cache"
	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
	"github.com/matzehuels/curriculummap/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	for style, wantErr := range map[string]bool{"map": false, "nodelink": false, "radial": true, "": true} {
		if err := ValidateStyle(style); (err != nil) != wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", style, err, wantErr)
		}
	}
}

func TestOptionsValidateDefaults(t *testing.T) {
	var o Options
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG || o.Style != StyleMap || o.Scale != DefaultScale {
		t.Errorf("defaults = %+v", o)
	}

	bad := Options{Scale: 20}
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("scale 20: %v", err)
	}
}

func smallOptions() Options {
	gen := curriculum.DefaultGenerateOptions()
	gen.Sizes = [curriculum.NumTiers]int{3, 3, 6, 8, 10}
	return Options{
		Generate: gen,
		Viewport: curriculum.Viewport{Width: 1000, Height: 900},
		Trace:    curriculum.DefaultTraceOptions(),
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
	}
}

func TestExecuteCachesDatasetAndArtifacts(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)

	opts := smallOptions()
	opts.Selected = curriculum.ID(curriculum.TierClass, 1)

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.GraphHit || first.CacheInfo.RenderHit {
		t.Errorf("cold run reported cache hits: %+v", first.CacheInfo)
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !bytes.HasPrefix(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", first.Artifacts[FormatSVG][:10])
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact is not a digraph")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (warm): %v", err)
	}
	if !second.CacheInfo.GraphHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm run missed the cache: %+v", second.CacheInfo)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("dataset hash changed between runs")
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.GraphHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh read from cache: %+v", third.CacheInfo)
	}
}

func TestExecuteResolvesSelection(t *testing.T) {
	opts := smallOptions()
	opts.Formats = []string{FormatJSON}
	opts.Selected = curriculum.ID(curriculum.TierTopic, 1)

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.EdgeCount != len(result.Edges) || result.Stats.NodeCount != 30 {
		t.Errorf("stats = %+v", result.Stats)
	}
	for _, e := range result.Edges {
		if e.From != opts.Selected || e.To.Tier != curriculum.TierClass {
			t.Errorf("topic selection produced %s", e.Key())
		}
	}
}

func TestExecuteUnknownSelection(t *testing.T) {
	opts := smallOptions()
	opts.Selected = curriculum.ID(curriculum.TierClass, 99)
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("err = %v, want NODE_NOT_FOUND", err)
	}
}

func TestViewportFloorForPixelFormats(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := smallOptions()
	opts.Viewport = curriculum.Viewport{Width: 100, Height: 100}

	opts.Formats = []string{FormatSVG}
	pixel, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := pixel.Graph.Viewport(); got != (curriculum.Viewport{Width: 800, Height: 600}) {
		t.Errorf("svg viewport = %+v, want 800x600", got)
	}

	opts.Formats = []string{FormatJSON}
	data, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := data.Graph.Viewport().Width; got != 200 {
		t.Errorf("json viewport width = %v, want 200", got)
	}
}

func TestRenderInteractive(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	g, err := runner.Generate(ctx, smallOptions().Generate)
	if err != nil {
		t.Fatal(err)
	}
	g = runner.Layout(ctx, g, curriculum.Viewport{Width: 1200, Height: 900}, curriculum.LayoutOptions{})

	artifacts, err := runner.Render(ctx, g, Options{Interactive: true, Title: "Demo"})
	if err != nil {
		t.Fatal(err)
	}
	out := string(artifacts[FormatSVG])
	if !strings.Contains(out, "<script") || !strings.Contains(out, "<title>Demo</title>") {
		t.Error("interactive svg lacks script or title")
	}
}

type recordingHooks struct {
	observability.NoopEngineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnGenerate(context.Context, uint64, int, time.Duration, error) {
	h.record("generate")
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.record("layout")
}

func (h *recordingHooks) OnResolve(_ context.Context, tier string, _ int, _ time.Duration, _ error) {
	h.record("resolve:" + tier)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.record("render:" + format)
}

func TestRunnerReportsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetEngineHooks(hooks)
	defer observability.Reset()

	opts := smallOptions()
	opts.Formats = []string{FormatJSON}
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	want := []string{"generate", "layout", "resolve:none", "render:json"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
