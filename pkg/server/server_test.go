package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/graph"
	"github.com/matzehuels/curriculummap/pkg/observability"
)

// fixture: 5 topics, class-1 -> topic-1 only.
func testGraph(t *testing.T) *curriculum.Graph {
	t.Helper()
	tiers := [curriculum.NumTiers][]curriculum.Node{
		curriculum.TierTopic: make([]curriculum.Node, 5),
		curriculum.TierClass: {
			{Up: []int{1}},
			{Up: []int{2, 3}},
			{Up: []int{3}},
			{Up: []int{4, 5}},
			{Up: []int{2}},
		},
		curriculum.TierObjective: {
			{Up: []int{1}, Lateral: []int{2}},
			{Up: []int{2}, Lateral: []int{1}},
		},
		curriculum.TierLecture:    {{Up: []int{1}}, {Up: []int{2}}},
		curriculum.TierAssessment: {{Up: []int{1}}},
	}
	g, err := curriculum.New(tiers, curriculum.Options{Seed: 1})
	require.NoError(t, err)
	return g
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Viewport == (curriculum.Viewport{}) {
		opts.Viewport = curriculum.Viewport{Width: 1200, Height: 800}
	}
	opts.Trace = curriculum.DefaultTraceOptions()
	srv := New(testGraph(t), nil, nil, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, sb.String()
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status": "ok"`)
	assert.Contains(t, body, `"nodes": 15`)
}

func TestGraphEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/api/graph?width=1000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc graph.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Topics, 5)
	require.NotNil(t, doc.Viewport)
	assert.Equal(t, 1000.0, doc.Viewport.Width)
	// inner band 900 split into 6 steps of 150
	assert.Equal(t, 200.0, doc.Topics[0].X)
	assert.Equal(t, 50.0, doc.Topics[0].Y)
	assert.Equal(t, []int{2, 3}, doc.Classes[1].ConnectedTopics)
}

func TestConnectionsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/api/connections/class-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c graph.Connections
	require.NoError(t, json.Unmarshal([]byte(body), &c))
	assert.Equal(t, "class-1", c.Selected)
	require.Len(t, c.Edges, 2)
	assert.Equal(t, "class-1-topic-1", c.Edges[0].ID)
	assert.Equal(t, "class-1-objective-1", c.Edges[1].ID)
	assert.ElementsMatch(t, []string{"topic-1", "class-1", "objective-1"}, c.Visible)
}

func TestConnectionsErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/connections/class-x", http.StatusBadRequest, "INVALID_NODE_ID"},
		{"/api/connections/module-1", http.StatusBadRequest, "INVALID_NODE_ID"},
		{"/api/connections/class-9", http.StatusNotFound, "NODE_NOT_FOUND"},
		{"/api/connections/class-1?width=wide", http.StatusBadRequest, "INVALID_VIEWPORT"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			var e errorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &e))
			assert.Equal(t, tt.code, e.Error)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{Title: "Demo"})

	resp, body := get(t, ts.URL+"/api/render.svg?selected=lecture-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, `data-selected="lecture-1"`)
	assert.Contains(t, body, `data-key="objective-1-class-1"`)

	resp, body = get(t, ts.URL+"/api/render.dot?selected=class-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "digraph")

	resp, _ = get(t, ts.URL+"/api/render.gif")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/render.svg?selected=assessment-7")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/render.svg?style=radial")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, Options{Title: "Intro to CS"})
	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<title>Intro to CS</title>")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "const highlights")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, Options{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})
	get(t, ts.URL+"/healthz")
	get(t, ts.URL+"/api/connections/class-1")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `curriculummap_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, body, `route="/api/connections/{id}"`)
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type statusHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *statusHooks) OnResponse(_ context.Context, _ string, route string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

func TestInstrumentReportsRoutePattern(t *testing.T) {
	hooks := &statusHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, Options{})
	get(t, ts.URL+"/api/connections/topic-2")
	get(t, ts.URL+"/nowhere")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"/api/connections/{id}", "unmatched"}, hooks.routes)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(testGraph(t), nil, nil, Options{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
