package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnGenerate(ctx, 42, 100, time.Second, nil)
	e.OnLayoutStart(ctx, 100)
	e.OnLayoutComplete(ctx, 100, time.Second, nil)
	e.OnResolve(ctx, "class", 4, time.Millisecond, nil)
	e.OnRenderStart(ctx, "svg")
	e.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/graph")
	h.OnResponse(ctx, "GET", "/api/graph", 200, time.Second)
	h.OnError(ctx, "GET", "/api/graph", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.Counter.GetValue()
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusHooks(reg)
	ctx := context.Background()

	p.OnGenerate(ctx, 42, 100, time.Millisecond, nil)
	p.OnResolve(ctx, "class", 3, time.Microsecond, nil)
	p.OnResolve(ctx, "class", 0, time.Microsecond, errors.New("boom"))
	p.OnCacheMiss(ctx, "artifact")
	p.OnCacheSet(ctx, "artifact", 10)
	p.OnCacheHit(ctx, "artifact")
	p.OnCacheHit(ctx, "artifact")

	if got := counterValue(t, p.EngineOpsTotal, "generate", "success"); got != 1 {
		t.Errorf("generate success = %v, want 1", got)
	}
	if got := counterValue(t, p.EngineOpsTotal, "resolve", "error"); got != 1 {
		t.Errorf("resolve error = %v, want 1", got)
	}
	if got := counterValue(t, p.CacheOpsTotal, "artifact", "hit"); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families registered")
	}
}

func TestPrometheusHTTPInFlight(t *testing.T) {
	p := NewPrometheusHooks(nil)
	ctx := context.Background()

	p.OnRequest(ctx, "GET", "/healthz")
	p.OnRequest(ctx, "GET", "/healthz")
	p.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	var m dto.Metric
	if err := p.HTTPRequestsInFlight.Write(&m); err != nil {
		t.Fatal(err)
	}
	if got := m.Gauge.GetValue(); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	if got := counterValue(t, p.HTTPRequestsTotal, "GET", "/healthz", "200"); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
