package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements EngineHooks, CacheHooks and HTTPHooks on top of
// Prometheus collectors. Create one per registry; collector names are fixed.
type PrometheusHooks struct {
	EngineOpsTotal   *prometheus.CounterVec
	EngineOpDuration *prometheus.HistogramVec
	ResolvedEdges    *prometheus.HistogramVec
	RenderBytes      *prometheus.HistogramVec

	CacheOpsTotal *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPErrorsTotal      *prometheus.CounterVec
}

var (
	_ EngineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the collectors and registers them with reg.
// A nil registerer creates unregistered collectors.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		EngineOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curriculummap_engine_operations_total",
				Help: "Total number of engine operations",
			},
			[]string{"operation", "status"},
		),
		EngineOpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curriculummap_engine_operation_duration_seconds",
				Help:    "Engine operation latency in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"operation"},
		),
		ResolvedEdges: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curriculummap_resolved_edges",
				Help:    "Number of edges returned per connection trace",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
			[]string{"tier"},
		),
		RenderBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curriculummap_render_size_bytes",
				Help:    "Size of rendered artifacts in bytes",
				Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"format"},
		),
		CacheOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curriculummap_cache_operations_total",
				Help: "Total number of cache lookups and writes",
			},
			[]string{"key_type", "result"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curriculummap_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curriculummap_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "curriculummap_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
		HTTPErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curriculummap_http_errors_total",
				Help: "Total number of failed HTTP handlers",
			},
			[]string{"method", "route"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (p *PrometheusHooks) observe(op string, d time.Duration, err error) {
	p.EngineOpsTotal.WithLabelValues(op, status(err)).Inc()
	p.EngineOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnGenerate(_ context.Context, _ uint64, _ int, d time.Duration, err error) {
	p.observe("generate", d, err)
}

func (p *PrometheusHooks) OnLayoutStart(context.Context, int) {}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	p.observe("layout", d, err)
}

func (p *PrometheusHooks) OnResolve(_ context.Context, tier string, edges int, d time.Duration, err error) {
	p.observe("resolve", d, err)
	if err == nil {
		p.ResolvedEdges.WithLabelValues(tier).Observe(float64(edges))
	}
}

func (p *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (p *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	p.observe("render_"+format, d, err)
	if err == nil {
		p.RenderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {
	p.HTTPRequestsInFlight.Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequestsInFlight.Dec()
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	p.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}
