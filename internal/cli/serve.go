package cli

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/observability"
	"github.com/matzehuels/curriculummap/pkg/server"
)

// serveCommand creates the serve command, which exposes the map over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		seed      uint64
		view      viewFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset.json]",
		Short: "Serve the interactive map and JSON API",
		Long: `Serve the interactive map and JSON API.

The dataset is loaded (or generated) once at startup. Each request lays it
out for its own width and height and resolves its own selection, so any
number of viewers can use the server independently.

Rendered artifacts are cached in Redis when cache.redis_addr is configured
and on disk otherwise. Prometheus metrics are served at /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view.apply(cmd, c)
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if noMetrics {
				c.Config.Server.Metrics = false
			}
			return c.runServe(cmd, args, noCache, seed)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	addSeedFlag(cmd, &seed)
	view.add(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, args []string, noCache bool, seed uint64) error {
	ctx := cmd.Context()
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	var metrics http.Handler
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetEngineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := c.loadGraph(cmd, runner, args, seed)
	if err != nil {
		return err
	}

	srv := server.New(g, runner, c.Logger, server.Options{
		Viewport:        cfg.Viewport(),
		Layout:          cfg.LayoutOptions(),
		Trace:           cfg.TraceOptions(),
		Title:           cfg.Render.Title,
		Metrics:         metrics,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	printSuccess("Serving %d nodes", g.Len())
	printKeyValue("Address", "http://"+cfg.Server.Addr)
	if metrics != nil {
		printKeyValue("Metrics", "http://"+cfg.Server.Addr+"/metrics")
	}
	return srv.Run(ctx, cfg.Server.Addr)
}
