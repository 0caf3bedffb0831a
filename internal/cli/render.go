package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/errors"
	"github.com/matzehuels/curriculummap/pkg/pipeline"
)

// defaultBase names render output when neither -o nor a dataset file is given.
const defaultBase = "curriculum"

type renderFlags struct {
	output      string
	formats     string
	selected    string
	hovered     string
	style       string
	title       string
	noCache     bool
	refresh     bool
	interactive bool
	seed        uint64
	scale       float64
	view        viewFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [dataset.json]",
		Short: "Render the curriculum map to SVG, DOT, PNG, PDF or JSON",
		Long: `Render the curriculum map to SVG, DOT, PNG, PDF or JSON.

The map style draws each tier as a row of markers with curved connections
for the selected node; unrelated nodes are dimmed. The nodelink style lays
the hierarchy out with Graphviz instead. PNG and PDF are converted from SVG
with rsvg-convert and use a viewport of at least 800×600.

--interactive embeds every node's connection set so the SVG highlights on
click without a server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.view.apply(cmd, c)
			r := &c.Config.Render
			if cmd.Flags().Changed("scale") {
				r.Scale = f.scale
			}
			if cmd.Flags().Changed("style") {
				r.Style = f.style
			}
			if cmd.Flags().Changed("title") {
				r.Title = f.title
			}
			return c.runRender(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "drawing style: map, nodelink (default from config)")
	cmd.Flags().StringVarP(&f.selected, "select", "s", "", "node to highlight, e.g. class-2")
	cmd.Flags().StringVar(&f.hovered, "hover", "", "edge key to draw as hovered, e.g. class-2-topic-1")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "embed click-to-highlight script (svg)")
	cmd.Flags().StringVar(&f.title, "title", "", "title drawn above the map")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached renders")
	addSeedFlag(cmd, &f.seed)
	f.view.add(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, f renderFlags) error {
	ctx := cmd.Context()
	if err := c.Config.Validate(); err != nil {
		return err
	}
	sel, err := parseSelection(f.selected)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Viewport:    c.Config.Viewport(),
		Layout:      c.Config.LayoutOptions(),
		Trace:       c.Config.TraceOptions(),
		Selected:    sel,
		Hovered:     f.hovered,
		Formats:     parseFormats(f.formats, c.Config.Render.Format),
		Style:       c.Config.Render.Style,
		Interactive: f.interactive || c.Config.Render.Interactive,
		Title:       c.Config.Render.Title,
		Scale:       c.Config.Render.Scale,
		Refresh:     f.refresh,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := c.loadGraph(cmd, runner, args, f.seed)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	result, err := runner.ExecuteGraph(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, f.output, input)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

// basePath derives the output path without extension. An explicit output
// loses a known format extension; otherwise the input's name is used.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input == "" {
		return defaultBase
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPaths maps each format to its file. A single format keeps an
// explicit output path verbatim.
func outputPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each rendered format and returns the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := outputPaths(formats, output, input)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if err := errors.ValidateOutputPath(path); err != nil {
			return written, err
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
