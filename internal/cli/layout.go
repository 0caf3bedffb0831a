package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/graph"
)

// viewFlags are the viewport and spacing flags shared by layout, trace,
// render and serve. Zero values leave the config untouched.
type viewFlags struct {
	width, height float64
}

func (f *viewFlags) add(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height (default from config)")
}

// apply copies changed flags into the config.
func (f *viewFlags) apply(cmd *cobra.Command, c *CLI) {
	if cmd.Flags().Changed("width") {
		c.Config.Layout.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		c.Config.Layout.Height = f.height
	}
}

// layoutCommand creates the layout command, which writes a dataset with
// node positions for a viewport.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		seed    uint64
		view    viewFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset.json]",
		Short: "Compute node positions for a viewport",
		Long: `Compute node positions for a viewport.

Each tier is a horizontal row; its nodes are spread evenly between the
left and right margins. Without a dataset argument one is generated from
the config. The output is the dataset with x and y filled in and the
effective viewport recorded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view.apply(cmd, c)
			return c.runLayout(cmd, args, output, noCache, seed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSeedFlag(cmd, &seed)
	view.add(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, args []string, output string, noCache bool, seed uint64) error {
	ctx := cmd.Context()
	if err := c.Config.Validate(); err != nil {
		return err
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
	prog := newProgress(c.Logger)
	g = runner.Layout(ctx, g, c.Config.Viewport(), c.Config.LayoutOptions())
	vp := g.Viewport()
	prog.done("Laid out", "nodes", g.Len(), "width", vp.Width, "height", vp.Height)

	if output == "" {
		return graph.Write(g, cmd.OutOrStdout(), graph.FormatJSON)
	}
	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Layout complete")
	printFile(output)
	printKeyValue("Viewport", fmt.Sprintf("%.0f × %.0f", vp.Width, vp.Height))
	return nil
}
