package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/graph"
)

// traceCommand creates the trace command, which prints the connection set
// of one node.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		asJSON  bool
		legacy  bool
		noCache bool
		seed    uint64
		view    viewFlags
	)

	cmd := &cobra.Command{
		Use:   "trace <node-id> [dataset.json]",
		Short: "Print the connections of a node",
		Long: `Print the connections of a node.

Node ids are "<tier>-<n>" with tier one of topic, class, objective, lecture
or assessment. Edges are listed in the order they are traced: upward to the
topics first, then down to direct dependents, then lateral links between
course objectives. Duplicates are kept.

--legacy switches to the narrower rules where classes only trace down,
assessments trace nothing and objectives only follow incoming links.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := curriculum.ParseNodeID(args[0])
			if err != nil {
				return err
			}
			view.apply(cmd, c)
			if legacy {
				c.Config.Trace = curriculum.LegacyTraceOptions()
			}
			return c.runTrace(cmd, id, args[1:], asJSON, noCache, seed)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print connections as JSON")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "use the legacy tracing rules")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSeedFlag(cmd, &seed)
	view.add(cmd)

	return cmd
}

func (c *CLI) runTrace(cmd *cobra.Command, id curriculum.NodeID, args []string, asJSON, noCache bool, seed uint64) error {
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
	g = runner.Layout(ctx, g, c.Config.Viewport(), c.Config.LayoutOptions())

	h, err := g.Highlight(id, c.Config.TraceOptions())
	if err != nil {
		return err
	}
	conns := graph.FromHighlight(g, h)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(conns)
	}

	n, _ := g.Node(id)
	fmt.Fprintf(out, "%s %s\n", tierStyle(id).Bold(true).Render(id.String()), StyleDim.Render(n.Name))
	if len(h.Edges) == 0 {
		fmt.Fprintln(out, StyleDim.Render("no connections"))
		return nil
	}
	writeEdgeTable(out, h.Edges)
	fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("%d edges · %d of %d nodes visible", len(h.Edges), len(conns.Visible), g.Len())))
	return nil
}
