package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/graph"
)

// generateCommand creates the generate command, which writes a seeded
// synthetic dataset.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		seed    uint64
		sizes   [curriculum.NumTiers]int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic curriculum dataset",
		Long: `Generate a synthetic curriculum dataset.

Topics, classes, course objectives, lecture objectives and assessments are
created with the configured counts. Classes pick one or two random topics,
course objectives pick one or two random peers, and every lower tier maps
proportionally onto its parent tier. The same seed always produces the
same dataset.

The dataset is written as JSON, or YAML when the output ends in .yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, name := range sizeFlags {
				if cmd.Flags().Changed(name) {
					c.Config.Generate.SetSize(curriculum.Tier(i), sizes[i])
				}
			}
			return c.runGenerate(cmd, output, noCache, seed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSeedFlag(cmd, &seed)
	for i, name := range sizeFlags {
		cmd.Flags().IntVar(&sizes[i], name, 0, fmt.Sprintf("number of %ss", curriculum.Tier(i).Title()))
	}

	return cmd
}

// sizeFlags names the per-tier count flags, top to bottom.
var sizeFlags = [curriculum.NumTiers]string{"topics", "classes", "objectives", "lectures", "assessments"}

func (c *CLI) runGenerate(cmd *cobra.Command, output string, noCache bool, seed uint64) error {
	ctx := cmd.Context()
	if err := c.Config.Validate(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, cached, err := c.loadGraph(cmd, runner, nil, seed)
	if err != nil {
		return err
	}
	prog.done("Generated dataset", "nodes", g.Len(), "seed", g.Seed())

	if output == "" {
		return graph.Write(g, cmd.OutOrStdout(), graph.FormatJSON)
	}
	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	st := g.Stats()
	printSuccess("Dataset generated")
	printFile(output)
	printStats(st.Nodes, st.UpLinks+st.LateralLinks, cached)
	printDetail("%s", tierSummary(st.PerTier))
	if st.LateralCycle {
		printDetail("course objective links contain a cycle")
	}
	printNewline()
	printNextStep("Trace a node", fmt.Sprintf("%s trace class-1 %s", appName, output))
	return nil
}
