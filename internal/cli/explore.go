package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/pipeline"
)

// defaultTermWidth is used until the terminal reports its size.
const defaultTermWidth = 100

// exploreCommand creates the explore command, an interactive terminal view
// of the map.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		save    string
		noCache bool
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "explore [dataset.json]",
		Short: "Browse the curriculum map in the terminal",
		Long: `Browse the curriculum map in the terminal.

Move between nodes with the arrow keys and press enter to select one: its
connections are listed and every unrelated node is dimmed. Pressing enter
on the selected node again clears the selection. With --save the final
view is written as SVG on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, args, save, noCache, seed)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "write the final view to this SVG file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSeedFlag(cmd, &seed)

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, args []string, save string, noCache bool, seed uint64) error {
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

	model := NewExploreModel(g, defaultTermWidth, c.Config.LayoutOptions(), c.Config.TraceOptions())
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	m := final.(ExploreModel)

	if sel := m.Selected(); !sel.IsZero() {
		printKeyValue("Selected", sel.String())
		printKeyValue("Connections", fmt.Sprint(len(m.Highlight().Edges)))
	}
	if save == "" {
		return nil
	}

	result, err := runner.ExecuteGraph(ctx, g, pipeline.Options{
		Viewport: c.Config.Viewport(),
		Layout:   c.Config.LayoutOptions(),
		Trace:    c.Config.TraceOptions(),
		Selected: m.Selected(),
		Hovered:  m.view.Hovered,
		Formats:  []string{pipeline.FormatSVG},
		Style:    pipeline.StyleMap,
		Title:    c.Config.Render.Title,
	})
	if err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	paths, err := writeArtifacts(result.Artifacts, []string{pipeline.FormatSVG}, save, "")
	if err != nil {
		return err
	}
	printSuccess("View saved")
	printFile(paths[0])
	return nil
}
