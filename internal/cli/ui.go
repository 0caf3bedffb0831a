package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - cross-tier edges
	colorPurple = lipgloss.Color("141") // Purple - same-tier edges
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// tierColors tints each tier's markers in the explorer and trace table.
var tierColors = [curriculum.NumTiers]lipgloss.Color{
	curriculum.TierTopic:      lipgloss.Color("39"),
	curriculum.TierClass:      lipgloss.Color("43"),
	curriculum.TierObjective:  lipgloss.Color("214"),
	curriculum.TierLecture:    lipgloss.Color("170"),
	curriculum.TierAssessment: lipgloss.Color("203"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints dataset statistics on a single line.
func printStats(nodeCount, edgeCount int, cached bool) {
	parts := []string{fmt.Sprintf("%d nodes", nodeCount)}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Tables
// =============================================================================

// tierStyle renders id in its tier's color.
func tierStyle(id curriculum.NodeID) lipgloss.Style {
	if !id.Tier.Valid() {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(tierColors[id.Tier])
}

// writeEdgeTable writes resolved edges as a bordered table in emission
// order. Same-tier rows are marked "lateral".
func writeEdgeTable(w io.Writer, edges []curriculum.Edge) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(edges))
	for i, e := range edges {
		kind := "up"
		switch {
		case e.SameTier():
			kind = "lateral"
		case e.To.Tier > e.From.Tier:
			kind = "down"
		}
		rows[i] = []string{
			fmt.Sprint(i + 1),
			e.From.String(),
			e.To.String(),
			kind,
			fmt.Sprintf("(%.0f,%.0f) %s (%.0f,%.0f)", e.FromPos.X, e.FromPos.Y, iconArrow, e.ToPos.X, e.ToPos.Y),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "From", "To", "Kind", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			e := edges[row]
			switch col {
			case 1:
				return base.Inherit(tierStyle(e.From))
			case 2:
				return base.Inherit(tierStyle(e.To))
			case 3:
				if e.SameTier() {
					return base.Foreground(colorPurple)
				}
				return base.Foreground(colorBlue)
			default:
				return base.Foreground(colorGray)
			}
		})

	fmt.Fprintln(w, t.Render())
}

// tierSummary formats per-tier node counts, e.g. "Topic: 5 · Class: 5".
func tierSummary(perTier [curriculum.NumTiers]int) string {
	parts := make([]string, 0, curriculum.NumTiers)
	for _, t := range curriculum.Tiers() {
		parts = append(parts, fmt.Sprintf("%s: %d", t.Title(), perTier[t]))
	}
	return strings.Join(parts, " · ")
}
