package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

const (
	// cellWidth is the layout width of one terminal column.
	cellWidth = 10.0

	// resizeDelay is how long the window size must stay unchanged before
	// the map is laid out again.
	resizeDelay = 150 * time.Millisecond

	// maxEdgeRows caps the connection list under the map.
	maxEdgeRows = 12

	labelWidth = 6
	minMapCols = 20
)

var (
	exploreHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	exploreHoverStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// resizeMsg fires resizeDelay after a window size change. Only the message
// carrying the latest seq triggers a layout.
type resizeMsg struct {
	seq  int
	size tea.WindowSizeMsg
}

// ExploreModel is the bubbletea model behind the explore command. It keeps
// a ViewState for the selection and re-resolves connections whenever the
// selection or viewport changes.
type ExploreModel struct {
	base   *curriculum.Graph
	layout curriculum.LayoutOptions
	trace  curriculum.TraceOptions

	graph     *curriculum.Graph
	view      curriculum.ViewState
	highlight curriculum.Highlight
	cursor    curriculum.NodeID
	hoverIdx  int

	cols      int
	resizeSeq int
	err       error
}

// NewExploreModel lays g out for a terminal cols wide.
func NewExploreModel(g *curriculum.Graph, cols int, layout curriculum.LayoutOptions, trace curriculum.TraceOptions) ExploreModel {
	m := ExploreModel{
		base:     g,
		layout:   layout,
		trace:    trace,
		cursor:   curriculum.ID(curriculum.TierTopic, 1),
		hoverIdx: -1,
	}
	m.cols = mapCols(cols)
	m.view = curriculum.NewViewState(m.viewportFor(m.cols))
	m.relayout()
	return m
}

// mapCols is the number of terminal columns left for markers.
func mapCols(termWidth int) int {
	return max(termWidth-labelWidth, minMapCols)
}

func (m ExploreModel) viewportFor(cols int) curriculum.Viewport {
	return curriculum.Viewport{Width: float64(cols) * cellWidth, Height: curriculum.ContentHeight(m.layout)}
}

// relayout positions the dataset for the current view and resolves the
// selection against it.
func (m *ExploreModel) relayout() {
	m.graph = m.base.AssignPositions(m.view.Viewport, m.layout)
	m.resolve()
}

func (m *ExploreModel) resolve() {
	m.highlight, m.err = m.graph.Highlight(m.view.Selected, m.trace)
	if m.hoverIdx >= len(m.highlight.Edges) {
		m.hoverIdx = -1
	}
}

// Selected returns the selected node, or curriculum.None.
func (m ExploreModel) Selected() curriculum.NodeID { return m.view.Selected }

// Cursor returns the node under the cursor.
func (m ExploreModel) Cursor() curriculum.NodeID { return m.cursor }

// Highlight returns the resolved connections of the current selection.
func (m ExploreModel) Highlight() curriculum.Highlight { return m.highlight }

// Viewport returns the viewport the map is laid out for.
func (m ExploreModel) Viewport() curriculum.Viewport { return m.view.Viewport }

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resizeSeq++
		seq := m.resizeSeq
		return m, tea.Tick(resizeDelay, func(time.Time) tea.Msg {
			return resizeMsg{seq: seq, size: msg}
		})
	case resizeMsg:
		if msg.seq != m.resizeSeq {
			return m, nil
		}
		m.cols = mapCols(msg.size.Width)
		m.view = m.view.Resize(m.viewportFor(m.cols))
		m.relayout()
	}
	return m, nil
}

func (m ExploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "enter", " ":
		m.view = m.view.Toggle(m.cursor)
		m.hoverIdx = -1
		m.resolve()
	case "esc":
		m.view = m.view.Clear()
		m.hoverIdx = -1
		m.resolve()
	case "tab":
		if n := len(m.highlight.Edges); n > 0 {
			m.hoverIdx = (m.hoverIdx + 1) % n
			m.view = m.view.Hover(m.highlight.Edges[m.hoverIdx].Key())
		}
	}
	return m, nil
}

// moveCursor shifts the cursor dTier tiers and dOrd ordinals, clamping to
// the tier's bounds. Moving between tiers keeps the horizontal position as
// close as the target tier allows.
func (m *ExploreModel) moveCursor(dTier, dOrd int) {
	tier := m.cursor.Tier + curriculum.Tier(dTier)
	if !tier.Valid() {
		return
	}
	nodes := m.graph.Tier(tier)
	if len(nodes) == 0 {
		return
	}
	ord := m.cursor.Ordinal + dOrd
	if dTier != 0 {
		cur, _ := m.graph.Node(m.cursor)
		ord = nearestOrdinal(nodes, cur.Pos.X)
	}
	ord = max(1, min(ord, len(nodes)))
	m.cursor = curriculum.ID(tier, ord)
}

func nearestOrdinal(nodes []curriculum.Node, x float64) int {
	best, bestDist := 1, math.Inf(1)
	for i, n := range nodes {
		if d := math.Abs(n.Pos.X - x); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

// column maps a layout x to a terminal column. The effective viewport may
// be wider than requested, so the scale comes from the laid out graph.
func (m ExploreModel) column(x float64) int {
	col := int(math.Round(x / m.graph.Viewport().Width * float64(m.cols)))
	return max(0, min(col, m.cols-1))
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Curriculum Map"))
	if m.view.HasSelection() {
		b.WriteString(StyleDim.Render("  selected "))
		b.WriteString(tierStyle(m.view.Selected).Bold(true).Render(m.view.Selected.String()))
	}
	b.WriteString("\n\n")

	for _, t := range curriculum.Tiers() {
		b.WriteString(m.tierRow(t))
		b.WriteString("\n")
	}

	cur, _ := m.graph.Node(m.cursor)
	b.WriteString("\n")
	b.WriteString(exploreCursorStyle.Render(m.cursor.String()))
	b.WriteString(" " + StyleDim.Render(cur.Name))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()) + "\n")
	}
	b.WriteString(m.edgeList())
	b.WriteString("\n")
	b.WriteString(exploreHelpStyle.Render("←/→ node  ↑/↓ tier  ⏎ select  tab hover  esc clear  q quit"))
	return b.String()
}

// tierRow draws one tier as a line of markers at their layout columns.
func (m ExploreModel) tierRow(t curriculum.Tier) string {
	cells := make([]string, m.cols)
	for i := range cells {
		cells[i] = " "
	}
	for _, n := range m.graph.Tier(t) {
		style := lipgloss.NewStyle().Foreground(tierColors[t])
		marker := "●"
		switch {
		case n.ID == m.view.Selected:
			marker = "◉"
			style = style.Bold(true)
		case !m.highlight.Visible(n.ID):
			marker = "·"
			style = lipgloss.NewStyle().Foreground(colorDim)
		}
		if n.ID == m.cursor {
			style = style.Underline(true).Bold(true)
			marker = "▼"
		}
		cells[m.column(n.Pos.X)] = style.Render(marker)
	}
	label := lipgloss.NewStyle().Foreground(colorGray).Width(labelWidth).Render(t.ShortName())
	return label + strings.Join(cells, "")
}

func (m ExploreModel) edgeList() string {
	edges := m.highlight.Edges
	if !m.highlight.Active() {
		return StyleDim.Render("no selection") + "\n"
	}
	if len(edges) == 0 {
		return StyleDim.Render("no connections") + "\n"
	}
	var b strings.Builder
	for i, e := range edges {
		if i == maxEdgeRows {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  … %d more", len(edges)-maxEdgeRows)) + "\n")
			break
		}
		line := fmt.Sprintf("  %s %s %s", e.From, iconArrow, e.To)
		switch {
		case i == m.hoverIdx:
			line = exploreHoverStyle.Render(line)
		case e.SameTier():
			line = lipgloss.NewStyle().Foreground(colorPurple).Render(line)
		default:
			line = lipgloss.NewStyle().Foreground(colorBlue).Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
