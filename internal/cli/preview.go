package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/geom"
	"github.com/matzehuels/tether/pkg/position"
	"github.com/matzehuels/tether/pkg/scenario"
)

// A terminal cell stands for cellWidth x cellHeight px.
const (
	cellWidth  = 10
	cellHeight = 20

	// previewChrome is the number of lines above and below the scene.
	previewChrome = 4
)

var (
	originStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	overlayStyle = lipgloss.NewStyle().Foreground(colorGreen)
	boxStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [scenario.toml]",
		Short: "Interactively move an origin and watch the overlay follow",
		Long: `Open a terminal preview of a scenario. The terminal is the viewport, one
cell being 10x20 px. Arrow keys move the origin; the overlay is re-placed
after every change.

Keys: ←↑↓→ move origin  w/s scroll  l lock  p push  f flexible  r rtl  q quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := defaultPreviewScenario()
			if len(args) == 1 {
				var err error
				if sc, err = scenario.Load(args[0]); err != nil {
					return err
				}
			}
			sc.Viewport.Headless = false

			m, err := newPreviewModel(sc, c.Logger)
			if err != nil {
				return err
			}
			defer m.stage.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			return nil
		},
	}
}

// defaultPreviewScenario is a dropdown menu with four candidates.
func defaultPreviewScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Name:    "preview",
		Origin:  scenario.Origin{X: 200, Y: 100, Width: 100, Height: 20},
		Overlay: scenario.Overlay{Width: 200, Height: 120},
		Strategy: scenario.Strategy{
			ViewportMargin: cellWidth,
		},
		Positions: []scenario.Position{
			{OriginX: "start", OriginY: "bottom", OverlayX: "start", OverlayY: "top"},
			{OriginX: "start", OriginY: "top", OverlayX: "start", OverlayY: "bottom"},
			{OriginX: "end", OriginY: "bottom", OverlayX: "end", OverlayY: "top"},
			{OriginX: "end", OriginY: "top", OverlayX: "end", OverlayY: "bottom"},
		},
	}
}

// =============================================================================
// Model
// =============================================================================

// previewModel is the bubbletea model of the preview command. The stage
// is shared between copies of the model.
type previewModel struct {
	stage  *scenario.Stage
	cols   int
	rows   int
	report scenario.StepReport
	err    error
}

// newPreviewModel builds the stage for sc and applies it once. The
// viewport is resized to the terminal on the first WindowSizeMsg.
func newPreviewModel(sc *scenario.Scenario, logger *log.Logger) (previewModel, error) {
	st, err := scenario.NewStage(sc, logger)
	if err != nil {
		return previewModel{}, err
	}
	m := previewModel{stage: st}
	m.err = st.Strategy.Apply()
	m.report = st.Snapshot()
	return m, nil
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-previewChrome, 1)
		// Resizing notifies the strategy, which re-applies on its own.
		m.stage.Viewport.Resize(float64(m.cols*cellWidth), float64(m.rows*cellHeight))
		m.report = m.stage.Snapshot()
		return m, nil

	case tea.KeyMsg:
		st := m.stage
		cfg := st.Scenario
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			st.MoveOrigin(-cellWidth, 0)
		case "right":
			st.MoveOrigin(cellWidth, 0)
		case "up", "k":
			st.MoveOrigin(0, -cellHeight)
		case "down", "j":
			st.MoveOrigin(0, cellHeight)
		case "s":
			st.Viewport.ScrollBy(0, cellHeight)
		case "w":
			st.Viewport.ScrollBy(0, -cellHeight)
		case "l":
			st.SetLocked(!cfg.Strategy.Locked)
		case "p":
			st.SetPush(!cfg.Strategy.Push)
		case "f":
			st.SetFlexible(!cfg.Strategy.FlexibleDimensions)
		case "r":
			if cfg.Direction == string(position.RTL) {
				st.SetDirection(position.LTR)
			} else {
				st.SetDirection(position.RTL)
			}
		default:
			return m, nil
		}
		m.err = st.Strategy.Apply()
		m.report = st.Snapshot()
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.stage.Scenario.Name))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.cols > 0 {
		b.WriteString(strings.Join(m.scene(), "\n"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  w/s scroll  l lock  p push  f flexible  r rtl  q quit"))
	return b.String()
}

func (m previewModel) statusLine() string {
	sc := m.stage.Scenario
	flags := []string{sc.Direction}
	for _, f := range []struct {
		on   bool
		name string
	}{
		{sc.Strategy.Locked, "locked"},
		{sc.Strategy.Push, "push"},
		{sc.Strategy.FlexibleDimensions, "flexible"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	mode := m.report.Mode
	return formatCandidate(m.report) + "  " +
		modeStyle(mode).Render(dashIfEmpty(mode)) + "  " +
		StyleDim.Render(strings.Join(flags, " "))
}

// scene draws the viewport: the flexible bounding box, then the origin,
// then the overlay on top.
func (m previewModel) scene() []string {
	grid := newGrid(m.cols, m.rows)
	if m.report.Position != nil && m.stage.Scenario.Strategy.FlexibleDimensions {
		grid.fill(m.report.BoundingBox, '·', boxStyle)
	}
	grid.fill(m.stage.OriginRect(), '▒', originStyle)
	if m.report.Position != nil {
		grid.frame(m.report.Overlay, overlayStyle)
	}
	return grid.lines()
}

// =============================================================================
// Grid
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

type grid struct {
	cols, rows int
	cells      [][]cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for y := range g.cells {
		g.cells[y] = make([]cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' '}
		}
	}
	return g
}

// span converts a pixel rectangle to a half-open cell range, clipped to
// the grid. ok is false when nothing is visible.
func (g *grid) span(r geom.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = max(int(math.Floor(r.Left/cellWidth)), 0)
	y0 = max(int(math.Floor(r.Top/cellHeight)), 0)
	x1 = min(int(math.Ceil(r.Right/cellWidth)), g.cols)
	y1 = min(int(math.Ceil(r.Bottom/cellHeight)), g.rows)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

func (g *grid) set(x, y int, r rune, style *lipgloss.Style) {
	if x >= 0 && x < g.cols && y >= 0 && y < g.rows {
		g.cells[y][x] = cell{r: r, style: style}
	}
}

func (g *grid) fill(r geom.Rect, ch rune, style lipgloss.Style) {
	x0, y0, x1, y1, ok := g.span(r)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.set(x, y, ch, &style)
		}
	}
}

// frame draws r's border. Edges outside the grid are skipped.
func (g *grid) frame(r geom.Rect, style lipgloss.Style) {
	x0 := int(math.Floor(r.Left / cellWidth))
	y0 := int(math.Floor(r.Top / cellHeight))
	x1 := int(math.Ceil(r.Right/cellWidth)) - 1
	y1 := int(math.Ceil(r.Bottom/cellHeight)) - 1
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			ch := ' '
			switch {
			case (x == x0 || x == x1) && (y == y0 || y == y1):
				ch = cornerRune(x == x0, y == y0)
			case y == y0 || y == y1:
				ch = '─'
			case x == x0 || x == x1:
				ch = '│'
			}
			g.set(x, y, ch, &style)
		}
	}
}

func cornerRune(left, top bool) rune {
	switch {
	case left && top:
		return '┌'
	case top:
		return '┐'
	case left:
		return '└'
	}
	return '┘'
}

// lines renders each row, styling runs of equally styled cells together.
func (g *grid) lines() []string {
	out := make([]string, g.rows)
	for y, row := range g.cells {
		var b strings.Builder
		var run []rune
		var style *lipgloss.Style
		flush := func() {
			if len(run) == 0 {
				return
			}
			if style == nil {
				b.WriteString(string(run))
			} else {
				b.WriteString(style.Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			if c.style != style {
				flush()
				style = c.style
			}
			run = append(run, c.r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}
