package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/geom"
	"github.com/matzehuels/tether/pkg/scenario"
)

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// renderSteps renders one table row per step.
func renderSteps(rep *scenario.Report) string {
	rows := make([][]string, 0, len(rep.Steps))
	for _, s := range rep.Steps {
		result := formatRect(s.Overlay)
		if s.Error != "" {
			result = s.Code
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Action,
			formatCandidate(s),
			dashIfEmpty(s.Mode),
			result,
			dashIfEmpty(strings.Join(s.PaneClasses, " ")),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Step", "Position", "Mode", "Overlay", "Classes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			s := rep.Steps[row]
			switch {
			case s.Error != "" && col == 4:
				return lipgloss.NewStyle().Foreground(colorRed)
			case col == 3:
				return modeStyle(s.Mode)
			case col == 0 || col == 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// renderStyles renders the final pane and host styles side by side.
func renderStyles(s scenario.StepReport) string {
	pane := formatStyle("pane", s.PaneStyle)
	host := formatStyle("host", s.HostStyle)
	return lipgloss.JoinHorizontal(lipgloss.Top, pane, "    ", host)
}

// printReport writes the summary of a run to w.
func printReport(w io.Writer, res *scenario.Result) {
	rep := res.Report
	fmt.Fprintln(w, StyleTitle.Render(rep.Name))
	fmt.Fprintln(w, renderSteps(rep))

	final := rep.Final()
	if final.Position != nil {
		fmt.Fprintln(w, renderStyles(final))
	}
	for _, s := range rep.Steps {
		if s.Error != "" {
			printError(w, "step %d (%s): %s", s.Index, s.Action, s.Error)
		}
	}
	printRunStats(w, len(rep.Steps), res.Duration.Round(time.Microsecond).String(), res.CacheHit)
}

func formatCandidate(s scenario.StepReport) string {
	if s.Position == nil {
		return "-"
	}
	p := s.Position
	label := fmt.Sprintf("%d %s/%s %s %s/%s", s.Candidate, p.OriginX, p.OriginY, iconArrow, p.OverlayX, p.OverlayY)
	if s.Pushed {
		label += " (pushed)"
	}
	return label
}

func formatRect(r geom.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.Left, r.Top, r.Width, r.Height)
}

func formatStyle(title string, st dom.Style) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	for _, k := range slices.Sorted(maps.Keys(st)) {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(k + ": "))
		b.WriteString(StyleValue.Render(st[k]))
	}
	return b.String()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
