package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screens/history"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

type progressTab struct{}

func (t *progressTab) capturing() bool {
	return false
}

func (t *progressTab) hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Attempt history"}}
}

func (t *progressTab) update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() != "enter" || h.opts.Events == nil {
		return nil
	}
	s := history.New(h.ctx, h.opts.Events, h.sc.Username)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (t *progressTab) done(*HomeScreen, actionDoneMsg) {}

func (t *progressTab) view(h *HomeScreen, width, height int) string {
	p := h.sc.Progress()
	sum := roadmap.Summarize(h.sc.Roadmap(), p.Scores, p.Mastered)
	return renderSummary(sum, width)
}

func renderSummary(sum roadmap.Summary, width int) string {
	var b strings.Builder

	if sum.TotalCount == 0 {
		b.WriteString(theme.Hint.Render("No roadmap yet. Generate one in the Learning Roadmap tab."))
		b.WriteString("\n")
	} else {
		overall := components.NewProgressBar(
			fmt.Sprintf("%d of %d weeks passed", sum.PassedCount, sum.TotalCount),
			float64(sum.PercentComplete)/100, true, width)
		b.WriteString(overall.View())
		b.WriteString("\n\n")

		labelWidth := 0
		for _, row := range sum.Rows {
			labelWidth = max(labelWidth, len(row.Week))
		}
		for _, row := range sum.Rows {
			bar := components.NewProgressBar(fmt.Sprintf("%-*s", labelWidth, row.Week), row.Score/100, true, min(width, 60))
			bar.Passed = row.Passed
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Trend  "))
		b.WriteString(theme.Heading.Render(roadmap.Sparkline(sum.Trend)))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Heading.Render("Mastered"))
	b.WriteString("\n")
	b.WriteString(bulletList(sum.MasteredWeeks, "Nothing mastered yet."))
	b.WriteString("\n")

	if len(sum.UpcomingWeeks) > 0 {
		b.WriteString(theme.Heading.Render("Upcoming"))
		b.WriteString("\n")
		b.WriteString(bulletList(sum.UpcomingWeeks, ""))
	}
	return b.String()
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return theme.Hint.Render(empty) + "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString(theme.Body.Render("  • " + it))
		b.WriteString("\n")
	}
	return b.String()
}
