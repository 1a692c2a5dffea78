package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

type roadmapTab struct {
	offset int
}

func (t *roadmapTab) capturing() bool {
	return false
}

func (t *roadmapTab) hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "G", Description: "Generate roadmap"},
		{Key: "↑↓", Description: "Scroll"},
	}
}

func (t *roadmapTab) update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "g":
		svc := h.opts.Session
		return h.run(actionRoadmap, "Generating roadmap", func(ctx context.Context, sc *session.Context) (any, string, error) {
			entries, err := svc.GenerateRoadmap(ctx, sc)
			if err == nil && len(entries) == 0 {
				return entries, "Roadmap saved, but no weekly plan lines were found in it.", nil
			}
			return entries, fmt.Sprintf("Roadmap generated with %d weeks.", len(entries)), err
		})
	case "up", "k":
		t.offset = max(t.offset-1, 0)
	case "down", "j":
		t.offset++
	}
	return nil
}

func (t *roadmapTab) done(_ *HomeScreen, msg actionDoneMsg) {
	if msg.kind == actionRoadmap || msg.kind == actionSaveProfile {
		t.offset = 0
	}
}

func (t *roadmapTab) view(h *HomeScreen, width, height int) string {
	entries := h.sc.Roadmap()
	if len(entries) == 0 {
		if strings.TrimSpace(h.sc.Profile.RoadmapText) != "" {
			return theme.Body.Width(width).Render(h.sc.Profile.RoadmapText)
		}
		return theme.Hint.Render("Press G to generate a week-by-week learning roadmap for your goal.")
	}

	lines := renderWeeks(entries, h.sc.Progress())
	t.offset = min(t.offset, max(len(lines)-height+2, 0))

	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("Your %d-week roadmap", len(entries))))
	b.WriteString("\n\n")
	for _, line := range lines[t.offset:] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// renderWeeks renders one line per week: passed, open for assessment, or
// locked.
func renderWeeks(entries []roadmap.Entry, p roadmap.Progress) []string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		score := p.Score(e.Week)
		var line string
		switch {
		case roadmap.Passed(score):
			line = theme.Correct.Render(fmt.Sprintf("✓ %s: %s", e.Week, e.Task)) +
				theme.Hint.Render(fmt.Sprintf("  (%d)", int(score)))
		case p.Unlocked(entries, i):
			line = theme.Selected.Render(fmt.Sprintf("▶ %s: %s", e.Week, e.Task))
			if score > 0 {
				line += theme.Hint.Render(fmt.Sprintf("  (%d, need %d)", int(score), int(roadmap.PassThreshold)))
			}
		default:
			line = theme.Locked.Render(fmt.Sprintf("🔒 %s: %s", e.Week, e.Task))
		}
		lines = append(lines, line)
	}
	return lines
}
