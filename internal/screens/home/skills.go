package home

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const skillsTableHeight = 8

type skillsTab struct {
	table table.Model
	jobs  viewport.Model
}

func newSkillsTab(sc *session.Context) *skillsTab {
	t := &skillsTab{
		table: table.New(
			table.WithColumns(skillColumns(80)),
			table.WithHeight(skillsTableHeight),
			table.WithFocused(true),
		),
		jobs: viewport.New(),
	}
	t.setRows(sc.Recommendations)
	t.jobs.SetContent(sc.Jobs)
	return t
}

func skillColumns(width int) []table.Column {
	skill := max(width/5, 12)
	resource := max(width/5, 12)
	link := max(width/4, 16)
	desc := max(width-skill-resource-link-8, 16)
	return []table.Column{
		{Title: "Skill", Width: skill},
		{Title: "Description", Width: desc},
		{Title: "Resource", Width: resource},
		{Title: "Link", Width: link},
	}
}

func (t *skillsTab) setRows(recs []coach.SkillRecommendation) {
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, table.Row{r.Skill, r.Description, r.ResourceName, r.ResourceLink})
	}
	t.table.SetRows(rows)
}

func (t *skillsTab) capturing() bool {
	return false
}

func (t *skillsTab) hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Recommend"},
		{Key: "Enter", Description: "Add to roadmap"},
		{Key: "J", Description: "Job profiles"},
	}
}

func (t *skillsTab) update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd {
	svc := h.opts.Session
	switch msg.String() {
	case "r":
		return h.run(actionRecommend, "Finding skills", func(ctx context.Context, sc *session.Context) (any, string, error) {
			recs, err := svc.RecommendSkills(ctx, sc)
			return recs, fmt.Sprintf("%d skills recommended.", len(recs)), err
		})
	case "enter", "a":
		row := t.table.SelectedRow()
		if len(row) == 0 {
			return nil
		}
		skill := row[0]
		return h.run(actionAddSkill, "Adding skill", func(ctx context.Context, sc *session.Context) (any, string, error) {
			added, err := svc.AddToRoadmap(ctx, sc, skill)
			if !added {
				return added, fmt.Sprintf("%s is already on your roadmap list.", skill), err
			}
			return added, fmt.Sprintf("Added %s to roadmap!", skill), err
		})
	case "j":
		return h.run(actionJobs, "Suggesting job profiles", func(ctx context.Context, sc *session.Context) (any, string, error) {
			text, err := svc.SuggestJobs(ctx, sc)
			return text, "Job profiles ready.", err
		})
	case "pgup", "pgdown":
		var cmd tea.Cmd
		t.jobs, cmd = t.jobs.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

func (t *skillsTab) done(h *HomeScreen, msg actionDoneMsg) {
	switch msg.kind {
	case actionRecommend, actionSaveProfile:
		t.setRows(h.sc.Recommendations)
		t.table.SetCursor(0)
	case actionJobs:
		t.jobs.SetContent(h.sc.Jobs)
		t.jobs.GotoTop()
	}
}

func (t *skillsTab) view(h *HomeScreen, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Recommended skills"))
	b.WriteString("\n")

	if len(t.table.Rows()) == 0 {
		b.WriteString(theme.Hint.Render("Press R for skill and resource recommendations based on your profile."))
		b.WriteString("\n")
	} else {
		t.table.SetColumns(skillColumns(width))
		t.table.SetWidth(width)
		b.WriteString(t.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	chosen := h.sc.Profile.RoadmapSkills
	if len(chosen) == 0 {
		b.WriteString(theme.Hint.Render("No skills chosen for your roadmap yet."))
	} else {
		b.WriteString(theme.Body.Render("Roadmap skills: " + strings.Join(chosen, ", ")))
	}
	b.WriteString("\n\n")

	if h.sc.Jobs == "" {
		return b.String()
	}
	b.WriteString(theme.Heading.Render("Suggested job profiles"))
	b.WriteString("\n")
	used := strings.Count(b.String(), "\n") + 1
	t.jobs.SetWidth(width)
	t.jobs.SetHeight(max(height-used, 3))
	b.WriteString(t.jobs.View())
	return b.String()
}
