package home

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/resume"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const (
	fieldRole = iota
	fieldSkills
	fieldGoal
	fieldResume
)

type profileTab struct {
	form    components.Form
	editing bool
	output  viewport.Model
}

func newProfileTab(sc *session.Context) *profileTab {
	t := &profileTab{
		form: components.NewForm(
			components.NewTextInput("Current role", "e.g. Data Analyst", false, 60),
			components.NewTextInput("Current skills", "comma separated", false, 60),
			components.NewTextInput("Career goal", "e.g. Machine Learning Engineer", false, 60),
			components.NewTextInput("Resume file (PDF, DOCX or TXT, optional)", "/path/to/resume.pdf", false, 60),
		),
		output: viewport.New(),
	}
	t.form.Inputs[fieldRole].SetValue(sc.Profile.Role)
	t.form.Inputs[fieldSkills].SetValue(sc.Profile.Skills)
	t.form.Inputs[fieldGoal].SetValue(sc.Profile.Goal)
	t.form.Inputs[fieldRole].Blur()
	t.output.SetContent(sc.Analysis)
	return t
}

func (t *profileTab) capturing() bool {
	return t.editing
}

func (t *profileTab) hints() []layout.KeyHint {
	if t.editing {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Ctrl+S", Description: "Save"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "E", Description: "Edit"},
		{Key: "S", Description: "Save"},
		{Key: "A", Description: "Analyze"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
	}
}

func (t *profileTab) update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd {
	if t.editing {
		switch msg.String() {
		case "esc":
			t.stopEditing()
			return nil
		case "ctrl+s":
			t.stopEditing()
			return t.save(h)
		}
		var cmd tea.Cmd
		t.form, cmd = t.form.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "e", "enter":
		t.editing = true
		return t.form.Inputs[t.form.Focus].Focus()
	case "s":
		return t.save(h)
	case "a":
		return t.analyze(h)
	}
	var cmd tea.Cmd
	t.output, cmd = t.output.Update(msg)
	return cmd
}

func (t *profileTab) stopEditing() {
	t.editing = false
	t.form.Inputs[t.form.Focus].Blur()
}

func (t *profileTab) save(h *HomeScreen) tea.Cmd {
	vals := t.form.Values()
	svc := h.opts.Session
	return h.run(actionSaveProfile, "Saving profile", func(ctx context.Context, sc *session.Context) (any, string, error) {
		err := svc.SaveProfile(ctx, sc, vals[fieldRole], vals[fieldSkills], vals[fieldGoal])
		return nil, "Profile saved!", err
	})
}

func (t *profileTab) analyze(h *HomeScreen) tea.Cmd {
	path := strings.TrimSpace(t.form.Values()[fieldResume])
	svc := h.opts.Session
	return h.run(actionAnalyze, "Analyzing profile", func(ctx context.Context, sc *session.Context) (any, string, error) {
		var text string
		if path != "" {
			var err error
			if text, err = resume.ReadFile(path); err != nil {
				return nil, "", fmt.Errorf("read resume: %w", err)
			}
		}
		analysis, err := svc.Analyze(ctx, sc, text)
		return analysis, "Analysis ready.", err
	})
}

func (t *profileTab) done(h *HomeScreen, msg actionDoneMsg) {
	switch msg.kind {
	case actionAnalyze:
		t.output.SetContent(h.sc.Analysis)
		t.output.GotoTop()
	case actionSaveProfile:
		if msg.err == nil {
			t.output.SetContent("")
		}
	}
}

func (t *profileTab) view(h *HomeScreen, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Your profile"))
	b.WriteString("\n\n")
	b.WriteString(t.form.View())
	b.WriteString("\n\n")

	if h.sc.Analysis == "" {
		b.WriteString(theme.Hint.Render("Save your profile, then press A for an analysis of your strengths and gaps."))
		return b.String()
	}

	b.WriteString(theme.Heading.Render("Profile analysis"))
	b.WriteString("\n")
	used := strings.Count(b.String(), "\n") + 1
	t.output.SetWidth(width)
	t.output.SetHeight(max(height-used, 3))
	b.WriteString(t.output.View())
	return b.String()
}
