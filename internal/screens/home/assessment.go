package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

type assessmentTab struct {
	choices  []components.MultiChoice
	current  int
	reviewed bool
}

func newAssessmentTab(sc *session.Context) *assessmentTab {
	t := &assessmentTab{}
	t.load(sc)
	return t
}

// load rebuilds the question views from the session's batch and answers.
func (t *assessmentTab) load(sc *session.Context) {
	t.choices, t.current, t.reviewed = nil, 0, false
	if sc.Questions == nil {
		return
	}
	for i, q := range sc.Questions.Questions {
		mc := components.NewMultiChoice(fmt.Sprintf("%d. %s", i+1, q.Question), q.Options)
		if given, ok := sc.Answers[i]; ok {
			for j, opt := range q.Options {
				if opt == given {
					mc.Cursor, mc.Chosen = j, j
				}
			}
		}
		t.choices = append(t.choices, mc)
	}
}

func (t *assessmentTab) capturing() bool {
	return false
}

func (t *assessmentTab) hints() []layout.KeyHint {
	if len(t.choices) == 0 {
		return []layout.KeyHint{{Key: "G", Description: "Generate questions"}}
	}
	if t.reviewed {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "R", Description: "Retry"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "Tab", Description: "Next"},
		{Key: "S", Description: "Submit"},
	}
}

func (t *assessmentTab) update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "g":
		if len(t.choices) > 0 && !t.reviewed {
			return nil
		}
		svc := h.opts.Session
		return h.run(actionQuestions, "Generating questions", func(ctx context.Context, sc *session.Context) (any, string, error) {
			batch, err := svc.GenerateQuestions(ctx, sc)
			if err != nil {
				return nil, "", err
			}
			return batch, fmt.Sprintf("%d questions ready for %s.", batch.Len(), batch.Week), nil
		})
	case "tab", "n":
		if len(t.choices) > 0 {
			t.current = (t.current + 1) % len(t.choices)
		}
		return nil
	case "shift+tab", "p":
		if len(t.choices) > 0 {
			t.current = (t.current - 1 + len(t.choices)) % len(t.choices)
		}
		return nil
	case "r":
		if t.reviewed && h.sc.Questions != nil {
			h.sc.Answers = map[int]string{}
			t.load(h.sc)
		}
		return nil
	case "s", "ctrl+s":
		if len(t.choices) == 0 || t.reviewed {
			return nil
		}
		answers := h.sc.AnswersCopy()
		svc := h.opts.Session
		return h.run(actionSubmit, "Grading", func(ctx context.Context, sc *session.Context) (any, string, error) {
			res, err := svc.SubmitAssessment(ctx, sc, answers)
			if err != nil {
				return nil, "", err
			}
			return res, resultStatus(res), nil
		})
	}

	if len(t.choices) == 0 || t.reviewed {
		return nil
	}
	mc := &t.choices[t.current]
	*mc, _ = mc.Update(msg)
	if answer := mc.Answer(); answer != "" {
		h.sc.SetAnswer(t.current, answer)
	}
	return nil
}

func resultStatus(r *session.Result) string {
	switch {
	case r.Complete:
		return fmt.Sprintf("Score %d. Congrats! You completed all weeks.", r.DisplayScore())
	case r.Advanced:
		return fmt.Sprintf("Score %d. %s passed, next week unlocked!", r.DisplayScore(), r.Week)
	case r.Passed:
		return fmt.Sprintf("Score %d. %s passed.", r.DisplayScore(), r.Week)
	}
	return fmt.Sprintf("Score %d. You need %d to pass %s; try again.", r.DisplayScore(), int(roadmap.PassThreshold), r.Week)
}

func (t *assessmentTab) done(h *HomeScreen, msg actionDoneMsg) {
	switch msg.kind {
	case actionQuestions, actionRoadmap, actionSaveProfile:
		t.load(h.sc)
	case actionSubmit:
		res, ok := msg.value.(*session.Result)
		if !ok || res == nil {
			return
		}
		// A pass clears the batch from the session; the tab keeps the
		// questions on screen for review until new ones are generated.
		for i := range t.choices {
			if i < len(res.Review) {
				t.choices[i].Reveal(res.Review[i].Correct)
			}
		}
		t.reviewed = true
		t.current = 0
	}
}

func (t *assessmentTab) view(h *HomeScreen, width, height int) string {
	entries := h.sc.Roadmap()
	p := h.sc.Progress()

	var b strings.Builder
	switch {
	case len(entries) == 0:
		return theme.Hint.Render("Generate your roadmap first to begin assessments.")
	case p.Complete(entries) && len(t.choices) == 0:
		return theme.SuccessText.Render("Congrats! You completed all weeks. Generate a new roadmap to keep going.")
	}

	if cur, ok := p.Current(entries); ok {
		b.WriteString(theme.Heading.Render(fmt.Sprintf("%s: %s", cur.Week, cur.Task)))
		b.WriteString("\n")
		if score := p.Score(cur.Week); score > 0 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("Current score %d, pass mark %d", int(score), int(roadmap.PassThreshold))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(t.choices) == 0 {
		b.WriteString(theme.Hint.Render("Press G to generate questions for this week."))
		return b.String()
	}

	answered := len(h.sc.Answers)
	if t.reviewed && h.sc.LastResult != nil {
		r := h.sc.LastResult
		style := theme.Incorrect
		if r.Passed {
			style = theme.Correct
		}
		b.WriteString(style.Render(fmt.Sprintf("%d/%d correct, score %d", r.Correct, r.Total, r.DisplayScore())))
	} else {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d, %d answered", t.current+1, len(t.choices), answered)))
	}
	b.WriteString("\n\n")

	b.WriteString(components.Card(t.choices[t.current].View(), width))
	return b.String()
}
