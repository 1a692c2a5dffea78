package home

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/session"
)

type actionKind int

const (
	actionSaveProfile actionKind = iota
	actionAnalyze
	actionRecommend
	actionAddSkill
	actionJobs
	actionRoadmap
	actionQuestions
	actionSubmit
	actionSummary
)

// actionFunc runs against a private copy of the session. It returns a
// value for the tabs and a status line shown on success.
type actionFunc func(ctx context.Context, sc *session.Context) (any, string, error)

// actionDoneMsg carries the session copy an action worked on.
type actionDoneMsg struct {
	kind   actionKind
	sc     *session.Context
	value  any
	status string
	err    error
}

// run starts fn in the background. Only one action runs at a time; keys
// are ignored until it finishes.
func (h *HomeScreen) run(kind actionKind, label string, fn actionFunc) tea.Cmd {
	if h.busy != "" {
		return nil
	}
	h.busy = label
	h.clearMessages()

	work := *h.sc
	ctx := h.ctx
	return tea.Batch(h.spin.Tick, func() tea.Msg {
		v, status, err := fn(ctx, &work)
		return actionDoneMsg{kind: kind, sc: &work, value: v, status: status, err: err}
	})
}

func errorText(err error) string {
	return llm.UserMessage(err)
}
