// Package home is the signed-in screen. It shows one tab per session
// section and runs every slow action in the background.
package home

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// tab is one section of the home screen.
type tab interface {
	// update handles a key press while the tab is shown.
	update(h *HomeScreen, msg tea.KeyPressMsg) tea.Cmd

	// done is called after a background action finished, successful or not.
	done(h *HomeScreen, msg actionDoneMsg)

	view(h *HomeScreen, width, height int) string
	hints() []layout.KeyHint

	// capturing reports whether a text field has focus.
	capturing() bool
}

// Options are the collaborators of the home screen.
type Options struct {
	Session *session.Service
	Events  store.EventRepo

	// Logout builds the screen shown after logging out.
	Logout func() screen.Screen
}

// HomeScreen is the tabbed dashboard of a signed-in user.
type HomeScreen struct {
	ctx  context.Context
	opts Options
	sc   *session.Context
	tabs map[session.Tab]tab

	spin   spinner.Model
	busy   string
	status string
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.BadgeProvider = (*HomeScreen)(nil)
var _ screen.InputCapturer = (*HomeScreen)(nil)

// New creates the home screen for a freshly logged-in session.
func New(ctx context.Context, opts Options, sc *session.Context) *HomeScreen {
	h := &HomeScreen{
		ctx:  ctx,
		opts: opts,
		sc:   sc,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
	h.tabs = map[session.Tab]tab{
		session.TabProfile:    newProfileTab(sc),
		session.TabSkills:     newSkillsTab(sc),
		session.TabRoadmap:    &roadmapTab{},
		session.TabAssessment: newAssessmentTab(sc),
		session.TabProgress:   &progressTab{},
	}
	return h
}

// Context returns the session shown by the screen.
func (h *HomeScreen) Context() *session.Context {
	return h.sc
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return h.sc.Tab.String()
}

func (h *HomeScreen) Badge() *layout.Badge {
	p := h.sc.Progress()
	sum := roadmap.Summarize(h.sc.Roadmap(), p.Scores, p.Mastered)
	return &layout.Badge{Initials: h.sc.Initials(), Percent: sum.PercentComplete}
}

func (h *HomeScreen) Capturing() bool {
	return h.active().capturing()
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.busy != "" {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := h.active().hints()
	if !h.Capturing() {
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Tabs"},
			layout.KeyHint{Key: "Ctrl+L", Description: "Log out"},
		)
	}
	return hints
}

func (h *HomeScreen) active() tab {
	return h.tabs[h.sc.Tab]
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if h.busy == "" {
			return h, nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return h, cmd

	case actionDoneMsg:
		h.busy = ""
		// Session actions leave the context untouched on failure, except
		// where a failure itself must be recorded, so the copy is always
		// taken over.
		*h.sc = *msg.sc
		if msg.err != nil {
			h.errMsg = errorText(msg.err)
			h.status = ""
		} else {
			h.errMsg = ""
			h.status = msg.status
		}
		for _, t := range h.tabs {
			t.done(h, msg)
		}
		return h, nil

	case tea.KeyPressMsg:
		if h.busy != "" {
			return h, nil
		}
		if !h.Capturing() {
			if cmd, ok := h.globalKey(msg); ok {
				return h, cmd
			}
		}
		return h, h.active().update(h, msg)
	}

	return h, nil
}

func (h *HomeScreen) globalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch key := msg.String(); key {
	case "right", "l":
		return h.switchTab(1), true
	case "left", "h":
		return h.switchTab(-1), true
	case "1", "2", "3", "4", "5":
		return h.showTab(session.Tab(key[0] - '1')), true
	case "ctrl+l":
		return h.logout(), true
	}
	return nil, false
}

func (h *HomeScreen) switchTab(delta int) tea.Cmd {
	n := len(session.Tabs())
	return h.showTab(session.Tab((int(h.sc.Tab) + delta + n) % n))
}

// showTab switches to t. Opening the progress tab refreshes the summary,
// which also saves newly mastered weeks.
func (h *HomeScreen) showTab(t session.Tab) tea.Cmd {
	h.sc.Tab = t
	h.clearMessages()
	if t != session.TabProgress {
		return nil
	}
	svc := h.opts.Session
	return h.run(actionSummary, "Updating progress", func(ctx context.Context, sc *session.Context) (any, string, error) {
		return svc.Summary(ctx, sc), "", nil
	})
}

func (h *HomeScreen) clearMessages() {
	h.status, h.errMsg = "", ""
}

func (h *HomeScreen) logout() tea.Cmd {
	h.opts.Session.Logout(h.sc)
	next := h.opts.Logout()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

func (h *HomeScreen) View(width, height int) string {
	tabBar := h.renderTabs(width)

	var status string
	switch {
	case h.busy != "":
		status = h.spin.View() + " " + theme.Hint.Render(h.busy+"...")
	case h.errMsg != "":
		status = theme.ErrorText.Render(h.errMsg)
	case h.status != "":
		status = theme.SuccessText.Render(h.status)
	}

	bodyHeight := max(height-lipgloss.Height(tabBar)-3, 0)
	body := h.active().view(h, layout.ContentWidth(width), bodyHeight)
	body = lipgloss.NewStyle().MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, "", body, "", "  "+status)
}

func (h *HomeScreen) renderTabs(width int) string {
	parts := make([]string, 0, len(session.Tabs()))
	for _, t := range session.Tabs() {
		label := t.String()
		if layout.IsCompactWidth(width) {
			label = shortTabNames[t]
		}
		if t == h.sc.Tab {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabInactive.Render(label))
		}
	}
	return "  " + strings.Join(parts, " ")
}

var shortTabNames = map[session.Tab]string{
	session.TabProfile:    "Profile",
	session.TabSkills:     "Skills",
	session.TabRoadmap:    "Roadmap",
	session.TabAssessment: "Assessment",
	session.TabProgress:   "Progress",
}
