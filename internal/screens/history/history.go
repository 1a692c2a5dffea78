// Package history lists a user's past assessment attempts.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// Limit is the number of attempts loaded.
const Limit = 50

type historyLoadedMsg struct {
	Attempts []store.AssessmentAttempt
	Err      error
}

// HistoryScreen displays past assessment attempts, newest first.
type HistoryScreen struct {
	ctx      context.Context
	events   store.EventRepo
	username string

	attempts []store.AssessmentAttempt
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for username.
func New(ctx context.Context, events store.EventRepo, username string) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		events:   events,
		username: username,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, events, username := s.ctx, s.events, s.username
	return func() tea.Msg {
		attempts, err := events.QueryAssessmentAttempts(ctx, store.QueryOpts{Username: username, Limit: Limit})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Attempt History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet. Take one from the Assessment tab!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		verdict := "failed"
		if a.Passed {
			verdict = "passed"
		}
		line := fmt.Sprintf("%s%s  %-10s  %2d/%-2d correct  score %3d  %s",
			prefix, a.Timestamp.Local().Format("Jan 02 15:04"), a.Week, a.Correct, a.Total, int(a.Score), verdict)

		style := theme.Unselected
		switch {
		case i == s.selected:
			style = theme.Selected
		case a.Passed:
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    attempt %s  earned %.1f points", shortID(a.ID), a.ScoreDelta)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
