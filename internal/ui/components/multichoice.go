package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a single multiple-choice question. The chosen option is
// kept until Reveal is called, after which the correct answer is shown.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is the index of the selected option, or -1.
	Chosen int

	revealed bool
	correct  string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
}

// Update handles keyboard navigation and selection. Letter keys a-d
// choose an option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
	case "a", "b", "c", "d":
		if i := int(key[0] - 'a'); i < len(m.Options) {
			m.Cursor, m.Chosen = i, i
		}
	}

	return m, nil
}

// Answer returns the chosen option text, or "" when nothing is chosen.
func (m MultiChoice) Answer() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// Reveal locks the question and marks correct in the view.
func (m *MultiChoice) Reveal(correct string) {
	m.revealed = true
	m.correct = correct
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		mark := "( )"
		if i == m.Chosen {
			mark = "(•)"
		}
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, label, opt)

		switch {
		case m.revealed && opt == m.correct:
			line = theme.Correct.Render(line)
		case m.revealed && i == m.Chosen:
			line = theme.Incorrect.Render(line)
		case m.revealed:
			line = theme.Locked.Render(line)
		case i == m.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
