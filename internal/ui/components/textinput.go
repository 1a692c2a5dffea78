package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and app styling.
type TextInput struct {
	Label string
	Model textinput.Model
}

// NewTextInput creates a new labelled text input. Password inputs mask
// what is typed.
func NewTextInput(label, placeholder string, password bool, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	if width > 0 {
		ti.SetWidth(width)
	}
	return TextInput{Label: label, Model: ti}
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() string {
	label := theme.Unselected
	if t.Model.Focused() {
		label = theme.Selected
	}
	return label.Render(t.Label) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(t.Model.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Form is an ordered set of inputs with one focused at a time.
type Form struct {
	Inputs []TextInput
	Focus  int
}

// NewForm creates a form and focuses its first input.
func NewForm(inputs ...TextInput) Form {
	f := Form{Inputs: inputs}
	if len(f.Inputs) > 0 {
		f.Inputs[0].Focus()
	}
	return f
}

// Update moves focus on tab/shift+tab/up/down and forwards everything
// else to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Inputs) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.move(1)
		case "shift+tab", "up":
			return f, f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.Inputs[f.Focus].Blur()
	f.Focus = (f.Focus + delta + len(f.Inputs)) % len(f.Inputs)
	return f.Inputs[f.Focus].Focus()
}

// Values returns every input value in order.
func (f Form) Values() []string {
	out := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		out[i] = in.Value()
	}
	return out
}

// View renders the inputs one below the other.
func (f Form) View() string {
	var s string
	for i, in := range f.Inputs {
		if i > 0 {
			s += "\n\n"
		}
		s += in.View()
	}
	return s
}
