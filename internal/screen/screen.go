package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BadgeProvider is an optional interface for screens that belong to a
// signed-in user. The badge is shown in the header.
type BadgeProvider interface {
	Badge() *layout.Badge
}

// InputCapturer is implemented by screens that are editing text. While
// Capturing reports true the app leaves Esc and q to the screen.
type InputCapturer interface {
	Capturing() bool
}
