package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

// Tagline is shown under the banner.
const Tagline = "Plan it. Learn it. Prove it."

var stepFrames = []string{"▹▹▹", "▸▹▹", "▸▸▹", "▸▸▸"}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the login
// screen. Any key skips it.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next().
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width)}

	if w.elapsed >= phase1End {
		frame := stepFrames[w.tickCount%len(stepFrames)]
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)+"  "+
				lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(Tagline))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("press any key to sign in"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
