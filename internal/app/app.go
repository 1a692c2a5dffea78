package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/screens/home"
	"github.com/abhisek/careercoach/internal/screens/login"
	"github.com/abhisek/careercoach/internal/screens/welcome"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/store"
	"github.com/abhisek/careercoach/internal/ui/layout"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Session *session.Service
	Events  store.EventRepo

	// SkipSplash starts on the login screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel builds the screen graph: splash, login, then home.
func newAppModel(ctx context.Context, opts Options) AppModel {
	var loginScreen func() screen.Screen
	homeScreen := func(sc *session.Context) screen.Screen {
		return home.New(ctx, home.Options{
			Session: opts.Session,
			Events:  opts.Events,
			Logout:  loginScreen,
		}, sc)
	}
	loginScreen = func() screen.Screen {
		return login.New(ctx, opts.Session, homeScreen)
	}

	first := loginScreen()
	if !opts.SkipSplash {
		first = welcome.New(loginScreen)
	}
	return AppModel{router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 && !m.capturing() {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.Capturing()
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var badge *layout.Badge
	if bp, ok := active.(screen.BadgeProvider); ok {
		badge = bp.Badge()
	}
	header := layout.RenderHeader(title, badge, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("tui exited", slog.Any("error", err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
