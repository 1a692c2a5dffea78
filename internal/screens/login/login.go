// Package login is the sign-in and sign-up screen.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/session"
	"github.com/abhisek/careercoach/internal/ui/components"
	"github.com/abhisek/careercoach/internal/ui/layout"
	"github.com/abhisek/careercoach/internal/ui/theme"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

type loginDoneMsg struct {
	sc  *session.Context
	err error
}

type signupDoneMsg struct {
	username string
	err      error
}

// LoginScreen collects a username and password.
type LoginScreen struct {
	ctx  context.Context
	svc  *session.Service
	next func(*session.Context) screen.Screen

	mode    Mode
	form    components.Form
	busy    bool
	errMsg  string
	infoMsg string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.InputCapturer = (*LoginScreen)(nil)

// New creates a LoginScreen. next builds the screen shown after a
// successful login.
func New(ctx context.Context, svc *session.Service, next func(*session.Context) screen.Screen) *LoginScreen {
	return &LoginScreen{
		ctx:  ctx,
		svc:  svc,
		next: next,
		form: newForm(),
	}
}

func newForm() components.Form {
	return components.NewForm(
		components.NewTextInput("Username", "your username", false, 32),
		components.NewTextInput("Password", "your password", true, 32),
	)
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.form.Inputs[s.form.Focus].Focus()
}

func (s *LoginScreen) Title() string {
	if s.mode == ModeSignup {
		return "Sign up"
	}
	return "Login"
}

// Capturing is always true; every key belongs to the form.
func (s *LoginScreen) Capturing() bool {
	return true
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	other := "Sign up"
	if s.mode == ModeSignup {
		other = "Login"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: s.Title()},
		{Key: "Ctrl+N", Description: other},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Mode returns the current mode.
func (s *LoginScreen) Mode() Mode {
	return s.mode
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = errorText(msg.err)
			return s, nil
		}
		next := s.next(msg.sc)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case signupDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = errorText(msg.err)
			return s, nil
		}
		s.mode = ModeLogin
		s.errMsg = ""
		s.infoMsg = "Signup successful! Please log in."
		s.form.Inputs[1].SetValue("")
		return s, nil

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+n":
			s.toggle()
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *LoginScreen) toggle() {
	if s.mode == ModeLogin {
		s.mode = ModeSignup
	} else {
		s.mode = ModeLogin
	}
	s.errMsg, s.infoMsg = "", ""
}

func (s *LoginScreen) submit() tea.Cmd {
	vals := s.form.Values()
	username, password := strings.TrimSpace(vals[0]), vals[1]
	s.errMsg, s.infoMsg = "", ""
	s.busy = true

	ctx, svc := s.ctx, s.svc
	if s.mode == ModeSignup {
		return func() tea.Msg {
			return signupDoneMsg{username: username, err: svc.Signup(ctx, username, password)}
		}
	}
	return func() tea.Msg {
		sc, err := svc.Login(ctx, username, password)
		return loginDoneMsg{sc: sc, err: err}
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, auth.ErrMissingCredentials):
		return "Please enter a username and password."
	case errors.Is(err, auth.ErrUsernameTaken):
		return "Username already exists."
	}
	return err.Error()
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Checking..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.infoMsg != "":
		b.WriteString(theme.SuccessText.Render(s.infoMsg))
	}

	card := components.Card(b.String(), min(layout.ContentWidth(width), 48))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
