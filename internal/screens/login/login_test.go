package login

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/session"
)

type stubScreen struct{ sc *session.Context }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	ctrlN = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
)

func newTestLogin(t *testing.T) *LoginScreen {
	t.Helper()
	profiles := profile.NewJSONStore(filepath.Join(t.TempDir(), "users_db.json"))
	svc := session.NewService(session.Deps{
		Auth:     auth.NewService(profiles),
		Profiles: profiles,
	})
	return New(context.Background(), svc, func(sc *session.Context) screen.Screen {
		return &stubScreen{sc: sc}
	})
}

// submit fills the form, presses Enter and feeds the result back.
func submit(s *LoginScreen, username, password string) tea.Cmd {
	s.form.Inputs[0].SetValue(username)
	s.form.Inputs[1].SetValue(password)
	_, cmd := s.Update(enter)
	_, next := s.Update(cmd())
	return next
}

func TestSignupThenLogin(t *testing.T) {
	s := newTestLogin(t)

	s.Update(ctrlN)
	if s.Mode() != ModeSignup || s.Title() != "Sign up" {
		t.Fatalf("mode = %v", s.Mode())
	}

	if cmd := submit(s, "ana", "pw"); cmd != nil {
		t.Fatal("signup should not navigate")
	}
	if s.Mode() != ModeLogin || s.infoMsg == "" {
		t.Errorf("after signup: mode %v info %q err %q", s.Mode(), s.infoMsg, s.errMsg)
	}

	cmd := submit(s, "ana", "pw")
	if cmd == nil {
		t.Fatalf("login should navigate, err %q", s.errMsg)
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	home := replace.Screen.(*stubScreen)
	if home.sc.Username != "ana" {
		t.Errorf("session user = %q", home.sc.Username)
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	s := newTestLogin(t)
	s.Update(ctrlN)
	submit(s, "ana", "pw")

	submit(s, "ana", "wrong")
	wrongPassword := s.errMsg
	submit(s, "bob", "pw")
	if wrongPassword == "" || s.errMsg != wrongPassword {
		t.Errorf("messages differ: %q vs %q", wrongPassword, s.errMsg)
	}
}

func TestDuplicateSignup(t *testing.T) {
	s := newTestLogin(t)
	s.Update(ctrlN)
	submit(s, "ana", "pw")
	s.Update(ctrlN)
	submit(s, "ana", "other")
	if s.errMsg != "Username already exists." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}
