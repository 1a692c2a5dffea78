package home

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careercoach/internal/assessment"
	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/router"
	"github.com/abhisek/careercoach/internal/screen"
	"github.com/abhisek/careercoach/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "login" }
func (s *stubScreen) Title() string                           { return "Login" }

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "ctrl+l":
		return tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// drain runs cmd and flattens batches into the messages they produce.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, drain(c)...)
	}
	return out
}

// press sends k and feeds every resulting action result back.
func press(t *testing.T, h *HomeScreen, k string) []tea.Msg {
	t.Helper()
	_, cmd := h.Update(key(k))
	msgs := drain(cmd)
	for _, m := range msgs {
		if done, ok := m.(actionDoneMsg); ok {
			h.Update(done)
		}
	}
	return msgs
}

func quiz(n int) llm.MockResponse {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"question": "Q%d", "options": ["right %d", "wrong a", "wrong b", "wrong c"], "answer": "right %d"}`, i, i, i)
	}
	return llm.MockText("[" + strings.Join(items, ",") + "]")
}

func newTestHome(t *testing.T) (*HomeScreen, *llm.MockProvider) {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewJSONStore(filepath.Join(t.TempDir(), "users_db.json"))
	mock := llm.NewMockProvider()
	cfg := assessment.DefaultConfig()
	cfg.Count = 3
	svc := session.NewService(session.Deps{
		Auth:      auth.NewService(profiles),
		Profiles:  profiles,
		Coach:     coach.New(llm.NewCompleter(mock, 1024)),
		Questions: assessment.NewGenerator(mock, cfg),
	})
	if err := svc.Signup(ctx, "ana", "pw"); err != nil {
		t.Fatal(err)
	}
	sc, err := svc.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveProfile(ctx, sc, "Analyst", "SQL", "Data Scientist"); err != nil {
		t.Fatal(err)
	}
	h := New(ctx, Options{
		Session: svc,
		Logout:  func() screen.Screen { return &stubScreen{} },
	}, sc)
	return h, mock
}

func TestTabNavigation(t *testing.T) {
	h, _ := newTestHome(t)
	if h.sc.Tab != session.TabProfile {
		t.Fatalf("start tab = %v", h.sc.Tab)
	}
	press(t, h, "right")
	if h.sc.Tab != session.TabSkills {
		t.Errorf("after right: %v", h.sc.Tab)
	}
	press(t, h, "3")
	if h.sc.Tab != session.TabRoadmap || h.Title() != "Learning Roadmap" {
		t.Errorf("after 3: %v", h.sc.Tab)
	}
	msgs := press(t, h, "5")
	if h.sc.Tab != session.TabProgress {
		t.Errorf("after 5: %v", h.sc.Tab)
	}
	if len(msgs) == 0 {
		t.Error("opening the progress tab should refresh the summary")
	}
}

func TestRoadmapAndAssessmentFlow(t *testing.T) {
	h, mock := newTestHome(t)

	press(t, h, "3")
	mock.AddResponse(llm.MockText("Week 1: Learn X\nWeek 2: Learn Y"))
	press(t, h, "g")
	if len(h.sc.Roadmap()) != 2 {
		t.Fatalf("roadmap = %+v", h.sc.Roadmap())
	}
	if h.status != "Roadmap generated with 2 weeks." || h.busy != "" {
		t.Errorf("status = %q busy = %q", h.status, h.busy)
	}

	press(t, h, "4")
	mock.AddResponse(quiz(3))
	press(t, h, "g")
	tab := h.tabs[session.TabAssessment].(*assessmentTab)
	if len(tab.choices) != 3 {
		t.Fatalf("choices = %d, err = %q", len(tab.choices), h.errMsg)
	}

	for range 3 {
		press(t, h, "a")
		press(t, h, "tab")
	}
	if len(h.sc.Answers) != 3 {
		t.Fatalf("answers = %v", h.sc.Answers)
	}

	press(t, h, "s")
	if h.sc.LastResult == nil || h.sc.LastResult.Score != 100 {
		t.Fatalf("result = %+v, err = %q", h.sc.LastResult, h.errMsg)
	}
	if h.sc.Progress().Cursor != 1 || !tab.reviewed {
		t.Errorf("cursor = %d reviewed = %v", h.sc.Progress().Cursor, tab.reviewed)
	}
	if !strings.Contains(h.status, "next week unlocked") {
		t.Errorf("status = %q", h.status)
	}
	if h.Badge().Percent != 50 {
		t.Errorf("badge = %+v", h.Badge())
	}
}

func TestFailedActionShowsError(t *testing.T) {
	h, _ := newTestHome(t)
	press(t, h, "4")
	press(t, h, "g")
	if !strings.Contains(h.errMsg, "generate your roadmap first") {
		t.Errorf("errMsg = %q", h.errMsg)
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	h, _ := newTestHome(t)
	h.busy = "Working"
	_, cmd := h.Update(key("right"))
	if cmd != nil || h.sc.Tab != session.TabProfile {
		t.Error("keys should be ignored while an action runs")
	}
}

func TestProfileEditingCapturesKeys(t *testing.T) {
	h, _ := newTestHome(t)
	press(t, h, "e")
	if !h.Capturing() {
		t.Fatal("profile tab should capture keys while editing")
	}
	press(t, h, "l")
	if h.sc.Tab != session.TabProfile {
		t.Error("typing should not switch tabs")
	}
}

func TestLogout(t *testing.T) {
	h, _ := newTestHome(t)
	msgs := press(t, h, "ctrl+l")
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	if _, ok := msgs[0].(router.ResetScreenMsg); !ok {
		t.Errorf("expected ResetScreenMsg, got %T", msgs[0])
	}
	if h.sc.LoggedIn() {
		t.Error("session should be cleared")
	}
}
