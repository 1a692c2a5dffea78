package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/careercoach/internal/assessment"
	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/store"
)

const twoWeekRoadmap = `Here is your plan:
Week 1: Learn X
Week 2: Learn Y
Good luck!`

type harness struct {
	svc      *Service
	mock     *llm.MockProvider
	profiles profile.Store
	events   store.EventRepo
	snaps    store.SnapshotRepo
}

func newHarness(t *testing.T, policy roadmap.ScorePolicy) *harness {
	t.Helper()
	profiles := profile.NewJSONStore(filepath.Join(t.TempDir(), "users_db.json"))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider()
	h := &harness{
		mock:     mock,
		profiles: profiles,
		events:   st.EventRepo(),
		snaps:    st.SnapshotRepo(),
	}
	h.svc = NewService(Deps{
		Auth:         auth.NewService(profiles),
		Profiles:     profiles,
		Coach:        coach.New(llm.NewCompleter(mock, 1024)),
		Questions:    assessment.NewGenerator(mock, assessment.DefaultConfig()),
		Events:       h.events,
		Snapshots:    h.snaps,
		Policy:       policy,
		SnapshotKeep: 5,
	})
	return h
}

// login registers ana, saves a profile and returns her session.
func (h *harness) login(t *testing.T) *Context {
	t.Helper()
	ctx := context.Background()
	if err := h.svc.Signup(ctx, "ana", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sc, err := h.svc.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := h.svc.SaveProfile(ctx, sc, "Data Analyst", "SQL", "Data Scientist"); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	return sc
}

// withRoadmap generates the two-week roadmap for sc.
func (h *harness) withRoadmap(t *testing.T, sc *Context) {
	t.Helper()
	h.mock.AddResponse(llm.MockText(twoWeekRoadmap))
	if _, err := h.svc.GenerateRoadmap(context.Background(), sc); err != nil {
		t.Fatalf("generate roadmap: %v", err)
	}
}

// quiz returns a free-text response with n questions whose correct
// answer for question i is "right i".
func quiz(n int) llm.MockResponse {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"question": "Q%d", "options": ["right %d", "wrong a", "wrong b", "wrong c"], "answer": "right %d"}`, i, i, i)
	}
	return llm.MockText("[" + strings.Join(items, ",") + "]")
}

func answers(n, correct int) map[int]string {
	a := make(map[int]string, n)
	for i := 0; i < n; i++ {
		if i < correct {
			a[i] = fmt.Sprintf("right %d", i)
		} else {
			a[i] = "wrong a"
		}
	}
	return a
}

func TestLoginLogout(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()

	if err := h.svc.Signup(ctx, "ana", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := h.svc.Signup(ctx, "ana", "pw"); !errors.Is(err, auth.ErrUsernameTaken) {
		t.Errorf("duplicate signup: %v", err)
	}

	if _, err := h.svc.Login(ctx, "ana", "bad"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("bad password: %v", err)
	}

	sc, err := h.svc.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sc.LoggedIn() || sc.ID == "" || sc.Tab != TabProfile || sc.Initials() != "AN" {
		t.Errorf("session = %+v", sc)
	}

	h.svc.Logout(sc)
	if sc.LoggedIn() || sc.Profile.Role != "" || sc.Questions != nil {
		t.Errorf("logout left state behind: %+v", sc)
	}
}

func TestSaveProfile_ClearsDerivedText(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)

	h.mock.AddResponse(llm.MockText("Python | Language | Docs | https://python.org"))
	if _, err := h.svc.RecommendSkills(ctx, sc); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	h.withRoadmap(t, sc)

	if err := h.svc.SaveProfile(ctx, sc, "Analyst", "SQL, Python", "ML Engineer"); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, _ := h.profiles.Get(ctx, "ana")
	if stored.Goal != "ML Engineer" || stored.SkillsList != "" || stored.RoadmapText != "" {
		t.Errorf("stored profile = %+v", stored)
	}
	if sc.Recommendations != nil || len(sc.Roadmap()) != 0 {
		t.Error("session should drop derived data")
	}
}

func TestAnalyze_RequiresRoleAndGoal(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	if err := h.svc.Signup(ctx, "ana", "pw"); err != nil {
		t.Fatal(err)
	}
	sc, _ := h.svc.Login(ctx, "ana", "pw")

	_, err := h.svc.Analyze(ctx, sc, "")
	if !errors.Is(err, coach.ErrMissingRoleOrGoal) {
		t.Fatalf("err = %v", err)
	}
	if h.mock.CallCount() != 0 || sc.Analysis != "" {
		t.Error("invalid input must not reach the completion service")
	}

	if err := h.svc.SaveProfile(ctx, sc, "Dev", "Go", "Staff Engineer"); err != nil {
		t.Fatal(err)
	}
	h.mock.AddResponse(llm.MockText("Strong backend foundation."))
	got, err := h.svc.Analyze(ctx, sc, "10 years of Go")
	if err != nil || got != "Strong backend foundation." || sc.Analysis != got {
		t.Fatalf("analyze = %q, %v", got, err)
	}
	if !strings.Contains(h.mock.LastPrompt(), "10 years of Go") {
		t.Error("resume text missing from prompt")
	}
}

func TestRecommendAndAddToRoadmap(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)

	h.mock.AddResponse(llm.MockText("Python | Language | Docs | https://python.org\nStatistics | Math | Khan | https://khanacademy.org"))
	rows, err := h.svc.RecommendSkills(ctx, sc)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rows) != 2 || sc.Profile.SkillsList == "" {
		t.Fatalf("rows = %+v", rows)
	}

	added, err := h.svc.AddToRoadmap(ctx, sc, "Python")
	if err != nil || !added {
		t.Fatalf("add: %v %v", added, err)
	}
	added, _ = h.svc.AddToRoadmap(ctx, sc, "Python")
	if added {
		t.Error("duplicate skill must not be added twice")
	}

	stored, _ := h.profiles.Get(ctx, "ana")
	if len(stored.RoadmapSkills) != 1 || stored.RoadmapSkills[0] != "Python" {
		t.Errorf("stored roadmap skills = %v", stored.RoadmapSkills)
	}

	h.withRoadmap(t, sc)
	if !strings.Contains(h.mock.LastPrompt(), "Skills chosen for roadmap: Python") {
		t.Errorf("roadmap prompt = %q", h.mock.LastPrompt())
	}
}

func TestSuggestJobs(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)

	if _, err := h.svc.SuggestJobs(ctx, sc); !errors.Is(err, coach.ErrMissingSkillsList) {
		t.Fatalf("err = %v, want ErrMissingSkillsList", err)
	}

	h.mock.AddResponse(llm.MockText("Python | Language | Docs | https://python.org\nSQL | Queries | Mode | https://mode.com"))
	if _, err := h.svc.RecommendSkills(ctx, sc); err != nil {
		t.Fatal(err)
	}
	h.mock.AddResponse(llm.MockText("- **ML Engineer**: ships models"))
	got, err := h.svc.SuggestJobs(ctx, sc)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if sc.Jobs != got {
		t.Error("jobs not stored in session")
	}
	if !strings.Contains(h.mock.LastPrompt(), "Skills planned: Python, SQL") {
		t.Errorf("prompt = %q", h.mock.LastPrompt())
	}
}

func TestAssessment_PassUnlocksNextWeek(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	entries := sc.Roadmap()
	if !sc.Progress().Unlocked(entries, 0) || sc.Progress().Unlocked(entries, 1) {
		t.Fatal("only Week 1 should be unlocked")
	}

	h.mock.AddResponse(quiz(20))
	batch, err := h.svc.GenerateQuestions(ctx, sc)
	if err != nil {
		t.Fatalf("generate questions: %v", err)
	}
	if batch.Week != "Week 1" || batch.Len() != 20 {
		t.Fatalf("batch = %s with %d questions", batch.Week, batch.Len())
	}
	if !strings.Contains(h.mock.LastPrompt(), "Task description: Learn X") {
		t.Errorf("prompt = %q", h.mock.LastPrompt())
	}

	res, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Score != 100 || res.Correct != 20 || !res.Passed || !res.Advanced || res.Complete {
		t.Errorf("result = %+v", res)
	}
	if res.DisplayScore() != 100 || len(res.Review) != 20 || !res.Review[0].OK {
		t.Errorf("review = %+v", res.Review[:1])
	}
	if sc.Progress().Cursor != 1 || !sc.Progress().Unlocked(entries, 1) {
		t.Errorf("progress = %+v", sc.Progress())
	}
	if sc.Questions != nil {
		t.Error("batch should be cleared after a pass")
	}

	stored, _ := h.profiles.Get(ctx, "ana")
	if stored.Progress.Cursor != 1 || stored.Progress.Scores["Week 1"] != 100 {
		t.Errorf("stored progress = %+v", stored.Progress)
	}

	attempts, err := h.events.QueryAssessmentAttempts(ctx, store.QueryOpts{Username: "ana"})
	if err != nil || len(attempts) != 1 {
		t.Fatalf("attempts = %+v, %v", attempts, err)
	}
	if attempts[0].ID != res.AttemptID || !attempts[0].Passed {
		t.Errorf("attempt = %+v", attempts[0])
	}
}

func TestAssessment_FailAllowsRetry(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}

	res, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 0))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Score != 40 || res.Passed || res.Advanced {
		t.Errorf("result = %+v", res)
	}
	if sc.Progress().Cursor != 0 || sc.Progress().Unlocked(sc.Roadmap(), 1) {
		t.Error("Week 2 must stay locked")
	}
	if sc.Questions == nil {
		t.Fatal("batch should be kept for a retry")
	}

	// Replace policy: a better retry overwrites the score.
	res, err = h.svc.SubmitAssessment(ctx, sc, answers(20, 15))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Score != 85 || !res.Passed {
		t.Errorf("retry result = %+v", res)
	}
}

func TestAssessment_AccumulatePolicy(t *testing.T) {
	h := newHarness(t, roadmap.PolicyAccumulate)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if res, _ := h.svc.SubmitAssessment(ctx, sc, answers(20, 0)); res.Passed {
		t.Fatal("first all-wrong attempt must fail")
	}
	res, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 80 || !res.Passed || sc.Progress().Cursor != 1 {
		t.Errorf("accumulated result = %+v", res)
	}
}

func TestGenerateQuestions_ParseFailureDiscardsBatch(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}
	before := sc.Progress().Clone()

	h.mock.AddResponse(llm.MockText("Sorry, no JSON today"))
	_, err := h.svc.GenerateQuestions(ctx, sc)
	if !errors.Is(err, assessment.ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if sc.Questions != nil {
		t.Error("stale batch must be discarded")
	}
	if sc.Progress().Cursor != before.Cursor || len(sc.Progress().Scores) != len(before.Scores) {
		t.Error("progress must be untouched by a failed generation")
	}

	if _, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20)); !errors.Is(err, assessment.ErrNoQuestions) {
		t.Errorf("submit without batch: %v", err)
	}
}

func TestGenerateQuestions_Gating(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)

	if _, err := h.svc.GenerateQuestions(ctx, sc); !errors.Is(err, ErrNoRoadmap) {
		t.Fatalf("no roadmap: %v", err)
	}

	h.withRoadmap(t, sc)
	for week := 0; week < 2; week++ {
		h.mock.AddResponse(quiz(20))
		if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
			t.Fatalf("week %d: %v", week+1, err)
		}
		if _, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20)); err != nil {
			t.Fatalf("week %d submit: %v", week+1, err)
		}
	}
	if sc.LastResult == nil || !sc.LastResult.Complete {
		t.Errorf("last result = %+v", sc.LastResult)
	}
	if _, err := h.svc.GenerateQuestions(ctx, sc); !errors.Is(err, roadmap.ErrRoadmapComplete) {
		t.Errorf("complete roadmap: %v", err)
	}

	sum := h.svc.Summary(ctx, sc)
	if sum.PercentComplete != 100 || sum.PassedCount != 2 || len(sum.UpcomingWeeks) != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestGenerateQuestions_CursorOutOfRange(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	for _, cursor := range []int{-1, -5} {
		sc.Profile.Progress.Cursor = cursor
		batch, err := h.svc.GenerateQuestions(ctx, sc)
		if !errors.Is(err, roadmap.ErrWeekLocked) {
			t.Errorf("cursor %d: err = %v, want ErrWeekLocked", cursor, err)
		}
		if batch != nil {
			t.Errorf("cursor %d: got batch %+v", cursor, batch)
		}
	}
	if calls := h.mock.CallCount(); calls != 1 {
		t.Errorf("model calls = %d, want only the roadmap call", calls)
	}
}

func TestSubmit_StaleBatchForOtherWeekRejected(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	sc.Questions = &assessment.Batch{Week: "Week 2", Questions: []assessment.Question{
		{Question: "Q", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
	}}
	_, err := h.svc.SubmitAssessment(ctx, sc, map[int]string{0: "a"})
	if !errors.Is(err, roadmap.ErrWeekLocked) {
		t.Fatalf("err = %v, want ErrWeekLocked", err)
	}
	if len(sc.Progress().Scores) != 0 {
		t.Error("locked week must not be scored")
	}
}

func TestRegenerateRoadmap_KeepsMasteredAndArchives(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20)); err != nil {
		t.Fatal(err)
	}

	h.mock.AddResponse(llm.MockText("Week 1: Learn Z\nWeek 2: Learn W\nWeek 3: Learn V"))
	entries, err := h.svc.GenerateRoadmap(ctx, sc)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %+v", entries)
	}
	p := sc.Progress()
	if p.Cursor != 0 || len(p.Scores) != 0 {
		t.Errorf("progress not reset: %+v", p)
	}
	if len(p.Mastered) != 1 || p.Mastered[0] != "Week 1" {
		t.Errorf("mastered = %v", p.Mastered)
	}

	sum := h.svc.Summary(ctx, sc)
	if sum.PassedCount != 0 || len(sum.MasteredWeeks) != 1 {
		t.Errorf("summary = %+v", sum)
	}

	snap, err := h.snaps.Latest(ctx, "ana")
	if err != nil || snap == nil {
		t.Fatalf("snapshot = %v, %v", snap, err)
	}
	if snap.Data.Reason != "regenerate" || snap.Data.Cursor != 1 || snap.Data.Scores["Week 1"] != 100 {
		t.Errorf("snapshot = %+v", snap.Data)
	}
}

func TestProgressSurvivesRelogin(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20)); err != nil {
		t.Fatal(err)
	}
	h.svc.Logout(sc)

	again, err := h.svc.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatal(err)
	}
	entries := again.Roadmap()
	if len(entries) != 2 || !again.Progress().Unlocked(entries, 1) || again.Progress().Unlocked(entries, 0) {
		t.Errorf("restored progress = %+v", again.Progress())
	}
}

func TestResetProgress(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := h.login(t)
	h.withRoadmap(t, sc)

	h.mock.AddResponse(quiz(20))
	if _, err := h.svc.GenerateQuestions(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.SubmitAssessment(ctx, sc, answers(20, 20)); err != nil {
		t.Fatal(err)
	}

	if err := h.svc.ResetProgress(ctx, "ana"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	stored, _ := h.profiles.Get(ctx, "ana")
	if stored.Progress.Cursor != 0 || len(stored.Progress.Scores) != 0 || len(stored.Progress.Mastered) != 1 {
		t.Errorf("stored progress = %+v", stored.Progress)
	}
	if stored.RoadmapText == "" {
		t.Error("reset must keep the roadmap")
	}

	if err := h.svc.ResetProgress(ctx, "nobody"); !errors.Is(err, ErrProfileMissing) {
		t.Errorf("unknown user: %v", err)
	}
}

func TestActionsRequireLogin(t *testing.T) {
	h := newHarness(t, roadmap.PolicyReplace)
	ctx := context.Background()
	sc := &Context{}

	if err := h.svc.SaveProfile(ctx, sc, "a", "b", "c"); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("save: %v", err)
	}
	if _, err := h.svc.GenerateRoadmap(ctx, sc); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("roadmap: %v", err)
	}
	if _, err := h.svc.SubmitAssessment(ctx, sc, nil); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("submit: %v", err)
	}
}

func TestTabNames(t *testing.T) {
	if TabAssessment.String() != "Assessment" || Tab(42).String() != "Unknown" {
		t.Error("unexpected tab names")
	}
	if len(Tabs()) != 5 {
		t.Errorf("tabs = %v", Tabs())
	}
}
