// Package session runs the signed-in user's actions: profile editing,
// coaching requests, roadmap generation and weekly assessments. Each
// action either completes and updates the Context or fails and leaves it
// as it was.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/careercoach/internal/assessment"
	"github.com/abhisek/careercoach/internal/auth"
	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/store"
)

var (
	// ErrNotLoggedIn is returned by actions that need a user.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNoRoadmap is returned by assessment actions before a roadmap
	// with at least one week exists.
	ErrNoRoadmap = errors.New("generate your roadmap first to begin assessments")

	// ErrProfileMissing is returned when the user's record disappeared
	// from the store mid-session.
	ErrProfileMissing = errors.New("profile not found")
)

// Deps are the collaborators a Service needs. Events and Snapshots are
// optional.
type Deps struct {
	Auth      *auth.Service
	Profiles  profile.Store
	Coach     *coach.Coach
	Questions *assessment.Generator
	Events    store.EventRepo
	Snapshots store.SnapshotRepo

	Policy       roadmap.ScorePolicy
	SnapshotKeep int
}

// Service implements the session actions.
type Service struct {
	d Deps
}

// NewService creates a Service. An empty Policy uses the default.
func NewService(d Deps) *Service {
	if d.Policy == "" {
		d.Policy = roadmap.DefaultPolicy
	}
	return &Service{d: d}
}

// Policy returns the score policy in effect.
func (s *Service) Policy() roadmap.ScorePolicy {
	return s.d.Policy
}

// Signup registers a new user. The user still has to log in.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	return s.d.Auth.Register(ctx, username, password)
}

// Login authenticates and returns a fresh session restored from the
// stored profile.
func (s *Service) Login(ctx context.Context, username, password string) (*Context, error) {
	p, err := s.d.Auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sc := &Context{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(username),
		Tab:      TabProfile,
		Profile:  *p,
	}
	sc.Recommendations = coach.ParseRecommendations(p.SkillsList)
	slog.Info("session started", "session", sc.ID, "user", sc.Username)
	return sc, nil
}

// Logout clears every field of the session.
func (s *Service) Logout(sc *Context) {
	if sc.LoggedIn() {
		slog.Info("session ended", "session", sc.ID, "user", sc.Username)
	}
	*sc = Context{}
}

// SaveProfile stores role, skills and goal. The stored skills list and
// roadmap text are cleared since they were derived from the old profile.
func (s *Service) SaveProfile(ctx context.Context, sc *Context, role, skills, goal string) error {
	if !sc.LoggedIn() {
		return ErrNotLoggedIn
	}
	p := sc.Profile.Clone()
	p.Role = strings.TrimSpace(role)
	p.Skills = strings.TrimSpace(skills)
	p.Goal = strings.TrimSpace(goal)
	p.SkillsList = ""
	p.RoadmapText = ""

	if err := s.put(ctx, sc.Username, p); err != nil {
		return err
	}
	sc.Profile = p
	sc.Recommendations = nil
	sc.Questions = nil
	sc.Answers = nil
	return nil
}

// Analyze runs a profile analysis, optionally including resume text.
func (s *Service) Analyze(ctx context.Context, sc *Context, resume string) (string, error) {
	if !sc.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	in := input(sc.Profile)
	in.Resume = resume
	text, err := s.d.Coach.AnalyzeProfile(ctx, in)
	if err != nil {
		return "", err
	}
	sc.Analysis = text
	return text, nil
}

// RecommendSkills asks for skill recommendations and stores the raw text
// as the profile's skills list.
func (s *Service) RecommendSkills(ctx context.Context, sc *Context) ([]coach.SkillRecommendation, error) {
	if !sc.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	text, err := s.d.Coach.RecommendSkills(ctx, input(sc.Profile))
	if err != nil {
		return nil, err
	}
	p := sc.Profile.Clone()
	p.SkillsList = text
	if err := s.put(ctx, sc.Username, p); err != nil {
		return nil, err
	}
	sc.Profile = p
	sc.Recommendations = coach.ParseRecommendations(text)
	return sc.Recommendations, nil
}

// AddToRoadmap marks skill for the next roadmap. It reports false when
// the skill was already chosen.
func (s *Service) AddToRoadmap(ctx context.Context, sc *Context, skill string) (bool, error) {
	if !sc.LoggedIn() {
		return false, ErrNotLoggedIn
	}
	skill = strings.TrimSpace(skill)
	if skill == "" || slices.Contains(sc.Profile.RoadmapSkills, skill) {
		return false, nil
	}
	p := sc.Profile.Clone()
	p.RoadmapSkills = append(p.RoadmapSkills, skill)
	if err := s.put(ctx, sc.Username, p); err != nil {
		return false, err
	}
	sc.Profile = p
	return true, nil
}

// GenerateRoadmap replaces the roadmap. Scores and the cursor start over;
// mastered weeks are kept. The old roadmap is archived first.
func (s *Service) GenerateRoadmap(ctx context.Context, sc *Context) ([]roadmap.Entry, error) {
	if !sc.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	text, err := s.d.Coach.GenerateRoadmap(ctx, input(sc.Profile), sc.Profile.RoadmapSkills)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, sc.Username, sc.Profile, "regenerate")

	p := sc.Profile.Clone()
	p.RoadmapText = text
	p.Progress = p.Progress.Reset()
	if err := s.put(ctx, sc.Username, p); err != nil {
		return nil, err
	}
	sc.Profile = p
	sc.Questions = nil
	sc.Answers = nil
	sc.LastResult = nil

	entries := sc.Roadmap()
	slog.Debug("roadmap generated", "session", sc.ID, "weeks", len(entries))
	return entries, nil
}

// SuggestJobs lists job profiles for the planned skills: the chosen
// roadmap skills, or every recommended skill if none were chosen.
func (s *Service) SuggestJobs(ctx context.Context, sc *Context) (string, error) {
	if !sc.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	in := input(sc.Profile)
	if err := in.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(sc.Profile.SkillsList) == "" {
		return "", coach.ErrMissingSkillsList
	}
	planned := sc.Profile.RoadmapSkills
	if len(planned) == 0 {
		planned = coach.SkillNames(coach.ParseRecommendations(sc.Profile.SkillsList))
	}
	text, err := s.d.Coach.SuggestJobs(ctx, in, planned)
	if err != nil {
		return "", err
	}
	sc.Jobs = text
	return text, nil
}

// GenerateQuestions creates the question batch for the week at the
// cursor. A failed generation discards any previous batch.
func (s *Service) GenerateQuestions(ctx context.Context, sc *Context) (*assessment.Batch, error) {
	if !sc.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	entries := sc.Roadmap()
	progress := sc.Progress()
	if len(entries) == 0 {
		return nil, ErrNoRoadmap
	}
	if progress.Complete(entries) {
		return nil, roadmap.ErrRoadmapComplete
	}
	cur, ok := progress.Current(entries)
	if !ok {
		return nil, fmt.Errorf("%w: cursor %d is outside the roadmap", roadmap.ErrWeekLocked, progress.Cursor)
	}
	if !progress.Unlocked(entries, progress.Cursor) {
		prev := entries[progress.Cursor-1].Week
		return nil, fmt.Errorf("%w: pass previous week (%s) assessment to continue", roadmap.ErrWeekLocked, prev)
	}

	batch, err := s.d.Questions.Generate(ctx, cur.Week, cur.Task)
	if err != nil {
		sc.Questions = nil
		sc.Answers = nil
		return nil, err
	}
	sc.Questions = batch
	sc.Answers = map[int]string{}
	sc.LastResult = nil
	return batch, nil
}

// SubmitAssessment grades answers against the current batch, records the
// score and advances the cursor on a pass.
func (s *Service) SubmitAssessment(ctx context.Context, sc *Context, answers map[int]string) (*Result, error) {
	if !sc.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	batch := sc.Questions
	if batch.Len() == 0 {
		return nil, assessment.ErrNoQuestions
	}
	entries := sc.Roadmap()
	if len(entries) == 0 {
		return nil, ErrNoRoadmap
	}

	delta, correct := roadmap.Grade(batch.Key(), answers)
	next, out, err := sc.Profile.Progress.Submit(entries, batch.Week, delta, s.d.Policy)
	if err != nil {
		return nil, err
	}

	p := sc.Profile.Clone()
	p.Progress = next
	if err := s.put(ctx, sc.Username, p); err != nil {
		return nil, err
	}

	res := &Result{
		Week:       out.Week,
		Correct:    correct,
		Total:      batch.Len(),
		ScoreDelta: out.Delta,
		Score:      out.Score,
		Passed:     out.Passed,
		Advanced:   out.Advanced,
		Complete:   out.Complete,
		Review:     batch.Review(answers),
	}
	res.AttemptID = s.recordAttempt(ctx, sc.Username, res)

	sc.Profile = p
	sc.LastResult = res
	if res.Passed {
		sc.Questions = nil
		sc.Answers = nil
	}
	return res, nil
}

// Summary builds the progress dashboard. Newly mastered weeks are saved
// so the mastered list keeps growing across roadmaps.
func (s *Service) Summary(ctx context.Context, sc *Context) roadmap.Summary {
	p := sc.Profile
	sum := roadmap.Summarize(sc.Roadmap(), p.Progress.Scores, p.Progress.Mastered)
	if !sc.LoggedIn() || len(sum.MasteredWeeks) == len(p.Progress.Mastered) {
		return sum
	}

	next := p.Clone()
	next.Progress.Mastered = slices.Clone(sum.MasteredWeeks)
	if err := s.put(ctx, sc.Username, next); err != nil {
		slog.Warn("failed to save mastered weeks", "user", sc.Username, slog.Any("error", err))
		return sum
	}
	sc.Profile = next
	return sum
}

// ResetProgress archives and clears a user's scores and cursor outside a
// session, e.g. from the command line.
func (s *Service) ResetProgress(ctx context.Context, username string) error {
	p, err := s.d.Profiles.Get(ctx, username)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrProfileMissing, username)
	}
	s.archive(ctx, username, *p, "reset")
	next := p.Clone()
	next.Progress = next.Progress.Reset()
	return s.put(ctx, username, next)
}

func (s *Service) put(ctx context.Context, username string, p profile.Profile) error {
	if err := s.d.Profiles.Put(ctx, username, p); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProfileMissing, username)
		}
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// archive snapshots the roadmap being replaced. Failures are logged only.
func (s *Service) archive(ctx context.Context, username string, p profile.Profile, reason string) {
	if s.d.Snapshots == nil || strings.TrimSpace(p.RoadmapText) == "" {
		return
	}
	snap := &store.Snapshot{
		Username: username,
		Data: store.SnapshotData{
			Version:     1,
			Reason:      reason,
			RoadmapText: p.RoadmapText,
			Scores:      p.Progress.Scores.Clone(),
			Cursor:      p.Progress.Cursor,
			Mastered:    slices.Clone(p.Progress.Mastered),
		},
	}
	if err := s.d.Snapshots.Save(ctx, snap); err != nil {
		slog.Warn("failed to archive roadmap", "user", username, slog.Any("error", err))
		return
	}
	if s.d.SnapshotKeep > 0 {
		if err := s.d.Snapshots.Prune(ctx, username, s.d.SnapshotKeep); err != nil {
			slog.Warn("failed to prune roadmap archive", "user", username, slog.Any("error", err))
		}
	}
}

// recordAttempt appends the attempt event and returns its ID, or "" when
// no event store is configured or the write failed.
func (s *Service) recordAttempt(ctx context.Context, username string, r *Result) string {
	if s.d.Events == nil {
		return ""
	}
	id, err := s.d.Events.AppendAssessmentAttempt(context.WithoutCancel(ctx), store.AssessmentAttemptData{
		Username:   username,
		Week:       r.Week,
		Correct:    r.Correct,
		Total:      r.Total,
		ScoreDelta: r.ScoreDelta,
		Score:      r.Score,
		Passed:     r.Passed,
	})
	if err != nil {
		slog.Warn("failed to record assessment attempt", "user", username, slog.Any("error", err))
		return ""
	}
	return id
}

func input(p profile.Profile) coach.Input {
	return coach.Input{Role: p.Role, Skills: p.Skills, Goal: p.Goal}
}
