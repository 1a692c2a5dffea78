// Package coach turns a learner's profile into model-written career advice:
// profile analysis, skill recommendations, learning roadmaps and job
// suggestions.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/careercoach/internal/llm"
)

// ErrMissingRoleOrGoal is returned when an action needs both a current
// role and a career goal.
var ErrMissingRoleOrGoal = errors.New("please enter both your current role and your career goal")

// ErrMissingSkillsList is returned by SuggestJobs before any skills have
// been recommended.
var ErrMissingSkillsList = errors.New("generate skill recommendations first")

// Input is the profile text every prompt is built from.
type Input struct {
	Role   string
	Skills string
	Goal   string

	// Resume is optional extracted resume text for profile analysis.
	Resume string
}

// Validate checks that the fields every prompt needs are present.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Role) == "" || strings.TrimSpace(in.Goal) == "" {
		return ErrMissingRoleOrGoal
	}
	return nil
}

// Coach sends coaching prompts to a completion service.
type Coach struct {
	llm llm.Completer
}

// New creates a Coach backed by c.
func New(c llm.Completer) *Coach {
	return &Coach{llm: c}
}

// AnalyzeProfile describes strengths, skill gaps and suggestions.
func (c *Coach) AnalyzeProfile(ctx context.Context, in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return c.complete(ctx, llm.PurposeProfileAnalysis, analyzePrompt(in))
}

// RecommendSkills returns the raw pipe-delimited recommendation text.
// Use ParseRecommendations to turn it into rows.
func (c *Coach) RecommendSkills(ctx context.Context, in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return c.complete(ctx, llm.PurposeSkills, recommendPrompt(in))
}

// GenerateRoadmap returns a plain-text week-by-week plan. roadmapSkills,
// when set, are the skills the learner picked to focus on.
func (c *Coach) GenerateRoadmap(ctx context.Context, in Input, roadmapSkills []string) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return c.complete(ctx, llm.PurposeRoadmap, roadmapPrompt(in, roadmapSkills))
}

// SuggestJobs lists job profiles reachable after completing the plan.
func (c *Coach) SuggestJobs(ctx context.Context, in Input, plannedSkills []string) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return c.complete(ctx, llm.PurposeJobs, jobsPrompt(in, plannedSkills))
}

func (c *Coach) complete(ctx context.Context, purpose, prompt string) (string, error) {
	text, err := c.llm.Complete(llm.WithPurpose(ctx, purpose), prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", purpose, err)
	}
	return text, nil
}
