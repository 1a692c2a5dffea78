package session

import (
	"maps"
	"strings"

	"github.com/abhisek/careercoach/internal/assessment"
	"github.com/abhisek/careercoach/internal/coach"
	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/roadmap"
)

// Tab is a section of the signed-in application.
type Tab int

const (
	TabProfile Tab = iota
	TabSkills
	TabRoadmap
	TabAssessment
	TabProgress
)

var tabNames = [...]string{
	TabProfile:    "Profile Analyzer",
	TabSkills:     "Skill & Resource Recommender",
	TabRoadmap:    "Learning Roadmap",
	TabAssessment: "Assessment",
	TabProgress:   "Progress Tracker & Dashboard",
}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tabs lists every tab in navigation order.
func Tabs() []Tab {
	return []Tab{TabProfile, TabSkills, TabRoadmap, TabAssessment, TabProgress}
}

// Context is everything one signed-in user's session holds. It is owned
// by a single caller; Service methods update it only when an action
// succeeds.
//
// The persisted parts (skills list, roadmap text, roadmap skills and
// progress) live in Profile and are written through on every change.
type Context struct {
	// ID identifies the session in logs.
	ID       string
	Username string
	Tab      Tab

	Profile profile.Profile

	// Analysis is the latest profile analysis. Not persisted.
	Analysis string

	// Recommendations are the parsed rows of Profile.SkillsList.
	Recommendations []coach.SkillRecommendation

	// Jobs is the latest job-profile suggestion text. Not persisted.
	Jobs string

	// Questions is the batch for the week at the cursor, if generated.
	Questions *assessment.Batch

	// Answers holds the selected option per question index.
	Answers map[int]string

	// LastResult is the outcome of the latest submission.
	LastResult *Result
}

// LoggedIn reports whether the session belongs to a user.
func (c *Context) LoggedIn() bool {
	return c != nil && c.Username != ""
}

// Roadmap parses the current roadmap text.
func (c *Context) Roadmap() []roadmap.Entry {
	return roadmap.Parse(c.Profile.RoadmapText)
}

// Progress returns the persisted progress.
func (c *Context) Progress() roadmap.Progress {
	return c.Profile.Progress
}

// Initials is the two-letter badge shown for the user.
func (c *Context) Initials() string {
	if !c.LoggedIn() {
		return "?"
	}
	r := []rune(c.Username)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// SetAnswer records the option chosen for question i.
func (c *Context) SetAnswer(i int, option string) {
	if c.Answers == nil {
		c.Answers = map[int]string{}
	}
	c.Answers[i] = option
}

// AnswersCopy returns a copy of the selected answers.
func (c *Context) AnswersCopy() map[int]string {
	return maps.Clone(c.Answers)
}

// Result reports one graded assessment submission.
type Result struct {
	AttemptID  string
	Week       string
	Correct    int
	Total      int
	ScoreDelta float64
	Score      float64
	Passed     bool
	Advanced   bool
	Complete   bool
	Review     []assessment.AnswerReview
}

// DisplayScore is the score as shown to the user, truncated to an integer.
func (r *Result) DisplayScore() int {
	return int(r.Score)
}
