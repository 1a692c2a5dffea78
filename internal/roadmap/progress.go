package roadmap

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrWeekLocked is returned when a week other than the one at the
	// cursor is submitted, or the previous week has not been passed.
	ErrWeekLocked = errors.New("week is locked")

	// ErrRoadmapComplete is returned when every week has been passed.
	ErrRoadmapComplete = errors.New("roadmap complete")

	// ErrEmptyRoadmap is returned when there is nothing to assess.
	ErrEmptyRoadmap = errors.New("roadmap has no weeks")
)

// Progress is a learner's position in their roadmap. It is persisted with
// the profile and survives logins.
type Progress struct {
	Scores Scores `json:"scores"`
	Cursor int    `json:"cursor"`

	// Mastered lists every week label that has ever reached the pass
	// threshold. It only grows, even across roadmap regeneration.
	Mastered []string `json:"mastered"`
}

// Outcome reports what a single submission did to the progress.
type Outcome struct {
	Week     string
	Delta    float64
	Score    float64
	Passed   bool
	Advanced bool
	Complete bool
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	return Progress{
		Scores:   p.Scores.Clone(),
		Cursor:   p.Cursor,
		Mastered: slices.Clone(p.Mastered),
	}
}

// Score returns the recorded score for week.
func (p Progress) Score(week string) float64 {
	return p.Scores[week]
}

// Complete reports whether every week of entries has been passed.
func (p Progress) Complete(entries []Entry) bool {
	return len(entries) > 0 && p.Cursor >= len(entries)
}

// Current returns the entry at the cursor, if any.
func (p Progress) Current(entries []Entry) (Entry, bool) {
	if p.Cursor < 0 || p.Cursor >= len(entries) {
		return Entry{}, false
	}
	return entries[p.Cursor], true
}

// Unlocked reports whether week index i may be assessed now.
func (p Progress) Unlocked(entries []Entry, i int) bool {
	return IsWeekUnlocked(p.Cursor, i, p.Scores, entries)
}

// Submit records an attempt for week and returns the updated progress.
// The receiver is not modified. Only the week at the cursor is accepted.
func (p Progress) Submit(entries []Entry, week string, delta float64, policy ScorePolicy) (Progress, Outcome, error) {
	if len(entries) == 0 {
		return p, Outcome{}, ErrEmptyRoadmap
	}
	if p.Complete(entries) {
		return p, Outcome{}, ErrRoadmapComplete
	}
	cur, ok := p.Current(entries)
	if !ok || cur.Week != week || !p.Unlocked(entries, p.Cursor) {
		return p, Outcome{}, fmt.Errorf("%w: %s", ErrWeekLocked, week)
	}

	next := p.Clone()
	next.Scores = ApplyScore(p.Scores, week, delta, policy)
	next.Cursor = AdvanceIfPassed(p.Cursor, week, next.Scores)

	out := Outcome{
		Week:     week,
		Delta:    delta,
		Score:    next.Scores[week],
		Passed:   Passed(next.Scores[week]),
		Advanced: next.Cursor > p.Cursor,
	}
	if out.Passed {
		next.Mastered = appendUnique(next.Mastered, week)
	}
	out.Complete = next.Complete(entries)
	return next, out, nil
}

// Reset prepares progress for a freshly generated roadmap. Scores and the
// cursor start over; the mastered list is kept.
func (p Progress) Reset() Progress {
	return Progress{
		Scores:   Scores{},
		Mastered: slices.Clone(p.Mastered),
	}
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
