package roadmap

import "strings"

// PassThreshold is the minimum week score that counts as passed.
const PassThreshold = 70.0

// Entry is one week of a parsed roadmap.
type Entry struct {
	Week string `json:"week"`
	Task string `json:"task"`
}

// Scores maps a week label to its recorded assessment score.
// Unseen weeks read as 0.
type Scores map[string]float64

// Clone returns an independent copy of s. A nil map clones to an empty one.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Passed reports whether a score meets the pass threshold.
func Passed(score float64) bool {
	return score >= PassThreshold
}

// Parse extracts the weekly entries from model-generated roadmap text.
//
// A line qualifies when, after trimming, it starts with "week" (any case)
// and contains a colon. The label is the text before the first colon and
// the task is the text after it. Everything else is skipped, including
// lines wrapped in markdown emphasis such as "**Week 1:** ...".
//
// Scores are keyed by label, so only the first line for a label is kept.
func Parse(text string) []Entry {
	var entries []Entry
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len("week") || !strings.EqualFold(line[:4], "week") {
			continue
		}
		label, task, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		if seen[label] {
			continue
		}
		seen[label] = true
		entries = append(entries, Entry{
			Week: label,
			Task: strings.TrimSpace(task),
		})
	}
	return entries
}

// IsWeekUnlocked reports whether the week at weekIndex may be assessed.
// Only the week at the cursor is ever unlocked, and beyond week 0 the
// preceding week must have a passing score.
func IsWeekUnlocked(cursor, weekIndex int, scores Scores, entries []Entry) bool {
	if len(entries) == 0 || weekIndex != cursor {
		return false
	}
	if cursor < 0 || cursor >= len(entries) {
		return false
	}
	if cursor == 0 {
		return true
	}
	return Passed(scores[entries[cursor-1].Week])
}

// Grade scores a submission against the answer key. Each correct answer
// is worth 100/n and each wrong or missing answer 40/n, so an all-wrong
// submission still earns 40. An empty key grades to zero.
func Grade(key []string, answers map[int]string) (delta float64, correct int) {
	n := len(key)
	if n == 0 {
		return 0, 0
	}
	for i, want := range key {
		if got, ok := answers[i]; ok && got == want {
			correct++
		}
	}
	// Summed as integers first so that half-correct lands exactly on 70.
	delta = float64(100*correct+40*(n-correct)) / float64(n)
	return delta, correct
}

// ApplyScore returns a copy of scores with delta applied to week under
// the given policy. The input map is not modified.
func ApplyScore(scores Scores, week string, delta float64, policy ScorePolicy) Scores {
	out := scores.Clone()
	switch policy {
	case PolicyAccumulate:
		out[week] = min(out[week]+delta, 100)
	default:
		out[week] = delta
	}
	return out
}

// AdvanceIfPassed returns the cursor to use after week was scored.
// The cursor moves forward by one only when week has passed.
func AdvanceIfPassed(cursor int, week string, scores Scores) int {
	if Passed(scores[week]) {
		return cursor + 1
	}
	return cursor
}
