package roadmap

import "strings"

// SummaryRow is one week in the progress dashboard.
type SummaryRow struct {
	Week   string
	Task   string
	Score  float64
	Passed bool
}

// Summary is the read-only progress view over a roadmap.
type Summary struct {
	Rows            []SummaryRow
	PassedCount     int
	TotalCount      int
	PercentComplete int

	// MasteredWeeks is the previous mastered list extended with every
	// passing week of the current roadmap.
	MasteredWeeks []string

	// MasteredTasks holds the tasks of the current roadmap's passed weeks.
	MasteredTasks []string

	// UpcomingWeeks are current weeks still below the threshold.
	UpcomingWeeks []string

	// Trend is the score of each week in roadmap order.
	Trend []float64
}

// Summarize builds the progress view. The mastered input is not modified.
func Summarize(entries []Entry, scores Scores, mastered []string) Summary {
	s := Summary{
		TotalCount:    len(entries),
		MasteredWeeks: append([]string(nil), mastered...),
	}
	for _, e := range entries {
		score := scores[e.Week]
		passed := Passed(score)
		s.Rows = append(s.Rows, SummaryRow{Week: e.Week, Task: e.Task, Score: score, Passed: passed})
		s.Trend = append(s.Trend, score)
		if passed {
			s.PassedCount++
			s.MasteredWeeks = appendUnique(s.MasteredWeeks, e.Week)
			s.MasteredTasks = append(s.MasteredTasks, e.Task)
		} else {
			s.UpcomingWeeks = append(s.UpcomingWeeks, e.Week)
		}
	}
	if s.TotalCount > 0 {
		s.PercentComplete = s.PassedCount * 100 / s.TotalCount
	}
	return s
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders scores in [0,100] as a one-line block chart.
func Sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		v = max(0, min(v, 100))
		idx := int(v / 100 * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
