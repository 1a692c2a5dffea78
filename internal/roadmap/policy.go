package roadmap

import "fmt"

// ScorePolicy decides how a new attempt combines with a week's prior score.
type ScorePolicy string

const (
	// PolicyReplace keeps only the latest attempt's score.
	PolicyReplace ScorePolicy = "replace"

	// PolicyAccumulate adds each attempt to the running score, capped at 100.
	// A failed week therefore passes on a second all-wrong attempt (40+40).
	PolicyAccumulate ScorePolicy = "accumulate"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyReplace

// ParsePolicy converts a configuration string to a ScorePolicy.
// The empty string selects DefaultPolicy.
func ParsePolicy(s string) (ScorePolicy, error) {
	switch ScorePolicy(s) {
	case "":
		return DefaultPolicy, nil
	case PolicyReplace, PolicyAccumulate:
		return ScorePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown score policy %q (want %q or %q)", s, PolicyReplace, PolicyAccumulate)
	}
}
