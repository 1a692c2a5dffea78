package coach

import (
	"strings"
)

// SkillRecommendation is one row of the recommender table.
type SkillRecommendation struct {
	Skill        string
	Description  string
	ResourceName string
	ResourceLink string
}

// ParseRecommendations keeps lines that split on "|" into exactly four
// non-empty fields. Markdown table borders and prose are dropped.
func ParseRecommendations(text string) []SkillRecommendation {
	var out []SkillRecommendation
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		// Tolerate markdown table rows: "| a | b | c | d |".
		line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
		parts := strings.Split(line, "|")
		if len(parts) != 4 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "" || isTableRule(parts[0]) || isHeader(parts) {
			continue
		}
		out = append(out, SkillRecommendation{
			Skill:        stripListMarker(parts[0]),
			Description:  parts[1],
			ResourceName: parts[2],
			ResourceLink: parts[3],
		})
	}
	return out
}

// SkillNames returns the skill column of rows.
func SkillNames(rows []SkillRecommendation) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Skill)
	}
	return names
}

func isTableRule(s string) bool {
	return strings.Trim(s, "-: ") == ""
}

func isHeader(parts []string) bool {
	return strings.EqualFold(parts[0], "skill name") || strings.EqualFold(parts[0], "skill")
}

// stripListMarker removes a leading "1. ", "- " or "* " the model may add.
func stripListMarker(s string) string {
	s = strings.TrimLeft(s, "-* ")
	if i := strings.Index(s, ". "); i > 0 && i <= 3 && strings.Trim(s[:i], "0123456789") == "" {
		s = s[i+2:]
	}
	return strings.Trim(strings.TrimSpace(s), "*")
}
