package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used in event logs and `llm list --purpose`.
const (
	PurposeProfileAnalysis = "profile-analysis"
	PurposeSkills          = "skill-recommend"
	PurposeRoadmap         = "roadmap"
	PurposeAssessment      = "assessment"
	PurposeJobs            = "job-suggest"
)

// Purposes lists every purpose label, in pipeline order.
func Purposes() []string {
	return []string{PurposeProfileAnalysis, PurposeSkills, PurposeRoadmap, PurposeAssessment, PurposeJobs}
}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
