package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int    // max results (0 = unlimited)
	After    int64  // sequence > After
	Purpose  string // LLM events only; empty matches all
	Username string // assessment attempts and snapshots only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AssessmentAttemptData records one graded assessment submission.
type AssessmentAttemptData struct {
	Username   string
	Week       string
	Correct    int
	Total      int
	ScoreDelta float64
	Score      float64
	Passed     bool
}

// AssessmentAttempt is a stored assessment submission.
type AssessmentAttempt struct {
	ID        string
	Sequence  int64
	Timestamp time.Time
	AssessmentAttemptData
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendAssessmentAttempt records a graded submission and returns its ID.
	AppendAssessmentAttempt(ctx context.Context, data AssessmentAttemptData) (string, error)

	// QueryAssessmentAttempts returns attempts, newest first.
	QueryAssessmentAttempts(ctx context.Context, opts QueryOpts) ([]AssessmentAttempt, error)
}

// SnapshotData is an archived roadmap and the progress made against it.
type SnapshotData struct {
	Version     int                `json:"version"`
	Reason      string             `json:"reason"`
	RoadmapText string             `json:"roadmap_text"`
	Scores      map[string]float64 `json:"scores"`
	Cursor      int                `json:"cursor"`
	Mastered    []string           `json:"mastered"`
}

// Snapshot is a point-in-time capture of a user's roadmap.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Username  string
	Data      SnapshotData
}

// SnapshotRepo archives roadmaps before they are replaced or reset.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the user's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, username string) (*Snapshot, error)

	// List returns the user's snapshots, newest first.
	List(ctx context.Context, username string, limit int) ([]Snapshot, error)

	// Prune deletes all but the user's N most recent snapshots.
	Prune(ctx context.Context, username string, keep int) error
}
