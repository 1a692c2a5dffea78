package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableLLMRequests).
		Columns("sequence", "timestamp", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success",
			"error_message", "request_body", "response_body").
		Values(seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := builder().Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := builder().Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanLLMEvent(r.drv.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMEvent, error) {
	var e LLMEvent
	var ts int64
	err := row.Scan(&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = time.UnixMilli(ts).UTC()
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query, args := builder().
		Select(
			"purpose",
			entsql.Count("*"),
			"COALESCE(SUM(input_tokens), 0)",
			"COALESCE(SUM(output_tokens), 0)",
			"COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)",
		).
		From(entsql.Table(tableLLMRequests)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage by purpose: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := builder().
		Select(
			"model",
			entsql.Count("*"),
			"COALESCE(SUM(input_tokens), 0)",
			"COALESCE(SUM(output_tokens), 0)",
		).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("success", true)).
		GroupBy("model").
		OrderBy("model").
		Query()
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage by model: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendAssessmentAttempt(ctx context.Context, data AssessmentAttemptData) (string, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}

	id := uuid.NewString()
	query, args := builder().Insert(tableAttempts).
		Columns("id", "sequence", "timestamp", "username", "week",
			"correct", "total", "score_delta", "score", "passed").
		Values(id, seqNum, time.Now().UnixMilli(), data.Username, data.Week,
			data.Correct, data.Total, data.ScoreDelta, data.Score, data.Passed).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("save assessment attempt: %w", err)
	}
	return id, nil
}

func (r *eventRepo) QueryAssessmentAttempts(ctx context.Context, opts QueryOpts) ([]AssessmentAttempt, error) {
	sel := builder().
		Select("id", "sequence", "timestamp", "username", "week",
			"correct", "total", "score_delta", "score", "passed").
		From(entsql.Table(tableAttempts)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Username != "" {
		sel.Where(entsql.EQ("username", opts.Username))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessment attempts: %w", err)
	}
	defer rows.Close()

	var out []AssessmentAttempt
	for rows.Next() {
		var a AssessmentAttempt
		var ts int64
		if err := rows.Scan(&a.ID, &a.Sequence, &ts, &a.Username, &a.Week,
			&a.Correct, &a.Total, &a.ScoreDelta, &a.Score, &a.Passed); err != nil {
			return nil, fmt.Errorf("scan assessment attempt: %w", err)
		}
		a.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
