package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo. Data is stored as a JSON document.
type snapshotRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Username == "" {
		return fmt.Errorf("save snapshot: username is required")
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	query, args := builder().Insert(tableSnapshots).
		Columns("sequence", "timestamp", "username", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), snap.Username, string(data)).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, username string) (*Snapshot, error) {
	snaps, err := r.List(ctx, username, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

func (r *snapshotRepo) List(ctx context.Context, username string, limit int) ([]Snapshot, error) {
	sel := builder().Select("id", "sequence", "timestamp", "username", "data").
		From(entsql.Table(tableSnapshots)).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var ts int64
		var raw string
		if err := rows.Scan(&s.ID, &s.Sequence, &ts, &s.Username, &raw); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &s.Data); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %d: %w", s.ID, err)
		}
		s.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, username string, keep int) error {
	// Find the sequence of the oldest snapshot to keep.
	query, args := builder().Select("sequence").
		From(entsql.Table(tableSnapshots)).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()
	var threshold int64
	err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(tableSnapshots).
		Where(entsql.And(
			entsql.EQ("username", username),
			entsql.LTE("sequence", threshold),
		)).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
