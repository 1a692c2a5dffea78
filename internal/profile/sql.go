package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Postgres driver.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver.
	_ "modernc.org/sqlite"
)

const usersTable = "users"

// SQLStore keeps users in a relational table, one row per user, with the
// profile as a JSON document. It works on SQLite and Postgres.
type SQLStore struct {
	drv     *entsql.Driver
	dialect string
}

// OpenSQL opens a SQLStore. driverName is "sqlite" or "postgres".
func OpenSQL(ctx context.Context, driverName, dsn string) (*SQLStore, error) {
	var d string
	switch driverName {
	case "sqlite":
		d = dialect.SQLite
	case "postgres":
		d = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported profile store driver %q", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}
	if d == dialect.SQLite {
		db.SetMaxOpenConns(1)
	}
	s := &SQLStore{drv: entsql.OpenDB(d, db), dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.drv.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		profile TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (s *SQLStore) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

func (s *SQLStore) Get(ctx context.Context, username string) (*Profile, error) {
	rec, err := s.Record(ctx, username)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Profile, nil
}

func (s *SQLStore) Record(ctx context.Context, username string) (*Record, error) {
	query, args := s.builder().Select("password_hash", "profile").
		From(entsql.Table(usersTable)).
		Where(entsql.EQ("username", username)).
		Query()

	var rec Record
	var raw string
	err := s.drv.DB().QueryRowContext(ctx, query, args...).Scan(&rec.PasswordHash, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", username, err)
	}
	if err := json.Unmarshal([]byte(raw), &rec.Profile); err != nil {
		return nil, fmt.Errorf("decode profile of %s: %w", username, err)
	}
	return &rec, nil
}

func (s *SQLStore) Put(ctx context.Context, username string, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	query, args := s.builder().Update(usersTable).
		Set("profile", string(data)).
		Where(entsql.EQ("username", username)).
		Query()
	res, err := s.drv.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile of %s: %w", username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return nil
}

func (s *SQLStore) Create(ctx context.Context, username string, rec Record) error {
	data, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	query, args := s.builder().Insert(usersTable).
		Columns("username", "password_hash", "profile").
		Values(username, rec.PasswordHash, string(data)).
		OnConflict(entsql.ConflictColumns("username"), entsql.DoNothing()).
		Query()
	res, err := s.drv.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create user %s: %w", username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrExists, username)
	}
	return nil
}

func (s *SQLStore) Usernames(ctx context.Context) ([]string, error) {
	query, args := s.builder().Select("username").
		From(entsql.Table(usersTable)).
		OrderBy("username").
		Query()
	rows, err := s.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.drv.Close()
}
