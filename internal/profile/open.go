package profile

import (
	"context"
	"strings"
)

// DefaultPath is the users file used when nothing else is configured.
const DefaultPath = "users_db.json"

// Open picks a Store from dsn:
//
//	postgres://... or postgresql://...  Postgres
//	sqlite:<path> or <path>.db          SQLite
//	anything else                       JSON file at that path
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return NewJSONStore(DefaultPath), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenSQL(ctx, "postgres", dsn)
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQL(ctx, "sqlite", strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasSuffix(dsn, ".db"):
		return OpenSQL(ctx, "sqlite", dsn)
	}
	return NewJSONStore(dsn), nil
}
