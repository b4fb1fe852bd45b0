package newsletter

import (
	"context"
	"strings"
	"time"
)

// Subscriber is one row of the subscribers table.
type Subscriber struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// Store persists newsletter subscribers.
type Store interface {
	// Exists reports whether email is already subscribed.
	Exists(ctx context.Context, email string) (bool, error)
	// InsertIfAbsent adds email and returns the new record, or nil if the
	// address was already present.
	InsertIfAbsent(ctx context.Context, email string) (*Subscriber, error)
}

// ClosableStore is a Store that owns a connection.
type ClosableStore interface {
	Store
	Close() error
}

// OpenStore opens the subscriber store described by dsn. postgres:// and
// postgresql:// URLs use Postgres; anything else is a SQLite path, with an
// optional sqlite:// prefix.
func OpenStore(ctx context.Context, dsn string) (ClosableStore, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	if err != nil {
		return nil, err
	}
	return s, nil
}
