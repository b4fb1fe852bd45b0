package newsletter

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_newsletter.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Hold two connections at once so the pool cannot hand back the same one.
	first, err := s.db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer first.Close()
	second, err := s.db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer second.Close()

	for i, conn := range []*sql.Conn{first, second} {
		var timeout int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d: busy_timeout: %v", i, err)
		}
		if timeout != 5000 {
			t.Errorf("conn %d: busy_timeout = %d, want 5000", i, timeout)
		}
		var mode string
		if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("conn %d: journal_mode: %v", i, err)
		}
		if mode != "wal" {
			t.Errorf("conn %d: journal_mode = %q, want wal", i, mode)
		}
	}
}

func TestInsertAndExists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("empty store should not contain reader@example.com")
	}

	sub, err := s.InsertIfAbsent(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}
	if sub == nil {
		t.Fatal("expected a subscriber record")
	}
	if sub.ID == 0 {
		t.Error("ID should be set")
	}
	if sub.Email != "reader@example.com" {
		t.Errorf("Email = %q, want %q", sub.Email, "reader@example.com")
	}
	if sub.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	exists, err = s.Exists(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected reader@example.com to exist after insert")
	}
}

func TestInsertIfAbsentDuplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertIfAbsent(ctx, "dup@example.com"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	sub, err := s.InsertIfAbsent(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}
	if sub != nil {
		t.Errorf("expected nil record for duplicate, got %+v", sub)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestOpenStoreSQLitePrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixed.db")
	s, err := OpenStore(context.Background(), "sqlite://"+path)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("OpenStore returned %T, want *SQLiteStore", s)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if _, err := s.InsertIfAbsent(ctx, "keep@example.com"); err != nil {
		t.Fatalf("InsertIfAbsent failed: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	exists, err := s.Exists(ctx, "keep@example.com")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Fatal("subscriber should survive reopen")
	}
}
