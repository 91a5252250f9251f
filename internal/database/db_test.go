package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	again, err := Open(ctx, db.Path())
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	defer again.Close()

	exists, err := again.columnExists(ctx, "activity", "batch_id")
	if err != nil {
		t.Fatalf("columnExists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected activity.batch_id after migration")
	}
}

func TestOpen_CreatesDataDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "sprints.db")
	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	if db.Path() != path {
		t.Fatalf("expected path %q, got %q", path, db.Path())
	}
}

func TestOpen_MigratesLegacyActivityTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")
	raw, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := raw.ExecContext(ctx, `CREATE TABLE activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resource TEXT NOT NULL,
		resource_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatalf("create legacy table failed: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("close legacy db failed: %v", err)
	}

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	if err := db.PostActivity(ctx, "sprint", 1, "batch", "note"); err != nil {
		t.Fatalf("PostActivity after migration failed: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	_, err := db.CreateTask(ctx, TaskSeed{ProjectID: 999, Name: "orphan"})
	if err == nil {
		t.Fatalf("expected foreign key violation for unknown project")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Resource != EntityTask {
		t.Fatalf("expected task OpError, got %v", err)
	}
}

func TestSchemaRejectsInvertedDates(t *testing.T) {
	ctx := context.Background()
	b := NewTestDataBuilder(t).WithProject("Alpha", true)
	db := b.Build()
	_, err := db.DB.ExecContext(ctx,
		"INSERT INTO sprints (project_id, name, start_date, end_date) VALUES (?, ?, ?, ?)",
		b.ProjectID(), "bad", "2026-02-01 00:00:00+00:00", "2026-01-01 00:00:00+00:00")
	if err == nil {
		t.Fatalf("expected CHECK constraint to reject start after end")
	}
}
