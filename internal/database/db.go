package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/akyairhashvil/sprintctl/internal/config"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Database wraps the SQLite connection. A Database returned to a WithTx
// callback is bound to that transaction.
type Database struct {
	DB      *sql.DB
	q       querier
	tx      *sql.Tx
	dbFile  string
	timeout time.Duration
}

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(ctx context.Context, path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	d := &Database{DB: db, q: db, dbFile: path, timeout: config.DBQueryTimeout}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying pool. It is a no-op on a transaction-bound Database.
func (d *Database) Close() error {
	if d == nil || d.DB == nil || d.tx != nil {
		return nil
	}
	return d.DB.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbFile
}

func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.tx != nil || d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// WithTx runs fn inside a transaction. fn must use the Database it is handed.
// Calling WithTx on a transaction-bound Database joins the outer transaction.
func (d *Database) WithTx(ctx context.Context, fn func(tx *Database) error) error {
	if d.tx != nil {
		return fn(d)
	}
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	bound := &Database{DB: d.DB, q: tx, tx: tx, dbFile: d.dbFile, timeout: d.timeout}
	if err := fn(bound); err != nil {
		return rollback(tx, err)
	}
	return tx.Commit()
}

func rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
	}
	return err
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		use_sprint_management INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS stages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 10,
		fold INTEGER NOT NULL DEFAULT 0,
		is_closed INTEGER NOT NULL DEFAULT 0,
		use_in_sprint_board INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS sprints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		goal TEXT,
		state TEXT NOT NULL DEFAULT 'waiting' CHECK(state IN ('waiting', 'active', 'closed')),
		snapshot_task_count INTEGER NOT NULL DEFAULT 0,
		snapshot_done_count INTEGER NOT NULL DEFAULT 0,
		snapshot_completion_percentage REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CHECK(start_date <= end_date),
		FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS epics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 10,
		description TEXT,
		color INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		stage_id INTEGER,
		sprint_id INTEGER,
		epic_id INTEGER,
		previous_sprint_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY(stage_id) REFERENCES stages(id) ON DELETE SET NULL,
		FOREIGN KEY(sprint_id) REFERENCES sprints(id) ON DELETE SET NULL,
		FOREIGN KEY(epic_id) REFERENCES epics(id) ON DELETE SET NULL,
		FOREIGN KEY(previous_sprint_id) REFERENCES sprints(id) ON DELETE SET NULL
	);`,
	`CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resource TEXT NOT NULL,
		resource_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_project_state ON sprints(project_id, state);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_sprint ON tasks(sprint_id);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_activity_resource ON activity(resource, resource_id);`,
}

// columnMigrations add columns introduced after the first schema.
var columnMigrations = []struct {
	table, column, ddl string
}{
	{"activity", "batch_id", "ALTER TABLE activity ADD COLUMN batch_id TEXT"},
}

func (d *Database) migrate(ctx context.Context) error {
	for _, query := range schema {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, m := range columnMigrations {
		exists, err := d.columnExists(ctx, m.table, m.column)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", m.table, err)
		}
		if exists {
			continue
		}
		if _, err := d.DB.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("migrate %s.%s: %w", m.table, m.column, err)
		}
	}
	return nil
}

func (d *Database) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := d.DB.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
