package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the audit trail in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite audit store: path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_audit (
			id TEXT PRIMARY KEY,
			created_at_ms INTEGER NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			error_code TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL DEFAULT '',
			file_size INTEGER NOT NULL DEFAULT 0,
			format TEXT NOT NULL DEFAULT '',
			start_code TEXT NOT NULL DEFAULT '',
			end_code TEXT NOT NULL DEFAULT '',
			query_code TEXT NOT NULL DEFAULT '',
			total_rows INTEGER NOT NULL DEFAULT 0,
			result_count INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_audit_created_at ON analysis_audit(created_at_ms);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate audit schema: %w", err)
		}
	}
	return nil
}

// Record inserts an entry. A missing ID or timestamp is filled in.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO analysis_audit (
			id, created_at_ms, action, outcome, error_code, file_name, file_size, format,
			start_code, end_code, query_code, total_rows, result_count, category, duration_ms,
			ip_address, user_agent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UnixMilli(), string(e.Action), string(e.Outcome), e.ErrorCode,
		e.FileName, e.FileSize, e.Format, e.StartCode, e.EndCode, e.QueryCode,
		e.TotalRows, e.ResultCount, e.Category, e.DurationMs,
		normalizeIP(e.IPAddress), e.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
			id, created_at_ms, action, outcome, error_code, file_name, file_size, format,
			start_code, end_code, query_code, total_rows, result_count, category, duration_ms,
			ip_address, user_agent
		FROM analysis_audit ORDER BY created_at_ms DESC, rowid DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			ms      int64
			action  string
			outcome string
		)
		if err := rows.Scan(&e.ID, &ms, &action, &outcome, &e.ErrorCode,
			&e.FileName, &e.FileSize, &e.Format, &e.StartCode, &e.EndCode, &e.QueryCode,
			&e.TotalRows, &e.ResultCount, &e.Category, &e.DurationMs,
			&e.IPAddress, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(ms)
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes entries created before olderThan.
func (s *SQLiteStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analysis_audit WHERE created_at_ms < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
