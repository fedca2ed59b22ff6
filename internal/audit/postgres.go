package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS analysis_audit (
	id           UUID PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	action       TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	error_code   TEXT NOT NULL DEFAULT '',
	file_name    TEXT NOT NULL DEFAULT '',
	file_size    BIGINT NOT NULL DEFAULT 0,
	format       TEXT NOT NULL DEFAULT '',
	start_code   TEXT NOT NULL DEFAULT '',
	end_code     TEXT NOT NULL DEFAULT '',
	query_code   TEXT NOT NULL DEFAULT '',
	total_rows   INTEGER NOT NULL DEFAULT 0,
	result_count INTEGER NOT NULL DEFAULT 0,
	category     TEXT NOT NULL DEFAULT '',
	duration_ms  BIGINT NOT NULL DEFAULT 0,
	ip_address   TEXT NOT NULL DEFAULT '',
	user_agent   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_analysis_audit_created_at ON analysis_audit (created_at);
`

const pgColumns = `id, created_at, action, outcome, error_code, file_name, file_size, format,
	start_code, end_code, query_code, total_rows, result_count, category, duration_ms,
	ip_address, user_agent`

// PostgresStore keeps the audit trail in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, verifies the connection and creates the
// audit table if it does not exist.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres audit store: database URL is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewPostgresStore(ctx, pool)
}

// NewPostgresStore wraps an existing pool and ensures the schema.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Record inserts an entry. A missing ID or timestamp is filled in.
func (s *PostgresStore) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `INSERT INTO analysis_audit (`+pgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		toPgUUID(e.ID), e.CreatedAt, string(e.Action), string(e.Outcome), e.ErrorCode,
		e.FileName, e.FileSize, e.Format, e.StartCode, e.EndCode, e.QueryCode,
		int32(e.TotalRows), int32(e.ResultCount), e.Category, e.DurationMs,
		normalizeIP(e.IPAddress), e.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgColumns+` FROM analysis_audit ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			id          pgtype.UUID
			action      string
			outcome     string
			totalRows   int32
			resultCount int32
		)
		if err := rows.Scan(&id, &e.CreatedAt, &action, &outcome, &e.ErrorCode,
			&e.FileName, &e.FileSize, &e.Format, &e.StartCode, &e.EndCode, &e.QueryCode,
			&totalRows, &resultCount, &e.Category, &e.DurationMs,
			&e.IPAddress, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.ID = pgUUIDToString(id)
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		e.TotalRows = int(totalRows)
		e.ResultCount = int(resultCount)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes entries created before olderThan.
func (s *PostgresStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analysis_audit WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// toPgUUID converts a UUID string to pgtype.UUID.
// Returns an invalid (NULL) UUID if parsing fails.
func toPgUUID(s string) pgtype.UUID {
	u, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: u, Valid: true}
}

// pgUUIDToString converts a pgtype.UUID to its string representation.
func pgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
