// Package crawl provides the sqlite implementation of the crawl job
// state store.
package crawl

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/stockapp/crawlservice/internal/crawl"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Find(ctx context.Context, key string) (*domain.State, error) {
	const query = `SELECT job_key, status, last_successful_timestamp, error_log, updated_at
		FROM crawl_job_state WHERE job_key = ?`

	s, err := scanState(r.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find state: %w", err)
	}
	return s, nil
}

func (r *Repository) Upsert(ctx context.Context, s *domain.State) error {
	const query = `INSERT INTO crawl_job_state (job_key, status, last_successful_timestamp, error_log, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_key) DO UPDATE SET
			status = excluded.status,
			last_successful_timestamp = excluded.last_successful_timestamp,
			error_log = excluded.error_log,
			updated_at = excluded.updated_at`

	var lastSuccess, errorLog sql.NullString
	if !s.LastSuccess.IsZero() {
		lastSuccess = sql.NullString{String: s.LastSuccess.UTC().Format(time.RFC3339), Valid: true}
	}
	if s.ErrorLog != "" {
		errorLog = sql.NullString{String: s.ErrorLog, Valid: true}
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		s.Key, string(s.Status), lastSuccess, errorLog,
		s.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.State, error) {
	const query = `SELECT job_key, status, last_successful_timestamp, error_log, updated_at
		FROM crawl_job_state ORDER BY job_key ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []domain.State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		states = append(states, *s)
	}
	return states, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanState(row scanner) (*domain.State, error) {
	s := &domain.State{}
	var status, updatedStr string
	var lastSuccess, errorLog sql.NullString

	if err := row.Scan(&s.Key, &status, &lastSuccess, &errorLog, &updatedStr); err != nil {
		return nil, err
	}

	s.Status = domain.Status(status)
	if lastSuccess.Valid {
		s.LastSuccess, _ = time.Parse(time.RFC3339, lastSuccess.String)
	}
	if errorLog.Valid {
		s.ErrorLog = errorLog.String
	}
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return s, nil
}
