package scans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const scanColumns = `id, resume_id, user_id, status, result, error_message, created_at, started_at, completed_at`

// Create inserts a new scan.
func (r *PGRepo) Create(ctx context.Context, scan Scan) error {
	const query = `
INSERT INTO scans (` + scanColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	payload, err := marshalResult(scan.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		scan.ID,
		scan.ResumeID,
		scan.UserID,
		string(scan.Status),
		payload,
		nullString(scan.ErrorMessage),
		scan.CreatedAt,
		nullTime(scan.StartedAt),
		nullTime(scan.CompletedAt),
	)
	return err
}

// GetByID fetches a scan by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Scan, error) {
	const query = `
SELECT ` + scanColumns + `
FROM scans
WHERE id = $1
LIMIT 1`
	scan, err := scanRow(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, ErrNotFound
	}
	return scan, err
}

// ListByUser lists scans ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + scanColumns + `
FROM scans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Scan{}
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

// MarkProcessing moves a scan into processing and clears any previous failure.
func (r *PGRepo) MarkProcessing(ctx context.Context, id string, startedAt time.Time) error {
	const query = `
UPDATE scans
SET status = 'processing',
    started_at = $1,
    completed_at = NULL,
    error_message = NULL
WHERE id = $2`
	return r.exec(ctx, query, startedAt, id)
}

// Complete stores the result of a finished scan.
func (r *PGRepo) Complete(ctx context.Context, id string, result Result, completedAt time.Time) error {
	const query = `
UPDATE scans
SET status = 'completed',
    result = $1::jsonb,
    error_message = NULL,
    completed_at = $2
WHERE id = $3`
	payload, err := marshalResult(&result)
	if err != nil {
		return err
	}
	return r.exec(ctx, query, payload, completedAt, id)
}

// Fail records a failed scan.
func (r *PGRepo) Fail(ctx context.Context, id string, message string, completedAt time.Time) error {
	const query = `
UPDATE scans
SET status = 'failed',
    error_message = $1,
    completed_at = $2
WHERE id = $3`
	return r.exec(ctx, query, message, completedAt, id)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (Scan, error) {
	var (
		s           Scan
		status      string
		result      sql.NullString
		errMessage  sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.ResumeID,
		&s.UserID,
		&status,
		&result,
		&errMessage,
		&s.CreatedAt,
		&startedAt,
		&completedAt,
	); err != nil {
		return Scan{}, err
	}
	s.Status = Status(status)
	s.ErrorMessage = errMessage.String
	if startedAt.Valid {
		t := startedAt.Time
		s.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	if result.Valid && result.String != "" {
		var res Result
		if err := json.Unmarshal([]byte(result.String), &res); err != nil {
			return Scan{}, fmt.Errorf("decode scan result %s: %w", s.ID, err)
		}
		res = res.Normalized()
		s.Result = &res
	}
	return s, nil
}

func marshalResult(res *Result) (any, error) {
	if res == nil {
		return nil, nil
	}
	b, err := json.Marshal(res.Normalized())
	if err != nil {
		return nil, fmt.Errorf("encode scan result: %w", err)
	}
	return string(b), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

var _ Repo = (*PGRepo)(nil)
