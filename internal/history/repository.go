package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	// timeLayout has fixed width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// Repository defines render history operations.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Stats(ctx context.Context) (*Stats, error)
}

// SQLiteRepository stores render history in the renders table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an opened, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a record. CreatedAt defaults to now.
func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if !rec.Origin.Valid() {
		return fmt.Errorf("%w: origin %q", ErrInvalidRecord, rec.Origin)
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, rec.Status)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO renders (id, origin, status, error, bytes, duration_ms, artifact_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Origin), string(rec.Status), rec.Error,
		rec.Bytes, rec.DurationMS, rec.ArtifactURL,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting render record: %w", err)
	}
	return nil
}

const selectColumns = "SELECT id, origin, status, error, bytes, duration_ms, artifact_url, created_at FROM renders"

// Get returns the record with the given ID or ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Origin != "" {
		conditions = append(conditions, "origin = ?")
		args = append(args, string(filter.Origin))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM renders"+where, args...).Scan(&total); err != nil { //nolint:gosec // WHERE built from fixed conditions
		return nil, fmt.Errorf("counting renders: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, //nolint:gosec // WHERE built from fixed conditions
		selectColumns+where+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, filter.Offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying renders: %w", err)
	}
	defer rows.Close()

	renders := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		renders = append(renders, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating renders: %w", err)
	}

	return &ListResult{
		Renders: renders,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// Stats counts records per status.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM renders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("querying render stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning render stats: %w", err)
		}
		switch Status(status) {
		case StatusSucceeded:
			stats.Succeeded = n
		case StatusFailed:
			stats.Failed = n
		}
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating render stats: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var origin, status, createdAt string
	if err := s.Scan(&rec.ID, &origin, &status, &rec.Error, &rec.Bytes,
		&rec.DurationMS, &rec.ArtifactURL, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning render record: %w", err)
	}
	rec.Origin = Origin(origin)
	rec.Status = Status(status)

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing render timestamp %q: %w", createdAt, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
