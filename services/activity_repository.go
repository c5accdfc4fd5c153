package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolioAPI/internal/progress"
)

// PgActivityRepository stores activity records in Postgres.
type PgActivityRepository struct {
	db *pgxpool.Pool
}

func NewPgActivityRepository(db *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{db: db}
}

func (r *PgActivityRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activity_records (
			id UUID PRIMARY KEY,
			date DATE NOT NULL,
			category TEXT NOT NULL,
			status BOOLEAN NOT NULL DEFAULT false,
			note TEXT NOT NULL DEFAULT '',
			links TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_records_date ON activity_records(date)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate activity_records: %w", err)
		}
	}
	return nil
}

func (r *PgActivityRepository) ListActivities(ctx context.Context) ([]progress.ActivityRecord, error) {
	query := `
	SELECT date, category, status, note, COALESCE(links, '{}')
	FROM activity_records
	ORDER BY date, created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer rows.Close()

	var records []progress.ActivityRecord
	for rows.Next() {
		var (
			date time.Time
			rec  progress.ActivityRecord
		)
		if err := rows.Scan(&date, &rec.Category, &rec.Status, &rec.Note, &rec.Links); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.Date = progress.FormatDate(date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}

	return records, nil
}

func (r *PgActivityRepository) InsertActivity(ctx context.Context, rec progress.ActivityRecord) (string, error) {
	date, ok := progress.ParseDate(rec.Date)
	if !ok {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRecord)
	}

	links := rec.Links
	if links == nil {
		links = []string{}
	}

	id := uuid.New()
	query := `
	INSERT INTO activity_records (id, date, category, status, note, links)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, query, id, date, rec.Category, rec.Status, rec.Note, links); err != nil {
		return "", fmt.Errorf("failed to insert activity: %w", err)
	}

	return id.String(), nil
}
