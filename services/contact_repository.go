package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"portfolioAPI/internal/types/contact"
)

// PgContactRepository stores contact form submissions in Postgres.
type PgContactRepository struct {
	db *pgxpool.Pool
}

func NewPgContactRepository(db *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{db: db}
}

func (r *PgContactRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contact_messages (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages(created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate contact_messages: %w", err)
		}
	}
	return nil
}

func (r *PgContactRepository) InsertMessage(ctx context.Context, msg *contact.Message) error {
	query := `
	INSERT INTO contact_messages (id, name, email, message, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}

func (r *PgContactRepository) ListMessages(ctx context.Context, limit int) ([]*contact.Message, error) {
	query := `
	SELECT id, name, email, message, created_at
	FROM contact_messages
	ORDER BY created_at DESC
	LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*contact.Message
	for rows.Next() {
		msg := &contact.Message{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contact messages: %w", err)
	}

	return messages, nil
}
