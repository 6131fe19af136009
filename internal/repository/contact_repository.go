package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicfix/report-service/internal/domain"
)

// ContactMessageRepository stores contact-form submissions.
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	List(ctx context.Context) ([]domain.ContactMessage, error)
}

type contactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewContactMessageRepository returns a Postgres-backed implementation.
func NewContactMessageRepository(pool *pgxpool.Pool) ContactMessageRepository {
	return &contactMessageRepository{pool: pool}
}

func (r *contactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	const query = `
        INSERT INTO contact_messages (name, email, subject, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *contactMessageRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, email, subject, message, created_at
        FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
