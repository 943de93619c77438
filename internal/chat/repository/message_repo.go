package repository

import (
	"context"
	"database/sql"

	"github.com/akshar-paaul/akshar-backend/internal/chat/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert stores a message. The id doubles as an idempotency key: a retry of
// the same client-generated id is a no-op and returns the stored row.
func (r *MessageRepository) Insert(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (id, text, user_id, sender_name, sender_role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, m.ID, m.Text, m.UserID, m.SenderName, m.SenderRole)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		existing, err := r.GetByID(ctx, m.ID)
		if err != nil {
			return err
		}
		*m = *existing
		return nil
	}

	return r.db.QueryRowContext(ctx, `SELECT created_at FROM messages WHERE id = $1`, m.ID).Scan(&m.CreatedAt)
}

// GetByID fetches a single message.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `
		SELECT id, text, COALESCE(user_id, ''), sender_name, sender_role, created_at
		FROM messages
		WHERE id = $1
	`

	var m domain.Message
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Text, &m.UserID, &m.SenderName, &m.SenderRole, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the newest messages first.
func (r *MessageRepository) List(ctx context.Context, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, text, COALESCE(user_id, ''), sender_name, sender_role, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.UserID, &m.SenderName, &m.SenderRole, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
