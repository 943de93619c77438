package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
)

const pqUniqueViolation = "23505"

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, email, password_hash, full_name, role, phone, has_consent, children, created_at, updated_at`

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var hash []byte
	err := row.Scan(
		&p.ID,
		&p.Email,
		&hash,
		&p.FullName,
		&p.Role,
		&p.Phone,
		&p.HasConsent,
		pq.Array(&p.Children),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.PasswordHash = hash
	return &p, nil
}

// GetByID retrieves a profile by its identity id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a profile by case-insensitive email match.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	return scanProfile(r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
}

// Create inserts a new profile row. A duplicate email maps to ErrEmailTaken,
// any other failure to ErrProfileWrite so the caller can tell a conflict from
// a broken identity/profile write.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, role, phone, has_consent, children)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	children := p.Children
	if children == nil {
		children = []string{}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		p.ID,
		strings.ToLower(strings.TrimSpace(p.Email)),
		p.PasswordHash,
		p.FullName,
		p.Role,
		p.Phone,
		p.HasConsent,
		pq.Array(children),
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
	}

	return nil
}

// UpdateRole writes a new role token for the given profile.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id, role string) error {
	query := `UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProfileWrite, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ListByRole returns all profiles carrying the given wire-form role token.
func (r *ProfileRepository) ListByRole(ctx context.Context, role string) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		var hash []byte
		if err := rows.Scan(
			&p.ID,
			&p.Email,
			&hash,
			&p.FullName,
			&p.Role,
			&p.Phone,
			&p.HasConsent,
			pq.Array(&p.Children),
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.PasswordHash = hash
		out = append(out, p)
	}
	return out, rows.Err()
}

// TouchLogin records the last successful login, advisory only.
func (r *ProfileRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}
