package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/akshar-paaul/akshar-backend/internal/notifications/domain"
)

// ParentRepository projects broadcast recipients out of the profiles table.
type ParentRepository struct {
	db *sql.DB
}

func NewParentRepository(db *sql.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// ListParents returns every parent profile, consented or not. The consent
// filter is applied by the broadcast service so the admin roster can show
// both groups.
func (r *ParentRepository) ListParents(ctx context.Context) ([]domain.Parent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, COALESCE(phone, ''), has_consent, children
		FROM profiles
		WHERE role = 'parent'
		ORDER BY full_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}
	defer rows.Close()

	var parents []domain.Parent
	for rows.Next() {
		var p domain.Parent
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.HasConsent, pq.Array(&p.Children)); err != nil {
			return nil, fmt.Errorf("scan parent: %w", err)
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}
