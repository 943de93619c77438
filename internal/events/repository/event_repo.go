package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/akshar-paaul/akshar-backend/internal/events/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event row.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, date, time, location, volunteers_needed, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING created_at
	`

	return r.db.QueryRowContext(
		ctx,
		query,
		e.ID,
		e.Title,
		e.Description,
		e.Date,
		e.Time,
		e.Location,
		e.VolunteersNeeded,
		e.CreatedBy,
	).Scan(&e.CreatedAt)
}

// List returns all events in ascending date order.
func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := `
		SELECT id, title, description, date, time, location, volunteers_needed,
		       COALESCE(created_by, ''), created_at
		FROM events
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Date,
			&e.Time,
			&e.Location,
			&e.VolunteersNeeded,
			&e.CreatedBy,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID retrieves a single event.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, date, time, location, volunteers_needed,
		       COALESCE(created_by, ''), created_at
		FROM events
		WHERE id = $1
	`

	var e domain.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.VolunteersNeeded,
		&e.CreatedBy,
		&e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateSignup inserts a signup. The (event_id, volunteer_id) unique
// constraint maps to ErrDuplicateSignup; foreign key failures map to the
// missing side.
func (r *EventRepository) CreateSignup(ctx context.Context, s *domain.EventSignup) error {
	query := `
		INSERT INTO event_signups (id, event_id, volunteer_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING signed_up_at
	`

	err := r.db.QueryRowContext(ctx, query, s.ID, s.EventID, s.VolunteerID, s.Status).Scan(&s.SignedUpAt)
	if pqErr, ok := err.(*pq.Error); ok {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return domain.ErrDuplicateSignup
		case pqForeignKeyViolation:
			if pqErr.Constraint == "event_signups_event_id_fkey" {
				return domain.ErrEventNotFound
			}
			return domain.ErrVolunteerUnknown
		}
	}
	return err
}

// ListSignupsByVolunteer returns the volunteer's signups.
func (r *EventRepository) ListSignupsByVolunteer(ctx context.Context, volunteerID string) ([]domain.EventSignup, error) {
	query := `
		SELECT id, event_id, volunteer_id, status, signed_up_at
		FROM event_signups
		WHERE volunteer_id = $1
		ORDER BY signed_up_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EventSignup
	for rows.Next() {
		var s domain.EventSignup
		if err := rows.Scan(&s.ID, &s.EventID, &s.VolunteerID, &s.Status, &s.SignedUpAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
