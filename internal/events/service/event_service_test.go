package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshar-paaul/akshar-backend/internal/events/domain"
	"github.com/akshar-paaul/akshar-backend/internal/events/repository"
)

func setupEventService(t *testing.T) (*EventService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEventService(repository.NewEventRepository(db)), mock
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid event", func(t *testing.T) {
		svc, mock := setupEventService(t)

		mock.ExpectQuery(`INSERT INTO events`).
			WithArgs(sqlmock.AnyArg(), "Teaching Drive", "Weekend classes",
				sqlmock.AnyArg(), "10:00 AM", "Dharampur Center", 5, "admin-1").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		event, err := svc.CreateEvent(ctx, CreateEventInput{
			Title:            "Teaching Drive",
			Description:      "Weekend classes",
			Date:             "2026-09-15",
			Time:             "10:00 AM",
			Location:         "Dharampur Center",
			VolunteersNeeded: 5,
			CreatedBy:        "admin-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, 2026, event.Date.Year())
	})

	t.Run("volunteers needed below one is coerced to one", func(t *testing.T) {
		svc, mock := setupEventService(t)

		for _, needed := range []int{0, -3} {
			mock.ExpectQuery(`INSERT INTO events`).
				WithArgs(sqlmock.AnyArg(), "Drive", "", sqlmock.AnyArg(),
					"9:00 AM", "", 1, "").
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

			event, err := svc.CreateEvent(ctx, CreateEventInput{
				Title:            "Drive",
				Date:             "2026-09-15",
				Time:             "9:00 AM",
				VolunteersNeeded: needed,
			})
			require.NoError(t, err)
			assert.Equal(t, 1, event.VolunteersNeeded)
		}
	})

	t.Run("missing title, time or malformed date fail validation", func(t *testing.T) {
		svc, _ := setupEventService(t)

		_, err := svc.CreateEvent(ctx, CreateEventInput{Date: "2026-09-15", Time: "9:00 AM"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateEvent(ctx, CreateEventInput{Title: "Drive", Date: "2026-09-15"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateEvent(ctx, CreateEventInput{Title: "Drive", Date: "15-09-2026", Time: "9:00 AM"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("first signup is confirmed", func(t *testing.T) {
		svc, mock := setupEventService(t)

		mock.ExpectQuery(`INSERT INTO event_signups`).
			WithArgs(sqlmock.AnyArg(), "event-1", "vol-1", "confirmed").
			WillReturnRows(sqlmock.NewRows([]string{"signed_up_at"}).AddRow(time.Now()))

		signup, err := svc.SignUp(ctx, "event-1", "vol-1")
		require.NoError(t, err)
		assert.Equal(t, "confirmed", signup.Status)
	})

	t.Run("second signup for the same pair is a duplicate", func(t *testing.T) {
		svc, mock := setupEventService(t)

		mock.ExpectQuery(`INSERT INTO event_signups`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "event_signups_event_id_volunteer_id_key"})

		_, err := svc.SignUp(ctx, "event-1", "vol-1")
		assert.ErrorIs(t, err, domain.ErrDuplicateSignup)
	})

	t.Run("foreign key failures name the missing side", func(t *testing.T) {
		svc, mock := setupEventService(t)

		mock.ExpectQuery(`INSERT INTO event_signups`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "event_signups_event_id_fkey"})
		_, err := svc.SignUp(ctx, "ghost-event", "vol-1")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)

		mock.ExpectQuery(`INSERT INTO event_signups`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "event_signups_volunteer_id_fkey"})
		_, err = svc.SignUp(ctx, "event-1", "ghost-vol")
		assert.ErrorIs(t, err, domain.ErrVolunteerUnknown)
	})

	t.Run("blank ids fail validation", func(t *testing.T) {
		svc, _ := setupEventService(t)

		_, err := svc.SignUp(ctx, "", "vol-1")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.SignUp(ctx, "event-1", " ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestListEvents(t *testing.T) {
	svc, mock := setupEventService(t)

	cols := []string{"id", "title", "description", "date", "time", "location",
		"volunteers_needed", "created_by", "created_at"}
	mock.ExpectQuery(`SELECT (.+) FROM events`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("e-1", "Early", "", time.Now(), "9:00 AM", "", 1, "", time.Now()).
			AddRow("e-2", "Late", "", time.Now().AddDate(0, 0, 7), "9:00 AM", "", 2, "", time.Now()))

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Early", events[0].Title)
}
