package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	authrepo "github.com/akshar-paaul/akshar-backend/internal/auth/repository"
	chatdomain "github.com/akshar-paaul/akshar-backend/internal/chat/domain"
	chatrepo "github.com/akshar-paaul/akshar-backend/internal/chat/repository"
	"github.com/akshar-paaul/akshar-backend/internal/db"
	eventsrepo "github.com/akshar-paaul/akshar-backend/internal/events/repository"
	eventsservice "github.com/akshar-paaul/akshar-backend/internal/events/service"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     authdomain.Role
	phone    string
	consent  bool
	children []string
}

var seedUsers = []seedUser{
	{email: "admin@akshar.org", password: "admin123", name: "Admin", role: authdomain.RoleAdmin},
	{email: "volunteer@akshar.org", password: "volunteer123", name: "Demo Volunteer", role: authdomain.RoleVolunteer},
	{email: "parent@akshar.org", password: "parent123", name: "Demo Parent", role: authdomain.RoleParent},
	{email: "sunita@akshar.org", password: "parent123", name: "Sunita Devi", role: authdomain.RoleParent,
		phone: "+919876543210", consent: true, children: []string{"Ravi", "Meena"}},
	{email: "rajesh@akshar.org", password: "parent123", name: "Rajesh Kumar", role: authdomain.RoleParent,
		phone: "+919812345678", consent: true, children: []string{"Anil"}},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load demo users, events and messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, logger, pool, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool, logger); err != nil {
				return err
			}

			profiles := authrepo.NewProfileRepository(pool)
			adminID, err := seedProfiles(ctx, profiles, logger)
			if err != nil {
				return err
			}
			if err := seedEvents(ctx, eventsservice.NewEventService(eventsrepo.NewEventRepository(pool)), adminID, logger); err != nil {
				return err
			}
			return seedMessages(ctx, chatrepo.NewMessageRepository(pool), adminID, logger)
		},
	}
}

func seedProfiles(ctx context.Context, profiles *authrepo.ProfileRepository, logger *zap.Logger) (string, error) {
	var adminID string
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}

		p := &authdomain.Profile{
			ID:           uuid.New().String(),
			Email:        u.email,
			PasswordHash: hash,
			FullName:     u.name,
			Role:         u.role.Wire(),
			Phone:        u.phone,
			HasConsent:   u.consent,
			Children:     u.children,
		}
		err = profiles.Create(ctx, p)
		if errors.Is(err, authdomain.ErrEmailTaken) {
			existing, gerr := profiles.GetByEmail(ctx, u.email)
			if gerr != nil {
				return "", gerr
			}
			logger.Info("seed user exists", zap.String("email", u.email))
			if u.role == authdomain.RoleAdmin && adminID == "" {
				adminID = existing.ID
			}
			continue
		}
		if err != nil {
			return "", err
		}

		logger.Info("seeded user", zap.String("email", u.email), zap.String("role", u.role.Wire()))
		if u.role == authdomain.RoleAdmin && adminID == "" {
			adminID = p.ID
		}
	}
	return adminID, nil
}

func seedEvents(ctx context.Context, events *eventsservice.EventService, adminID string, logger *zap.Logger) error {
	existing, err := events.ListEvents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("events already seeded", zap.Int("count", len(existing)))
		return nil
	}

	base := time.Now().AddDate(0, 0, 7)
	inputs := []eventsservice.CreateEventInput{
		{Title: "Community Teaching Drive", Description: "Weekend classes at the Dharampur center.",
			Date: base.Format("2006-01-02"), Time: "10:00 AM", Location: "Dharampur Center", VolunteersNeeded: 5},
		{Title: "Book Collection", Description: "Collecting school books for the new term.",
			Date: base.AddDate(0, 0, 7).Format("2006-01-02"), Time: "9:00 AM", Location: "Main Office", VolunteersNeeded: 3},
		{Title: "Health Checkup Camp", Description: "Annual checkup camp with volunteer doctors.",
			Date: base.AddDate(0, 0, 14).Format("2006-01-02"), Time: "8:30 AM", Location: "Village School", VolunteersNeeded: 8},
	}
	for _, in := range inputs {
		in.CreatedBy = adminID
		if _, err := events.CreateEvent(ctx, in); err != nil {
			return err
		}
		logger.Info("seeded event", zap.String("title", in.Title))
	}
	return nil
}

func seedMessages(ctx context.Context, messages *chatrepo.MessageRepository, adminID string, logger *zap.Logger) error {
	welcome := []string{
		"Welcome to the Akshar Paaul volunteer app!",
		"Use this chat to coordinate with other volunteers.",
	}
	for _, text := range welcome {
		msg := &chatdomain.Message{
			ID:         uuid.New().String(),
			Text:       text,
			UserID:     adminID,
			SenderName: "System",
			SenderRole: string(authdomain.RoleAdmin),
		}
		if err := messages.Insert(ctx, msg); err != nil {
			return err
		}
	}
	logger.Info("seeded welcome messages", zap.Int("count", len(welcome)))
	return nil
}
