package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	authrepo "github.com/akshar-paaul/akshar-backend/internal/auth/repository"
)

func newAddUserCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
		role     string
		phone    string
		consent  bool
	)

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a profile directly in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := authdomain.ParseRole(role)
			if err != nil {
				return fmt.Errorf("role must be one of admin, volunteer, parent")
			}
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			ctx := cmd.Context()
			_, logger, pool, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			p := &authdomain.Profile{
				ID:           uuid.New().String(),
				Email:        email,
				PasswordHash: hash,
				FullName:     name,
				Role:         parsedRole.Wire(),
				Phone:        phone,
				HasConsent:   consent,
			}
			if err := authrepo.NewProfileRepository(pool).Create(ctx, p); err != nil {
				return err
			}

			logger.Sugar().Infof("created %s user %s (%s)", parsedRole.Wire(), email, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", "volunteer", "admin, volunteer or parent")
	cmd.Flags().StringVar(&phone, "phone", "", "E.164 phone number, parents only")
	cmd.Flags().BoolVar(&consent, "consent", false, "SMS broadcast consent, parents only")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
