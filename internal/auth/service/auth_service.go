package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	"github.com/akshar-paaul/akshar-backend/internal/auth/repository"
)

// phoneRx accepts a country code (1-3 digits) followed by exactly ten
// digits, e.g. +919999999999.
var phoneRx = regexp.MustCompile(`^\+[1-9][0-9]{0,2}[0-9]{10}$`)

// TokenVerifier abstracts the remote identity provider used by the
// token-login variant.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (uid, email string, err error)
}

type AuthService struct {
	profiles *repository.ProfileRepository
	sessions *repository.SessionRepository
	verifier TokenVerifier
	validate *validator.Validate
	roleTTL  time.Duration
	log      *zap.Logger
}

// NewAuthService wires the credential store, the session store and the
// optional identity provider. verifier may be nil when token login is
// disabled.
func NewAuthService(
	profiles *repository.ProfileRepository,
	sessions *repository.SessionRepository,
	verifier TokenVerifier,
	roleTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	v := validator.New()
	_ = v.RegisterValidation("ccphone", func(fl validator.FieldLevel) bool {
		return phoneRx.MatchString(fl.Field().String())
	})

	return &AuthService{
		profiles: profiles,
		sessions: sessions,
		verifier: verifier,
		validate: v,
		roleTTL:  roleTTL,
		log:      log,
	}
}

type SignupInput struct {
	Name            string   `validate:"required"`
	Email           string   `validate:"required,email"`
	Password        string   `validate:"required,min=6"`
	ConfirmPassword string   `validate:"required,eqfield=Password"`
	Role            string   `validate:"required"`
	Phone           string   `validate:"omitempty,ccphone"`
	HasConsent      bool
	Children        []string
}

// Signup creates the identity and its profile in one transaction-equivalent
// write and immediately establishes a session. On any failure no session is
// created.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: role must be one of Admin, Volunteer, Parent", domain.ErrValidation)
	}
	if role == domain.RoleParent && in.Phone == "" {
		return nil, fmt.Errorf("%w: parents must provide a phone number with country code", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.Name,
		Role:         role.Wire(),
		Phone:        in.Phone,
		HasConsent:   in.HasConsent,
		Children:     in.Children,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	user, err := s.toUser(profile)
	if err != nil {
		return nil, err
	}

	return s.sessions.Create(ctx, *user)
}

// Login verifies credentials against the stored profile. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.toUser(profile)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.TouchLogin(ctx, profile.ID, time.Now().UTC()); err != nil {
		s.log.Warn("record last login", zap.Error(err))
	}

	return s.sessions.Create(ctx, *user)
}

// TokenLogin verifies a remote identity-provider token and joins it to the
// stored profile by identity id. A verified identity without a profile row
// fails the whole login; it never falls back to a default role.
func (s *AuthService) TokenLogin(ctx context.Context, idToken string) (*domain.Session, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("token login is not configured")
	}

	uid, _, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	user, err := s.toUser(profile)
	if err != nil {
		return nil, err
	}

	return s.sessions.Create(ctx, *user)
}

// Resolve reconstructs the user behind a bearer token. Once the cached role
// grows older than the re-validation interval the profile row is re-read; a
// vanished profile invalidates the session instead of crashing or keeping a
// stale role.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrNoSession
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Since(session.RoleCheckedAt) < s.roleTTL {
		return &session.User, nil
	}

	profile, err := s.profiles.GetByID(ctx, session.User.ID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		if delErr := s.sessions.Delete(ctx, token); delErr != nil {
			s.log.Warn("drop orphaned session", zap.Error(delErr))
		}
		return nil, domain.ErrNoSession
	}
	if err != nil {
		// Transient store failure: serve the cached user rather than
		// logging the caller out.
		s.log.Warn("role re-validation failed", zap.String("user_id", session.User.ID), zap.Error(err))
		return &session.User, nil
	}

	user, err := s.toUser(profile)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, token); delErr != nil {
			s.log.Warn("drop session with corrupt role", zap.Error(delErr))
		}
		return nil, domain.ErrNoSession
	}

	session.User = *user
	session.RoleCheckedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		s.log.Warn("refresh session", zap.Error(err))
	}

	return &session.User, nil
}

// Logout destroys the session behind the token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// UpdateRole rewrites a profile's role and revokes the user's sessions so
// the change cannot linger in a cached session.
func (s *AuthService) UpdateRole(ctx context.Context, userID, roleToken string) error {
	role, err := domain.ParseRole(roleToken)
	if err != nil {
		return fmt.Errorf("%w: role must be one of Admin, Volunteer, Parent", domain.ErrValidation)
	}

	if err := s.profiles.UpdateRole(ctx, userID, role.Wire()); err != nil {
		return err
	}

	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Warn("revoke sessions after role change", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// toUser is the one boundary where stored role tokens become in-memory
// roles.
func (s *AuthService) toUser(p *domain.Profile) (*domain.User, error) {
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w %q", p.ID, domain.ErrUnknownRole, p.Role)
	}

	user := &domain.User{
		ID:         p.ID,
		Email:      strings.ToLower(p.Email),
		Name:       p.FullName,
		Role:       role,
		Phone:      p.Phone,
		HasConsent: p.HasConsent,
		Children:   p.Children,
		CreatedAt:  p.CreatedAt,
	}
	user.Name = user.DisplayName()
	return user, nil
}
