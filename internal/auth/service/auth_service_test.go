package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	"github.com/akshar-paaul/akshar-backend/internal/auth/repository"
)

var pqUniqueErr = pq.Error{Code: "23505", Constraint: "profiles_email_key"}

var profileCols = []string{
	"id", "email", "password_hash", "full_name", "role", "phone",
	"has_consent", "children", "created_at", "updated_at",
}

func setupAuthService(t *testing.T, roleTTL time.Duration) (*AuthService, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewAuthService(
		repository.NewProfileRepository(db),
		repository.NewSessionRepository(rdb, time.Hour),
		nil,
		roleTTL,
		zap.NewNop(),
	)
	return svc, mock, mr
}

func hashOf(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func adminRow(t *testing.T, password string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(profileCols).AddRow(
		"admin-1", "admin@akshar.org", hashOf(t, password), "Admin",
		"admin", "", false, "{}", now, now,
	)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials establish a session with the stored role", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("admin@akshar.org").
			WillReturnRows(adminRow(t, "admin123"))
		mock.ExpectExec(`UPDATE profiles SET last_login_at`).
			WithArgs("admin-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		session, err := svc.Login(ctx, " Admin@Akshar.org ", "admin123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, domain.RoleAdmin, session.User.Role)
		assert.Equal(t, "admin@akshar.org", session.User.Email)

		// The fresh token resolves without touching the database again.
		user, err := svc.Resolve(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin-1", user.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("nobody@akshar.org").
			WillReturnRows(sqlmock.NewRows(profileCols))
		_, errUnknown := svc.Login(ctx, "nobody@akshar.org", "whatever")

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("admin@akshar.org").
			WillReturnRows(adminRow(t, "admin123"))
		_, errWrongPass := svc.Login(ctx, "admin@akshar.org", "not-the-password")

		assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("empty credentials never reach the store", func(t *testing.T) {
		svc, _, _ := setupAuthService(t, time.Hour)

		_, err := svc.Login(ctx, "", "admin123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = svc.Login(ctx, "admin@akshar.org", "")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("failed login leaves no session behind", func(t *testing.T) {
		svc, mock, mr := setupAuthService(t, time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM profiles`).
			WithArgs("admin@akshar.org").
			WillReturnRows(adminRow(t, "admin123"))

		_, err := svc.Login(ctx, "admin@akshar.org", "wrong")
		require.Error(t, err)
		assert.Empty(t, mr.Keys())
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	valid := func() SignupInput {
		return SignupInput{
			Name:            "Demo Volunteer",
			Email:           "volunteer@akshar.org",
			Password:        "secret6",
			ConfirmPassword: "secret6",
			Role:            "volunteer",
		}
	}

	t.Run("creates the profile and an immediate session", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		now := time.Now().UTC()
		mock.ExpectQuery(`INSERT INTO profiles`).
			WithArgs(sqlmock.AnyArg(), "volunteer@akshar.org", sqlmock.AnyArg(),
				"Demo Volunteer", "volunteer", "", false, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		session, err := svc.Signup(ctx, valid())
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVolunteer, session.User.Role)

		user, err := svc.Resolve(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "volunteer@akshar.org", user.Email)
	})

	t.Run("password length boundary", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		in := valid()
		in.Password, in.ConfirmPassword = "five5", "five5"
		_, err := svc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)

		now := time.Now().UTC()
		mock.ExpectQuery(`INSERT INTO profiles`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		in.Password, in.ConfirmPassword = "sixsix", "sixsix"
		_, err = svc.Signup(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("mismatched confirmation is rejected", func(t *testing.T) {
		svc, _, _ := setupAuthService(t, time.Hour)

		in := valid()
		in.ConfirmPassword = "different"
		_, err := svc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		svc, _, _ := setupAuthService(t, time.Hour)

		in := valid()
		in.Role = "superadmin"
		_, err := svc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("parent phone rules", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		in := valid()
		in.Role = "parent"
		_, err := svc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "parent without phone")

		in.Phone = "9999999999"
		_, err = svc.Signup(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "phone missing country code")

		now := time.Now().UTC()
		mock.ExpectQuery(`INSERT INTO profiles`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		in.Phone = "+919999999999"
		_, err = svc.Signup(ctx, in)
		assert.NoError(t, err, "phone with country code")
	})

	t.Run("duplicate email surfaces as ErrEmailTaken", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		mock.ExpectQuery(`INSERT INTO profiles`).
			WillReturnError(&pqUniqueErr)

		_, err := svc.Signup(ctx, valid())
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token yields ErrNoSession", func(t *testing.T) {
		svc, _, _ := setupAuthService(t, time.Hour)

		_, err := svc.Resolve(ctx, "no-such-token")
		assert.ErrorIs(t, err, domain.ErrNoSession)
		_, err = svc.Resolve(ctx, "")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})

	t.Run("stale role is re-read from the profile", func(t *testing.T) {
		// roleTTL 0 forces re-validation on every resolve.
		svc, mock, _ := setupAuthService(t, 0)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\)`).
			WillReturnRows(adminRow(t, "admin123"))
		mock.ExpectExec(`UPDATE profiles SET last_login_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		session, err := svc.Login(ctx, "admin@akshar.org", "admin123")
		require.NoError(t, err)

		// The profile row now carries a demoted role.
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WithArgs("admin-1").
			WillReturnRows(sqlmock.NewRows(profileCols).AddRow(
				"admin-1", "admin@akshar.org", []byte{}, "Admin",
				"volunteer", "", false, "{}", now, now,
			))

		user, err := svc.Resolve(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVolunteer, user.Role)
	})

	t.Run("vanished profile invalidates the session", func(t *testing.T) {
		svc, mock, mr := setupAuthService(t, 0)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\)`).
			WillReturnRows(adminRow(t, "admin123"))
		mock.ExpectExec(`UPDATE profiles SET last_login_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		session, err := svc.Login(ctx, "admin@akshar.org", "admin123")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WithArgs("admin-1").
			WillReturnRows(sqlmock.NewRows(profileCols))

		_, err = svc.Resolve(ctx, session.Token)
		assert.ErrorIs(t, err, domain.ErrNoSession)
		assert.False(t, mr.Exists("auth:session:"+session.Token))
	})

	t.Run("transient store failure serves the cached user", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, 0)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\)`).
			WillReturnRows(adminRow(t, "admin123"))
		mock.ExpectExec(`UPDATE profiles SET last_login_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		session, err := svc.Login(ctx, "admin@akshar.org", "admin123")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WillReturnError(sql.ErrConnDone)

		user, err := svc.Resolve(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, mock, _ := setupAuthService(t, time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\)`).
		WillReturnRows(adminRow(t, "admin123"))
	mock.ExpectExec(`UPDATE profiles SET last_login_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	session, err := svc.Login(ctx, "admin@akshar.org", "admin123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	// Logging out twice is a no-op, not an error.
	assert.NoError(t, svc.Logout(ctx, session.Token))
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites the role and revokes existing sessions", func(t *testing.T) {
		svc, mock, mr := setupAuthService(t, time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE lower\(email\)`).
			WillReturnRows(adminRow(t, "admin123"))
		mock.ExpectExec(`UPDATE profiles SET last_login_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		session, err := svc.Login(ctx, "admin@akshar.org", "admin123")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE profiles SET role`).
			WithArgs("admin-1", "volunteer").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.UpdateRole(ctx, "admin-1", "Volunteer"))
		assert.False(t, mr.Exists("auth:session:"+session.Token))
	})

	t.Run("unknown role never reaches the store", func(t *testing.T) {
		svc, _, _ := setupAuthService(t, time.Hour)

		err := svc.UpdateRole(ctx, "admin-1", "owner")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown profile surfaces as not found", func(t *testing.T) {
		svc, mock, _ := setupAuthService(t, time.Hour)

		mock.ExpectExec(`UPDATE profiles SET role`).
			WithArgs("ghost", "parent").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.UpdateRole(ctx, "ghost", "parent")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
