package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
)

func setupSessionRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewSessionRepository(rdb, time.Hour), mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSessionRepo(t)

	user := domain.User{ID: "u-1", Email: "user@akshar.org", Role: domain.RoleVolunteer}

	session, err := repo.Create(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	got, err := repo.Get(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.User.ID)

	require.NoError(t, repo.Delete(ctx, session.Token))
	_, err = repo.Get(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestPruneUserSets(t *testing.T) {
	ctx := context.Background()

	t.Run("removes tokens whose session record expired", func(t *testing.T) {
		repo, mr := setupSessionRepo(t)
		user := domain.User{ID: "u-1", Email: "user@akshar.org", Role: domain.RoleVolunteer}

		live, err := repo.Create(ctx, user)
		require.NoError(t, err)
		stale, err := repo.Create(ctx, user)
		require.NoError(t, err)

		// Simulate TTL expiry of one session record; its set entry stays.
		mr.Del("auth:session:" + stale.Token)

		removed, err := repo.PruneUserSets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		members, err := repo.client.SMembers(ctx, "auth:user:u-1").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{live.Token}, members)
	})

	t.Run("live sessions are untouched", func(t *testing.T) {
		repo, _ := setupSessionRepo(t)
		user := domain.User{ID: "u-2", Email: "other@akshar.org", Role: domain.RoleParent}

		session, err := repo.Create(ctx, user)
		require.NoError(t, err)

		removed, err := repo.PruneUserSets(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)

		_, err = repo.Get(ctx, session.Token)
		assert.NoError(t, err)
	})

	t.Run("empty store is a no-op", func(t *testing.T) {
		repo, _ := setupSessionRepo(t)

		removed, err := repo.PruneUserSets(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
