package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
)

const (
	sessionKeyPrefix     = "auth:session:" // session record: auth:session:{token}
	userSessionSetPrefix = "auth:user:"    // set of tokens per user: auth:user:{user_id}
)

// SessionRepository persists sessions in redis so they survive process
// restarts and can be revoked in bulk per user.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Create mints an opaque token for the user and stores the session.
func (r *SessionRepository) Create(ctx context.Context, user domain.User) (*domain.Session, error) {
	session := &domain.Session{
		Token:         uuid.New().String(),
		User:          user,
		RoleCheckedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	userSetKey := r.userSessionSetKey(user.ID)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.sessionKey(session.Token), data, r.ttl)
	pipe.SAdd(ctx, userSetKey, session.Token)
	pipe.Expire(ctx, userSetKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}

// Get loads a session by token. An unknown or expired token yields
// ErrNoSession.
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Update rewrites an existing session record, keeping its remaining TTL.
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, r.sessionKey(session.Token), data, redis.KeepTTL).Err()
}

// Delete removes a single session.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	session, err := r.Get(ctx, token)
	if err == domain.ErrNoSession {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.sessionKey(token))
	pipe.SRem(ctx, r.userSessionSetKey(session.User.ID), token)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAllForUser revokes every session of the given user, e.g. after an
// admin changes their role.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	userSetKey := r.userSessionSetKey(userID)

	tokens, err := r.client.SMembers(ctx, userSetKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, r.sessionKey(token))
	}
	pipe.Del(ctx, userSetKey)
	_, err = pipe.Exec(ctx)
	return err
}

// PruneUserSets removes tokens whose session record already expired from the
// per-user session sets. Session keys carry their own TTL; the set entries
// outlive them between logins, so a periodic sweep keeps the sets honest.
// Returns the number of stale tokens removed.
func (r *SessionRepository) PruneUserSets(ctx context.Context) (int, error) {
	removed := 0

	iter := r.client.Scan(ctx, 0, userSessionSetPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		tokens, err := r.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("list sessions of %s: %w", setKey, err)
		}

		for _, token := range tokens {
			exists, err := r.client.Exists(ctx, r.sessionKey(token)).Result()
			if err != nil {
				return removed, fmt.Errorf("check session %s: %w", token, err)
			}
			if exists == 0 {
				if err := r.client.SRem(ctx, setKey, token).Err(); err != nil {
					return removed, fmt.Errorf("prune session %s: %w", token, err)
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan user session sets: %w", err)
	}

	return removed, nil
}

func (r *SessionRepository) sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (r *SessionRepository) userSessionSetKey(userID string) string {
	return userSessionSetPrefix + userID
}
