// Package session resolves opaque session tokens to users.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
	"github.com/lostaf-io/lostaf/internal/domain/user"
)

const (
	sessionPrefix = domain.KeyPrefix + "session:"
	userPrefix    = domain.KeyPrefix + "user:"
)

// store is the consumer interface for sessions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo keeps sessions as expiring KV entries and users as plain JSON values.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a session repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Lookup returns the user owning token. Unknown or expired tokens yield ErrUnauthorized.
func (r *Repo) Lookup(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, domain.ErrUnauthorized
	}

	raw, err := r.store.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return user.User{}, domain.ErrUnauthorized
		}
		return user.User{}, fmt.Errorf("get session: %w: %w", domain.ErrStoreUnavailable, err)
	}

	var sess user.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return user.User{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.Expired(r.now()) {
		_ = r.store.Del(ctx, sessionKey(token))
		return user.User{}, domain.ErrUnauthorized
	}

	u, err := r.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return user.User{}, domain.ErrUnauthorized
		}
		return user.User{}, err
	}
	return u, nil
}

// Issue stores u and creates a new session for it valid for ttl.
func (r *Repo) Issue(ctx context.Context, u user.User, ttl time.Duration) (user.Session, error) {
	if u.ID == "" || u.Email == "" {
		return user.Session{}, fmt.Errorf("user id and email are required: %w", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = user.DefaultSessionTTL
	}
	if err := r.SaveUser(ctx, u); err != nil {
		return user.Session{}, err
	}

	now := r.now().UTC()
	sess := user.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return user.Session{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, sessionKey(sess.Token), data, ttl); err != nil {
		return user.Session{}, fmt.Errorf("set session: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return sess, nil
}

// Revoke deletes a session. Unknown tokens are not an error.
func (r *Repo) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.store.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// SaveUser creates or replaces a user.
func (r *Repo) SaveUser(ctx context.Context, u user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.Set(ctx, userKey(u.ID), data); err != nil {
		return fmt.Errorf("set user %s: %w: %w", u.ID, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// GetUser returns a user by ID.
func (r *Repo) GetUser(ctx context.Context, id string) (user.User, error) {
	raw, err := r.store.Get(ctx, userKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return user.User{}, domain.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return user.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return u, nil
}

func sessionKey(token string) string { return sessionPrefix + token }
func userKey(id string) string       { return userPrefix + id }
