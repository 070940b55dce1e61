// Package redisstore holds the durable current-user slots. The demo
// persists the whole session user record on every mutation and restores
// it by id; there is no expiry and no credential material to protect.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	userDomain "cashcraft-backend/internal/domain/user"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type SessionStore struct{ rdb *redis.Client }

func NewSessionStore(rdb *redis.Client) *SessionStore { return &SessionStore{rdb: rdb} }

func (s *SessionStore) Put(ctx context.Context, u *userDomain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+u.ID, b, 0).Err()
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*userDomain.User, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, userDomain.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var u userDomain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, keyPrefix+userID).Err()
}
