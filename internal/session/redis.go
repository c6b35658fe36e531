// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/jeranaias/campus-tui/internal/model"
)

// =============================================================================
// REDIS STORE
// =============================================================================

// RedisStore keeps the session in the hash campus:session:<profile>, so
// several terminals pointed at the same Redis share one login.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store for addr. The connection is established
// lazily on first use.
func NewRedisStore(addr, password, profile string) *RedisStore {
	if addr == "" {
		addr = "localhost:6379"
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		key:    "campus:session:" + profile,
	}
}

// Key returns the hash key used by this store.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Set(ctx context.Context, token string, role model.Role) error {
	err := s.client.HSet(ctx, s.key, KeyToken, token, KeyRole, role.String()).Err()
	return errors.Wrap(err, "redis set session")
}

func (s *RedisStore) Get(ctx context.Context) (model.Session, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return model.Session{}, errors.Wrap(err, "redis get session")
	}
	return toSession(values[KeyToken], values[KeyRole]), nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, s.key).Err(), "redis clear session")
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
