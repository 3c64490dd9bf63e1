package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/botwright/teleflow/flow"
)

// RedisStore persists user records as JSON values, one key per user. With a
// TTL configured, idle conversations expire and restart from the start state.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	start  string
}

// NewRedisStore opens a client for the given address.
func NewRedisStore(addr, password string, db int, opts ...Option) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...Option) *RedisStore {
	cfg := newSettings(opts)
	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
		ttl:    cfg.ttl,
		start:  cfg.start,
	}
}

func (s *RedisStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

// Load fetches the record for the profile's user, writing a fresh one seeded
// with the start state on first contact.
func (s *RedisStore) Load(ctx context.Context, p flow.Profile) (*flow.User, error) {
	val, err := s.client.Get(ctx, s.key(p.ID)).Result()
	if err == nil {
		var u flow.User
		if err := json.Unmarshal([]byte(val), &u); err != nil {
			return nil, fmt.Errorf("decode user %d: %w", p.ID, err)
		}
		return &u, nil
	}
	if !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("get user %d: %w", p.ID, err)
	}

	fresh := newRecord(p, s.start)
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	logCreate(ctx, "redis", fresh)
	return fresh, nil
}

// Save writes the record, refreshing its expiry when a TTL is configured.
func (s *RedisStore) Save(ctx context.Context, u *flow.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %d: %w", u.ID, err)
	}
	if err := s.client.Set(ctx, s.key(u.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes the record for a user.
func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
