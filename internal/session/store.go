package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"staff-portal/internal/domain/user"
)

const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// Store persists the session across portal restarts.
type Store interface {
	// Load returns an empty token and nil user when nothing is stored.
	Load(ctx context.Context) (string, *user.AuthResponse, error)
	Save(ctx context.Context, token string, u *user.AuthResponse) error
	Clear(ctx context.Context) error
}

type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore keeps the session under prefix+"auth_token" and
// prefix+"auth_user", expiring after ttl (0 keeps them).
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (string, *user.AuthResponse, error) {
	vals, err := s.rdb.MGet(ctx, s.prefix+tokenKey, s.prefix+userKey).Result()
	if err != nil {
		return "", nil, fmt.Errorf("loading session: %w", err)
	}
	token, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	if raw == "" {
		return token, nil, nil
	}
	var u user.AuthResponse
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return token, nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return token, &u, nil
}

func (s *RedisStore) Save(ctx context.Context, token string, u *user.AuthResponse) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.prefix+tokenKey, token, s.ttl)
		p.Set(ctx, s.prefix+userKey, raw, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.prefix+tokenKey, s.prefix+userKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *user.AuthResponse
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (string, *user.AuthResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.user, nil
}

func (s *MemoryStore) Save(_ context.Context, token string, u *user.AuthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = token, u
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
	return nil
}
