package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and pings within a few seconds.
func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Denylist remembers revoked token ids until the tokens would have expired anyway.
type Denylist struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewDenylist(rdb *redis.Client, prefix string) *Denylist {
	return &Denylist{rdb: rdb, prefix: prefix, now: time.Now}
}

// Revoke denies jti until expiry. An already expired token is not stored.
func (d *Denylist) Revoke(ctx context.Context, jti string, expiry time.Time) error {
	ttl := expiry.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, d.prefix+jti, 1, ttl).Err()
}

func (d *Denylist) Revoked(ctx context.Context, jti string) (bool, error) {
	err := d.rdb.Get(ctx, d.prefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, err
}
