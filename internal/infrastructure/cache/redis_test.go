package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	// non-zero DB to verify it's set
	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	if v, _ := c.Get(ctx, "k").Result(); v != "v" {
		t.Fatalf("GET value = %q, want %q", v, "v")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host fails the ping immediately
	if _, err := OpenRedis(context.Background(), "not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDenylist(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(context.Background(), s.Addr(), 0)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := NewDenylist(c, "jwt:revoked:")
	d.now = func() time.Time { return now }
	ctx := context.Background()

	if err := d.Revoke(ctx, "abc", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := d.Revoke(ctx, "old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}

	if ok, err := d.Revoked(ctx, "abc"); err != nil || !ok {
		t.Fatalf("Revoked(abc) = %v, %v", ok, err)
	}
	if ok, _ := d.Revoked(ctx, "old"); ok {
		t.Fatal("expired token must not be stored")
	}
	if ttl := s.TTL("jwt:revoked:abc"); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	s.FastForward(time.Hour + time.Second)
	if ok, _ := d.Revoked(ctx, "abc"); ok {
		t.Fatal("entry must expire with the token")
	}
}
