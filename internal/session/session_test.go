package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staff-portal/internal/domain/user"
)

type fakeAuth struct {
	resp      *user.AuthResponse
	err       error
	logoutErr error
	logouts   int
	got       user.Credentials
}

func (f *fakeAuth) Login(_ context.Context, c user.Credentials) (*user.AuthResponse, error) {
	f.got = c
	return f.resp, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "portal:", time.Hour), mr
}

func TestLogin_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	h, err := NewHolder(ctx, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatal("fresh holder must be logged out")
	}

	tok := signed(t, time.Now().Add(time.Hour))
	auth := &fakeAuth{resp: &user.AuthResponse{
		Token: tok, UserID: 9, Name: "Rina", Roles: []string{"MARKETING"}, Permissions: []string{"LOAN_APPROVE"},
	}}
	h.UseAuth(auth)

	changed := 0
	h.OnChange(func() { changed++ })

	if _, err := h.Login(ctx, "  rina@x.io ", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.got.Email != "rina@x.io" {
		t.Fatalf("email not trimmed: %q", auth.got.Email)
	}
	if changed != 1 {
		t.Fatalf("OnChange calls = %d, want 1", changed)
	}
	if !h.IsAuthenticated() || h.Token() != tok {
		t.Fatal("holder should be authenticated")
	}
	if !h.HasRole("MARKETING") || h.HasRole("BACKOFFICE") {
		t.Fatalf("roles = %v", h.Roles())
	}
	if !h.HasAnyRole("BACKOFFICE", "MARKETING") || h.HasAnyRole("BACKOFFICE") {
		t.Fatal("HasAnyRole mismatch")
	}
	if !h.HasPermission("LOAN_APPROVE") {
		t.Fatal("permission missing")
	}
	if ttl := mr.TTL("portal:auth_token"); ttl != time.Hour {
		t.Fatalf("token TTL = %v", ttl)
	}

	// a restarted portal picks the session back up
	again, err := NewHolder(ctx, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	if again.Token() != tok || again.User() == nil || again.User().Name != "Rina" {
		t.Fatalf("restored = %q %+v", again.Token(), again.User())
	}
}

func TestUser_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHolder(ctx, NewMemoryStore(), zerolog.Nop())
	h.UseAuth(&fakeAuth{resp: &user.AuthResponse{Token: "opaque", Roles: []string{"SUPERADMIN"}}})
	if _, err := h.Login(ctx, "a@b.c", "p"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	u := h.User()
	u.Roles[0] = "HACKED"
	if !h.HasRole("SUPERADMIN") {
		t.Fatal("caller mutated holder state")
	}
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHolder(ctx, NewMemoryStore(), zerolog.Nop())

	if _, err := h.Login(ctx, "a@b.c", "p"); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("want ErrNoAuth, got %v", err)
	}

	boom := errors.New("bad credentials")
	h.UseAuth(&fakeAuth{err: boom})
	if _, err := h.Login(ctx, "a@b.c", "p"); !errors.Is(err, boom) {
		t.Fatalf("want gateway error, got %v", err)
	}

	h.UseAuth(&fakeAuth{resp: &user.AuthResponse{}})
	if _, err := h.Login(ctx, "a@b.c", "p"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("want ErrMissingToken, got %v", err)
	}
	if h.IsAuthenticated() {
		t.Fatal("failed logins must not authenticate")
	}
}

func TestIsAuthenticated_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "valid jwt", token: signed(t, now.Add(time.Minute)), want: true},
		{name: "expired jwt", token: signed(t, now.Add(-time.Minute)), want: false},
		{name: "opaque token", token: "not-a-jwt", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			_ = store.Save(ctx, tt.token, &user.AuthResponse{Token: tt.token})
			h, _ := NewHolder(ctx, store, zerolog.Nop())
			h.now = func() time.Time { return now }
			if got := h.IsAuthenticated(); got != tt.want {
				t.Fatalf("IsAuthenticated = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogout_ClearsEvenWhenCallFails(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	h, _ := NewHolder(ctx, store, zerolog.Nop())
	auth := &fakeAuth{resp: &user.AuthResponse{Token: "t"}, logoutErr: errors.New("down")}
	h.UseAuth(auth)
	if _, err := h.Login(ctx, "a@b.c", "p"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := h.Logout(ctx); err == nil {
		t.Fatal("want logout call error surfaced")
	}
	if auth.logouts != 1 {
		t.Fatalf("logouts = %d", auth.logouts)
	}
	if h.Token() != "" || h.User() != nil || len(h.Roles()) != 0 {
		t.Fatal("session not cleared")
	}
	if mr.Exists("portal:auth_token") || mr.Exists("portal:auth_user") {
		t.Fatal("stored keys not removed")
	}

	// logged out: no call
	if err := h.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if auth.logouts != 1 {
		t.Fatalf("logouts = %d, want no extra call", auth.logouts)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, "t", &user.AuthResponse{Token: "t", Roles: []string{"BACKOFFICE"}})
	h, _ := NewHolder(ctx, store, zerolog.Nop())

	h.Clear()
	if h.IsAuthenticated() || h.HasRole("BACKOFFICE") {
		t.Fatal("Clear left session behind")
	}
	if tok, u, _ := store.Load(ctx); tok != "" || u != nil {
		t.Fatal("store not cleared")
	}
}

func TestRedisStore_LoadBadJSON(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	_ = mr.Set("portal:auth_token", "t")
	_ = mr.Set("portal:auth_user", "{not json")
	if _, err := NewHolder(ctx, store, zerolog.Nop()); err == nil {
		t.Fatal("want decode error")
	}
}
