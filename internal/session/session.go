// Package session holds the signed-in staff member and their bearer token.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"staff-portal/internal/domain/user"
)

var (
	ErrNoAuth       = errors.New("session: no auth gateway configured")
	ErrMissingToken = errors.New("session: login response has no token")
)

type Holder struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time

	mu    sync.RWMutex
	auth  user.AuthGateway
	token string
	user  *user.AuthResponse
	subs  []func()
}

// NewHolder restores whatever session store still has.
func NewHolder(ctx context.Context, store Store, log zerolog.Logger) (*Holder, error) {
	h := &Holder{store: store, log: log.With().Str("component", "session").Logger(), now: time.Now}
	token, u, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	h.token, h.user = token, u
	return h, nil
}

// UseAuth sets the gateway Login and Logout talk to. It is separate from
// NewHolder because the API client itself reads its token from the holder.
func (h *Holder) UseAuth(auth user.AuthGateway) {
	h.mu.Lock()
	h.auth = auth
	h.mu.Unlock()
}

// OnChange registers fn to run after every login, logout or clear.
func (h *Holder) OnChange(fn func()) {
	h.mu.Lock()
	h.subs = append(h.subs, fn)
	h.mu.Unlock()
}

func (h *Holder) Login(ctx context.Context, email, password string) (*user.AuthResponse, error) {
	h.mu.RLock()
	auth := h.auth
	h.mu.RUnlock()
	if auth == nil {
		return nil, ErrNoAuth
	}

	resp, err := auth.Login(ctx, user.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	if err := h.store.Save(ctx, resp.Token, resp); err != nil {
		return nil, err
	}
	h.set(resp.Token, resp)
	h.log.Info().Int64("user_id", resp.UserID).Strs("roles", resp.Roles).Msg("logged in")
	return resp, nil
}

// Logout tells the API and then forgets the session, even when the API call fails.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.RLock()
	auth := h.auth
	h.mu.RUnlock()

	var callErr error
	if auth != nil && h.Token() != "" {
		callErr = auth.Logout(ctx)
		if callErr != nil {
			h.log.Warn().Err(callErr).Msg("logout call failed; clearing local session anyway")
		}
	}
	if err := h.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	h.set("", nil)
	return callErr
}

// Clear drops the session without calling the API. The API client calls it
// on every 401.
func (h *Holder) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.store.Clear(ctx); err != nil {
		h.log.Error().Err(err).Msg("clearing stored session")
	}
	if h.Token() != "" {
		h.log.Info().Msg("session cleared")
	}
	h.set("", nil)
}

func (h *Holder) set(token string, u *user.AuthResponse) {
	h.mu.Lock()
	h.token, h.user = token, u
	subs := append([]func(){}, h.subs...)
	h.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// User returns a copy of the signed-in user, nil when logged out.
func (h *Holder) User() *user.AuthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	u.Roles = slices.Clone(h.user.Roles)
	u.Permissions = slices.Clone(h.user.Permissions)
	return &u
}

func (h *Holder) Roles() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return []string{}
	}
	return slices.Clone(h.user.Roles)
}

func (h *Holder) Permissions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return []string{}
	}
	return slices.Clone(h.user.Permissions)
}

func (h *Holder) HasRole(name string) bool { return slices.Contains(h.Roles(), name) }

func (h *Holder) HasAnyRole(names ...string) bool {
	roles := h.Roles()
	for _, n := range names {
		if slices.Contains(roles, n) {
			return true
		}
	}
	return false
}

func (h *Holder) HasPermission(name string) bool { return slices.Contains(h.Permissions(), name) }

// IsAuthenticated reports whether a token is held and, when it is a JWT
// carrying exp, that it has not expired. The signature is not checked here;
// the API does that.
func (h *Holder) IsAuthenticated() bool {
	token := h.Token()
	if token == "" {
		return false
	}
	exp, ok := expiry(token)
	if !ok {
		return true
	}
	return h.now().Before(exp)
}

func expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
