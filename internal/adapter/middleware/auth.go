package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"staff-portal/internal/domain/user"
	"staff-portal/pkg/id"
)

const (
	claimsKey   = "auth.claims"
	tokenIssuer = "lending-devapi"
)

var ErrRevoked = errors.New("token revoked")

// Claims is the payload of an access token.
type Claims struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID is the numeric subject.
func (c *Claims) UserID() int64 {
	n, _ := strconv.ParseInt(c.Subject, 10, 64)
	return n
}

// Revoker tracks logged-out tokens.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiry time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	deny   Revoker
	now    func() time.Time
}

// NewTokens builds the token service. deny may be nil, then logout only
// forgets the token client side.
func NewTokens(secret string, ttl time.Duration, deny Revoker) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, deny: deny, now: time.Now}
}

func (t *Tokens) Issue(u user.User) (string, error) {
	now := t.now()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Roles: u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(ctx context.Context, raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if t.deny != nil {
		revoked, err := t.deny.Revoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return &claims, nil
}

// Revoke denies the token for the rest of its lifetime.
func (t *Tokens) Revoke(ctx context.Context, c *Claims) error {
	if t.deny == nil || c.ExpiresAt == nil {
		return nil
	}
	return t.deny.Revoke(ctx, c.ID, c.ExpiresAt.Time)
}

// Auth rejects requests without a valid bearer token and stores the claims
// for the handlers.
func (t *Tokens) Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return fail(c, http.StatusUnauthorized, "Authentication required")
			}
			claims, err := t.Parse(c.Request().Context(), strings.TrimSpace(raw))
			if err != nil {
				return fail(c, http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok
}

// RequireRole lets the request through when the caller holds any of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return fail(c, http.StatusUnauthorized, "Authentication required")
			}
			for _, have := range claims.Roles {
				for _, want := range roles {
					if have == want {
						return next(c)
					}
				}
			}
			return fail(c, http.StatusForbidden, "Access denied")
		}
	}
}

// fail writes the lending API failure body.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{
		"success":   false,
		"message":   msg,
		"timestamp": nowUTC().Format(time.RFC3339),
	})
}
