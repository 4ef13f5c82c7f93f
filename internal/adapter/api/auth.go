package api

import (
	"context"
	"fmt"

	"staff-portal/internal/domain/user"
)

type Auth struct{ c *Client }

func (c *Client) Auth() *Auth { return &Auth{c: c} }

func (a *Auth) Login(ctx context.Context, cr user.Credentials) (*user.AuthResponse, error) {
	var out user.AuthResponse
	if err := a.c.post(ctx, "/auth/login", cr, &out); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &out, nil
}

func (a *Auth) Logout(ctx context.Context) error {
	if err := a.c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

var _ user.AuthGateway = (*Auth)(nil)
