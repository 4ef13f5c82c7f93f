package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staff-portal/internal/adapter/middleware"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/usecase/account"
)

type AuthHandler struct {
	acct   *account.Usecase
	tokens *middleware.Tokens
	log    zerolog.Logger
}

func NewAuthHandler(acct *account.Usecase, tokens *middleware.Tokens, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{acct: acct, tokens: tokens, log: log}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req user.Credentials
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.acct.Login(c.Request().Context(), req)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "Login successful")
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if claims, found := middleware.ClaimsFrom(c); found {
		if err := h.tokens.Revoke(c.Request().Context(), claims); err != nil {
			return respond(c, h.log, err)
		}
	}
	return ok(c, http.StatusOK, nil, "Logged out")
}
