// Package account signs staff in and creates staff accounts for the lending API.
package account

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staff-portal/internal/domain/user"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer signs an access token for a user.
type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type Usecase struct {
	users  user.Repository
	tokens TokenIssuer
	cost   int
}

// NewUsecase builds the account usecase. cost is the bcrypt cost, zero means
// bcrypt.DefaultCost.
func NewUsecase(users user.Repository, tokens TokenIssuer, cost int) *Usecase {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Usecase{users: users, tokens: tokens, cost: cost}
}

// Login checks the password and returns a fresh session. Unknown email and
// wrong password are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, cr user.Credentials) (*user.AuthResponse, error) {
	usr, hash, err := u.users.GetCredentials(ctx, cr.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(cr.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, user.ErrInactive
	}

	perms, err := u.users.Permissions(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	tok, err := u.tokens.Issue(*usr)
	if err != nil {
		return nil, err
	}
	return &user.AuthResponse{
		Token:       tok,
		TokenType:   "Bearer",
		UserID:      usr.ID,
		Email:       usr.Email,
		Name:        usr.Name,
		Roles:       usr.Roles,
		Permissions: perms,
	}, nil
}

// CreateUser stores a new internal user with a hashed password.
func (u *Usecase) CreateUser(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.cost)
	if err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	return u.users.Create(ctx, req, string(hash))
}
