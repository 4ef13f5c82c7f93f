package user

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrInactive   = errors.New("user is inactive")
)

type Type string

const (
	TypeCustomer Type = "CUSTOMER"
	TypeInternal Type = "INTERNAL"
)

type User struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	UserType   Type     `json:"userType"`
	IsActive   bool     `json:"isActive"`
	Roles      []string `json:"roles"`
	BranchID   *int64   `json:"branchId,omitempty"`
	BranchName string   `json:"branchName,omitempty"`
}

func (u User) Key() int64 { return u.ID }

func (u User) SearchFields() []string {
	return []string{u.Name, u.Email, strings.Join(u.Roles, " "), u.BranchName}
}

// HasRole reports whether the user already carries the named role.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type CreateRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int64  `json:"roleId"   validate:"required,gt=0"`
	BranchID *int64 `json:"branchId,omitempty" validate:"omitempty,gt=0"`
}

type UpdateRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	BranchID *int64  `json:"branchId,omitempty" validate:"omitempty,gt=0"`
}

type StatusRequest struct {
	IsActive bool `json:"isActive"`
}

type AssignRoleRequest struct {
	RoleID int64 `json:"roleId" validate:"required,gt=0"`
}

type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the session payload returned by a successful login.
type AuthResponse struct {
	Token       string   `json:"token"`
	TokenType   string   `json:"tokenType"`
	UserID      int64    `json:"userId"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
