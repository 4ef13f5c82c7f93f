package user

import "context"

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetCredentials returns the user and its password hash for login
	GetCredentials(ctx context.Context, email string) (*User, string, error)
	Create(ctx context.Context, req CreateRequest, passwordHash string) (*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) (*User, error)
	AddRole(ctx context.Context, userID, roleID int64) (*User, error)
	RemoveRole(ctx context.Context, userID, roleID int64) (*User, error)
	Permissions(ctx context.Context, userID int64) ([]string, error)
}
