package user

import "context"

// Gateway is the remote user administration API consumed by the portal.
type Gateway interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	SetStatus(ctx context.Context, id int64, active bool) (*User, error)
	AssignRole(ctx context.Context, userID, roleID int64) (*User, error)
	RemoveRole(ctx context.Context, userID, roleID int64) (*User, error)
}

// AuthGateway logs staff in and out.
type AuthGateway interface {
	Login(ctx context.Context, c Credentials) (*AuthResponse, error)
	Logout(ctx context.Context) error
}
