package role

import "context"

type Repository interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	// Replace the permission set of a role; unknown permission ids fail with ErrPermissionNotFound
	SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*Role, error)
}
