package role

import "context"

// Gateway is the remote role & permission API consumed by the portal.
type Gateway interface {
	List(ctx context.Context) ([]Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	UpdatePermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*Role, error)
}
