package api

import (
	"context"
	"fmt"

	"staff-portal/internal/domain/role"
)

type Roles struct{ c *Client }

func (c *Client) Roles() *Roles { return &Roles{c: c} }

func (r *Roles) List(ctx context.Context) ([]role.Role, error) {
	var out []role.Role
	if err := r.c.get(ctx, "/admin/roles", &out); err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return out, nil
}

func (r *Roles) ListPermissions(ctx context.Context) ([]role.Permission, error) {
	var out []role.Permission
	if err := r.c.get(ctx, "/admin/permissions", &out); err != nil {
		return nil, fmt.Errorf("listing permissions: %w", err)
	}
	return out, nil
}

func (r *Roles) UpdatePermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*role.Role, error) {
	if permissionIDs == nil {
		permissionIDs = []int64{}
	}
	var out role.Role
	req := role.UpdatePermissionsRequest{PermissionIDs: permissionIDs}
	if err := r.c.put(ctx, idPath("/admin/roles/%s/permissions", roleID), req, &out); err != nil {
		return nil, fmt.Errorf("updating permissions of role %d: %w", roleID, err)
	}
	return &out, nil
}

var _ role.Gateway = (*Roles)(nil)
