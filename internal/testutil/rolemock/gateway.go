package rolemock

import (
	"context"
	"errors"

	domain "staff-portal/internal/domain/role"
)

var errUnimplemented = errors.New("rolemock: method not implemented")

// Gateway is a function-backed domain.Gateway.
type Gateway struct {
	ListFn              func(ctx context.Context) ([]domain.Role, error)
	ListPermissionsFn   func(ctx context.Context) ([]domain.Permission, error)
	UpdatePermissionsFn func(ctx context.Context, roleID int64, permissionIDs []int64) (*domain.Role, error)
}

var _ domain.Gateway = (*Gateway)(nil)

func (m *Gateway) List(ctx context.Context) ([]domain.Role, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Gateway) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	if m.ListPermissionsFn != nil {
		return m.ListPermissionsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Gateway) UpdatePermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*domain.Role, error) {
	if m.UpdatePermissionsFn != nil {
		return m.UpdatePermissionsFn(ctx, roleID, permissionIDs)
	}
	return nil, errUnimplemented
}
