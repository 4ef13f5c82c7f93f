package api

import (
	"context"
	"fmt"

	"staff-portal/internal/domain/user"
)

type Users struct{ c *Client }

func (c *Client) Users() *Users { return &Users{c: c} }

func (u *Users) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	if err := u.c.get(ctx, "/admin/users", &out); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out, nil
}

func (u *Users) Get(ctx context.Context, id int64) (*user.User, error) {
	var out user.User
	if err := u.c.get(ctx, idPath("/admin/users/%s", id), &out); err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &out, nil
}

func (u *Users) Create(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	var out user.User
	if err := u.c.post(ctx, "/admin/users", req, &out); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &out, nil
}

func (u *Users) Update(ctx context.Context, id int64, req user.UpdateRequest) (*user.User, error) {
	var out user.User
	if err := u.c.put(ctx, idPath("/admin/users/%s", id), req, &out); err != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}
	return &out, nil
}

func (u *Users) SetStatus(ctx context.Context, id int64, active bool) (*user.User, error) {
	var out user.User
	if err := u.c.patch(ctx, idPath("/admin/users/%s/status", id), user.StatusRequest{IsActive: active}, &out); err != nil {
		return nil, fmt.Errorf("setting status of user %d: %w", id, err)
	}
	return &out, nil
}

func (u *Users) AssignRole(ctx context.Context, userID, roleID int64) (*user.User, error) {
	var out user.User
	if err := u.c.post(ctx, idPath("/admin/users/%s/roles", userID), user.AssignRoleRequest{RoleID: roleID}, &out); err != nil {
		return nil, fmt.Errorf("assigning role %d to user %d: %w", roleID, userID, err)
	}
	return &out, nil
}

func (u *Users) RemoveRole(ctx context.Context, userID, roleID int64) (*user.User, error) {
	var out user.User
	if err := u.c.delete(ctx, idPath("/admin/users/%s/roles/%s", userID, roleID), &out); err != nil {
		return nil, fmt.Errorf("removing role %d from user %d: %w", roleID, userID, err)
	}
	return &out, nil
}

var _ user.Gateway = (*Users)(nil)
