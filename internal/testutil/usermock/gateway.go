package usermock

import (
	"context"
	"errors"

	domain "staff-portal/internal/domain/user"
)

var errUnimplemented = errors.New("usermock: method not implemented")

// Gateway is a function-backed domain.Gateway.
type Gateway struct {
	ListFn       func(ctx context.Context) ([]domain.User, error)
	GetFn        func(ctx context.Context, id int64) (*domain.User, error)
	CreateFn     func(ctx context.Context, req domain.CreateRequest) (*domain.User, error)
	UpdateFn     func(ctx context.Context, id int64, req domain.UpdateRequest) (*domain.User, error)
	SetStatusFn  func(ctx context.Context, id int64, active bool) (*domain.User, error)
	AssignRoleFn func(ctx context.Context, userID, roleID int64) (*domain.User, error)
	RemoveRoleFn func(ctx context.Context, userID, roleID int64) (*domain.User, error)
}

var _ domain.Gateway = (*Gateway)(nil)

func (m *Gateway) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Get(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Create(ctx context.Context, req domain.CreateRequest) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Update(ctx context.Context, id int64, req domain.UpdateRequest) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, req)
	}
	return nil, errUnimplemented
}

func (m *Gateway) SetStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, active)
	}
	return nil, errUnimplemented
}

func (m *Gateway) AssignRole(ctx context.Context, userID, roleID int64) (*domain.User, error) {
	if m.AssignRoleFn != nil {
		return m.AssignRoleFn(ctx, userID, roleID)
	}
	return nil, errUnimplemented
}

func (m *Gateway) RemoveRole(ctx context.Context, userID, roleID int64) (*domain.User, error) {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, userID, roleID)
	}
	return nil, errUnimplemented
}
