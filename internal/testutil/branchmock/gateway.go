package branchmock

import (
	"context"
	"errors"

	domain "staff-portal/internal/domain/branch"
)

var errUnimplemented = errors.New("branchmock: method not implemented")

// Gateway is a function-backed domain.Gateway.
type Gateway struct {
	ListFn   func(ctx context.Context) ([]domain.Branch, error)
	CreateFn func(ctx context.Context, req domain.Request) (*domain.Branch, error)
	UpdateFn func(ctx context.Context, id int64, req domain.Request) (*domain.Branch, error)
	DeleteFn func(ctx context.Context, id int64) error
}

var _ domain.Gateway = (*Gateway)(nil)

func (m *Gateway) List(ctx context.Context) ([]domain.Branch, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Create(ctx context.Context, req domain.Request) (*domain.Branch, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Update(ctx context.Context, id int64, req domain.Request) (*domain.Branch, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, req)
	}
	return nil, errUnimplemented
}

func (m *Gateway) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return errUnimplemented
}
