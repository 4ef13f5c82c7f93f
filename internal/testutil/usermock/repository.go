package usermock

import (
	"context"

	domain "staff-portal/internal/domain/user"
)

// Repo is a function-backed domain.Repository.
type Repo struct {
	ListFn           func(ctx context.Context) ([]domain.User, error)
	GetByIDFn        func(ctx context.Context, id int64) (*domain.User, error)
	GetCredentialsFn func(ctx context.Context, email string) (*domain.User, string, error)
	CreateFn         func(ctx context.Context, req domain.CreateRequest, passwordHash string) (*domain.User, error)
	UpdateFn         func(ctx context.Context, id int64, req domain.UpdateRequest) (*domain.User, error)
	SetActiveFn      func(ctx context.Context, id int64, active bool) (*domain.User, error)
	AddRoleFn        func(ctx context.Context, userID, roleID int64) (*domain.User, error)
	RemoveRoleFn     func(ctx context.Context, userID, roleID int64) (*domain.User, error)
	PermissionsFn    func(ctx context.Context, userID int64) ([]string, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetCredentials(ctx context.Context, email string) (*domain.User, string, error) {
	if m.GetCredentialsFn != nil {
		return m.GetCredentialsFn(ctx, email)
	}
	return nil, "", errUnimplemented
}

func (m *Repo) Create(ctx context.Context, req domain.CreateRequest, passwordHash string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req, passwordHash)
	}
	return nil, errUnimplemented
}

func (m *Repo) Update(ctx context.Context, id int64, req domain.UpdateRequest) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, req)
	}
	return nil, errUnimplemented
}

func (m *Repo) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, id, active)
	}
	return nil, errUnimplemented
}

func (m *Repo) AddRole(ctx context.Context, userID, roleID int64) (*domain.User, error) {
	if m.AddRoleFn != nil {
		return m.AddRoleFn(ctx, userID, roleID)
	}
	return nil, errUnimplemented
}

func (m *Repo) RemoveRole(ctx context.Context, userID, roleID int64) (*domain.User, error) {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, userID, roleID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Permissions(ctx context.Context, userID int64) ([]string, error) {
	if m.PermissionsFn != nil {
		return m.PermissionsFn(ctx, userID)
	}
	return nil, errUnimplemented
}
