package branch

import "context"

type Repository interface {
	List(ctx context.Context) ([]Branch, error)
	GetByID(ctx context.Context, id int64) (*Branch, error)
	Create(ctx context.Context, req Request) (*Branch, error)
	Update(ctx context.Context, id int64, req Request) (*Branch, error)
	Delete(ctx context.Context, id int64) error
}
