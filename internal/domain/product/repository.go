package product

import "context"

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, req Request) (*Product, error)
	Update(ctx context.Context, id int64, req Request) (*Product, error)
	Delete(ctx context.Context, id int64) error
}
