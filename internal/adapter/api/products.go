package api

import (
	"context"
	"fmt"

	"staff-portal/internal/domain/product"
)

type Products struct{ c *Client }

func (c *Client) Products() *Products { return &Products{c: c} }

func (p *Products) List(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	if err := p.c.get(ctx, "/products", &out); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return out, nil
}

func (p *Products) Get(ctx context.Context, id int64) (*product.Product, error) {
	var out product.Product
	if err := p.c.get(ctx, idPath("/products/%s", id), &out); err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &out, nil
}

func (p *Products) Create(ctx context.Context, req product.Request) (*product.Product, error) {
	var out product.Product
	if err := p.c.post(ctx, "/products", req, &out); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return &out, nil
}

func (p *Products) Update(ctx context.Context, id int64, req product.Request) (*product.Product, error) {
	var out product.Product
	if err := p.c.put(ctx, idPath("/products/%s", id), req, &out); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return &out, nil
}

func (p *Products) Delete(ctx context.Context, id int64) error {
	if err := p.c.delete(ctx, idPath("/products/%s", id), nil); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

var _ product.Gateway = (*Products)(nil)
