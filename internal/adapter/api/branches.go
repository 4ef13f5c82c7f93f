package api

import (
	"context"
	"fmt"

	"staff-portal/internal/domain/branch"
)

type Branches struct{ c *Client }

func (c *Client) Branches() *Branches { return &Branches{c: c} }

func (b *Branches) List(ctx context.Context) ([]branch.Branch, error) {
	var out []branch.Branch
	if err := b.c.get(ctx, "/branches", &out); err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	return out, nil
}

func (b *Branches) Create(ctx context.Context, req branch.Request) (*branch.Branch, error) {
	var out branch.Branch
	if err := b.c.post(ctx, "/branches", req, &out); err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}
	return &out, nil
}

func (b *Branches) Update(ctx context.Context, id int64, req branch.Request) (*branch.Branch, error) {
	var out branch.Branch
	if err := b.c.put(ctx, idPath("/branches/%s", id), req, &out); err != nil {
		return nil, fmt.Errorf("updating branch %d: %w", id, err)
	}
	return &out, nil
}

func (b *Branches) Delete(ctx context.Context, id int64) error {
	if err := b.c.delete(ctx, idPath("/branches/%s", id), nil); err != nil {
		return fmt.Errorf("deleting branch %d: %w", id, err)
	}
	return nil
}

var _ branch.Gateway = (*Branches)(nil)
