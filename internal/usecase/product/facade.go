package product

import (
	"context"
	"fmt"

	domain "staff-portal/internal/domain/product"
	"staff-portal/internal/prompt"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

type Facade struct {
	deps usecase.Deps
	gw   domain.Gateway
	list *viewstate.Collection[domain.Product]
}

func New(gw domain.Gateway, deps usecase.Deps) *Facade {
	return &Facade{
		deps: deps,
		gw:   gw,
		list: viewstate.NewCollection[domain.Product](deps.Options("product", "products")),
	}
}

func (f *Facade) Load(ctx context.Context) bool { return f.list.Load(ctx, f.gw.List) }

func (f *Facade) Create(ctx context.Context, req domain.Request) (domain.Product, bool) {
	if msg, ok := f.deps.Check(req); !ok {
		f.list.SetError(msg)
		return domain.Product{}, false
	}
	return f.list.Create(ctx, func(ctx context.Context) (*domain.Product, error) {
		return f.gw.Create(ctx, req)
	})
}

func (f *Facade) Update(ctx context.Context, id int64, req domain.Request) (domain.Product, bool) {
	if msg, ok := f.deps.Check(req); !ok {
		f.list.SetError(msg)
		return domain.Product{}, false
	}
	return f.list.Update(ctx, id, func(ctx context.Context) (*domain.Product, error) {
		return f.gw.Update(ctx, id, req)
	})
}

func (f *Facade) Delete(ctx context.Context, p domain.Product) bool {
	return f.list.Delete(ctx, p.ID, prompt.Config{
		Title:       "Delete Product",
		Message:     fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", p.Name),
		ConfirmText: "Delete",
		Type:        prompt.KindDanger,
	}, func(ctx context.Context) error {
		return f.gw.Delete(ctx, p.ID)
	})
}

func (f *Facade) Get(id int64) (domain.Product, bool) { return f.list.Get(id) }

func (f *Facade) UpdateQuery(raw string)                       { f.list.UpdateQuery(raw) }
func (f *Facade) Filtered() []domain.Product                   { return f.list.Filtered() }
func (f *Facade) ClearError()                                  { f.list.ClearError() }
func (f *Facade) Subscribe(fn func()) func()                   { return f.list.Subscribe(fn) }
func (f *Facade) Snapshot() viewstate.Snapshot[domain.Product] { return f.list.Snapshot() }
func (f *Facade) Close()                                       { f.list.Close() }
