package branch

import (
	"context"
	"fmt"

	domain "staff-portal/internal/domain/branch"
	"staff-portal/internal/prompt"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

type Facade struct {
	deps usecase.Deps
	gw   domain.Gateway
	list *viewstate.Collection[domain.Branch]
}

func New(gw domain.Gateway, deps usecase.Deps) *Facade {
	return &Facade{
		deps: deps,
		gw:   gw,
		list: viewstate.NewCollection[domain.Branch](deps.Options("branch", "branches")),
	}
}

func (f *Facade) Load(ctx context.Context) bool { return f.list.Load(ctx, f.gw.List) }

// save failures share one fallback message
func (f *Facade) save(ctx context.Context, req domain.Request, id int64, call func(context.Context) (*domain.Branch, error)) (domain.Branch, bool) {
	if msg, ok := f.deps.Check(req); !ok {
		f.list.SetError(msg)
		return domain.Branch{}, false
	}
	m := viewstate.Mutation[domain.Branch]{
		Op:       "create",
		Fallback: "Failed to save branch",
		Flag:     viewstate.FlagSaving,
		Patch:    viewstate.PatchAppend,
		Call:     call,
	}
	if id != 0 {
		m.Op, m.Patch, m.Target = "update", viewstate.PatchReplace, id
	}
	return f.list.Mutate(ctx, m)
}

func (f *Facade) Create(ctx context.Context, req domain.Request) (domain.Branch, bool) {
	return f.save(ctx, req, 0, func(ctx context.Context) (*domain.Branch, error) {
		return f.gw.Create(ctx, req)
	})
}

func (f *Facade) Update(ctx context.Context, id int64, req domain.Request) (domain.Branch, bool) {
	return f.save(ctx, req, id, func(ctx context.Context) (*domain.Branch, error) {
		return f.gw.Update(ctx, id, req)
	})
}

func (f *Facade) Delete(ctx context.Context, b domain.Branch) bool {
	return f.list.Delete(ctx, b.ID, prompt.Config{
		Title:       "Delete Branch",
		Message:     fmt.Sprintf("Are you sure you want to delete branch %q? This cannot be undone.", b.Location),
		ConfirmText: "Delete",
		Type:        prompt.KindDanger,
	}, func(ctx context.Context) error {
		return f.gw.Delete(ctx, b.ID)
	})
}

func (f *Facade) Get(id int64) (domain.Branch, bool) { return f.list.Get(id) }

func (f *Facade) UpdateQuery(raw string)                      { f.list.UpdateQuery(raw) }
func (f *Facade) Filtered() []domain.Branch                   { return f.list.Filtered() }
func (f *Facade) ClearError()                                 { f.list.ClearError() }
func (f *Facade) Subscribe(fn func()) func()                  { return f.list.Subscribe(fn) }
func (f *Facade) Snapshot() viewstate.Snapshot[domain.Branch] { return f.list.Snapshot() }
func (f *Facade) Close()                                      { f.list.Close() }
