package loan

import (
	"context"

	domain "staff-portal/internal/domain/loan"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

// Facade is back-office oversight over every loan application.
type Facade struct {
	deps usecase.Deps
	gw   domain.AdminGateway
	list *viewstate.Collection[domain.Loan]
	sel  *viewstate.Selection[domain.Loan, domain.History]
}

type View struct {
	Loans    viewstate.Snapshot[domain.Loan]                          `json:"loans"`
	Selected viewstate.SelectionSnapshot[domain.Loan, domain.History] `json:"selected"`
}

func New(gw domain.AdminGateway, deps usecase.Deps) *Facade {
	return &Facade{
		deps: deps,
		gw:   gw,
		list: viewstate.NewCollection[domain.Loan](deps.Options("loan", "loans")),
		sel:  viewstate.NewSelection[domain.Loan, domain.History]("admin-loan", deps.SubRead, gw.Get, gw.History, deps.Log, deps.Metrics),
	}
}

func (f *Facade) Load(ctx context.Context) bool { return f.list.Load(ctx, f.gw.List) }

// Select opens id, showing the cached row until the full detail arrives.
// It reports whether this call's results were applied.
func (f *Facade) Select(ctx context.Context, id int64) bool {
	var seed *domain.Loan
	if l, ok := f.list.Get(id); ok {
		seed = &l
	}
	return f.sel.Select(ctx, id, seed)
}

func (f *Facade) ClearSelection() { f.sel.Clear() }

// Download fetches a customer document such as the KTP scan.
func (f *Facade) Download(ctx context.Context, path string) (*domain.Document, bool) {
	doc, err := viewstate.Do(ctx, f.deps.Read, func(ctx context.Context) (*domain.Document, error) {
		return f.gw.Download(ctx, path)
	})
	if err != nil {
		f.deps.Log.Warn().Err(err).Str("path", path).Msg("document download failed")
		f.list.SetError(viewstate.Message(err, "Failed to download document"))
		return nil, false
	}
	return doc, true
}

func (f *Facade) Get(id int64) (domain.Loan, bool) { return f.list.Get(id) }

func (f *Facade) UpdateQuery(raw string)  { f.list.UpdateQuery(raw) }
func (f *Facade) Filtered() []domain.Loan { return f.list.Filtered() }
func (f *Facade) ClearError()             { f.list.ClearError() }
func (f *Facade) Close()                  { f.list.Close() }

func (f *Facade) Subscribe(fn func()) func() {
	return viewstate.SubscribeAll(fn, f.list, f.sel)
}

func (f *Facade) View() View {
	return View{Loans: f.list.Snapshot(), Selected: f.sel.Snapshot()}
}
