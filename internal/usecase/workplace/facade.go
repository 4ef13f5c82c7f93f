// Package workplace is the reviewer's approval desk: the pending queue for
// the reviewer's tier, the selected loan, and their past decisions.
package workplace

import (
	"context"
	"strings"
	"sync"

	domain "staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

// Session is the part of the session holder the workplace reads.
type Session interface {
	User() *user.AuthResponse
	Roles() []string
}

type Facade struct {
	deps    usecase.Deps
	gw      domain.ApprovalGateway
	session Session

	pending *viewstate.Collection[domain.Loan]
	history *viewstate.Collection[domain.ApprovalHistoryItem]
	sel     *viewstate.Selection[domain.Loan, domain.History]
	signal  viewstate.Signal

	mu            sync.Mutex
	actionPending bool
}

type View struct {
	UserName      string                                                   `json:"userName"`
	RoleName      string                                                   `json:"roleName"`
	Pending       viewstate.Snapshot[domain.Loan]                          `json:"pending"`
	History       viewstate.Snapshot[domain.ApprovalHistoryItem]           `json:"history"`
	Selected      viewstate.SelectionSnapshot[domain.Loan, domain.History] `json:"selected"`
	ActionPending bool                                                     `json:"actionPending"`
}

func New(gw domain.ApprovalGateway, session Session, deps usecase.Deps) *Facade {
	return &Facade{
		deps:    deps,
		gw:      gw,
		session: session,
		pending: viewstate.NewCollection[domain.Loan](deps.Options("loan", "pending loans")),
		history: viewstate.NewCollection[domain.ApprovalHistoryItem](deps.Options("approval", "approval history")),
		sel:     viewstate.NewSelection[domain.Loan, domain.History]("workplace-loan", deps.SubRead, gw.Get, gw.History, deps.Log, deps.Metrics),
	}
}

func (f *Facade) LoadPending(ctx context.Context) bool { return f.pending.Load(ctx, f.gw.Pending) }

func (f *Facade) LoadHistory(ctx context.Context) bool { return f.history.Load(ctx, f.gw.MyHistory) }

// Select opens a pending loan, showing the cached row until its detail arrives.
func (f *Facade) Select(ctx context.Context, id int64) bool {
	var seed *domain.Loan
	if l, ok := f.pending.Get(id); ok {
		seed = &l
	}
	return f.sel.Select(ctx, id, seed)
}

func (f *Facade) ClearSelection() { f.sel.Clear() }

// Approve approves the selected loan. note is optional.
func (f *Facade) Approve(ctx context.Context, note string) bool {
	return f.decide(ctx, "approve", "Failed to approve loan", strings.TrimSpace(note), f.gw.Approve)
}

// Reject rejects the selected loan. A blank note makes no call.
func (f *Facade) Reject(ctx context.Context, note string) bool {
	note = strings.TrimSpace(note)
	if note == "" {
		return false
	}
	return f.decide(ctx, "reject", "Failed to reject loan", note, f.gw.Reject)
}

func (f *Facade) decide(
	ctx context.Context,
	op, fallback, note string,
	call func(ctx context.Context, id int64, req domain.ApprovalRequest) (*domain.Loan, error),
) bool {
	id, _, ok := f.sel.Current()
	if !ok {
		return false
	}
	if !f.begin() {
		return false
	}
	f.pending.ClearError()

	wctx := ctx
	if f.deps.WriteContext != nil {
		wctx = f.deps.WriteContext(ctx)
	}
	_, err := viewstate.Do(wctx, f.deps.Write, func(ctx context.Context) (*domain.Loan, error) {
		return call(ctx, id, domain.ApprovalRequest{Note: note})
	})
	f.end()

	log := f.deps.Log.With().Str("op", op).Int64("loan_id", id).Logger()
	if err != nil {
		log.Warn().Err(err).Msg("decision failed")
		f.pending.SetError(viewstate.Message(err, fallback))
		return false
	}
	log.Info().Msg("decision recorded")

	f.sel.Clear()
	f.pending.Load(ctx, f.gw.Pending)
	return true
}

// begin raises actionPending unless another decision holds it.
func (f *Facade) begin() bool {
	f.mu.Lock()
	if f.actionPending {
		f.mu.Unlock()
		return false
	}
	f.actionPending = true
	f.mu.Unlock()
	f.signal.Notify()
	return true
}

func (f *Facade) end() {
	f.mu.Lock()
	f.actionPending = false
	f.mu.Unlock()
	f.signal.Notify()
}

func (f *Facade) ActionPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.actionPending
}

// RoleName labels the reviewer by their highest tier.
func (f *Facade) RoleName() string { return role.DisplayName(f.session.Roles()) }

func (f *Facade) UserName() string {
	if u := f.session.User(); u != nil {
		return u.Name
	}
	return ""
}

func (f *Facade) UpdatePendingQuery(raw string) { f.pending.UpdateQuery(raw) }
func (f *Facade) UpdateHistoryQuery(raw string) { f.history.UpdateQuery(raw) }

func (f *Facade) FilteredPending() []domain.Loan { return f.pending.Filtered() }

func (f *Facade) FilteredHistory() []domain.ApprovalHistoryItem { return f.history.Filtered() }

func (f *Facade) Selected() (int64, *domain.Loan, bool) { return f.sel.Current() }

func (f *Facade) ClearError() {
	f.pending.ClearError()
	f.history.ClearError()
}

func (f *Facade) Subscribe(fn func()) func() {
	return viewstate.SubscribeAll(fn, f.pending, f.history, f.sel, &f.signal)
}

func (f *Facade) Close() {
	f.pending.Close()
	f.history.Close()
}

func (f *Facade) View() View {
	return View{
		UserName:      f.UserName(),
		RoleName:      f.RoleName(),
		Pending:       f.pending.Snapshot(),
		History:       f.history.Snapshot(),
		Selected:      f.sel.Snapshot(),
		ActionPending: f.ActionPending(),
	}
}
