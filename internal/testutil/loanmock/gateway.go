package loanmock

import (
	"context"

	domain "staff-portal/internal/domain/loan"
)

// Approvals is a function-backed domain.ApprovalGateway.
type Approvals struct {
	PendingFn   func(ctx context.Context) ([]domain.Loan, error)
	MyHistoryFn func(ctx context.Context) ([]domain.ApprovalHistoryItem, error)
	GetFn       func(ctx context.Context, id int64) (*domain.Loan, error)
	HistoryFn   func(ctx context.Context, id int64) ([]domain.History, error)
	ApproveFn   func(ctx context.Context, id int64, req domain.ApprovalRequest) (*domain.Loan, error)
	RejectFn    func(ctx context.Context, id int64, req domain.ApprovalRequest) (*domain.Loan, error)
}

var _ domain.ApprovalGateway = (*Approvals)(nil)

func (m *Approvals) Pending(ctx context.Context) ([]domain.Loan, error) {
	if m.PendingFn != nil {
		return m.PendingFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Approvals) MyHistory(ctx context.Context) ([]domain.ApprovalHistoryItem, error) {
	if m.MyHistoryFn != nil {
		return m.MyHistoryFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Approvals) Get(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Approvals) History(ctx context.Context, id int64) ([]domain.History, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Approvals) Approve(ctx context.Context, id int64, req domain.ApprovalRequest) (*domain.Loan, error) {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, id, req)
	}
	return nil, errUnimplemented
}

func (m *Approvals) Reject(ctx context.Context, id int64, req domain.ApprovalRequest) (*domain.Loan, error) {
	if m.RejectFn != nil {
		return m.RejectFn(ctx, id, req)
	}
	return nil, errUnimplemented
}

// Admin is a function-backed domain.AdminGateway.
type Admin struct {
	ListFn     func(ctx context.Context) ([]domain.Loan, error)
	GetFn      func(ctx context.Context, id int64) (*domain.Loan, error)
	HistoryFn  func(ctx context.Context, id int64) ([]domain.History, error)
	DownloadFn func(ctx context.Context, path string) (*domain.Document, error)
}

var _ domain.AdminGateway = (*Admin)(nil)

func (m *Admin) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Admin) Get(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Admin) History(ctx context.Context, id int64) ([]domain.History, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Admin) Download(ctx context.Context, path string) (*domain.Document, error) {
	if m.DownloadFn != nil {
		return m.DownloadFn(ctx, path)
	}
	return nil, errUnimplemented
}
