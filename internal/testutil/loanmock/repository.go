package loanmock

import (
	"context"
	"errors"

	domain "staff-portal/internal/domain/loan"
)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	ListFn             func(ctx context.Context) ([]domain.Loan, error)
	ListByStatusFn     func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Loan, error)
	SetStatusFn        func(ctx context.Context, id int64, status domain.Status) error
	HistoryFn          func(ctx context.Context, id int64) ([]domain.History, error)
	AddHistoryFn       func(ctx context.Context, loanID, reviewerID int64, h domain.History) error
	ReviewerHistoryFn  func(ctx context.Context, reviewerID int64) ([]domain.ApprovalHistoryItem, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, status)
	}
	return nil
}

func (m *Repo) History(ctx context.Context, id int64) ([]domain.History, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) AddHistory(ctx context.Context, loanID, reviewerID int64, h domain.History) error {
	if m.AddHistoryFn != nil {
		return m.AddHistoryFn(ctx, loanID, reviewerID, h)
	}
	return nil
}

func (m *Repo) ReviewerHistory(ctx context.Context, reviewerID int64) ([]domain.ApprovalHistoryItem, error) {
	if m.ReviewerHistoryFn != nil {
		return m.ReviewerHistoryFn(ctx, reviewerID)
	}
	return nil, errUnimplemented
}
