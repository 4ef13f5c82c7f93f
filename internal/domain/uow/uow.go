package uow

import (
	"context"

	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/user"
)

type Repos struct {
	Loans loan.Repository
	Users user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID int64, fn func(r Repos, l *loan.Loan) error) error
}
