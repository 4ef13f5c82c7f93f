// Package review moves loan applications through the approval chain on
// behalf of the lending API.
package review

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/uow"
	"staff-portal/internal/domain/user"
)

// ErrNotReviewer is returned when none of the caller's roles reviews loans.
var ErrNotReviewer = errors.New("caller has no reviewing role")

// Reviewer is the authenticated staff member acting on a loan.
type Reviewer struct {
	ID    int64
	Roles []string
}

type DecideInput struct {
	LoanID   int64
	Reviewer Reviewer
	Approve  bool
	Note     string
}

type Usecase struct {
	loans loan.Repository
	uow   uow.UnitOfWork
}

func NewUsecase(loans loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, uow: tx}
}

// Pending lists the loans waiting on the reviewer's highest role.
func (u *Usecase) Pending(ctx context.Context, rv Reviewer) ([]loan.Loan, error) {
	r, ok := loan.ReviewerRole(rv.Roles)
	if !ok {
		return nil, ErrNotReviewer
	}
	status, _ := loan.PendingStatus(r)
	return u.loans.ListByStatus(ctx, status)
}

func (u *Usecase) MyHistory(ctx context.Context, rv Reviewer) ([]loan.ApprovalHistoryItem, error) {
	return u.loans.ReviewerHistory(ctx, rv.ID)
}

func (u *Usecase) Get(ctx context.Context, id int64) (*loan.Loan, error) {
	l, err := u.loans.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	return l, err
}

func (u *Usecase) History(ctx context.Context, id int64) ([]loan.History, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.loans.History(ctx, id)
}

// Decide approves or rejects a loan. The loan row is locked for the whole
// transition so two reviewers cannot both act on the same status.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*loan.Loan, error) {
	note := strings.TrimSpace(in.Note)
	if !in.Approve && note == "" {
		return nil, loan.ErrNoteRequired
	}
	reviewerRole, ok := loan.ReviewerRole(in.Reviewer.Roles)
	if !ok {
		return nil, ErrNotReviewer
	}

	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		next, err := loan.Next(l.Status, reviewerRole, in.Approve)
		if err != nil {
			return err
		}
		reviewer, err := r.Users.GetByID(ctx, in.Reviewer.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}
		if err := r.Loans.SetStatus(ctx, l.ID, next); err != nil {
			return err
		}
		if err := r.Loans.AddHistory(ctx, l.ID, reviewer.ID, loan.History{
			Status:               next,
			Note:                 note,
			ApprovedBy:           reviewer.Name,
			ApprovedByRole:       reviewerRole,
			ApprovedByBranchName: reviewer.BranchName,
		}); err != nil {
			return err
		}
		l.Status = next
		out = l
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
