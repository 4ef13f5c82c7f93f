package review

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/uow"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/testutil/loanmock"
	"staff-portal/internal/testutil/uowmock"
	"staff-portal/internal/testutil/usermock"
)

func reviewerRepo() *usermock.Repo {
	return &usermock.Repo{GetByIDFn: func(_ context.Context, id int64) (*user.User, error) {
		return &user.User{ID: id, Name: "Budi", BranchName: "Bandung"}, nil
	}}
}

func TestUsecase_Decide(t *testing.T) {
	marketing := Reviewer{ID: 5, Roles: []string{role.Marketing}}
	manager := Reviewer{ID: 6, Roles: []string{role.Marketing, role.BranchManager}}

	tests := []struct {
		name       string
		status     loan.Status
		in         DecideInput
		lockErr    error
		wantErr    error
		wantStatus loan.Status
	}{
		{
			name:       "marketing approves submitted",
			status:     loan.StatusSubmitted,
			in:         DecideInput{LoanID: 9, Reviewer: marketing, Approve: true, Note: "  docs ok  "},
			wantStatus: loan.StatusMarketingApproved,
		},
		{
			name:       "manager acts on highest tier",
			status:     loan.StatusMarketingApproved,
			in:         DecideInput{LoanID: 9, Reviewer: manager, Note: "income too low"},
			wantStatus: loan.StatusBranchManagerRejected,
		},
		{
			name:    "reject needs a note",
			status:  loan.StatusSubmitted,
			in:      DecideInput{LoanID: 9, Reviewer: marketing, Note: "   "},
			wantErr: loan.ErrNoteRequired,
		},
		{
			name:    "wrong tier",
			status:  loan.StatusSubmitted,
			in:      DecideInput{LoanID: 9, Reviewer: manager, Approve: true},
			wantErr: loan.ErrNotPending,
		},
		{
			name:    "customer cannot review",
			status:  loan.StatusSubmitted,
			in:      DecideInput{LoanID: 9, Reviewer: Reviewer{ID: 1, Roles: []string{role.Customer}}, Approve: true},
			wantErr: ErrNotReviewer,
		},
		{
			name:    "missing loan",
			in:      DecideInput{LoanID: 404, Reviewer: marketing, Approve: true},
			lockErr: gorm.ErrRecordNotFound,
			wantErr: loan.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				setTo   loan.Status
				history []loan.History
			)
			loans := &loanmock.Repo{
				GetByIDForUpdateFn: func(_ context.Context, id int64) (*loan.Loan, error) {
					if tt.lockErr != nil {
						return nil, tt.lockErr
					}
					return &loan.Loan{ID: id, Status: tt.status}, nil
				},
				SetStatusFn: func(_ context.Context, id int64, s loan.Status) error {
					setTo = s
					return nil
				},
				AddHistoryFn: func(_ context.Context, loanID, reviewerID int64, h loan.History) error {
					if loanID != tt.in.LoanID || reviewerID != tt.in.Reviewer.ID {
						t.Fatalf("AddHistory(%d, %d)", loanID, reviewerID)
					}
					history = append(history, h)
					return nil
				},
			}
			uc := NewUsecase(loans, uowmock.Passthrough(uow.Repos{Loans: loans, Users: reviewerRepo()}))

			got, err := uc.Decide(context.Background(), tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if setTo != "" || len(history) != 0 {
					t.Fatal("failed decision must not write")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got.Status != tt.wantStatus || setTo != tt.wantStatus {
				t.Fatalf("status = %s / %s, want %s", got.Status, setTo, tt.wantStatus)
			}
			if len(history) != 1 || history[0].ApprovedBy != "Budi" || history[0].ApprovedByBranchName != "Bandung" {
				t.Fatalf("history = %+v", history)
			}
			if tt.in.Approve && history[0].Note != "docs ok" {
				t.Fatalf("note not trimmed: %q", history[0].Note)
			}
		})
	}
}

func TestUsecase_Decide_WriteFailureAborts(t *testing.T) {
	boom := errors.New("disk full")
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(_ context.Context, id int64) (*loan.Loan, error) {
			return &loan.Loan{ID: id, Status: loan.StatusBranchManagerApproved}, nil
		},
		SetStatusFn: func(context.Context, int64, loan.Status) error { return boom },
		AddHistoryFn: func(context.Context, int64, int64, loan.History) error {
			t.Fatal("history must not be written after a failed status update")
			return nil
		},
	}
	uc := NewUsecase(loans, uowmock.Passthrough(uow.Repos{Loans: loans, Users: reviewerRepo()}))

	_, err := uc.Decide(context.Background(), DecideInput{LoanID: 1, Reviewer: Reviewer{ID: 2, Roles: []string{role.Backoffice}}, Approve: true})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestUsecase_Pending(t *testing.T) {
	var asked loan.Status
	loans := &loanmock.Repo{ListByStatusFn: func(_ context.Context, s loan.Status) ([]loan.Loan, error) {
		asked = s
		return []loan.Loan{{ID: 1, Status: s}}, nil
	}}
	uc := NewUsecase(loans, uowmock.New())

	if _, err := uc.Pending(context.Background(), Reviewer{Roles: []string{role.BranchManager}}); err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if asked != loan.StatusMarketingApproved {
		t.Fatalf("asked status %s", asked)
	}
	if _, err := uc.Pending(context.Background(), Reviewer{Roles: []string{role.Customer}}); !errors.Is(err, ErrNotReviewer) {
		t.Fatalf("err = %v", err)
	}
}

func TestUsecase_History_NotFound(t *testing.T) {
	loans := &loanmock.Repo{GetByIDFn: func(context.Context, int64) (*loan.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	uc := NewUsecase(loans, uowmock.New())
	if _, err := uc.History(context.Background(), 3); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
