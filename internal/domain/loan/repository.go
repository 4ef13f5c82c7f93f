package loan

import "context"

type Repository interface {
	List(ctx context.Context) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	GetByID(ctx context.Context, id int64) (*Loan, error)
	// GetByIDForUpdate locks the row inside a transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*Loan, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	History(ctx context.Context, id int64) ([]History, error)
	AddHistory(ctx context.Context, loanID int64, reviewerID int64, h History) error
	ReviewerHistory(ctx context.Context, reviewerID int64) ([]ApprovalHistoryItem, error)
}
