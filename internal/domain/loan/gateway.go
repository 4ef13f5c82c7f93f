package loan

import "context"

// ApprovalGateway is the reviewer workplace API.
type ApprovalGateway interface {
	Pending(ctx context.Context) ([]Loan, error)
	MyHistory(ctx context.Context) ([]ApprovalHistoryItem, error)
	Get(ctx context.Context, id int64) (*Loan, error)
	History(ctx context.Context, id int64) ([]History, error)
	Approve(ctx context.Context, id int64, req ApprovalRequest) (*Loan, error)
	Reject(ctx context.Context, id int64, req ApprovalRequest) (*Loan, error)
}

// AdminGateway is the back-office loan oversight API.
type AdminGateway interface {
	List(ctx context.Context) ([]Loan, error)
	Get(ctx context.Context, id int64) (*Loan, error)
	History(ctx context.Context, id int64) ([]History, error)
	Download(ctx context.Context, path string) (*Document, error)
}
