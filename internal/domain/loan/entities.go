package loan

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrNotPending        = errors.New("loan is not pending for this role")
	ErrNoteRequired      = errors.New("note is required to reject a loan")
)

type Status string

const (
	StatusSubmitted             Status = "SUBMITTED"
	StatusMarketingApproved     Status = "MARKETING_APPROVED"
	StatusMarketingRejected     Status = "MARKETING_REJECTED"
	StatusBranchManagerApproved Status = "BRANCH_MANAGER_APPROVED"
	StatusBranchManagerRejected Status = "BRANCH_MANAGER_REJECTED"
	StatusDisbursed             Status = "DISBURSED"
	StatusRejected              Status = "REJECTED"
)

// Terminal reports whether no reviewer can act on the status any more.
func (s Status) Terminal() bool {
	switch s {
	case StatusMarketingRejected, StatusBranchManagerRejected, StatusDisbursed, StatusRejected:
		return true
	}
	return false
}

type Loan struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	CustomerNIK     string          `json:"customerNik,omitempty"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	CustomerAddress string          `json:"customerAddress,omitempty"`
	CustomerKTPPath string          `json:"customerKtpPath,omitempty"`
	ProductID       *int64          `json:"productId,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	BranchID        *int64          `json:"branchId,omitempty"`
	BranchName      string          `json:"branchName,omitempty"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	RequestedTenor  int             `json:"requestedTenor"`
	RequestedRate   decimal.Decimal `json:"requestedRate"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (l Loan) Key() int64 { return l.ID }

func (l Loan) SearchFields() []string {
	return []string{
		l.CustomerName,
		l.CustomerEmail,
		strconv.FormatInt(l.ID, 10),
		l.BranchName,
		l.ProductName,
		string(l.Status),
		l.RequestedAmount.String(),
	}
}

// History is one status change recorded against a loan.
type History struct {
	ID                   int64     `json:"id"`
	Status               Status    `json:"status"`
	Note                 string    `json:"note,omitempty"`
	ApprovedBy           string    `json:"approvedBy"`
	ApprovedByRole       string    `json:"approvedByRole"`
	ApprovedByBranchName string    `json:"approvedByBranchName,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (h History) Key() int64 { return h.ID }

// ApprovalHistoryItem is a past decision made by the current reviewer.
type ApprovalHistoryItem struct {
	ID             int64           `json:"id"`
	LoanID         int64           `json:"loanId"`
	CustomerName   string          `json:"customerName"`
	ProductName    string          `json:"productName"`
	LoanAmount     decimal.Decimal `json:"loanAmount"`
	BranchLocation string          `json:"branchLocation"`
	ActionTaken    Status          `json:"actionTaken"`
	Note           string          `json:"note,omitempty"`
	ActionDate     time.Time       `json:"actionDate"`
}

func (a ApprovalHistoryItem) Key() int64 { return a.ID }

func (a ApprovalHistoryItem) SearchFields() []string {
	return []string{a.CustomerName, a.ProductName, a.BranchLocation, string(a.ActionTaken), a.LoanAmount.String()}
}

type ApprovalRequest struct {
	Note string `json:"note,omitempty" validate:"max=500"`
}

// Document is a customer file fetched with the staff bearer token.
type Document struct {
	ContentType string
	Data        []byte
}
