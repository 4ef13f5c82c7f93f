package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staff-portal/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

var _ loan.Repository = (*LoanRepository)(nil)

func (r *LoanRepository) withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Product", unscoped).Preload("Branch")
}

func (r *LoanRepository) find(db *gorm.DB) ([]loan.Loan, error) {
	var rows []loanRow
	if err := r.withRefs(db).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]loan.Loan, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// List returns every application, newest first.
func (r *LoanRepository) List(ctx context.Context) ([]loan.Loan, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at DESC, id DESC"))
}

// ListByStatus returns a review queue, oldest first.
func (r *LoanRepository) ListByStatus(ctx context.Context, status loan.Status) ([]loan.Loan, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at, id"))
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*loan.Loan, error) {
	var row loanRow
	if err := r.withRefs(r.db.WithContext(ctx)).First(&row, id).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

// GetByIDForUpdate takes a row lock. sqlite has no row locks; its writers
// are already serialized per database.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*loan.Loan, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var locked loanRow
	if err := db.Select("id").First(&locked, id).Error; err != nil {
		return nil, err
	}
	var row loanRow
	if err := r.withRefs(r.db.WithContext(ctx)).First(&row, locked.ID).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *LoanRepository) SetStatus(ctx context.Context, id int64, status loan.Status) error {
	res := r.db.WithContext(ctx).Model(&loanRow{ID: id}).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LoanRepository) History(ctx context.Context, id int64) ([]loan.History, error) {
	var rows []historyRow
	if err := r.db.WithContext(ctx).Where("loan_id = ?", id).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]loan.History, 0, len(rows))
	for _, h := range rows {
		out = append(out, h.toDomain())
	}
	return out, nil
}

func (r *LoanRepository) AddHistory(ctx context.Context, loanID, reviewerID int64, h loan.History) error {
	row := historyRow{
		LoanID:         loanID,
		ReviewerID:     reviewerID,
		ReviewerName:   h.ApprovedBy,
		ReviewerRole:   h.ApprovedByRole,
		ReviewerBranch: h.ApprovedByBranchName,
		Status:         string(h.Status),
		Note:           h.Note,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ReviewerHistory lists the decisions reviewerID made, newest first.
func (r *LoanRepository) ReviewerHistory(ctx context.Context, reviewerID int64) ([]loan.ApprovalHistoryItem, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Preload("Loan.Customer").
		Preload("Loan.Product", unscoped).
		Preload("Loan.Branch").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]loan.ApprovalHistoryItem, 0, len(rows))
	for _, h := range rows {
		l := h.Loan.toDomain()
		out = append(out, loan.ApprovalHistoryItem{
			ID:             h.ID,
			LoanID:         h.LoanID,
			CustomerName:   l.CustomerName,
			ProductName:    l.ProductName,
			LoanAmount:     l.RequestedAmount,
			BranchLocation: l.BranchName,
			ActionTaken:    loan.Status(h.Status),
			Note:           h.Note,
			ActionDate:     h.CreatedAt,
		})
	}
	return out, nil
}
