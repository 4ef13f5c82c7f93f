package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"staff-portal/internal/domain/branch"
)

type BranchRepository struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) *BranchRepository { return &BranchRepository{db: db} }

var _ branch.Repository = (*BranchRepository)(nil)

func (r *BranchRepository) List(ctx context.Context) ([]branch.Branch, error) {
	var rows []branchRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]branch.Branch, 0, len(rows))
	for _, b := range rows {
		out = append(out, b.toDomain())
	}
	return out, nil
}

func (r *BranchRepository) GetByID(ctx context.Context, id int64) (*branch.Branch, error) {
	var row branchRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *BranchRepository) codeTaken(ctx context.Context, code string, exceptID int64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&branchRow{}).Where("code = ? AND id <> ?", code, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return branch.ErrCodeTaken
	}
	return nil
}

func (r *BranchRepository) Create(ctx context.Context, req branch.Request) (*branch.Branch, error) {
	row := branchRow{Code: strings.ToUpper(strings.TrimSpace(req.Code)), Location: strings.TrimSpace(req.Location)}
	if err := r.codeTaken(ctx, row.Code, 0); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *BranchRepository) Update(ctx context.Context, id int64, req branch.Request) (*branch.Branch, error) {
	var row branchRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	row.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	row.Location = strings.TrimSpace(req.Location)
	if err := r.codeTaken(ctx, row.Code, id); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

// Delete refuses to orphan staff or loans still pointing at the branch.
func (r *BranchRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users, loans int64
		if err := tx.Model(&userRow{}).Where("branch_id = ?", id).Count(&users).Error; err != nil {
			return err
		}
		if err := tx.Model(&loanRow{}).Where("branch_id = ?", id).Count(&loans).Error; err != nil {
			return err
		}
		if users+loans > 0 {
			return branch.ErrInUse
		}
		res := tx.Delete(&branchRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
