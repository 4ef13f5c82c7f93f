package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"staff-portal/internal/domain/product"
)

type ProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) *ProductRepository { return &ProductRepository{db: db} }

var _ product.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]product.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *ProductRepository) Create(ctx context.Context, req product.Request) (*product.Product, error) {
	row := productRow{
		Name:         strings.TrimSpace(req.Name),
		Amount:       req.Amount,
		Tenor:        req.Tenor,
		InterestRate: req.InterestRate,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, req product.Request) (*product.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	row.Name = strings.TrimSpace(req.Name)
	row.Amount = req.Amount
	row.Tenor = req.Tenor
	row.InterestRate = req.InterestRate
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

// Delete is soft, so loans keep showing the product they were taken on.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
