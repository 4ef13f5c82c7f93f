package gormstore

import (
	"context"

	"gorm.io/gorm"

	"staff-portal/internal/domain/role"
)

type RoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) *RoleRepository { return &RoleRepository{db: db} }

var _ role.Repository = (*RoleRepository)(nil)

func (r *RoleRepository) withPermissions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Permissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("permissions.name")
	})
}

func (r *RoleRepository) List(ctx context.Context) ([]role.Role, error) {
	var rows []roleRow
	if err := r.withPermissions(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]role.Role, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	var row roleRow
	if err := r.withPermissions(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	out := row.toDomain()
	return &out, nil
}

func (r *RoleRepository) ListPermissions(ctx context.Context) ([]role.Permission, error) {
	var rows []permissionRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]role.Permission, 0, len(rows))
	for _, p := range rows {
		out = append(out, role.Permission{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (r *RoleRepository) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) (*role.Role, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row roleRow
		if err := tx.First(&row, roleID).Error; err != nil {
			return err
		}
		unique := map[int64]struct{}{}
		for _, id := range permissionIDs {
			unique[id] = struct{}{}
		}
		var perms []permissionRow
		if len(unique) > 0 {
			if err := tx.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
				return err
			}
			if len(perms) != len(unique) {
				return role.ErrPermissionNotFound
			}
		}
		assoc := tx.Model(&row).Omit("Permissions.*").Association("Permissions")
		if len(perms) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(perms)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, roleID)
}
