package gormstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Roles", func(db *gorm.DB) *gorm.DB {
		return db.Order("roles.id")
	}).Preload("Branch")
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := r.withRefs(ctx).Where("user_type = ?", string(user.TypeInternal)).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userRow
	if err := r.withRefs(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	u := row.toDomain()
	return &u, nil
}

func (r *UserRepository) GetCredentials(ctx context.Context, email string) (*user.User, string, error) {
	var row userRow
	err := r.withRefs(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&row).Error
	if err != nil {
		return nil, "", err
	}
	u := row.toDomain()
	return &u, row.PasswordHash, nil
}

func (r *UserRepository) emailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRow{}).
		Where("email = ? AND id <> ?", strings.ToLower(email), exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) findRole(ctx context.Context, id int64) (*roleRow, error) {
	var rr roleRow
	if err := r.db.WithContext(ctx).First(&rr, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	return &rr, nil
}

// Create stores a staff member holding one initial role.
func (r *UserRepository) Create(ctx context.Context, req user.CreateRequest, passwordHash string) (*user.User, error) {
	taken, err := r.emailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrEmailTaken
	}
	rr, err := r.findRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	row := userRow{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		UserType:     string(user.TypeInternal),
		IsActive:     true,
		BranchID:     req.BranchID,
		Roles:        []roleRow{*rr},
	}
	if err := r.db.WithContext(ctx).Omit("Roles.*").Create(&row).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, row.ID)
}

func (r *UserRepository) Update(ctx context.Context, id int64, req user.UpdateRequest) (*user.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := r.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, user.ErrEmailTaken
		}
		changes["email"] = email
	}
	if req.BranchID != nil {
		changes["branch_id"] = *req.BranchID
	}
	if len(changes) > 0 {
		if err := r.db.WithContext(ctx).Model(&row).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) (*user.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	// mysql reports zero affected rows when the flag is unchanged
	if err := r.db.WithContext(ctx).Model(&row).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) AddRole(ctx context.Context, userID, roleID int64) (*user.User, error) {
	return r.changeRoles(ctx, userID, roleID, func(a *gorm.Association, rr *roleRow) error {
		return a.Append(rr)
	})
}

func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID int64) (*user.User, error) {
	return r.changeRoles(ctx, userID, roleID, func(a *gorm.Association, rr *roleRow) error {
		return a.Delete(rr)
	})
}

func (r *UserRepository) changeRoles(ctx context.Context, userID, roleID int64, apply func(*gorm.Association, *roleRow) error) (*user.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, userID).Error; err != nil {
		return nil, err
	}
	rr, err := r.findRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := apply(r.db.WithContext(ctx).Model(&row).Omit("Roles.*").Association("Roles"), rr); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

// Permissions lists the distinct permission names granted through the user's roles.
func (r *UserRepository) Permissions(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id").
		Joins("JOIN user_roles ur ON ur.role_id = rp.role_id").
		Where("ur.user_id = ?", userID).
		Distinct().
		Order("p.name").
		Pluck("p.name", &names).Error
	return names, err
}
