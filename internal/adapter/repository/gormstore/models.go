// Package gormstore persists the lending API's records with gorm. The rows
// stay portable so the same schema migrates on sqlite and mysql.
package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/product"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
)

type permissionRow struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"size:100;uniqueIndex;not null;column:name"`
}

func (permissionRow) TableName() string { return "permissions" }

type roleRow struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"size:50;uniqueIndex;not null;column:name"`
	Permissions []permissionRow `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

func (roleRow) TableName() string { return "roles" }

type branchRow struct {
	ID       int64  `gorm:"primaryKey;column:id"`
	Code     string `gorm:"size:20;uniqueIndex;not null;column:code"`
	Location string `gorm:"size:150;not null;column:location"`
}

func (branchRow) TableName() string { return "branches" }

type userRow struct {
	ID           int64      `gorm:"primaryKey;column:id"`
	Name         string     `gorm:"size:100;not null;column:name"`
	Email        string     `gorm:"size:150;uniqueIndex;not null;column:email"`
	PasswordHash string     `gorm:"size:100;not null;column:password_hash"`
	UserType     string     `gorm:"size:20;not null;column:user_type"`
	IsActive     bool       `gorm:"not null;column:is_active"`
	BranchID     *int64     `gorm:"column:branch_id;index"`
	Branch       *branchRow `gorm:"foreignKey:BranchID"`
	Roles        []roleRow  `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	// customer profile, empty for staff
	NIK       string    `gorm:"size:16;column:nik"`
	Phone     string    `gorm:"size:20;column:phone"`
	Address   string    `gorm:"size:255;column:address"`
	KTPPath   string    `gorm:"size:255;column:ktp_path"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

type productRow struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"size:100;not null;column:name"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null;column:amount"`
	Tenor        int             `gorm:"not null;column:tenor"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null;column:interest_rate"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (productRow) TableName() string { return "products" }

type loanRow struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	CustomerID      int64           `gorm:"not null;column:customer_id;index"`
	Customer        userRow         `gorm:"foreignKey:CustomerID"`
	ProductID       *int64          `gorm:"column:product_id"`
	Product         *productRow     `gorm:"foreignKey:ProductID"`
	BranchID        *int64          `gorm:"column:branch_id;index"`
	Branch          *branchRow      `gorm:"foreignKey:BranchID"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;column:requested_amount"`
	RequestedTenor  int             `gorm:"not null;column:requested_tenor"`
	RequestedRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;column:requested_rate"`
	Status          string          `gorm:"size:30;not null;column:status;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (loanRow) TableName() string { return "loans" }

// historyRow snapshots the reviewer so later profile edits do not rewrite
// past decisions.
type historyRow struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	LoanID         int64     `gorm:"not null;column:loan_id;index"`
	Loan           loanRow   `gorm:"foreignKey:LoanID"`
	ReviewerID     int64     `gorm:"not null;column:reviewer_id;index"`
	ReviewerName   string    `gorm:"size:100;column:reviewer_name"`
	ReviewerRole   string    `gorm:"size:50;column:reviewer_role"`
	ReviewerBranch string    `gorm:"size:150;column:reviewer_branch"`
	Status         string    `gorm:"size:30;not null;column:status"`
	Note           string    `gorm:"size:500;column:note"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (historyRow) TableName() string { return "loan_histories" }

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&permissionRow{}, &roleRow{}, &branchRow{}, &userRow{}, &productRow{}, &loanRow{}, &historyRow{})
}

// unscoped lets preloads resolve soft-deleted products on old loans
func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func (r roleRow) toDomain() role.Role {
	perms := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, p.Name)
	}
	return role.Role{ID: r.ID, Name: r.Name, Permissions: perms}
}

func (b branchRow) toDomain() branch.Branch {
	return branch.Branch{ID: b.ID, Code: b.Code, Location: b.Location}
}

func (u userRow) toDomain() user.User {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	out := user.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		UserType: user.Type(u.UserType),
		IsActive: u.IsActive,
		Roles:    roles,
		BranchID: u.BranchID,
	}
	if u.Branch != nil {
		out.BranchName = u.Branch.Location
	}
	return out
}

func (p productRow) toDomain() product.Product {
	return product.Product{ID: p.ID, Name: p.Name, Amount: p.Amount, Tenor: p.Tenor, InterestRate: p.InterestRate}
}

func (l loanRow) toDomain() loan.Loan {
	out := loan.Loan{
		ID:              l.ID,
		CustomerID:      l.CustomerID,
		CustomerName:    l.Customer.Name,
		CustomerEmail:   l.Customer.Email,
		CustomerNIK:     l.Customer.NIK,
		CustomerPhone:   l.Customer.Phone,
		CustomerAddress: l.Customer.Address,
		CustomerKTPPath: l.Customer.KTPPath,
		ProductID:       l.ProductID,
		BranchID:        l.BranchID,
		RequestedAmount: l.RequestedAmount,
		RequestedTenor:  l.RequestedTenor,
		RequestedRate:   l.RequestedRate,
		Status:          loan.Status(l.Status),
		CreatedAt:       l.CreatedAt,
	}
	if l.Product != nil {
		out.ProductName = l.Product.Name
	}
	if l.Branch != nil {
		out.BranchName = l.Branch.Location
	}
	return out
}

func (h historyRow) toDomain() loan.History {
	return loan.History{
		ID:                   h.ID,
		Status:               loan.Status(h.Status),
		Note:                 h.Note,
		ApprovedBy:           h.ReviewerName,
		ApprovedByRole:       h.ReviewerRole,
		ApprovedByBranchName: h.ReviewerBranch,
		CreatedAt:            h.CreatedAt,
	}
}
