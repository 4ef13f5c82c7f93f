package gormstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

var seedPermissions = []string{
	"USER_VIEW", "USER_MANAGE",
	"ROLE_VIEW", "ROLE_MANAGE",
	"BRANCH_VIEW", "BRANCH_MANAGE",
	"PRODUCT_VIEW", "PRODUCT_MANAGE",
	"LOAN_VIEW", "LOAN_REVIEW", "LOAN_DISBURSE",
}

var seedRoles = map[string][]string{
	role.SuperAdmin:    seedPermissions,
	role.Admin:         {"USER_VIEW", "USER_MANAGE", "ROLE_VIEW", "BRANCH_VIEW", "BRANCH_MANAGE", "PRODUCT_VIEW", "PRODUCT_MANAGE", "LOAN_VIEW"},
	role.Backoffice:    {"LOAN_VIEW", "LOAN_REVIEW", "LOAN_DISBURSE"},
	role.BranchManager: {"LOAN_VIEW", "LOAN_REVIEW"},
	role.Marketing:     {"LOAN_VIEW", "LOAN_REVIEW"},
	role.Customer:      {},
}

// Seed fills an empty database with demo staff, customers and loans at
// every stage of review. It does nothing once roles exist.
func Seed(ctx context.Context, db *gorm.DB, cost int) error {
	var n int64
	if err := db.WithContext(ctx).Model(&roleRow{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), cost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := map[string]permissionRow{}
		for _, name := range seedPermissions {
			p := permissionRow{Name: name}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			perms[name] = p
		}
		roles := map[string]roleRow{}
		for _, name := range []string{role.SuperAdmin, role.Admin, role.Backoffice, role.BranchManager, role.Marketing, role.Customer} {
			r := roleRow{Name: name}
			for _, p := range seedRoles[name] {
				r.Permissions = append(r.Permissions, perms[p])
			}
			if err := tx.Omit("Permissions.*").Create(&r).Error; err != nil {
				return err
			}
			roles[name] = r
		}

		branches := []branchRow{{Code: "JKT", Location: "Jakarta"}, {Code: "BDG", Location: "Bandung"}}
		if err := tx.Create(&branches).Error; err != nil {
			return err
		}
		jkt, bdg := branches[0].ID, branches[1].ID

		staff := []struct {
			name, email, role string
			branch            *int64
		}{
			{"Super Admin", "superadmin@lending.local", role.SuperAdmin, nil},
			{"Admin", "admin@lending.local", role.Admin, nil},
			{"Maya Marketing", "marketing@lending.local", role.Marketing, &jkt},
			{"Bima Manager", "manager@lending.local", role.BranchManager, &jkt},
			{"Sari Backoffice", "backoffice@lending.local", role.Backoffice, nil},
			{"Rudi Marketing", "marketing.bdg@lending.local", role.Marketing, &bdg},
		}
		for _, s := range staff {
			u := userRow{
				Name: s.name, Email: s.email, PasswordHash: string(hash),
				UserType: string(user.TypeInternal), IsActive: true, BranchID: s.branch,
				Roles: []roleRow{roles[s.role]},
			}
			if err := tx.Omit("Roles.*").Create(&u).Error; err != nil {
				return err
			}
		}

		products := []productRow{
			{Name: "KUR Mikro", Amount: decimal.NewFromInt(10_000_000), Tenor: 12, InterestRate: decimal.RequireFromString("1.50")},
			{Name: "Modal Usaha", Amount: decimal.NewFromInt(25_000_000), Tenor: 24, InterestRate: decimal.RequireFromString("2.25")},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		statuses := []loan.Status{
			loan.StatusSubmitted, loan.StatusSubmitted, loan.StatusMarketingApproved,
			loan.StatusBranchManagerApproved, loan.StatusDisbursed, loan.StatusMarketingRejected,
		}
		for i, st := range statuses {
			c := userRow{
				Name:         fmt.Sprintf("Customer %d", i+1),
				Email:        fmt.Sprintf("customer%d@mail.local", i+1),
				PasswordHash: string(hash),
				UserType:     string(user.TypeCustomer),
				IsActive:     true,
				NIK:          fmt.Sprintf("32010101010100%02d", i+1),
				Phone:        fmt.Sprintf("08120000%04d", i+1),
				Address:      "Jl. Merdeka No. " + fmt.Sprint(i+1),
				KTPPath:      fmt.Sprintf("uploads/ktp/customer%d.jpg", i+1),
				Roles:        []roleRow{roles[role.Customer]},
			}
			if err := tx.Omit("Roles.*").Create(&c).Error; err != nil {
				return err
			}
			p := products[i%len(products)]
			branchID := jkt
			if i%3 == 2 {
				branchID = bdg
			}
			l := loanRow{
				CustomerID:      c.ID,
				ProductID:       &p.ID,
				BranchID:        &branchID,
				RequestedAmount: p.Amount,
				RequestedTenor:  p.Tenor,
				RequestedRate:   p.InterestRate,
				Status:          string(st),
			}
			if err := tx.Create(&l).Error; err != nil {
				return err
			}
			h := historyRow{LoanID: l.ID, ReviewerID: c.ID, ReviewerName: c.Name, ReviewerRole: role.Customer, Status: string(loan.StatusSubmitted)}
			if err := tx.Create(&h).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
