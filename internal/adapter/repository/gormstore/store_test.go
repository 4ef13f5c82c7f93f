package gormstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/product"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/uow"
	"staff-portal/internal/domain/user"
)

// openTestDB opens a private in-memory database, migrated and seeded.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Seed(context.Background(), db, bcrypt.MinCost); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func staff(t *testing.T, users *UserRepository, email string) *user.User {
	t.Helper()
	u, _, err := users.GetCredentials(context.Background(), email)
	if err != nil {
		t.Fatalf("lookup %s: %v", email, err)
	}
	return u
}

func TestSeed_OnlyOnce(t *testing.T) {
	db := openTestDB(t)
	if err := Seed(context.Background(), db, bcrypt.MinCost); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var n int64
	db.Model(&roleRow{}).Count(&n)
	if n != 6 {
		t.Fatalf("roles = %d, want 6", n)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	u, hash, err := users.GetCredentials(ctx, "  MARKETING@lending.local ")
	if err != nil {
		t.Fatalf("GetCredentials: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(SeedPassword)) != nil {
		t.Fatal("seed password does not match")
	}
	if !reflect.DeepEqual(u.Roles, []string{role.Marketing}) || u.BranchName != "Jakarta" {
		t.Fatalf("user = %+v", u)
	}
	perms, err := users.Permissions(ctx, u.ID)
	if err != nil || !reflect.DeepEqual(perms, []string{"LOAN_REVIEW", "LOAN_VIEW"}) {
		t.Fatalf("Permissions = %v, %v", perms, err)
	}

	list, err := users.List(ctx)
	if err != nil || len(list) != 6 {
		t.Fatalf("List = %d users, %v", len(list), err)
	}

	if _, err := users.Create(ctx, user.CreateRequest{Name: "Dup", Email: "Marketing@lending.local", Password: "x", RoleID: 1}, "h"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("duplicate email err = %v", err)
	}
	if _, err := users.Create(ctx, user.CreateRequest{Name: "X", Email: "x@lending.local", RoleID: 999}, "h"); !errors.Is(err, role.ErrNotFound) {
		t.Fatalf("unknown role err = %v", err)
	}

	created, err := users.Create(ctx, user.CreateRequest{Name: " Nina ", Email: "Nina@lending.local", RoleID: 5}, "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Nina" || created.Email != "nina@lending.local" || !created.IsActive || !created.HasRole(role.Marketing) {
		t.Fatalf("created = %+v", created)
	}

	withRole, err := users.AddRole(ctx, created.ID, 3)
	if err != nil || !reflect.DeepEqual(withRole.Roles, []string{role.Backoffice, role.Marketing}) {
		t.Fatalf("AddRole = %+v, %v", withRole, err)
	}
	without, err := users.RemoveRole(ctx, created.ID, 5)
	if err != nil || !reflect.DeepEqual(without.Roles, []string{role.Backoffice}) {
		t.Fatalf("RemoveRole = %+v, %v", without, err)
	}

	inactive, err := users.SetActive(ctx, created.ID, false)
	if err != nil || inactive.IsActive {
		t.Fatalf("SetActive = %+v, %v", inactive, err)
	}
	if _, err := users.SetActive(ctx, 9999, true); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing user err = %v", err)
	}

	name := "Nina Putri"
	updated, err := users.Update(ctx, created.ID, user.UpdateRequest{Name: &name})
	if err != nil || updated.Name != name || updated.Email != "nina@lending.local" {
		t.Fatalf("Update = %+v, %v", updated, err)
	}
	taken := "admin@lending.local"
	if _, err := users.Update(ctx, created.ID, user.UpdateRequest{Email: &taken}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("update to taken email err = %v", err)
	}
}

func TestRoleRepository_SetPermissions(t *testing.T) {
	ctx := context.Background()
	roles := NewRoleRepository(openTestDB(t))

	perms, err := roles.ListPermissions(ctx)
	if err != nil || len(perms) != len(seedPermissions) {
		t.Fatalf("ListPermissions = %d, %v", len(perms), err)
	}

	r, err := roles.SetPermissions(ctx, 5, []int64{perms[0].ID, perms[0].ID, perms[2].ID})
	if err != nil {
		t.Fatalf("SetPermissions: %v", err)
	}
	if !reflect.DeepEqual(r.Permissions, []string{"ROLE_VIEW", "USER_VIEW"}) {
		t.Fatalf("permissions = %v", r.Permissions)
	}

	if _, err := roles.SetPermissions(ctx, 5, []int64{perms[1].ID, 4242}); !errors.Is(err, role.ErrPermissionNotFound) {
		t.Fatalf("unknown permission err = %v", err)
	}
	if got, _ := roles.GetByID(ctx, 5); len(got.Permissions) != 2 {
		t.Fatalf("failed replace must not change the set: %v", got.Permissions)
	}

	cleared, err := roles.SetPermissions(ctx, 5, nil)
	if err != nil || len(cleared.Permissions) != 0 {
		t.Fatalf("clear = %+v, %v", cleared, err)
	}
}

func TestBranchRepository(t *testing.T) {
	ctx := context.Background()
	branches := NewBranchRepository(openTestDB(t))

	if _, err := branches.Create(ctx, branch.Request{Code: "jkt", Location: "Jakarta Barat"}); !errors.Is(err, branch.ErrCodeTaken) {
		t.Fatalf("duplicate code err = %v", err)
	}
	if err := branches.Delete(ctx, 1); !errors.Is(err, branch.ErrInUse) {
		t.Fatalf("in-use delete err = %v", err)
	}

	b, err := branches.Create(ctx, branch.Request{Code: " sby ", Location: "Surabaya"})
	if err != nil || b.Code != "SBY" {
		t.Fatalf("Create = %+v, %v", b, err)
	}
	if _, err := branches.Update(ctx, b.ID, branch.Request{Code: "BDG", Location: "Surabaya"}); !errors.Is(err, branch.ErrCodeTaken) {
		t.Fatalf("update to taken code err = %v", err)
	}
	if err := branches.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := branches.Delete(ctx, b.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestProductRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	products := NewProductRepository(db)
	loans := NewLoanRepository(db)

	p, err := products.Create(ctx, product.Request{Name: "Griya", Amount: decimal.NewFromInt(50_000_000), Tenor: 60, InterestRate: decimal.RequireFromString("0.95")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := products.GetByID(ctx, p.ID)
	if err != nil || !got.Amount.Equal(decimal.NewFromInt(50_000_000)) || !got.InterestRate.Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	if err := products.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ := products.List(ctx)
	for _, it := range list {
		if it.ID == 1 {
			t.Fatal("soft-deleted product still listed")
		}
	}
	all, err := loans.List(ctx)
	if err != nil {
		t.Fatalf("loans: %v", err)
	}
	for _, l := range all {
		if l.ProductID != nil && *l.ProductID == 1 && l.ProductName != "KUR Mikro" {
			t.Fatalf("loan %d lost its product name", l.ID)
		}
	}
}

func TestLoanRepository_Queues(t *testing.T) {
	ctx := context.Background()
	loans := NewLoanRepository(openTestDB(t))

	queue, err := loans.ListByStatus(ctx, loan.StatusSubmitted)
	if err != nil || len(queue) != 2 {
		t.Fatalf("submitted = %d, %v", len(queue), err)
	}
	if queue[0].ID > queue[1].ID {
		t.Fatal("queue must be oldest first")
	}
	l := queue[0]
	if l.CustomerName == "" || l.CustomerNIK == "" || l.CustomerKTPPath == "" || l.BranchName == "" || l.ProductName == "" {
		t.Fatalf("loan refs missing: %+v", l)
	}
	h, err := loans.History(ctx, l.ID)
	if err != nil || len(h) != 1 || h[0].Status != loan.StatusSubmitted {
		t.Fatalf("history = %+v, %v", h, err)
	}
	if _, err := loans.GetByID(ctx, 9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing loan err = %v", err)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	loans := NewLoanRepository(db)
	tx := NewGormUoW(db)
	reviewer := staff(t, users, "marketing@lending.local")

	queue, _ := loans.ListByStatus(ctx, loan.StatusSubmitted)
	target := queue[0].ID

	err := tx.WithinLoanTx(ctx, target, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusSubmitted {
			t.Fatalf("locked loan status = %s", l.Status)
		}
		if err := r.Loans.SetStatus(ctx, l.ID, loan.StatusMarketingApproved); err != nil {
			return err
		}
		return r.Loans.AddHistory(ctx, l.ID, reviewer.ID, loan.History{
			Status:               loan.StatusMarketingApproved,
			Note:                 "complete",
			ApprovedBy:           reviewer.Name,
			ApprovedByRole:       role.Marketing,
			ApprovedByBranchName: reviewer.BranchName,
		})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, _ := loans.GetByID(ctx, target)
	if got.Status != loan.StatusMarketingApproved {
		t.Fatalf("status after commit = %s", got.Status)
	}
	mine, err := loans.ReviewerHistory(ctx, reviewer.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ReviewerHistory = %+v, %v", mine, err)
	}
	if mine[0].LoanID != target || mine[0].ActionTaken != loan.StatusMarketingApproved || mine[0].CustomerName == "" || mine[0].BranchLocation == "" {
		t.Fatalf("history item = %+v", mine[0])
	}

	boom := errors.New("boom")
	err = tx.WithinLoanTx(ctx, target, func(r uow.Repos, l *loan.Loan) error {
		if err := r.Loans.SetStatus(ctx, l.ID, loan.StatusBranchManagerApproved); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("rollback err = %v", err)
	}
	got, _ = loans.GetByID(ctx, target)
	if got.Status != loan.StatusMarketingApproved {
		t.Fatalf("status after rollback = %s", got.Status)
	}

	if err := tx.WithinLoanTx(ctx, 9999, func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing loan err = %v", err)
	}
}
