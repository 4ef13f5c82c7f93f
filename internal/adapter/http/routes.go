package http

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staff-portal/internal/adapter/middleware"
	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/product"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/usecase/account"
	"staff-portal/internal/usecase/review"
)

// Deps is everything the lending API routes need.
type Deps struct {
	Tokens  *middleware.Tokens
	Account *account.Usecase
	Review  *review.Usecase

	Users    user.Repository
	Roles    role.Repository
	Branches branch.Repository
	Products product.Repository
	Loans    loan.Repository

	// Idempotency is mounted on every write group when set.
	Idempotency echo.MiddlewareFunc
	// DB is pinged by /health when set.
	DB Pinger
	// DocumentRoot holds the uploads/ directory.
	DocumentRoot string
	Log          zerolog.Logger
}

var (
	adminRoles    = []string{role.SuperAdmin, role.Admin}
	backRoles     = []string{role.SuperAdmin, role.Admin, role.Backoffice}
	reviewerRoles = []string{role.SuperAdmin, role.Backoffice, role.BranchManager, role.Marketing}
	staffRoles    = []string{role.SuperAdmin, role.Admin, role.Backoffice, role.BranchManager, role.Marketing}
)

// Register mounts the lending API under /api.
func Register(e *echo.Echo, d Deps) {
	e.GET("/health", NewHealthHandler(d.DB, d.Log).Health)

	api := e.Group("/api")
	with := func(g *echo.Group) *echo.Group {
		if d.Idempotency != nil {
			g.Use(d.Idempotency)
		}
		return g
	}

	authH := NewAuthHandler(d.Account, d.Tokens, d.Log)
	public := with(api.Group("/auth"))
	public.POST("/login", authH.Login)

	// Auth runs before idempotency so replays are keyed per caller.
	p := with(api.Group("", d.Tokens.Auth()))
	p.POST("/auth/logout", authH.Logout)

	admin := middleware.RequireRole(adminRoles...)
	users := NewUserHandler(d.Users, d.Account, d.Log)
	p.GET("/admin/users", users.List, admin)
	p.POST("/admin/users", users.Create, admin)
	p.GET("/admin/users/:id", users.Get, admin)
	p.PUT("/admin/users/:id", users.Update, admin)
	p.PATCH("/admin/users/:id/status", users.SetStatus, admin)
	p.POST("/admin/users/:id/roles", users.AssignRole, admin)
	p.DELETE("/admin/users/:id/roles/:roleId", users.RemoveRole, admin)

	roles := NewRoleHandler(d.Roles, d.Log)
	p.GET("/admin/roles", roles.List, admin)
	p.PUT("/admin/roles/:id/permissions", roles.UpdatePermissions, admin)
	p.GET("/admin/permissions", roles.Permissions, admin)

	staff := middleware.RequireRole(staffRoles...)
	branches := NewBranchHandler(d.Branches, d.Log)
	p.GET("/branches", branches.List, staff)
	p.POST("/branches", branches.Create, admin)
	p.PUT("/branches/:id", branches.Update, admin)
	p.DELETE("/branches/:id", branches.Delete, admin)

	back := middleware.RequireRole(backRoles...)
	products := NewProductHandler(d.Products, d.Log)
	p.GET("/products", products.List, staff)
	p.GET("/products/:id", products.Get, staff)
	p.POST("/products", products.Create, back)
	p.PUT("/products/:id", products.Update, back)
	p.DELETE("/products/:id", products.Delete, back)

	loans := NewLoanHandler(d.Review, d.Loans, d.DocumentRoot, d.Log)
	p.GET("/admin/loans", loans.List, back)
	p.GET("/admin/loans/:id", loans.Get, back)
	p.GET("/admin/loans/:id/history", loans.History, back)
	p.GET("/uploads/*", loans.Document, staff)

	reviewers := middleware.RequireRole(reviewerRoles...)
	approvals := NewApprovalHandler(d.Review, d.Log)
	p.GET("/loans/:id", loans.Get, reviewers)
	p.GET("/loans/:id/history", loans.History, reviewers)
	p.GET("/approval/pending", approvals.Pending, reviewers)
	p.GET("/approval/my-history", approvals.MyHistory, reviewers)
	p.POST("/approval/:id/approve", approvals.Approve, reviewers)
	p.POST("/approval/:id/reject", approvals.Reject, reviewers)
}
