package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/usecase/account"
)

// notFound swaps the storage miss for the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

type UserHandler struct {
	users user.Repository
	acct  *account.Usecase
	log   zerolog.Logger
}

func NewUserHandler(users user.Repository, acct *account.Usecase, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, acct: acct, log: log}
}

func (h *UserHandler) List(c echo.Context) error {
	out, err := h.users.List(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.log, notFound(err, user.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *UserHandler) Create(c echo.Context) error {
	var req user.CreateRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.acct.CreateUser(c.Request().Context(), req)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusCreated, out, "User created")
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req user.UpdateRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.users.Update(c.Request().Context(), id, req)
	if err != nil {
		return respond(c, h.log, notFound(err, user.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "User updated")
}

func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req user.StatusRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.users.SetActive(c.Request().Context(), id, req.IsActive)
	if err != nil {
		return respond(c, h.log, notFound(err, user.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "User status updated")
}

func (h *UserHandler) AssignRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req user.AssignRoleRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.users.AddRole(c.Request().Context(), id, req.RoleID)
	if err != nil {
		return respond(c, h.log, notFound(err, user.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "Role assigned")
}

func (h *UserHandler) RemoveRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.users.RemoveRole(c.Request().Context(), id, roleID)
	if err != nil {
		return respond(c, h.log, notFound(err, user.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "Role removed")
}

type RoleHandler struct {
	roles role.Repository
	log   zerolog.Logger
}

func NewRoleHandler(roles role.Repository, log zerolog.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, log: log}
}

func (h *RoleHandler) List(c echo.Context) error {
	out, err := h.roles.List(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *RoleHandler) Permissions(c echo.Context) error {
	out, err := h.roles.ListPermissions(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *RoleHandler) UpdatePermissions(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req role.UpdatePermissionsRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.roles.SetPermissions(c.Request().Context(), id, req.PermissionIDs)
	if err != nil {
		return respond(c, h.log, notFound(err, role.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "Permissions updated")
}
