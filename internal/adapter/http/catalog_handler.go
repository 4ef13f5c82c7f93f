package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/product"
)

type BranchHandler struct {
	branches branch.Repository
	log      zerolog.Logger
}

func NewBranchHandler(branches branch.Repository, log zerolog.Logger) *BranchHandler {
	return &BranchHandler{branches: branches, log: log}
}

func (h *BranchHandler) List(c echo.Context) error {
	out, err := h.branches.List(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *BranchHandler) Create(c echo.Context) error {
	var req branch.Request
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.branches.Create(c.Request().Context(), req)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusCreated, out, "Branch created")
}

func (h *BranchHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req branch.Request
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.branches.Update(c.Request().Context(), id, req)
	if err != nil {
		return respond(c, h.log, notFound(err, branch.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "Branch updated")
}

func (h *BranchHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	if err := h.branches.Delete(c.Request().Context(), id); err != nil {
		return respond(c, h.log, notFound(err, branch.ErrNotFound))
	}
	return ok(c, http.StatusOK, nil, "Branch deleted")
}

type ProductHandler struct {
	products product.Repository
	log      zerolog.Logger
}

func NewProductHandler(products product.Repository, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

func (h *ProductHandler) List(c echo.Context) error {
	out, err := h.products.List(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.log, notFound(err, product.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req product.Request
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusCreated, out, "Product created")
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req product.Request
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.products.Update(c.Request().Context(), id, req)
	if err != nil {
		return respond(c, h.log, notFound(err, product.ErrNotFound))
	}
	return ok(c, http.StatusOK, out, "Product updated")
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return respond(c, h.log, notFound(err, product.ErrNotFound))
	}
	return ok(c, http.StatusOK, nil, "Product deleted")
}
