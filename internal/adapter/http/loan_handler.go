package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staff-portal/internal/adapter/middleware"
	"staff-portal/internal/domain/loan"
	"staff-portal/internal/usecase/review"
)

// LoanHandler serves loan reads for reviewers and back office.
type LoanHandler struct {
	review  *review.Usecase
	loans   loan.Repository
	docRoot string
	log     zerolog.Logger
}

func NewLoanHandler(uc *review.Usecase, loans loan.Repository, docRoot string, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{review: uc, loans: loans, docRoot: docRoot, log: log}
}

func (h *LoanHandler) List(c echo.Context) error {
	out, err := h.loans.List(c.Request().Context())
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *LoanHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.review.Get(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *LoanHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.review.History(c.Request().Context(), id)
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

// Document streams an uploaded customer file such as a KTP scan.
func (h *LoanHandler) Document(c echo.Context) error {
	rel := filepath.Clean("/" + c.Param("*"))
	if rel == "/" || strings.Contains(rel, "\x00") {
		return fail(c, http.StatusNotFound, "Document not found", nil)
	}
	path := filepath.Join(h.docRoot, "uploads", rel)
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return fail(c, http.StatusNotFound, "Document not found", nil)
	}
	return c.File(path)
}

// ApprovalHandler is the reviewer workplace.
type ApprovalHandler struct {
	review *review.Usecase
	log    zerolog.Logger
}

func NewApprovalHandler(uc *review.Usecase, log zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{review: uc, log: log}
}

func reviewer(c echo.Context) review.Reviewer {
	claims, found := middleware.ClaimsFrom(c)
	if !found {
		return review.Reviewer{}
	}
	return review.Reviewer{ID: claims.UserID(), Roles: claims.Roles}
}

func (h *ApprovalHandler) Pending(c echo.Context) error {
	out, err := h.review.Pending(c.Request().Context(), reviewer(c))
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *ApprovalHandler) MyHistory(c echo.Context) error {
	out, err := h.review.MyHistory(c.Request().Context(), reviewer(c))
	if err != nil {
		return respond(c, h.log, err)
	}
	return ok(c, http.StatusOK, out, "")
}

func (h *ApprovalHandler) Approve(c echo.Context) error { return h.decide(c, true) }

func (h *ApprovalHandler) Reject(c echo.Context) error { return h.decide(c, false) }

func (h *ApprovalHandler) decide(c echo.Context, approve bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respond(c, h.log, err)
	}
	var req loan.ApprovalRequest
	if err := bind(c, &req); err != nil {
		return respond(c, h.log, err)
	}
	out, err := h.review.Decide(c.Request().Context(), review.DecideInput{
		LoanID:   id,
		Reviewer: reviewer(c),
		Approve:  approve,
		Note:     req.Note,
	})
	if err != nil {
		return respond(c, h.log, err)
	}
	msg := "Loan approved"
	if !approve {
		msg = "Loan rejected"
	}
	h.log.Info().Int64("loan_id", id).Str("status", string(out.Status)).Msg(strings.ToLower(msg))
	return ok(c, http.StatusOK, out, msg)
}
