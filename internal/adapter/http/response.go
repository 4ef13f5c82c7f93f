package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/loan"
	"staff-portal/internal/domain/product"
	"staff-portal/internal/domain/role"
	"staff-portal/internal/domain/user"
	"staff-portal/internal/usecase/account"
	"staff-portal/internal/usecase/review"
	"staff-portal/internal/validation"
)

var (
	errBadBody = errors.New("invalid request body")
	errBadID   = errors.New("invalid id")
)

// envelope is the body of every JSON answer, success or not.
type envelope struct {
	Success   bool                    `json:"success"`
	Data      any                     `json:"data,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Errors    []validation.FieldError `json:"errors,omitempty"`
	Timestamp string                  `json:"timestamp"`
}

func stamp() string { return time.Now().UTC().Format(time.RFC3339) }

func ok(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, envelope{Success: true, Data: data, Message: msg, Timestamp: stamp()})
}

func fail(c echo.Context, status int, msg string, fields []validation.FieldError) error {
	return c.JSON(status, envelope{Message: msg, Errors: fields, Timestamp: stamp()})
}

// bind decodes and validates the body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errBadBody
	}
	if err := c.Validate(req); err != nil {
		return &validation.Error{Fields: validation.ToFieldErrors(err)}
	}
	return nil
}

func pathID(c echo.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, errBadID
	}
	return n, nil
}

// sentence capitalises an error text for display.
func sentence(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// statusOf maps domain errors to HTTP status codes. Unknown errors are 500.
func statusOf(err error) int {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve),
		errors.Is(err, errBadBody),
		errors.Is(err, errBadID),
		errors.Is(err, loan.ErrNotPending),
		errors.Is(err, loan.ErrNoteRequired),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, role.ErrPermissionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, review.ErrNotReviewer),
		errors.Is(err, user.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, role.ErrNotFound),
		errors.Is(err, branch.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, branch.ErrCodeTaken),
		errors.Is(err, branch.ErrInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respond writes err as a failure body.
func respond(c echo.Context, log zerolog.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return fail(c, status, "Internal server error", nil)
	}
	var ve *validation.Error
	if errors.As(err, &ve) {
		return fail(c, status, "Validation failed", ve.Fields)
	}
	return fail(c, status, sentence(err), nil)
}
