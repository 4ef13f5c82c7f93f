package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// FieldError is one entry of a failure body's errors[].
type FieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage,omitempty"`
	Message        string `json:"message,omitempty"`
}

func (f FieldError) text() string {
	if f.DefaultMessage != "" {
		return f.DefaultMessage
	}
	return f.Message
}

// Error is a non-2xx answer from the lending API.
type Error struct {
	Status  int
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// UserMessage is the server message followed by its field errors, "msg: d1, d2".
func (e *Error) UserMessage() string {
	details := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if t := d.text(); t != "" {
			details = append(details, t)
		}
	}
	switch {
	case len(details) == 0:
		return e.Message
	case e.Message == "":
		return strings.Join(details, ", ")
	}
	return e.Message + ": " + strings.Join(details, ", ")
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Retryable reports whether err is transient: a 5xx, a 429, or a transport
// failure. Client errors and cancellations are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status >= 500 || ae.Status == http.StatusTooManyRequests
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return false
	}
	return true
}

// DecodeError means a 2xx body could not be read as the expected envelope.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "api: decoding response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
