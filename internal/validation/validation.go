// Package validation wraps validator/v10 with the portal's custom rules and
// maps failures to field errors shaped like the lending API's.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"staff-portal/pkg/id"
)

// FieldError is one rejected field, in the API's `errors[]` shape.
type FieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage"`
}

// Error carries every field error of one payload.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string { return e.UserMessage() }

// UserMessage is "Validation failed: a, b".
func (e *Error) UserMessage() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.DefaultMessage)
	}
	return "Validation failed: " + strings.Join(msgs, ", ")
}

type Validator struct{ v *validator.Validate }

func New() *Validator {
	v := validator.New()

	// report json names, not Go names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimals are validated as floats so gt/gte work on money
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	// non-blank after trimming
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

// Validate satisfies echo.Validator.
func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// Check validates i and returns an *Error on failure.
func (cv *Validator) Check(i any) error {
	if err := cv.v.Struct(i); err != nil {
		return &Error{Fields: ToFieldErrors(err)}
	}
	return nil
}

// ToFieldErrors maps validator.ValidationErrors to readable field errors.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", DefaultMessage: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		var msg string
		switch e.Tag() {
		case "required", "notblank":
			msg = field + " is required"
		case "email":
			msg = field + " must be a valid email"
		case "hex32":
			msg = field + " must be 32-char lowercase hex"
		case "min":
			msg = field + " must be at least " + e.Param() + " characters"
		case "max":
			msg = field + " must be at most " + e.Param() + " characters"
		case "gt":
			msg = field + " must be greater than " + e.Param()
		case "gte":
			msg = field + " must be greater than or equal to " + e.Param()
		case "lte":
			msg = field + " must be less than or equal to " + e.Param()
		default:
			msg = field + " " + e.Tag() + " validation failed"
		}
		out = append(out, FieldError{Field: field, DefaultMessage: msg})
	}
	return out
}
