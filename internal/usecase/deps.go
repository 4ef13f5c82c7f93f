// Package usecase holds what every portal facade is built from.
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"staff-portal/internal/prompt"
	"staff-portal/internal/validation"
	"staff-portal/internal/viewstate"
)

// Deps is shared by the facades. The app container fills it once.
type Deps struct {
	Read    viewstate.Policy
	Write   viewstate.Policy
	SubRead viewstate.Policy

	Debounce time.Duration
	// WriteContext marks one logical write, see viewstate.Options.
	WriteContext func(context.Context) context.Context
	// NotFound spots writes whose target is gone, see viewstate.Options.
	NotFound func(error) bool

	Confirm   prompt.Confirmer
	Validator *validation.Validator
	Log       zerolog.Logger
	Metrics   *viewstate.Metrics
}

func (d Deps) Options(singular, plural string) viewstate.Options {
	return viewstate.Options{
		Singular:     singular,
		Plural:       plural,
		Debounce:     d.Debounce,
		Read:         d.Read,
		Write:        d.Write,
		WriteContext: d.WriteContext,
		NotFound:     d.NotFound,
		Confirm:      d.Confirm,
		Log:          d.Log,
		Metrics:      d.Metrics,
	}
}

// Check validates a request payload before it is sent. It returns the
// operator message and false when the payload is rejected.
func (d Deps) Check(req any) (string, bool) {
	if d.Validator == nil {
		return "", true
	}
	if err := d.Validator.Check(req); err != nil {
		return viewstate.Message(err, "Invalid input"), false
	}
	return "", true
}
