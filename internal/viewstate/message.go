package viewstate

import "errors"

// userMessager is implemented by errors that carry text meant for the operator.
type userMessager interface {
	UserMessage() string
}

// Message returns the operator-facing text for err, or fallback.
func Message(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if m := um.UserMessage(); m != "" {
			return m
		}
	}
	return fallback
}
