// Package notify is the generic error-surfacing channel (the portal's error modal).
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

type Notifier interface {
	Show(message string)
}

// Modal keeps the last shown message until it is closed.
type Modal struct {
	log zerolog.Logger

	mu      sync.Mutex
	message string
}

func NewModal(log zerolog.Logger) *Modal {
	return &Modal{log: log.With().Str("component", "error-modal").Logger()}
}

// Show opens the modal with message. Repeating the message that is already
// open, as retried calls do, changes nothing.
func (m *Modal) Show(message string) {
	m.mu.Lock()
	if m.message == message {
		m.mu.Unlock()
		return
	}
	m.message = message
	m.mu.Unlock()
	m.log.Warn().Msg(message)
}

func (m *Modal) Close() {
	m.mu.Lock()
	m.message = ""
	m.mu.Unlock()
}

// Message returns the open message and whether the modal is open.
func (m *Modal) Message() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message, m.message != ""
}
