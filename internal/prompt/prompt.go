// Package prompt provides the confirmation dialog the facades await before
// destructive operations.
package prompt

import (
	"context"
	"sync"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindDanger  Kind = "danger"
)

type Config struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ConfirmText string `json:"confirmText,omitempty"`
	CancelText  string `json:"cancelText,omitempty"`
	Type        Kind   `json:"type,omitempty"`
	// Alert dialogs only offer the confirm button and nobody waits on them.
	Alert bool `json:"alert,omitempty"`
}

func (c Config) withDefaults() Config {
	if c.ConfirmText == "" {
		c.ConfirmText = "Confirm"
	}
	if c.CancelText == "" && !c.Alert {
		c.CancelText = "Cancel"
	}
	if c.Type == "" {
		c.Type = KindInfo
	}
	return c
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	// Confirm blocks until the operator answers; a done ctx counts as "no".
	Confirm(ctx context.Context, cfg Config) bool
	// Alert shows a message and returns immediately.
	Alert(ctx context.Context, cfg Config)
}

// Dialog is the single on-screen dialog. Opening a new one answers the
// previous one with false.
type Dialog struct {
	mu      sync.Mutex
	current *Config
	answer  chan bool
	onOpen  func(Config)
}

func NewDialog() *Dialog { return &Dialog{} }

// OnChange registers a hook called whenever a dialog opens.
func (d *Dialog) OnChange(fn func(Config)) {
	d.mu.Lock()
	d.onOpen = fn
	d.mu.Unlock()
}

func (d *Dialog) open(cfg Config) chan bool {
	cfg = cfg.withDefaults()
	ch := make(chan bool, 1)

	d.mu.Lock()
	if d.answer != nil {
		d.answer <- false
	}
	d.current = &cfg
	d.answer = ch
	hook := d.onOpen
	d.mu.Unlock()

	if hook != nil {
		hook(cfg)
	}
	return ch
}

func (d *Dialog) Confirm(ctx context.Context, cfg Config) bool {
	cfg.Alert = false
	ch := d.open(cfg)
	select {
	case ok := <-ch:
		return ok
	case <-ctx.Done():
		d.release(ch)
		return false
	}
}

func (d *Dialog) Alert(_ context.Context, cfg Config) {
	cfg.Alert = true
	d.open(cfg)
}

// Close answers the open dialog. It reports false when nothing was open.
func (d *Dialog) Close(result bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return false
	}
	if d.answer != nil {
		d.answer <- result
	}
	d.current, d.answer = nil, nil
	return true
}

// Current returns the open dialog, if any.
func (d *Dialog) Current() (Config, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return Config{}, false
	}
	return *d.current, true
}

func (d *Dialog) release(ch chan bool) {
	d.mu.Lock()
	if d.answer == ch {
		d.current, d.answer = nil, nil
	}
	d.mu.Unlock()
}

// Static answers every confirmation with Answer and records what was asked.
type Static struct {
	Answer bool

	mu     sync.Mutex
	Asked  []Config
	Alerts []Config
}

func (s *Static) Confirm(_ context.Context, cfg Config) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, cfg.withDefaults())
	return s.Answer
}

func (s *Static) Alert(_ context.Context, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg.Alert = true
	s.Alerts = append(s.Alerts, cfg.withDefaults())
}
