package viewstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SelectionSnapshot is a copy of a selection's state for rendering.
type SelectionSnapshot[D, H any] struct {
	ID       int64 `json:"id,omitempty"`
	Selected bool  `json:"selected"`
	Detail   *D    `json:"detail,omitempty"`
	History  []H   `json:"history"`
	Loading  bool  `json:"loading"`
}

// Selection tracks the one entity currently opened in a detail pane.
// Every Select or Clear starts a new generation; responses carrying an
// older generation are dropped when they arrive.
type Selection[D, H any] struct {
	name    string
	policy  Policy
	detail  func(ctx context.Context, id int64) (*D, error)
	history func(ctx context.Context, id int64) ([]H, error)
	log     zerolog.Logger
	metrics *Metrics
	signal  Signal

	mu       sync.Mutex
	gen      uint64
	id       int64
	selected bool
	current  *D
	items    []H
	loading  bool
}

func NewSelection[D, H any](
	name string,
	policy Policy,
	detail func(ctx context.Context, id int64) (*D, error),
	history func(ctx context.Context, id int64) ([]H, error),
	log zerolog.Logger,
	metrics *Metrics,
) *Selection[D, H] {
	return &Selection[D, H]{
		name:    name,
		policy:  policy,
		detail:  detail,
		history: history,
		log:     log.With().Str("selection", name).Logger(),
		metrics: metrics,
	}
}

func (s *Selection[D, H]) Subscribe(fn func()) func() { return s.signal.Subscribe(fn) }

// Select opens id. seed, when given, is shown until the detail arrives and
// kept if the detail read fails. Detail and history are read in parallel and
// each degrades to empty on failure. It reports whether this call's results
// were applied.
func (s *Selection[D, H]) Select(ctx context.Context, id int64, seed *D) bool {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.id, s.selected = id, true
	s.current, s.items = seed, nil
	s.loading = true
	s.mu.Unlock()
	s.signal.Notify()

	var (
		detail  *D
		history []H
		g       errgroup.Group
	)
	g.Go(func() error {
		d, err := Do(ctx, s.policy, func(ctx context.Context) (*D, error) { return s.detail(ctx, id) })
		if err != nil {
			s.log.Warn().Err(err).Int64("id", id).Msg("detail unavailable")
			return nil
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		h, err := Do(ctx, s.policy, func(ctx context.Context) ([]H, error) { return s.history(ctx, id) })
		if err != nil {
			s.log.Warn().Err(err).Int64("id", id).Msg("history unavailable")
			return nil
		}
		history = h
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.metrics.stale(s.name)
		s.log.Debug().Int64("id", id).Msg("dropping superseded selection")
		return false
	}
	if detail != nil {
		s.current = detail
	}
	s.items = history
	s.loading = false
	s.mu.Unlock()
	s.signal.Notify()
	return true
}

// Clear deselects and invalidates any in-flight Select.
func (s *Selection[D, H]) Clear() {
	s.mu.Lock()
	s.gen++
	s.id, s.selected = 0, false
	s.current, s.items = nil, nil
	s.loading = false
	s.mu.Unlock()
	s.signal.Notify()
}

// Current returns the selected entity and its id.
func (s *Selection[D, H]) Current() (id int64, detail *D, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, copyOf(s.current), s.selected
}

func (s *Selection[D, H]) History() []H {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]H(nil), s.items...)
}

func (s *Selection[D, H]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Selection[D, H]) Snapshot() SelectionSnapshot[D, H] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectionSnapshot[D, H]{
		ID:       s.id,
		Selected: s.selected,
		Detail:   copyOf(s.current),
		History:  append([]H{}, s.items...),
		Loading:  s.loading,
	}
}

func copyOf[D any](d *D) *D {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
