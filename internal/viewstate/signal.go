package viewstate

import "sync"

// Signal fans a change notification out to subscribers.
type Signal struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Notify calls every subscriber in the calling goroutine.
// Callers must not hold their own state lock.
func (s *Signal) Notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Source is anything that announces its own changes.
type Source interface {
	Subscribe(fn func()) (unsubscribe func())
}

// SubscribeAll registers fn with every source. The returned function removes
// all of the registrations.
func SubscribeAll(fn func(), sources ...Source) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(sources))
	for _, s := range sources {
		unsubs = append(unsubs, s.Subscribe(fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
