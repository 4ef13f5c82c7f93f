package viewstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"staff-portal/internal/prompt"
)

// Entity is a record mirrored from the API, matched by Key when patched.
type Entity interface {
	Searchable
	Key() int64
}

type Options struct {
	// Singular and Plural name the entity in fallback error messages.
	Singular string
	Plural   string

	Debounce time.Duration
	Read     Policy
	Write    Policy

	// WriteContext, when set, decorates the context of one logical write
	// before its attempts start, so every retry shares what it adds.
	WriteContext func(context.Context) context.Context

	// NotFound reports whether a failed write found its target gone.
	// Such writes drop the cached entry and raise no error.
	NotFound func(error) bool

	Confirm prompt.Confirmer
	Log     zerolog.Logger
	Metrics *Metrics
}

func (o Options) writeContext(ctx context.Context) context.Context {
	if o.WriteContext == nil {
		return ctx
	}
	return o.WriteContext(ctx)
}

func (o Options) gone(err error) bool {
	return err != nil && o.NotFound != nil && o.NotFound(err)
}

// Snapshot is a copy of a collection's state for rendering.
type Snapshot[T any] struct {
	Items    []T    `json:"items"`
	Filtered []T    `json:"filtered"`
	Query    string `json:"query"`
	RawQuery string `json:"rawQuery"`
	Loading  bool   `json:"loading"`
	Saving   bool   `json:"saving"`
	Error    string `json:"error,omitempty"`
	BusyID   int64  `json:"busyId,omitempty"`
}

// Collection caches one entity list and its derived, filtered view.
type Collection[T Entity] struct {
	opts   Options
	log    zerolog.Logger
	signal Signal
	search *Debouncer

	mu      sync.Mutex
	items   []T
	query   string
	loading bool
	saving  bool
	busyID  int64
	err     string
	loadGen uint64
}

func NewCollection[T Entity](opts Options) *Collection[T] {
	c := &Collection[T]{
		opts: opts,
		log:  opts.Log.With().Str("collection", opts.Plural).Logger(),
	}
	c.search = NewDebouncer(opts.Debounce, c.applyQuery)
	return c
}

func (c *Collection[T]) Subscribe(fn func()) func() { return c.signal.Subscribe(fn) }

// commit runs mutate under the lock and then notifies subscribers.
func (c *Collection[T]) commit(mutate func()) {
	c.mu.Lock()
	mutate()
	c.mu.Unlock()
	c.signal.Notify()
}

// Load replaces the cache with a fresh list. On failure the previous cache
// stays and the error is recorded. Only the most recently started Load may
// write its result.
func (c *Collection[T]) Load(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) bool {
	var gen uint64
	c.commit(func() {
		c.loadGen++
		gen = c.loadGen
		c.loading = true
		c.err = ""
	})

	start := time.Now()
	items, err := Do(ctx, c.opts.Read, fetch)
	c.opts.Metrics.observeLoad(c.opts.Plural, start)

	stale := false
	c.commit(func() {
		if gen != c.loadGen {
			stale = true
			return
		}
		c.loading = false
		if err != nil {
			c.err = Message(err, fmt.Sprintf("Failed to load %s", c.opts.Plural))
			return
		}
		c.items = append(make([]T, 0, len(items)), items...)
	})
	if stale {
		c.opts.Metrics.stale(c.opts.Plural)
		c.log.Debug().Uint64("gen", gen).Msg("dropping superseded load")
		return false
	}
	c.opts.Metrics.count(c.opts.Plural, "load", err == nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("load failed")
		return false
	}
	c.log.Debug().Int("count", len(items)).Msg("loaded")
	return true
}

// LoadOnce loads only while the cache is empty.
func (c *Collection[T]) LoadOnce(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) bool {
	if c.Len() > 0 {
		return true
	}
	return c.Load(ctx, fetch)
}

// Flag names the status flag raised while a mutation runs.
type Flag int

const (
	FlagNone Flag = iota
	FlagSaving
	FlagBusy
)

// Patch says how a successful mutation result lands in the cache.
type Patch int

const (
	PatchAppend Patch = iota
	PatchReplace
)

type Mutation[T any] struct {
	Op       string // for logs and metrics
	Fallback string
	Flag     Flag
	BusyID   int64
	Patch    Patch
	// Target is the cached entry the write changes, if any. When the server
	// no longer knows it, it is dropped from the cache.
	Target int64
	Call   func(ctx context.Context) (*T, error)
}

// Mutate runs a write and applies its result. It returns the entity the
// server sent back and false when the call failed or returned nothing.
func (c *Collection[T]) Mutate(ctx context.Context, m Mutation[T]) (T, bool) {
	var zero T
	c.commit(func() {
		c.err = ""
		switch m.Flag {
		case FlagSaving:
			c.saving = true
		case FlagBusy:
			c.busyID = m.BusyID
		}
	})

	got, err := Do(c.opts.writeContext(ctx), c.opts.Write, m.Call)
	c.opts.Metrics.count(c.opts.Plural, m.Op, err == nil)
	vanished := m.Target != 0 && c.opts.gone(err)

	c.commit(func() {
		switch m.Flag {
		case FlagSaving:
			c.saving = false
		case FlagBusy:
			c.busyID = 0
		}
		if vanished {
			c.remove(m.Target)
			return
		}
		if err != nil {
			c.err = Message(err, m.Fallback)
			return
		}
		if got == nil {
			return
		}
		switch m.Patch {
		case PatchAppend:
			c.items = append(c.items[:len(c.items):len(c.items)], *got)
		case PatchReplace:
			c.replace(*got)
		}
	})
	if vanished {
		c.log.Info().Int64("id", m.Target).Str("op", m.Op).Msg("target gone, dropped from cache")
		return zero, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("op", m.Op).Msg("mutation failed")
		return zero, false
	}
	if got == nil {
		return zero, false
	}
	return *got, true
}

// replace swaps the cached entry with the same key. A missing key means the
// entity vanished meanwhile and the result is dropped.
func (c *Collection[T]) replace(v T) {
	for i := range c.items {
		if c.items[i].Key() == v.Key() {
			next := append([]T(nil), c.items...)
			next[i] = v
			c.items = next
			return
		}
	}
}

// remove drops the entry with key id, keeping order.
func (c *Collection[T]) remove(id int64) {
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if it.Key() != id {
			next = append(next, it)
		}
	}
	c.items = next
}

// Create appends the entity the server created.
func (c *Collection[T]) Create(ctx context.Context, call func(ctx context.Context) (*T, error)) (T, bool) {
	return c.Mutate(ctx, Mutation[T]{
		Op:       "create",
		Fallback: fmt.Sprintf("Failed to create %s", c.opts.Singular),
		Flag:     FlagSaving,
		Patch:    PatchAppend,
		Call:     call,
	})
}

// Update replaces the cached entity id with the server's version.
func (c *Collection[T]) Update(ctx context.Context, id int64, call func(ctx context.Context) (*T, error)) (T, bool) {
	return c.Mutate(ctx, Mutation[T]{
		Op:       "update",
		Fallback: fmt.Sprintf("Failed to update %s", c.opts.Singular),
		Flag:     FlagSaving,
		Patch:    PatchReplace,
		Target:   id,
		Call:     call,
	})
}

// Delete asks for confirmation, then deletes id. A failure is shown as an
// alert on the confirmation dialog rather than as the collection error. A
// target the server no longer knows counts as deleted.
func (c *Collection[T]) Delete(ctx context.Context, id int64, ask prompt.Config, call func(ctx context.Context) error) bool {
	if c.opts.Confirm == nil || !c.opts.Confirm.Confirm(ctx, ask) {
		return false
	}
	c.commit(func() { c.err = "" })

	_, err := Do(c.opts.writeContext(ctx), c.opts.Write, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	})
	if c.opts.gone(err) {
		c.log.Info().Int64("id", id).Msg("delete target already gone")
		err = nil
	}
	c.opts.Metrics.count(c.opts.Plural, "delete", err == nil)
	if err != nil {
		c.log.Warn().Err(err).Int64("id", id).Msg("delete failed")
		c.opts.Confirm.Alert(ctx, prompt.Config{
			Title:       "Delete Failed",
			Message:     Message(err, fmt.Sprintf("Could not delete %s", c.opts.Singular)),
			ConfirmText: "OK",
			Type:        prompt.KindWarning,
		})
		return false
	}
	c.commit(func() { c.remove(id) })
	return true
}

// UpdateQuery feeds raw search input through the debouncer.
func (c *Collection[T]) UpdateQuery(raw string) { c.search.Push(raw) }

// FlushQuery applies the pending search input immediately.
func (c *Collection[T]) FlushQuery() { c.search.Flush() }

func (c *Collection[T]) applyQuery(q string) {
	c.commit(func() { c.query = q })
}

// Close stops the pending search timer.
func (c *Collection[T]) Close() { c.search.Stop() }

func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Filtered is the cache narrowed by the applied query.
func (c *Collection[T]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.items, c.query)
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Collection[T]) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

func (c *Collection[T]) BusyID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyID
}

func (c *Collection[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SetError records a failure that happened outside a collection call.
func (c *Collection[T]) SetError(msg string) { c.commit(func() { c.err = msg }) }

func (c *Collection[T]) ClearError() { c.SetError("") }

func (c *Collection[T]) Snapshot() Snapshot[T] {
	raw := c.search.Pending()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Items:    append([]T{}, c.items...),
		Filtered: Filter(c.items, c.query),
		Query:    c.query,
		RawQuery: raw,
		Loading:  c.loading,
		Saving:   c.saving,
		Error:    c.err,
		BusyID:   c.busyID,
	}
}
