// Package sessions keeps in-memory, idle-expiring session state keyed by random ids.
package sessions

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
)

// Registry maps session ids to values of T. Entries expire after ttl without access.
// A zero or negative ttl disables expiry.
type Registry[T any] struct {
	mtx     sync.RWMutex
	entries map[string]*entry[T]
	ttl     time.Duration
	limit   int
	now     func() time.Time
	newID   func() string
}

// ErrFull is returned by Add when the registry already holds its maximum number of live entries.
var ErrFull = pkgerrors.New(pkgerrors.CodeRateLimit, "Demasiadas sesiones abiertas, intenta de nuevo más tarde.")

type entry[T any] struct {
	value    T
	lastSeen atomic.Int64
}

// Option configures a registry.
type Option[T any] func(*Registry[T])

// WithClock overrides the time source.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(r *Registry[T]) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLimit caps the number of live entries. Zero or negative means unbounded.
func WithLimit[T any](limit int) Option[T] {
	return func(r *Registry[T]) {
		r.limit = limit
	}
}

// WithIDGenerator overrides the session id source.
func WithIDGenerator[T any](newID func() string) Option[T] {
	return func(r *Registry[T]) {
		if newID != nil {
			r.newID = newID
		}
	}
}

func NewRegistry[T any](ttl time.Duration, opts ...Option[T]) *Registry[T] {
	r := &Registry[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Add stores value under a fresh id and returns the id. When the registry is at its limit,
// expired entries are dropped first; if it is still full, Add fails with ErrFull.
func (r *Registry[T]) Add(value T) (string, error) {
	now := r.now()
	e := &entry[T]{value: value}
	e.lastSeen.Store(now.UnixNano())

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.limit > 0 && len(r.entries) >= r.limit {
		r.sweepLocked(now)
		if len(r.entries) >= r.limit {
			return "", ErrFull
		}
	}
	id := r.newID()
	for {
		if _, taken := r.entries[id]; !taken {
			break
		}
		id = r.newID()
	}
	r.entries[id] = e
	return id, nil
}

// Get returns the value for id and refreshes its idle timer. Expired entries are reported
// as missing even before the sweeper removes them.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mtx.RLock()
	e, ok := r.entries[id]
	r.mtx.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	now := r.now()
	if r.expired(e, now) {
		return zero, false
	}
	e.lastSeen.Store(now.UnixNano())
	return e.value, true
}

// Delete removes id and reports whether it was present.
func (r *Registry[T]) Delete(id string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Sweep drops every expired entry and returns how many were removed.
func (r *Registry[T]) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	now := r.now()

	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.sweepLocked(now)
}

func (r *Registry[T]) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

func (r *Registry[T]) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.entries)
}

func (r *Registry[T]) expired(e *entry[T], now time.Time) bool {
	if r.ttl <= 0 {
		return false
	}
	return now.Sub(time.Unix(0, e.lastSeen.Load())) > r.ttl
}
