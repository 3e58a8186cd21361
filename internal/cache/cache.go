package cache

import (
	"context"
	"sync"
	"time"

	"github.com/burhanuddin20/pinpoint/internal/obs"
)

// Store is an in-process key/value map with per-entry TTLs. Expiry is lazy:
// an expired entry is purged on the read that observes it, there is no
// background sweep. A Store also collapses concurrent computations for the
// same key (GetOrCompute), so identical in-flight queries hit the upstream
// once.
type Store[T any] struct {
	mu      sync.Mutex
	name    string
	items   map[string]*entry[T]
	metrics *obs.Metrics
}

type entry[T any] struct {
	val     T
	expiry  time.Time
	ready   bool
	waiters []chan resultOrErr[T]
}

type resultOrErr[T any] struct {
	res T
	err error
}

func New[T any](name string, m *obs.Metrics) *Store[T] {
	return &Store[T]{name: name, items: make(map[string]*entry[T]), metrics: m}
}

// Get reports a miss for unknown, in-flight and expired keys. An expired
// entry is removed before returning.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, found := s.items[key]
	if !found || !e.ready {
		s.missLocked()
		return zero, false
	}
	if !time.Now().Before(e.expiry) {
		delete(s.items, key)
		s.missLocked()
		return zero, false
	}
	s.hitLocked()
	return e.val, true
}

// Set overwrites any prior entry for key and resets its expiry.
func (s *Store[T]) Set(key string, val T, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = &entry[T]{val: val, expiry: time.Now().Add(ttl), ready: true}
}

func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// GetOrCompute returns the cached value for key, or runs fn to produce it.
// Concurrent callers for the same key join the in-flight computation instead
// of recomputing. A failed computation is not cached; the error fans out to
// every waiter.
func (s *Store[T]) GetOrCompute(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	e, found := s.items[key]
	now := time.Now()

	// If cached and fresh, return it
	if found && e.ready && now.Before(e.expiry) {
		val := e.val
		s.hitLocked()
		s.mu.Unlock()
		return val, nil
	}

	// Collapse: if computation in progress, join waiters
	if found && !e.ready {
		ch := make(chan resultOrErr[T], 1)
		e.waiters = append(e.waiters, ch)
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case r := <-ch:
			return r.res, r.err
		}
	}

	// Start a new computation and mark it in-flight
	s.missLocked()
	e = &entry[T]{}
	s.items[key] = e
	s.mu.Unlock()

	res, err := fn(ctx)
	result := resultOrErr[T]{res: res, err: err}

	s.mu.Lock()
	if err != nil {
		// never cache a failure
		delete(s.items, key)
	} else {
		e.val = res
		e.expiry = time.Now().Add(ttl)
		e.ready = true
	}
	waiters := e.waiters
	e.waiters = nil
	s.mu.Unlock()

	for _, w := range waiters {
		w <- result
		close(w)
	}

	return res, err
}

func (s *Store[T]) hitLocked() {
	if s.metrics != nil {
		s.metrics.IncCacheHit(s.name)
	}
}

func (s *Store[T]) missLocked() {
	if s.metrics != nil {
		s.metrics.IncCacheMiss(s.name)
	}
}
