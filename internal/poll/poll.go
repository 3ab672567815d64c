// Package poll is a keyed polling cache. Consumers of the same key share one
// cached value that is revalidated on an interval, on focus and on demand,
// with at most one underlying fetch per key inside the dedupe window.
package poll

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultDedupeInterval applies when Options.DedupeInterval is zero.
const DefaultDedupeInterval = 2 * time.Second

// Fetcher produces the value cached under a key.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Options[T any] struct {
	// RefreshInterval re-runs the fetcher periodically. Zero disables polling.
	RefreshInterval time.Duration
	// DedupeInterval is the window in which repeated revalidations reuse the
	// in-flight or cached result.
	DedupeInterval time.Duration
	// RevalidateOnFocus makes Focus trigger a revalidation.
	RevalidateOnFocus bool
	// FallbackData is reported as Data until the first successful fetch.
	FallbackData T
}

// State is a snapshot of a cached entry.
type State[T any] struct {
	Data         T
	HasData      bool
	IsLoading    bool
	IsValidating bool
	Err          error
	UpdatedAt    time.Time
}

// Registry owns the cache entries of one process. The zero value is not
// usable; create one with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]any
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]any),
		now:     time.Now,
	}
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Key joins parts into a cache key, e.g. Key("hbar-history", 7).
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "|")
}

// Subscribe attaches a consumer to key, creating the entry on first use and
// triggering a revalidation. The fetcher and options of the subscriber that
// created the entry are used for its lifetime. Subscribing to a live key
// with a different value type panics.
func Subscribe[T any](reg *Registry, key string, fetch Fetcher[T], opts Options[T]) *Subscription[T] {
	if opts.DedupeInterval <= 0 {
		opts.DedupeInterval = DefaultDedupeInterval
	}

	reg.mu.Lock()
	var e *entry[T]
	if existing, ok := reg.entries[key]; ok {
		typed, ok := existing.(*entry[T])
		if !ok {
			reg.mu.Unlock()
			panic(fmt.Sprintf("poll: key %q already holds %T", key, existing))
		}
		e = typed
	} else {
		e = newEntry(reg, key, fetch, opts)
		reg.entries[key] = e
		go e.loop()
	}

	sub := &Subscription[T]{e: e, updates: make(chan struct{}, 1)}
	e.mu.Lock()
	e.subs[sub] = struct{}{}
	e.mu.Unlock()
	reg.mu.Unlock()

	e.revalidate(false, "mount")
	return sub
}

// release detaches sub and tears the entry down when it was the last one.
func release[T any](reg *Registry, e *entry[T], sub *Subscription[T]) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	e.mu.Lock()
	if _, ok := e.subs[sub]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.subs, sub)
	close(sub.updates)
	last := len(e.subs) == 0
	if last {
		e.closed = true
	}
	e.mu.Unlock()

	if last {
		e.cancel()
		if cur, ok := reg.entries[e.key]; ok && cur == any(e) {
			delete(reg.entries, e.key)
		}
	}
}
