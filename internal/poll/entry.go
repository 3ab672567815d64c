package poll

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"chainmetrics/internal/observability"
)

type entry[T any] struct {
	reg   *Registry
	key   string
	kind  string
	fetch Fetcher[T]
	opts  Options[T]

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu        sync.Mutex
	state     State[T]
	subs      map[*Subscription[T]]struct{}
	closed    bool
	pending   int
	lastStart time.Time
	// seq numbers every started revalidation. Results older than minSeq were
	// superseded by a forced refresh; results not newer than applied are stale.
	seq     uint64
	minSeq  uint64
	applied uint64
}

func newEntry[T any](reg *Registry, key string, fetch Fetcher[T], opts Options[T]) *entry[T] {
	ctx, cancel := context.WithCancel(context.Background())
	kind, _, _ := strings.Cut(key, "|")
	return &entry[T]{
		reg:    reg,
		key:    key,
		kind:   kind,
		fetch:  fetch,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		state:  State[T]{Data: opts.FallbackData},
		subs:   make(map[*Subscription[T]]struct{}),
	}
}

func (e *entry[T]) loop() {
	if e.opts.RefreshInterval <= 0 {
		return
	}
	ticker := time.NewTicker(e.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.revalidate(false, "interval")
		}
	}
}

// revalidate starts a fetch unless one started inside the dedupe window.
// Revalidations overlapping an in-flight call join it. A forced
// revalidation always issues a new call and supersedes older ones.
func (e *entry[T]) revalidate(force bool, trigger string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	now := e.reg.now()
	if !force && !e.lastStart.IsZero() && now.Sub(e.lastStart) < e.opts.DedupeInterval {
		e.mu.Unlock()
		observability.RecordPollDeduped(e.kind)
		return
	}
	joining := !force && e.pending > 0
	e.lastStart = now
	e.seq++
	seq := e.seq
	if force {
		e.minSeq = seq
		e.group.Forget(e.key)
	}
	e.pending++
	e.state.IsValidating = true
	e.state.IsLoading = !e.state.HasData
	e.notifyLocked()
	e.mu.Unlock()

	if joining {
		observability.RecordPollDeduped(e.kind)
	} else {
		observability.RecordPollFetch(e.kind, trigger)
	}

	ch := e.group.DoChan(e.key, func() (any, error) {
		v, err := e.fetch(e.ctx)
		return v, err
	})
	go func() {
		res := <-ch
		var val T
		if v, ok := res.Val.(T); ok {
			val = v
		}
		e.finish(seq, val, res.Err)
	}()
}

func (e *entry[T]) finish(seq uint64, val T, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending--
	if e.closed {
		return
	}
	if seq >= e.minSeq && seq > e.applied {
		e.applied = seq
		if err != nil {
			e.state.Err = err
		} else {
			e.state.Data = val
			e.state.HasData = true
			e.state.Err = nil
			e.state.UpdatedAt = e.reg.now()
		}
	}
	e.state.IsValidating = e.pending > 0
	e.state.IsLoading = !e.state.HasData && e.pending > 0
	e.notifyLocked()
}

func (e *entry[T]) snapshot() State[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *entry[T]) notifyLocked() {
	for sub := range e.subs {
		select {
		case sub.updates <- struct{}{}:
		default:
		}
	}
}
