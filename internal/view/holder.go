// Package view holds the current snapshot of a resource list and refreshes it.
package view

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"taskboard/internal/logging"
)

// FetchFunc loads a list for a query.
type FetchFunc[Q, R any] func(ctx context.Context, q Q) (R, error)

// Snapshot is one resolved fetch. It is never modified after installation.
type Snapshot[Q, R any] struct {
	// Seq is the issue order of the fetch that produced it, starting at 1.
	Seq    uint64
	Query  Q
	Result R
	// Err is the load failure, if any. A failed load still replaces the
	// previous snapshot.
	Err error
}

// Fetch is a handle on one issued fetch.
type Fetch[Q, R any] struct {
	seq  uint64
	done chan struct{}
	snap *Snapshot[Q, R]
}

// Seq returns the issue order of the fetch.
func (f *Fetch[Q, R]) Seq() uint64 { return f.seq }

// Done is closed once the fetch has resolved.
func (f *Fetch[Q, R]) Done() <-chan struct{} { return f.done }

// Wait blocks until the fetch resolves and returns its own snapshot, which
// is not necessarily the holder's current one.
func (f *Fetch[Q, R]) Wait(ctx context.Context) (*Snapshot[Q, R], error) {
	select {
	case <-f.done:
		return f.snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type options struct {
	fenced bool
	log    *zap.Logger
}

// Option configures a Holder.
type Option func(*options)

// WithFencing makes the holder install a result only if no later-issued
// fetch has already been installed. Without it the last fetch to resolve
// becomes current regardless of issue order.
func WithFencing() Option {
	return func(o *options) { o.fenced = true }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Holder owns the current snapshot of one list.
type Holder[Q, R any] struct {
	name   string
	fetch  FetchFunc[Q, R]
	fenced bool
	log    *zap.Logger

	mu     sync.Mutex
	query  Q
	seq    uint64
	latest *Fetch[Q, R]

	current atomic.Pointer[Snapshot[Q, R]]
}

// NewHolder creates a holder and issues the first fetch for initial.
func NewHolder[Q, R any](ctx context.Context, name string, initial Q, fetch FetchFunc[Q, R], opts ...Option) *Holder[Q, R] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	h := &Holder[Q, R]{
		name:   name,
		fetch:  fetch,
		fenced: o.fenced,
		log:    logging.OrNop(o.log).Named("view").With(zap.String("view", name)),
		query:  initial,
	}
	h.issue(ctx, initial)
	return h
}

// Refresh merges override onto the last issued query and issues a new fetch.
// A nil override re-issues the last query unchanged. In-flight fetches are
// not cancelled.
func (h *Holder[Q, R]) Refresh(ctx context.Context, override func(Q) Q) *Fetch[Q, R] {
	h.mu.Lock()
	q := h.query
	h.mu.Unlock()

	if override != nil {
		q = override(q)
	}
	return h.issue(ctx, q)
}

// Trigger re-issues the last query. It matches action.RefreshFunc.
func (h *Holder[Q, R]) Trigger(ctx context.Context) {
	h.Refresh(ctx, nil)
}

func (h *Holder[Q, R]) issue(ctx context.Context, q Q) *Fetch[Q, R] {
	h.mu.Lock()
	h.seq++
	f := &Fetch[Q, R]{seq: h.seq, done: make(chan struct{})}
	h.query = q
	h.latest = f
	h.mu.Unlock()

	h.log.Debug("fetch issued", zap.Uint64("seq", f.seq))

	go func() {
		result, err := h.fetch(ctx, q)
		f.snap = &Snapshot[Q, R]{Seq: f.seq, Query: q, Result: result, Err: err}
		h.install(f.snap)
		close(f.done)
	}()
	return f
}

func (h *Holder[Q, R]) install(snap *Snapshot[Q, R]) {
	if !h.fenced {
		h.current.Store(snap)
		h.log.Debug("snapshot installed", zap.Uint64("seq", snap.Seq), zap.Error(snap.Err))
		return
	}
	for {
		cur := h.current.Load()
		if cur != nil && cur.Seq > snap.Seq {
			h.log.Debug("stale snapshot dropped", zap.Uint64("seq", snap.Seq), zap.Uint64("current", cur.Seq))
			return
		}
		if h.current.CompareAndSwap(cur, snap) {
			h.log.Debug("snapshot installed", zap.Uint64("seq", snap.Seq), zap.Error(snap.Err))
			return
		}
	}
}

// Current returns the installed snapshot, or nil before the first fetch
// resolves.
func (h *Holder[Q, R]) Current() *Snapshot[Q, R] {
	return h.current.Load()
}

// Query returns the last issued query.
func (h *Holder[Q, R]) Query() Q {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.query
}

// Latest returns the most recently issued fetch.
func (h *Holder[Q, R]) Latest() *Fetch[Q, R] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Wait blocks until the most recently issued fetch resolves and returns the
// current snapshot.
func (h *Holder[Q, R]) Wait(ctx context.Context) (*Snapshot[Q, R], error) {
	if _, err := h.Latest().Wait(ctx); err != nil {
		return nil, err
	}
	return h.Current(), nil
}
