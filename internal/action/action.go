// Package action wraps single create/delete mutations into form-submission
// handlers with pending/result state.
//
// A Handler moves Idle -> Submitting -> Succeeded|Failed and starts over at
// Submitting on the next submission. Each submission performs at most one
// remote mutation followed, on success only, by at most one refresh trigger.
// Failures never escape Submit; they are reported through State.
package action

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"taskboard/internal/logging"
)

// Status is the lifecycle position of a Handler.
type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrSubmitting is returned when Submit is called while a submission is
// still in flight. No remote call is made.
var ErrSubmitting = errors.New("submission already in progress")

// State is the result of the last completed submission.
type State struct {
	// Value is the retained form field: cleared after a successful create,
	// kept after a failure so the user can correct it.
	Value string
	// Error is a human-readable failure message, empty on success.
	Error string
	// Err is the underlying failure, nil on success.
	Err error
}

// RefreshFunc re-fetches the list owning the mutated resource.
type RefreshFunc func(ctx context.Context)

// operation performs one submission and reports whether it succeeded.
type operation func(ctx context.Context, form url.Values) (State, bool)

// Handler runs one kind of mutation.
type Handler struct {
	name    string
	field   string
	op      operation
	refresh RefreshFunc
	log     *zap.Logger

	mu      sync.Mutex
	status  Status
	state   State
	pending url.Values
}

func newHandler(name, field string, initial State, op operation, refresh RefreshFunc, log *zap.Logger) *Handler {
	return &Handler{
		name:    name,
		field:   field,
		op:      op,
		refresh: refresh,
		log:     logging.OrNop(log).Named("action").With(zap.String("action", name)),
		state:   initial,
	}
}

// Submit runs the handler's mutation with the submitted form values.
// It returns ErrSubmitting, and the unchanged state, if a previous
// submission has not finished.
func (h *Handler) Submit(ctx context.Context, form url.Values) (State, error) {
	h.mu.Lock()
	if h.status == Submitting {
		state := h.state
		h.mu.Unlock()
		h.log.Debug("duplicate submission suppressed")
		return state, ErrSubmitting
	}
	h.status = Submitting
	h.pending = cloneValues(form)
	h.mu.Unlock()

	next, ok := h.op(ctx, form)
	if ok {
		if h.refresh != nil {
			h.refresh(ctx)
		}
	} else {
		h.log.Warn("submission failed", zap.String("message", next.Error), zap.Error(next.Err))
	}

	h.mu.Lock()
	h.state = next
	h.pending = nil
	if ok {
		h.status = Succeeded
	} else {
		h.status = Failed
	}
	h.mu.Unlock()

	return next, nil
}

// Status returns the current lifecycle position.
func (h *Handler) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// IsPending reports whether a submission is in flight. Callers disable the
// triggering control while it is true.
func (h *Handler) IsPending() bool {
	return h.Status() == Submitting
}

// State returns the result of the last completed submission.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Optimistic returns the field value of the in-flight submission. It is a
// display projection only; State stays the remote-confirmed result.
func (h *Handler) Optimistic() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != Submitting || h.pending == nil {
		return "", false
	}
	return h.pending.Get(h.field), true
}

// Name identifies the handler in logs.
func (h *Handler) Name() string { return h.name }

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Form builds submitted form values from key/value pairs.
func Form(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}
