package view

import (
	"context"
	"sync"

	"taskboard/internal/service"
)

// UsersLister is the part of service.Service used by the users view.
type UsersLister interface {
	ListUsers(ctx context.Context) ([]service.User, error)
}

// UsersView holds the users list. Its query carries no parameters.
type UsersView = Holder[struct{}, []service.User]

// NewUsers creates a users view and issues its first fetch.
func NewUsers(ctx context.Context, svc UsersLister, opts ...Option) *UsersView {
	fetch := func(ctx context.Context, _ struct{}) ([]service.User, error) {
		return svc.ListUsers(ctx)
	}
	return NewHolder[struct{}, []service.User](ctx, "users", struct{}{}, fetch, opts...)
}

// Process-wide users views, one per backend. Entries are created on first
// access and live for the rest of the process.
var (
	usersMu    sync.Mutex
	usersViews = map[UsersLister]*UsersView{}
)

// Users returns the shared users view for svc, creating it and issuing its
// first fetch on first access. Later calls return the same view and ignore
// ctx and opts.
func Users(ctx context.Context, svc UsersLister, opts ...Option) *UsersView {
	usersMu.Lock()
	defer usersMu.Unlock()
	if v, ok := usersViews[svc]; ok {
		return v
	}
	v := NewUsers(ctx, svc, opts...)
	usersViews[svc] = v
	return v
}
