package view

import (
	"context"

	"taskboard/internal/query"
	"taskboard/internal/service"
)

// TasksLister is the part of service.Service used by the tasks view.
type TasksLister interface {
	ListTasks(ctx context.Context, q query.Query) (service.ResultPage[service.Task], error)
}

// TasksView holds one page of a user's tasks.
type TasksView = Holder[query.Query, service.ResultPage[service.Task]]

// TasksFetch is a handle on one tasks fetch.
type TasksFetch = Fetch[query.Query, service.ResultPage[service.Task]]

// NewTasks creates a tasks view for initial and issues its first fetch.
func NewTasks(ctx context.Context, svc TasksLister, initial query.Query, opts ...Option) *TasksView {
	return NewHolder[query.Query, service.ResultPage[service.Task]](ctx, "tasks", initial.Normalized(), svc.ListTasks, opts...)
}

// RefreshTasks merges o onto the view's last query and issues a new fetch.
func RefreshTasks(ctx context.Context, v *TasksView, o query.Override) *TasksFetch {
	return v.Refresh(ctx, o.Apply)
}
