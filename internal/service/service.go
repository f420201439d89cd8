package service

import (
	"context"

	"taskboard/internal/query"
)

// Service defines the interface for the users/tasks REST backend.
// Commands, action handlers and views only talk to the backend through it.
//
// Every method may fail with a *Error of kind KindNetwork (the request did
// not complete) or KindRemote (the server answered with a non-2xx status).
// Calls are independent; no ordering is guaranteed between concurrent calls.
type Service interface {
	// ListUsers returns all users in server order.
	ListUsers(ctx context.Context) ([]User, error)

	// CreateUser persists a user and returns the server's echo of it.
	CreateUser(ctx context.Context, user User) (User, error)

	// DeleteUser removes a user. Deleting an unknown id is a remote failure.
	DeleteUser(ctx context.Context, id string) error

	// ListTasks returns one page of tasks matching q.
	ListTasks(ctx context.Context, q query.Query) (ResultPage[Task], error)

	// CreateTask persists a task and returns the server's echo of it.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes a task. Deleting an unknown id is a remote failure.
	DeleteTask(ctx context.Context, id string) error
}
