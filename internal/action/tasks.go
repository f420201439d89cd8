package action

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"taskboard/internal/logging"
	"taskboard/internal/service"
)

const (
	MsgCreateTaskError = "Error while creating task"
	MsgDeleteTaskError = "Error while deleting task"
	MsgUpdateTaskError = "Error while updating task"
)

// TaskCreator is the part of service.Service used by NewCreateTask.
type TaskCreator interface {
	CreateTask(ctx context.Context, task service.NewTask) (service.Task, error)
}

// TaskUpdater is the part of service.Service used by NewSetDone.
type TaskUpdater interface {
	UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error)
}

// TaskDeleter is the part of service.Service used by NewDeleteTask.
type TaskDeleter interface {
	DeleteTask(ctx context.Context, id string) error
}

// NewCreateTask returns a handler creating an open task for userID from the
// "title" field. userID comes from the route and is never changed later.
func NewCreateTask(svc TaskCreator, userID string, refresh RefreshFunc, log *zap.Logger) *Handler {
	op := func(ctx context.Context, form url.Values) (State, bool) {
		title := form.Get(FieldTitle)
		if _, err := svc.CreateTask(ctx, service.NewTask{UserID: userID, Title: title}); err != nil {
			return State{Value: title, Error: MsgCreateTaskError, Err: err}, false
		}
		return State{}, true
	}
	return newHandler("create-task", FieldTitle, State{}, op, refresh, logging.OrNop(log).With(zap.String("user_id", userID)))
}

// NewDeleteTask returns a handler deleting the task named by the "id" field.
func NewDeleteTask(svc TaskDeleter, refresh RefreshFunc, log *zap.Logger) *Handler {
	op := func(ctx context.Context, form url.Values) (State, bool) {
		if err := svc.DeleteTask(ctx, form.Get(FieldID)); err != nil {
			return State{Error: MsgDeleteTaskError, Err: err}, false
		}
		return State{}, true
	}
	return newHandler("delete-task", FieldID, State{}, op, refresh, log)
}

// NewSetDone returns a handler setting the done flag of the task named by
// the "id" field to the boolean in the "done" field.
func NewSetDone(svc TaskUpdater, refresh RefreshFunc, log *zap.Logger) *Handler {
	op := func(ctx context.Context, form url.Values) (State, bool) {
		done, err := strconv.ParseBool(form.Get(FieldDone))
		if err != nil {
			msg := "invalid done value: " + form.Get(FieldDone)
			return State{Error: msg, Err: service.Validation(msg)}, false
		}
		if _, err := svc.UpdateTask(ctx, form.Get(FieldID), service.TaskPatch{Done: &done}); err != nil {
			return State{Error: MsgUpdateTaskError, Err: err}, false
		}
		return State{}, true
	}
	return newHandler("set-done", FieldID, State{}, op, refresh, log)
}
