package action

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

// Form field names.
const (
	FieldEmail = "email"
	FieldID    = "id"
	FieldTitle = "title"
	FieldDone  = "done"
)

// ReservedEmail may never be registered.
const ReservedEmail = "admin@gmail.com"

// Failure messages shown next to the user forms.
const (
	MsgReservedEmail   = "Admin account is not allowed"
	MsgCreateUserError = "Error while creating user"
	MsgDeleteUserError = "Error while deleting user"
)

// UserCreator is the part of service.Service used by NewCreateUser.
type UserCreator interface {
	CreateUser(ctx context.Context, user service.User) (service.User, error)
}

// UserDeleter is the part of service.Service used by NewDeleteUser.
type UserDeleter interface {
	DeleteUser(ctx context.Context, id string) error
}

// NewCreateUser returns a handler creating a user from the "email" field.
// New users get a random UUID.
func NewCreateUser(svc UserCreator, refresh RefreshFunc, log *zap.Logger) *Handler {
	op := func(ctx context.Context, form url.Values) (State, bool) {
		email := form.Get(FieldEmail)

		if email == ReservedEmail {
			return State{
				Value: email,
				Error: MsgReservedEmail,
				Err:   service.Validation(MsgReservedEmail),
			}, false
		}

		if _, err := svc.CreateUser(ctx, service.User{ID: uuid.NewString(), Email: email}); err != nil {
			return State{Value: email, Error: MsgCreateUserError, Err: err}, false
		}
		return State{}, true
	}
	return newHandler("create-user", FieldEmail, State{}, op, refresh, log)
}

// NewDeleteUser returns a handler deleting the user named by the "id" field.
func NewDeleteUser(svc UserDeleter, refresh RefreshFunc, log *zap.Logger) *Handler {
	op := func(ctx context.Context, form url.Values) (State, bool) {
		if err := svc.DeleteUser(ctx, form.Get(FieldID)); err != nil {
			return State{Error: MsgDeleteUserError, Err: err}, false
		}
		return State{}, true
	}
	return newHandler("delete-user", FieldID, State{}, op, refresh, log)
}
