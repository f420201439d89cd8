package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindValidation is a local rejection that never reached the network.
	KindValidation Kind = "validation"
	// KindNetwork means the HTTP exchange did not complete.
	KindNetwork Kind = "network"
	// KindRemote means the server answered with a non-success status.
	KindRemote Kind = "remote"
)

// Error is the failure type returned by Service implementations and
// action handlers.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code for KindRemote, zero otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Kind == KindNetwork {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Network wraps a transport error.
func Network(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// Remote builds a KindRemote error for the given HTTP status.
func Remote(message string, status int, err error) *Error {
	return &Error{Kind: KindRemote, Message: message, Status: status, Err: err}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var sErr *Error
	if errors.As(err, &sErr) {
		return sErr.Kind == kind
	}
	return false
}

// StatusOf returns the HTTP status carried by a remote failure, or zero.
func StatusOf(err error) int {
	var sErr *Error
	if errors.As(err, &sErr) {
		return sErr.Status
	}
	return 0
}
