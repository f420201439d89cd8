package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"validation", Validation("Admin account is not allowed"), "Admin account is not allowed"},
		{"network includes cause", Network("request did not complete", cause), "request did not complete: connection refused"},
		{"remote hides cause", Remote("Not Found", http.StatusNotFound, cause), "Not Found"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", Remote("Internal Server Error", http.StatusInternalServerError, nil))

	if !IsKind(wrapped, KindRemote) {
		t.Error("expected wrapped remote error to match KindRemote")
	}
	if IsKind(wrapped, KindNetwork) {
		t.Error("remote error should not match KindNetwork")
	}
	if IsKind(errors.New("plain"), KindValidation) {
		t.Error("plain error should not match any kind")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(Remote("Not Found", http.StatusNotFound, nil)); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
	if got := StatusOf(Network("request did not complete", errors.New("timeout"))); got != 0 {
		t.Errorf("expected 0 for network failure, got %d", got)
	}
	if got := StatusOf(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Network("request did not complete", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}
