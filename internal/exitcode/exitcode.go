// Package exitcode defines exit codes for the CLI.
package exitcode

import "taskboard/internal/service"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, rejected input).
	UserError = 1

	// ConfigError indicates the configuration could not be loaded.
	ConfigError = 2

	// BackendError indicates a network or remote service failure.
	BackendError = 3
)

// ForError maps a failure to an exit code.
func ForError(err error) int {
	switch {
	case err == nil:
		return Success
	case service.IsKind(err, service.KindValidation):
		return UserError
	default:
		return BackendError
	}
}
