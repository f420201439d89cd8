// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// Env is what a command runs against.
type Env struct {
	// Config is always provided.
	Config *config.Config

	// Service is nil if NeedsService() returns false.
	Service service.Service

	// Log is never nil.
	Log *zap.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the backend.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional arguments left after
	// flag parsing and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
