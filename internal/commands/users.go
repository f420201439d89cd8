package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"

	"taskboard/internal/action"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/view"
)

func init() {
	Register(&UsersCmd{})
	Register(&AddUserCmd{})
	Register(&RmUserCmd{})
}

// UsersCmd implements the users command.
type UsersCmd struct{}

func (c *UsersCmd) Name() string       { return "users" }
func (c *UsersCmd) Aliases() []string  { return nil }
func (c *UsersCmd) Synopsis() string   { return "List users" }
func (c *UsersCmd) Usage() string      { return "taskboard users" }
func (c *UsersCmd) NeedsService() bool { return true }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return printUsers(ctx, view.Users(ctx, env.Service, view.WithLogger(env.Log), view.WithFencing()), out, errOut)
}

// AddUserCmd implements the adduser command.
type AddUserCmd struct{}

func (c *AddUserCmd) Name() string       { return "adduser" }
func (c *AddUserCmd) Aliases() []string  { return []string{"useradd"} }
func (c *AddUserCmd) Synopsis() string   { return "Create a user" }
func (c *AddUserCmd) Usage() string      { return "taskboard adduser <email>" }
func (c *AddUserCmd) NeedsService() bool { return true }

func (c *AddUserCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddUserCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	users := view.Users(ctx, env.Service, view.WithLogger(env.Log), view.WithFencing())
	h := action.NewCreateUser(env.Service, users.Trigger, env.Log)
	return submitThenPrintUsers(ctx, env, h, action.Form(action.FieldEmail, args[0]), users, out, errOut)
}

// RmUserCmd implements the rmuser command.
type RmUserCmd struct{}

func (c *RmUserCmd) Name() string       { return "rmuser" }
func (c *RmUserCmd) Aliases() []string  { return []string{"userdel"} }
func (c *RmUserCmd) Synopsis() string   { return "Delete a user" }
func (c *RmUserCmd) Usage() string      { return "taskboard rmuser <id>" }
func (c *RmUserCmd) NeedsService() bool { return true }

func (c *RmUserCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmUserCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: user id required")
		return exitcode.UserError
	}

	users := view.Users(ctx, env.Service, view.WithLogger(env.Log), view.WithFencing())
	h := action.NewDeleteUser(env.Service, users.Trigger, env.Log)
	return submitThenPrintUsers(ctx, env, h, action.Form(action.FieldID, args[0]), users, out, errOut)
}

func submitThenPrintUsers(ctx context.Context, env *Env, h *action.Handler, form url.Values, users *view.UsersView, out, errOut io.Writer) int {
	state, err := h.Submit(ctx, form)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if state.Error != "" {
		fmt.Fprintf(errOut, "error: %s\n", state.Error)
		return exitcode.ForError(state.Err)
	}
	if env.Config.Quiet {
		return exitcode.Success
	}
	return printUsers(ctx, users, out, errOut)
}

// printUsers waits for the latest users fetch and prints it, or the
// page-level fallback if the load failed.
func printUsers(ctx context.Context, users *view.UsersView, out, errOut io.Writer) int {
	snap, err := users.Wait(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	if snap.Err != nil {
		output.FormatFallback(errOut, snap.Err)
		return exitcode.BackendError
	}
	output.FormatUsers(out, snap.Result)
	return exitcode.Success
}
