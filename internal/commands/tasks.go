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
	"taskboard/internal/query"
	"taskboard/internal/view"
)

func init() {
	Register(&TasksCmd{})
	Register(&AddTaskCmd{})
	Register(&RmTaskCmd{})
	Register(&DoneCmd{done: true})
	Register(&DoneCmd{done: false})
}

// TasksCmd implements the tasks command.
type TasksCmd struct {
	flags taskFlags
}

func (c *TasksCmd) Name() string       { return "tasks" }
func (c *TasksCmd) Aliases() []string  { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string   { return "List a user's tasks" }
func (c *TasksCmd) NeedsService() bool { return true }
func (c *TasksCmd) Usage() string {
	return "taskboard tasks --user <id> [--page <n>] [--per-page <n>] [--search <text>] [--sort asc|desc]"
}

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) { c.flags.register(fs) }

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	q, err := c.flags.query(env.Config)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks := view.NewTasks(ctx, env.Service, q, view.WithLogger(env.Log))
	return printTasks(ctx, tasks, out, errOut)
}

// AddTaskCmd implements the addtask command.
type AddTaskCmd struct {
	flags taskFlags
}

func (c *AddTaskCmd) Name() string       { return "addtask" }
func (c *AddTaskCmd) Aliases() []string  { return []string{"add"} }
func (c *AddTaskCmd) Synopsis() string   { return "Create a task" }
func (c *AddTaskCmd) Usage() string      { return "taskboard addtask --user <id> <title...>" }
func (c *AddTaskCmd) NeedsService() bool { return true }

func (c *AddTaskCmd) RegisterFlags(fs *flag.FlagSet) { c.flags.register(fs) }

func (c *AddTaskCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	q, err := c.flags.query(env.Config)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	tasks := view.NewTasks(ctx, env.Service, q, view.WithLogger(env.Log), view.WithFencing())
	h := action.NewCreateTask(env.Service, q.Filter.UserID, tasks.Trigger, env.Log)
	return submitThenPrintTasks(ctx, env, h, action.Form(action.FieldTitle, title), tasks, out, errOut)
}

// RmTaskCmd implements the rmtask command.
type RmTaskCmd struct {
	flags taskFlags
}

func (c *RmTaskCmd) Name() string       { return "rmtask" }
func (c *RmTaskCmd) Aliases() []string  { return []string{"rm"} }
func (c *RmTaskCmd) Synopsis() string   { return "Delete a task" }
func (c *RmTaskCmd) Usage() string      { return "taskboard rmtask --user <id> <n|task-id>" }
func (c *RmTaskCmd) NeedsService() bool { return true }

func (c *RmTaskCmd) RegisterFlags(fs *flag.FlagSet) { c.flags.register(fs) }

func (c *RmTaskCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	q, id, code := resolveRef(ctx, env, &c.flags, args, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks := view.NewTasks(ctx, env.Service, q, view.WithLogger(env.Log), view.WithFencing())
	h := action.NewDeleteTask(env.Service, tasks.Trigger, env.Log)
	return submitThenPrintTasks(ctx, env, h, action.Form(action.FieldID, id), tasks, out, errOut)
}

// DoneCmd implements the done and undone commands.
type DoneCmd struct {
	done  bool
	flags taskFlags
}

func (c *DoneCmd) Name() string {
	if c.done {
		return "done"
	}
	return "undone"
}

func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) Synopsis() string {
	if c.done {
		return "Mark a task done"
	}
	return "Mark a task not done"
}

func (c *DoneCmd) Usage() string {
	return "taskboard " + c.Name() + " --user <id> <n|task-id>"
}

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) { c.flags.register(fs) }

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	q, id, code := resolveRef(ctx, env, &c.flags, args, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks := view.NewTasks(ctx, env.Service, q, view.WithLogger(env.Log), view.WithFencing())
	h := action.NewSetDone(env.Service, tasks.Trigger, env.Log)
	form := action.Form(action.FieldID, id, action.FieldDone, fmt.Sprint(c.done))
	return submitThenPrintTasks(ctx, env, h, form, tasks, out, errOut)
}

// resolveRef parses the flags and task reference and resolves it to an id.
func resolveRef(ctx context.Context, env *Env, flags *taskFlags, args []string, errOut io.Writer) (query.Query, string, int) {
	q, err := flags.query(env.Config)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return q, "", exitcode.UserError
	}

	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return q, "", exitcode.UserError
	}

	id, err := resolveTaskID(ctx, env.Service, q, ref)
	if err != nil {
		if strings.Contains(err.Error(), "out of range") {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return q, "", exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return q, "", exitcode.BackendError
	}
	return q, id, exitcode.Success
}

func submitThenPrintTasks(ctx context.Context, env *Env, h *action.Handler, form url.Values, tasks *view.TasksView, out, errOut io.Writer) int {
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
	return printTasks(ctx, tasks, out, errOut)
}

// printTasks waits for the latest tasks fetch and prints it, or the
// page-level fallback if the load failed.
func printTasks(ctx context.Context, tasks *view.TasksView, out, errOut io.Writer) int {
	snap, err := tasks.Wait(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	if snap.Err != nil {
		output.FormatFallback(errOut, snap.Err)
		return exitcode.BackendError
	}
	output.FormatTaskPage(out, snap.Query, snap.Result)
	return exitcode.Success
}
