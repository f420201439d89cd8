package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"taskboard/internal/action"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/query"
	"taskboard/internal/view"
)

func init() {
	Register(&BrowseCmd{})
}

// BrowseCmd implements the browse command: a line-driven pager over one
// user's tasks.
type BrowseCmd struct {
	flags taskFlags

	// in overrides stdin (for testing).
	in io.Reader
}

// SetInput sets the command input (for testing).
func (c *BrowseCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *BrowseCmd) Name() string       { return "browse" }
func (c *BrowseCmd) Aliases() []string  { return nil }
func (c *BrowseCmd) Synopsis() string   { return "Page, search and edit a user's tasks" }
func (c *BrowseCmd) Usage() string      { return "taskboard browse --user <id> [--per-page <n>] [--sort asc|desc]" }
func (c *BrowseCmd) NeedsService() bool { return true }

func (c *BrowseCmd) RegisterFlags(fs *flag.FlagSet) { c.flags.register(fs) }

const browseHelp = "keys: n next · p prev · g <n> page · s <text> search · o asc|desc sort · a <title> add · d <n> delete · x <n> toggle done · r reset · q quit"

func (c *BrowseCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	q, err := c.flags.query(env.Config)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}

	b := &browser{
		env:   env,
		tasks: view.NewTasks(ctx, env.Service, q, view.WithLogger(env.Log)),
		out:   out,
	}
	b.create = action.NewCreateTask(env.Service, q.Filter.UserID, b.tasks.Trigger, env.Log)
	b.remove = action.NewDeleteTask(env.Service, b.tasks.Trigger, env.Log)
	b.toggle = action.NewSetDone(env.Service, b.tasks.Trigger, env.Log)

	b.render(ctx)
	fmt.Fprintln(out, browseHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			break
		}
		b.handle(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return b.code
}

type browser struct {
	env    *Env
	tasks  *view.TasksView
	create *action.Handler
	remove *action.Handler
	toggle *action.Handler
	out    io.Writer
	code   int
}

func (b *browser) handle(ctx context.Context, line string) {
	key, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch key {
	case "n", "p":
		snap := b.tasks.Current()
		if snap == nil || snap.Err != nil {
			b.refresh(ctx, query.Override{})
			return
		}
		target := snap.Result.Next
		if key == "p" {
			target = snap.Result.Prev
		}
		if target == nil {
			fmt.Fprintln(b.out, "no such page")
			return
		}
		b.refresh(ctx, query.Override{Page: query.Ptr(*target)})
	case "g":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			fmt.Fprintf(b.out, "invalid page number: %s\n", arg)
			return
		}
		b.refresh(ctx, query.Override{Page: query.Ptr(n)})
	case "s":
		b.refresh(ctx, query.Override{Page: query.Ptr(1), Title: query.Ptr(arg)})
	case "o":
		dir, err := query.ParseDirection(arg)
		if err != nil {
			fmt.Fprintln(b.out, err)
			return
		}
		b.refresh(ctx, query.Override{Sort: query.Ptr(dir)})
	case "r":
		b.refresh(ctx, query.Override{Page: query.Ptr(1), Title: query.Ptr(""), Sort: query.Ptr(query.Asc)})
	case "a":
		if arg == "" {
			fmt.Fprintln(b.out, "title required")
			return
		}
		b.submit(ctx, b.create, action.Form(action.FieldTitle, arg))
	case "d", "x":
		task, ok := b.lookup(arg)
		if !ok {
			return
		}
		if key == "d" {
			b.submit(ctx, b.remove, action.Form(action.FieldID, task.ID))
			return
		}
		b.submit(ctx, b.toggle, action.Form(action.FieldID, task.ID, action.FieldDone, strconv.FormatBool(!task.Done)))
	default:
		fmt.Fprintln(b.out, browseHelp)
	}
}

func (b *browser) refresh(ctx context.Context, o query.Override) {
	view.RefreshTasks(ctx, b.tasks, o)
	b.render(ctx)
}

func (b *browser) submit(ctx context.Context, h *action.Handler, form url.Values) {
	state, err := h.Submit(ctx, form)
	if err != nil {
		fmt.Fprintln(b.out, err)
		return
	}
	if state.Error != "" {
		fmt.Fprintln(b.out, state.Error)
		b.code = exitcode.ForError(state.Err)
		return
	}
	b.render(ctx)
}

// lookup finds a task by its number on the current page.
func (b *browser) lookup(arg string) (pageTask, bool) {
	snap := b.tasks.Current()
	n, err := strconv.Atoi(arg)
	if snap == nil || snap.Err != nil || err != nil {
		fmt.Fprintf(b.out, "invalid task number: %s\n", arg)
		return pageTask{}, false
	}
	task, ok := taskAt(snap.Query, snap.Result, n)
	if !ok {
		fmt.Fprintf(b.out, "task number not on this page: %d\n", n)
		return pageTask{}, false
	}
	return pageTask{ID: task.ID, Done: task.Done}, true
}

type pageTask struct {
	ID   string
	Done bool
}

func (b *browser) render(ctx context.Context) {
	snap, err := b.tasks.Wait(ctx)
	if err != nil {
		fmt.Fprintf(b.out, "error: %v\n", err)
		b.code = exitcode.BackendError
		return
	}
	if snap.Err != nil {
		output.FormatFallback(b.out, snap.Err)
		b.code = exitcode.BackendError
		return
	}
	b.code = exitcode.Success
	output.FormatTaskPage(b.out, snap.Query, snap.Result)
}
