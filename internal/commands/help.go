package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskboard help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-62s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the REST endpoint (default http://localhost:3001)
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr

Environment:
  TASKBOARD_BASE_URL, TASKBOARD_PAGE_SIZE, TASKBOARD_TOKEN, TASKBOARD_TIMEOUT,
  TASKBOARD_LOG_LEVEL, TASKBOARD_LOG_ENCODING (also read from <config>/.env)
`
