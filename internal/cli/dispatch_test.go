package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error) {
		return svc, nil
	}
}

func newTestDispatcher(t *testing.T, svc *testutil.FakeService) *Dispatcher {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdirForTest(t, t.TempDir())
	d := NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	d.logOut = io.Discard
	return d
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newTestDispatcher(t, testutil.NewFakeService())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newTestDispatcher(t, testutil.NewFakeService())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := newTestDispatcher(t, testutil.NewFakeService())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_DefaultCommandListsUsers(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u1", "a@b.com")
	d := newTestDispatcher(t, svc)

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "a@b.com") {
		t.Errorf("expected users listing, got %q", stdout.String())
	}
}

func TestDispatcher_VersionSkipsBackend(t *testing.T) {
	d := newTestDispatcher(t, nil)
	d.factory = nil

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "taskboard 0.1.0\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := newTestDispatcher(t, testutil.NewFakeService())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"tasks", "--user"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: flag needs an argument: -user\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}
