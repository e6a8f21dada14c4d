package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/logger"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/tui"
)

var projectAlpha = models.SelectionOption{
	ID:      "p-1",
	Name:    "Project Alpha",
	Value:   "alpha",
	Commits: []models.Commit{{SHA: "abc1234def", Message: "init"}},
}

// fakeTUI records the dependencies it was started with
type fakeTUI struct {
	calls int
	deps  tui.Deps
	err   error
}

func (f *fakeTUI) Run(ctx context.Context, deps tui.Deps) error {
	f.calls++
	f.deps = deps
	return f.err
}

// setupHome points HOME at a temp dir and clears the environment overrides
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("REPOCHAT_API_URL", "")
	t.Setenv("REPOCHAT_LOG_LEVEL", "")
	t.Setenv("GLAMOUR_STYLE", "")
	t.Cleanup(logger.Close)
	return home
}

func newTestDeps(backend *api.MockBackend) (*Dependencies, *fakeTUI, *[]string) {
	ui := &fakeTUI{}
	copied := &[]string{}
	deps := &Dependencies{
		Backend: backend,
		TUI:     ui,
		Clipboard: func(s string) error {
			*copied = append(*copied, s)
			return nil
		},
		IsTTY: func() bool { return false },
	}
	return deps, ui, copied
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, deps *Dependencies, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(deps)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
