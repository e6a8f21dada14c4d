package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/repochat/internal/api"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/selection"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCmd(NewDependencies())
	if cmd.Use != "repochat" {
		t.Errorf("Expected use 'repochat', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	expectedSubcommands := []string{"repos", "ask", "config"}

	for _, sub := range expectedSubcommands {
		t.Run("subcommand "+sub, func(t *testing.T) {
			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Name() == sub {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %s not found", sub)
			}
		})
	}
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"api-url", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("PersistentFlag %s not found", name)
		}
	}
	for _, name := range []string{"url", "project", "version"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("Flag %s not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{})

	out, _, err := execute(t, deps, "", "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "repochat "+Version) {
		t.Errorf("expected version output, got %q", out)
	}
	if ui.calls != 0 {
		t.Error("TUI should not start with --version")
	}
}

func TestRootCommand_StartsAtHome(t *testing.T) {
	setupHome(t)
	backend := &api.MockBackend{}
	deps, ui, _ := newTestDeps(backend)

	if _, _, err := execute(t, deps, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ui.calls != 1 {
		t.Fatalf("expected TUI to start once, got %d", ui.calls)
	}
	if got := ui.deps.History.Current(); got != nav.Home() {
		t.Errorf("expected home route, got %s", got)
	}
	if ui.deps.Backend != backend {
		t.Error("expected injected backend to reach the TUI")
	}
	if backend.Calls() != 0 {
		t.Errorf("expected no backend calls, got %d", backend.Calls())
	}
}

func TestRootCommand_URLPreselect(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{RegisterID: "repo-1"})

	if _, _, err := execute(t, deps, "", "--url", "https://github.com/a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/chat?selection=https%3A%2F%2Fgithub.com%2Fa%2Fb&type=url"
	if got := ui.deps.History.Current().String(); got != want {
		t.Errorf("route = %s, want %s", got, want)
	}
	if got := ui.deps.Selection.ID.Get(); got != "repo-1" {
		t.Errorf("selection id = %q, want repo-1", got)
	}
}

func TestRootCommand_URLRejected(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{
		RegisterErr: apierrors.NewAPIError(404, api.EndpointRegisterRepo, "not found"),
	})

	_, _, err := execute(t, deps, "", "--url", "https://nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), selection.MsgURLUnavailable) {
		t.Errorf("expected user message in error, got %v", err)
	}
	if !apierrors.IsRejected(err) {
		t.Errorf("expected rejected error, got %v", err)
	}
	if ui.calls != 0 {
		t.Error("TUI should not start after a failed selection")
	}
}

func TestRootCommand_ProjectPreselect(t *testing.T) {
	setupHome(t)
	backend := &api.MockBackend{Options: []models.SelectionOption{projectAlpha}}
	deps, ui, _ := newTestDeps(backend)

	if _, _, err := execute(t, deps, "", "--project", "project alpha"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ui.deps.History.Current().String(); got != "/chat?selection=Project%20Alpha&type=dropdown" {
		t.Errorf("unexpected route %s", got)
	}
	if backend.LastOption.Value != "alpha" {
		t.Errorf("expected validation of alpha, got %q", backend.LastOption.Value)
	}
	if got := len(ui.deps.Selection.Commits.Get()); got != 1 {
		t.Errorf("expected 1 commit, got %d", got)
	}
}

func TestRootCommand_ProjectUnknown(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{Options: []models.SelectionOption{projectAlpha}})

	_, _, err := execute(t, deps, "", "--project", "gamma")
	if !errors.Is(err, apierrors.ErrUnknownProject) {
		t.Fatalf("expected ErrUnknownProject, got %v", err)
	}
	if ui.calls != 0 {
		t.Error("TUI should not start")
	}
}

func TestRootCommand_URLAndProjectExclusive(t *testing.T) {
	setupHome(t)
	backend := &api.MockBackend{}
	deps, _, _ := newTestDeps(backend)

	_, _, err := execute(t, deps, "", "--url", "https://x", "--project", "alpha")
	if err == nil {
		t.Fatal("expected error for --url with --project")
	}
	if backend.Calls() != 0 {
		t.Errorf("expected no backend calls, got %d", backend.Calls())
	}
}

func TestRootCommand_APIURLFlag(t *testing.T) {
	setupHome(t)
	ui := &fakeTUI{}
	deps := &Dependencies{TUI: ui, IsTTY: func() bool { return false }}

	if _, _, err := execute(t, deps, "", "--api-url", "http://backend.test:9000/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client, ok := ui.deps.Backend.(*api.Client)
	if !ok {
		t.Fatalf("expected *api.Client, got %T", ui.deps.Backend)
	}
	if client.BaseURL() != "http://backend.test:9000" {
		t.Errorf("BaseURL = %s", client.BaseURL())
	}
	if ui.deps.Config.APIURL != "http://backend.test:9000" {
		t.Errorf("Config.APIURL = %s", ui.deps.Config.APIURL)
	}
}

func TestRootCommand_VerboseForcesDebug(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{})

	if _, _, err := execute(t, deps, "", "--verbose"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ui.deps.Config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", ui.deps.Config.LogLevel)
	}
}

func TestRootCommand_TUIError(t *testing.T) {
	setupHome(t)
	deps, ui, _ := newTestDeps(&api.MockBackend{})
	ui.err = errors.New("no tty")

	if _, _, err := execute(t, deps, ""); err == nil || err.Error() != "no tty" {
		t.Errorf("expected TUI error, got %v", err)
	}
}

func TestResolveProject(t *testing.T) {
	options := []models.SelectionOption{
		projectAlpha,
		{ID: "p-2", Name: "", Value: "beta"},
	}

	tests := []struct {
		query  string
		wantID string
		wantOK bool
	}{
		{"alpha", "p-1", true},
		{"Project Alpha", "p-1", true},
		{"PROJECT ALPHA", "p-1", true},
		{"p-2", "p-2", true},
		{" beta ", "p-2", true},
		{"gamma", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			opt, ok := resolveProject(options, tt.query)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if opt.ID != tt.wantID {
				t.Errorf("id = %q, want %q", opt.ID, tt.wantID)
			}
		})
	}
}
