package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	Run(ctx context.Context, deps tui.Deps) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Backend is the repository/AI backend. When nil a client is built from
	// the effective configuration.
	Backend api.Backend

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) Run(ctx context.Context, deps tui.Deps) error {
	return tui.Run(ctx, deps)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
	}
}

// backend returns the injected backend or a client for cfg.APIURL
func (d *Dependencies) backend(cfg config.Config) (api.Backend, error) {
	if d != nil && d.Backend != nil {
		return d.Backend, nil
	}
	client, err := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (d *Dependencies) runner() TUIInterface {
	if d == nil || d.TUI == nil {
		return &DefaultTUI{}
	}
	return d.TUI
}

func (d *Dependencies) copyText(text string) error {
	if d == nil || d.Clipboard == nil {
		return clipboard.WriteAll(text)
	}
	return d.Clipboard(text)
}

func (d *Dependencies) isTTY() bool {
	if d == nil || d.IsTTY == nil {
		return isStdoutTTY()
	}
	return d.IsTTY()
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
