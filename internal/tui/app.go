package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/chat"
	"github.com/diogo/repochat/internal/config"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/render"
	"github.com/diogo/repochat/internal/selection"
	"github.com/diogo/repochat/internal/state"
)

// NoSelectionNotice is shown when the chat screen is reached without a repository
const NoSelectionNotice = "Select a repository or project before opening the chat"

// Deps are the collaborators shared by both screens
type Deps struct {
	Backend   api.Backend
	Selection *state.Selection
	History   *nav.History
	Config    config.Config
}

// App is the root model. It renders the screen for the current route and
// swaps screens whenever the navigation history moves.
type App struct {
	ctx  context.Context
	deps Deps

	active tea.Model
	seen   int

	width  int
	height int
}

// NewApp creates the root model positioned at deps.History's current route
func NewApp(ctx context.Context, deps Deps) App {
	if deps.Selection == nil {
		deps.Selection = state.NewSelection()
	}
	if deps.History == nil {
		deps.History = nav.NewHistory(nav.Home())
	}

	a := App{ctx: ctx, deps: deps}
	a.active = a.screenFor(deps.History.Current())
	a.seen = deps.History.Count()
	return a
}

// Route returns the current route
func (a App) Route() nav.Route {
	return a.deps.History.Current()
}

// Init initializes the active screen
func (a App) Init() tea.Cmd {
	return a.active.Init()
}

// Update forwards msg to the active screen and follows any navigation it made
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
	}

	var cmd tea.Cmd
	a.active, cmd = a.active.Update(msg)

	if a.deps.History.Count() == a.seen {
		return a, cmd
	}

	a.active = a.screenFor(a.deps.History.Current())
	a.seen = a.deps.History.Count()
	log.Debug().Str("route", a.deps.History.Current().String()).Msg("Navigated")

	cmds := []tea.Cmd{cmd, a.active.Init()}
	if a.width > 0 {
		var sizeCmd tea.Cmd
		a.active, sizeCmd = a.active.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		cmds = append(cmds, sizeCmd)
	}
	return a, tea.Batch(cmds...)
}

// View renders the active screen
func (a App) View() string {
	return a.active.View()
}

// screenFor builds the screen for route. A chat route without a selected
// repository redirects to the selection screen with a notice.
func (a App) screenFor(route nav.Route) tea.Model {
	if route.IsChat() {
		session, err := chat.NewSession(a.deps.Backend, a.deps.Selection)
		if err == nil {
			return NewChatModel(a.ctx, session, route, a.deps.History, a.deps.Config)
		}
		if !errors.Is(err, apierrors.ErrNoIdentifier) {
			log.Error().Err(err).Msg("Failed to open chat")
		}
		log.Warn().Str("route", route.String()).Msg("Chat opened without a selection, redirecting")
		a.deps.History.Navigate(nav.Home())
		return a.selectionScreen().WithNotice(NoSelectionNotice)
	}
	return a.selectionScreen()
}

func (a App) selectionScreen() SelectionModel {
	flow := selection.NewFlow(a.deps.Backend, a.deps.Selection, a.deps.History)
	return NewSelectionModel(a.ctx, a.deps.Backend, flow)
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	ApplyPalette(render.ResolvePalette(deps.Config.Theme))

	p := tea.NewProgram(
		NewApp(ctx, deps),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
