package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/state"
)

var projectAlpha = models.SelectionOption{
	ID:    "p-1",
	Name:  "Project Alpha",
	Value: "alpha",
	Commits: []models.Commit{
		{SHA: "abc1234def", Message: "init"},
		{SHA: "bcd2345efa", Message: "add readme\n\nlong body"},
	},
}

var projectBeta = models.SelectionOption{ID: "p-2", Name: "Project Beta", Value: "beta"}

// collect runs cmd and returns the messages it produces. Commands that do not
// finish quickly (ticks, blinks) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// isQuit reports whether msgs contain tea.Quit's message
func isQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

// drive feeds each of msgs into m in turn. The messages produced by the
// commands a msg returns are processed before moving on to the next one.
func drive(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		queue := []tea.Msg{msg}
		for i := 0; len(queue) > 0 && i < 200; i++ {
			next := queue[0]
			queue = queue[1:]

			var cmd tea.Cmd
			m, cmd = m.Update(next)
			for _, out := range collect(cmd) {
				if _, ok := out.(tea.QuitMsg); ok {
					continue
				}
				queue = append(queue, out)
			}
		}
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "alt+enter":
		return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText returns one rune key message per character
func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			msgs = append(msgs, keyMsg("space"))
			continue
		}
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

type fixture struct {
	backend *api.MockBackend
	sel     *state.Selection
	history *nav.History
	cfg     config.Config
}

func newFixture(backend *api.MockBackend) *fixture {
	return &fixture{
		backend: backend,
		sel:     state.NewSelection(),
		history: nav.NewHistory(nav.Home()),
		cfg:     config.Config{Markdown: config.DefaultMarkdownConfig()},
	}
}

func (f *fixture) app() App {
	return NewApp(context.Background(), Deps{
		Backend:   f.backend,
		Selection: f.sel,
		History:   f.history,
		Config:    f.cfg,
	})
}

var windowSize = tea.WindowSizeMsg{Width: 120, Height: 40}
