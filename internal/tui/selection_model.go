package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/selection"
)

// panel identifies the focused half of the selection screen
type panel int

const (
	panelURL panel = iota
	panelProject
)

// Message types for the selection screen
type (
	optionsLoadedMsg struct {
		options []models.SelectionOption
		err     error
	}
	urlValidatedMsg struct {
		url string
		id  string
		err error
	}
	projectValidatedMsg struct {
		option models.SelectionOption
		err    error
	}
)

// SelectionModel is the repository selection screen: a URL input and a list
// of projects offered by the backend.
type SelectionModel struct {
	ctx     context.Context
	backend api.Backend
	flow    *selection.Flow

	urlInput textinput.Model
	spinner  spinner.Model

	focus    panel
	listOpen bool
	cursor   int
	notice   string

	width  int
	height int
}

// NewSelectionModel creates the selection screen around flow
func NewSelectionModel(ctx context.Context, backend api.Backend, flow *selection.Flow) SelectionModel {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/owner/repo"
	ti.CharLimit = 512
	ti.Prompt = "› "
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = placeholderStyle
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	return SelectionModel{
		ctx:      ctx,
		backend:  backend,
		flow:     flow,
		urlInput: ti,
		spinner:  s,
		focus:    panelURL,
	}
}

// WithNotice returns the model showing notice above the panels
func (m SelectionModel) WithNotice(notice string) SelectionModel {
	m.notice = notice
	return m
}

// Init initializes the model
func (m SelectionModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m SelectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.urlInput.Width = m.panelWidth() - 8

	case optionsLoadedMsg:
		m.flow.FinishLoadOptions(msg.options, msg.err)
		m.clampCursor()

	case urlValidatedMsg:
		m.flow.FinishURL(msg.url, msg.id, msg.err)

	case projectValidatedMsg:
		m.flow.FinishProject(msg.option, msg.err)

	case spinner.TickMsg:
		snap := m.flow.Snapshot()
		if snap.ValidatingURL || snap.ValidatingProject || snap.LoadingOptions {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		}

		if m.focus == panelURL {
			return m.updateURLPanel(msg)
		}
		return m.updateProjectPanel(msg)
	}

	return m, tea.Batch(cmds...)
}

// updateURLPanel handles keys while the URL input has focus
func (m SelectionModel) updateURLPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		u, err := m.flow.BeginURL(m.urlInput.Value())
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(m.validateURL(u), m.spinner.Tick)
	}

	before := m.urlInput.Value()
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	if m.urlInput.Value() != before {
		m.flow.SetURL(m.urlInput.Value())
	}
	return m, cmd
}

// updateProjectPanel handles keys while the project list has focus
func (m SelectionModel) updateProjectPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.listOpen {
		switch msg.String() {
		case "enter", " ", "down", "j":
			m.listOpen = true
			m.syncCursor()
			if m.flow.BeginLoadOptions() {
				return m, tea.Batch(m.loadOptions(), m.spinner.Tick)
			}
		}
		return m, nil
	}

	options := m.flow.Snapshot().Options
	switch msg.String() {
	case "esc":
		m.listOpen = false

	case "up", "k":
		if len(options) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(options) - 1
			}
			m.flow.Select(options[m.cursor].Value)
		}

	case "down", "j":
		if len(options) > 0 {
			m.cursor++
			if m.cursor >= len(options) {
				m.cursor = 0
			}
			m.flow.Select(options[m.cursor].Value)
		}

	case "enter":
		value := ""
		if m.cursor < len(options) {
			value = options[m.cursor].Value
		}
		option, err := m.flow.BeginProject(value)
		if err != nil {
			return m, nil
		}
		m.listOpen = false
		return m, tea.Batch(m.validateProject(option), m.spinner.Tick)
	}

	return m, nil
}

// toggleFocus moves focus between the two panels
func (m *SelectionModel) toggleFocus() {
	if m.focus == panelURL {
		m.focus = panelProject
		m.urlInput.Blur()
		return
	}
	m.focus = panelURL
	m.listOpen = false
	m.urlInput.Focus()
}

// syncCursor places the cursor on the selected option
func (m *SelectionModel) syncCursor() {
	snap := m.flow.Snapshot()
	for i, opt := range snap.Options {
		if opt.Value == snap.Selected {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *SelectionModel) clampCursor() {
	n := len(m.flow.Snapshot().Options)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// loadOptions returns a command that fetches the project list
func (m SelectionModel) loadOptions() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		options, err := backend.ListRepos(ctx)
		return optionsLoadedMsg{options: options, err: err}
	}
}

// validateURL returns a command that registers u with the backend
func (m SelectionModel) validateURL(u string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		id, err := backend.RegisterRepo(ctx, u)
		return urlValidatedMsg{url: u, id: id, err: err}
	}
}

// validateProject returns a command that validates a listed project
func (m SelectionModel) validateProject(option models.SelectionOption) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		err := backend.ValidateProject(ctx, option)
		return projectValidatedMsg{option: option, err: err}
	}
}

func (m SelectionModel) panelWidth() int {
	w := m.width - 4
	if w > 80 {
		w = 80
	}
	if w < 30 {
		w = 30
	}
	return w
}

// View renders the selection screen
func (m SelectionModel) View() string {
	width := m.panelWidth()
	snap := m.flow.Snapshot()

	var sections []string

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("◆ repochat"),
		hintStyle.Render("Choose a repository to analyze"),
	)
	sections = append(sections, headerStyle.Width(width).Render(header))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("⚠ "+m.notice))
	}

	sections = append(sections, m.renderURLPanel(width, snap))
	sections = append(sections, m.renderProjectPanel(width, snap))

	shortcuts := []shortcut{
		{"Tab", "Switch"},
		{"Enter", "Submit"},
		{"Ctrl+C", "Quit"},
	}
	if m.focus == panelProject {
		shortcuts = []shortcut{
			{"Tab", "Switch"},
			{"↑↓", "Choose"},
			{"Enter", "Open/Submit"},
			{"Esc", "Close"},
		}
	}
	sections = append(sections, renderShortcuts(width, shortcuts))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SelectionModel) renderURLPanel(width int, snap selection.Snapshot) string {
	style := panelStyle
	if m.focus == panelURL {
		style = panelFocusedStyle
	}

	lines := []string{
		panelTitleStyle.Render("Repository URL"),
		m.urlInput.View(),
	}
	switch {
	case snap.ValidatingURL:
		lines = append(lines, inlineStatusStyle.Render(m.spinner.View()+" Validating URL..."))
	case snap.URLError != "":
		lines = append(lines, inlineErrorStyle.Render(snap.URLError))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m SelectionModel) renderProjectPanel(width int, snap selection.Snapshot) string {
	style := panelStyle
	if m.focus == panelProject {
		style = panelFocusedStyle
	}

	current := placeholderStyle.Render("Select a project")
	if opt, ok := models.FindOption(snap.Options, snap.Selected); ok {
		current = listSelectedStyle.Render(opt.Label())
	}

	lines := []string{
		panelTitleStyle.Render("Project"),
		"▾ " + current,
	}

	if m.listOpen {
		lines = append(lines, m.renderList(width-4, snap)...)
	}

	switch {
	case snap.ValidatingProject:
		lines = append(lines, inlineStatusStyle.Render(m.spinner.View()+" Validating Project..."))
	case snap.ProjectError != "":
		lines = append(lines, inlineErrorStyle.Render(snap.ProjectError))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderList renders up to eight options around the cursor
func (m SelectionModel) renderList(width int, snap selection.Snapshot) []string {
	if snap.LoadingOptions {
		return []string{loadingStyle.Render(m.spinner.View() + " Loading projects...")}
	}
	if len(snap.Options) == 0 {
		return []string{hintStyle.Render("  No projects available")}
	}

	const maxItems = 8
	start := 0
	if m.cursor >= maxItems {
		start = m.cursor - maxItems + 1
	}
	end := start + maxItems
	if end > len(snap.Options) {
		end = len(snap.Options)
	}

	var lines []string
	if start > 0 {
		lines = append(lines, hintStyle.Render("  ↑ more above"))
	}
	for i := start; i < end; i++ {
		opt := snap.Options[i]
		label := truncate(opt.Label(), width-16)
		meta := hintStyle.Render(fmt.Sprintf(" (%d commits)", len(opt.Commits)))
		if i == m.cursor {
			lines = append(lines, listCursorStyle.Render("▸ ")+listSelectedStyle.Render(label)+meta)
			continue
		}
		lines = append(lines, listItemStyle.Render(label)+meta)
	}
	if end < len(snap.Options) {
		lines = append(lines, hintStyle.Render("  ↓ more below"))
	}
	return lines
}
