package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/diogo/repochat/internal/chat"
	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/render"
	"github.com/diogo/repochat/internal/transcript"
)

const (
	maxInputLines   = 6
	sidebarWidth    = 34
	sidebarMinWidth = 100
	welcomeText     = "Start a conversation to begin analysis"
)

// Message types for the chat screen
type (
	promptDoneMsg struct {
		reply models.Message
		err   error
	}
	feedbackMsg struct {
		text string
		err  error
	}
	commitsMsg struct {
		commits []models.Commit
	}
)

// ChatModel is the chat screen for the selected repository
type ChatModel struct {
	ctx       context.Context
	session   *chat.Session
	route     nav.Route
	navigator nav.Navigator
	cfg       config.Config
	opts      render.Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// copyFn writes to the system clipboard
	copyFn func(string) error

	// rendered caches glamour output by message id and width
	rendered map[string]string

	// commits mirrors the selection's commit store through a subscription
	commits       []models.Commit
	commitUpdates <-chan []models.Commit
	stopWatch     func()

	feedback string
	ready    bool

	width  int
	height int
}

// NewChatModel creates the chat screen for route
func NewChatModel(ctx context.Context, session *chat.Session, route nav.Route, navigator nav.Navigator, cfg config.Config) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about this repository..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	updates, stop := session.WatchCommits()

	return ChatModel{
		ctx:       ctx,
		session:   session,
		route:     route,
		navigator: navigator,
		cfg:       cfg,
		opts:      render.LoadOptions(cfg),
		textarea:  ta,
		spinner:   s,
		copyFn:    clipboard.WriteAll,
		rendered:  make(map[string]string),

		commits:       session.Commits(),
		commitUpdates: updates,
		stopWatch:     stop,
	}
}

// Init initializes the model
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForCommits(m.commitUpdates))
}

// waitForCommits delivers the next commit list written to the selection
func waitForCommits(updates <-chan []models.Commit) tea.Cmd {
	return func() tea.Msg {
		commits, ok := <-updates
		if !ok {
			return nil
		}
		return commitsMsg{commits: commits}
	}
}

// Update handles messages and updates the model
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.stopWatch()
			return m, tea.Quit

		case "esc":
			m.stopWatch()
			m.navigator.Navigate(nav.Home())
			return m, nil

		case "enter":
			return m.send()

		case "ctrl+y":
			return m, m.copyLastReply()

		case "ctrl+s":
			return m, m.export()

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.feedback = ""
		lines := m.textarea.Height()
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		if m.fitInput() != lines {
			m.layout()
		}

	case promptDoneMsg:
		// A failed prompt is only logged; its placeholder is already gone
		if msg.err == nil && m.cfg.CopyToClipboard {
			cmds = append(cmds, m.copyText(msg.reply.Content))
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case commitsMsg:
		m.commits = msg.commits
		cmds = append(cmds, waitForCommits(m.commitUpdates))

	case feedbackMsg:
		if msg.err != nil {
			m.feedback = FormatError(msg.err)
		} else {
			m.feedback = msg.text
		}

	case spinner.TickMsg:
		if m.session.Conversation().Sending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// send begins a message and returns the command that prompts the backend
func (m ChatModel) send() (tea.Model, tea.Cmd) {
	p, err := m.session.Begin(m.textarea.Value())
	if err != nil {
		return m, nil
	}

	m.textarea.Reset()
	m.fitInput()
	m.layout()
	m.feedback = ""
	m.updateViewport()
	m.viewport.GotoBottom()

	session, ctx := m.session, m.ctx
	prompt := func() tea.Msg {
		reply, err := session.Prompt(ctx, p)
		return promptDoneMsg{reply: reply, err: err}
	}
	return m, tea.Batch(prompt, m.spinner.Tick)
}

// copyLastReply returns a command that copies the last reply
func (m ChatModel) copyLastReply() tea.Cmd {
	reply, ok := m.session.Conversation().LastReply()
	if !ok {
		return func() tea.Msg { return feedbackMsg{text: "No reply to copy yet"} }
	}
	return m.copyText(reply.Content)
}

func (m ChatModel) copyText(text string) tea.Cmd {
	copyFn := m.copyFn
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			log.Warn().Err(err).Msg("Clipboard copy failed")
			return feedbackMsg{err: fmt.Errorf("copy failed: %w", err)}
		}
		return feedbackMsg{text: "Copied reply to clipboard"}
	}
}

// export returns a command that saves the conversation in the configured format
func (m ChatModel) export() tea.Cmd {
	messages := m.session.Conversation().Settled()
	if len(messages) == 0 {
		return func() tea.Msg { return feedbackMsg{text: "Nothing to export yet"} }
	}

	cfg := m.cfg
	meta := transcript.Meta{
		Selection:  m.route.Selection,
		Kind:       string(m.route.Kind),
		RepoID:     m.session.RepoID(),
		Commits:    len(m.commits),
		ExportedAt: time.Now(),
	}
	return func() tea.Msg {
		format, err := transcript.ParseFormat(cfg.ExportFormat)
		if err != nil {
			return feedbackMsg{err: err}
		}
		dir, err := config.GetExportDir(cfg)
		if err != nil {
			return feedbackMsg{err: err}
		}
		path, err := transcript.Save(dir, meta, messages, format)
		if err != nil {
			return feedbackMsg{err: err}
		}
		log.Info().Str("path", path).Msg("Transcript exported")
		return feedbackMsg{text: "Saved transcript to " + path}
	}
}

// fitInput grows the textarea with its content up to maxInputLines
func (m *ChatModel) fitInput() int {
	lines := m.textarea.LineCount()
	if lines < 1 {
		lines = 1
	}
	if lines > maxInputLines {
		lines = maxInputLines
	}
	m.textarea.SetHeight(lines)
	return lines
}

// showSidebar reports whether the commit sidebar fits
func (m ChatModel) showSidebar() bool {
	return m.width >= sidebarMinWidth
}

// mainWidth is the width of the messages and input column
func (m ChatModel) mainWidth() int {
	w := m.width - 2
	if m.showSidebar() {
		w -= sidebarWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

// layout sizes the viewport and textarea from the window size
func (m *ChatModel) layout() {
	if !m.ready {
		return
	}

	headerHeight := 3
	inputHeight := m.textarea.Height() + 3
	statusHeight := 1

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.mainWidth() - 4

	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(vpWidth, vpHeight)
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(m.mainWidth() - 4)
}

// updateViewport refreshes the viewport content with styled messages
func (m *ChatModel) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.session.Conversation().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		stamp := timestampStyle.Render(" " + msg.Timestamp.Format("15:04:05"))

		if msg.IsUser() {
			label := userLabelStyle.Render("● You") + stamp
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}

		if msg.Pending {
			label := assistantLabelStyle.Render("◆ Assistant")
			bubble := assistantBubbleStyle.Render(m.spinner.View() + loadingStyle.Render(" Analyzing..."))
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}

		label := assistantLabelStyle.Render("◆ Assistant") + stamp
		bubble := assistantBubbleStyle.Width(bubbleWidth).Render(m.renderReply(msg, bubbleWidth-4))
		content.WriteString(label + "\n" + bubble + "\n")
	}

	m.viewport.SetContent(content.String())
}

// renderReply renders an assistant reply through glamour, caching by width
func (m *ChatModel) renderReply(msg models.Message, width int) string {
	cacheKey := fmt.Sprintf("%s:%d", msg.ID, width)
	if out, ok := m.rendered[cacheKey]; ok {
		return out
	}
	out := render.Reply(msg.Content, m.opts.WithWidth(width))
	m.rendered[cacheKey] = out
	return out
}

// View renders the chat screen
func (m ChatModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	mainWidth := m.mainWidth()
	var sections []string

	// Header
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		hintStyle.Render("← Back (esc)"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("Selected: "),
		titleStyle.Render(truncate(m.route.Selection, mainWidth-30)),
	)
	sections = append(sections, headerStyle.Width(m.width-2).Render(header))

	// Messages
	var messagesContent string
	if m.session.Conversation().Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messages := messagesAreaStyle.
		Width(mainWidth).
		Height(m.viewport.Height).
		Render(messagesContent)

	// Input
	inputContent := lipgloss.JoinVertical(lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.textarea.View(),
	)
	input := inputPanelStyle.Width(mainWidth).Render(inputContent)

	column := lipgloss.JoinVertical(lipgloss.Left, messages, input)
	if m.showSidebar() {
		column = lipgloss.JoinHorizontal(lipgloss.Top, column, " ", m.renderSidebar(lipgloss.Height(column)))
	}
	sections = append(sections, column)

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}

	sections = append(sections, renderShortcuts(m.width-2, []shortcut{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+S", "Export"},
		{"Esc", "Back"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the placeholder shown before the first message
func (m ChatModel) renderWelcome() string {
	width := m.viewport.Width - 4
	if width < 10 {
		width = 10
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Width(width).Render("◆"),
		"",
		welcomeTitleStyle.Width(width).Render(welcomeText),
		"",
		welcomeStyle.Width(width).Render("Ask about the code, its history or its design"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderSidebar renders the commit list of the selected project
func (m ChatModel) renderSidebar(height int) string {
	inner := sidebarWidth - 4
	lines := []string{sidebarTitleStyle.Render("Commits")}

	commits := m.commits
	if len(commits) == 0 {
		lines = append(lines, hintStyle.Render("No commits for this selection"))
	}

	maxLines := height - 4
	for i, c := range commits {
		if i >= maxLines {
			lines = append(lines, hintStyle.Render(fmt.Sprintf("… %d more", len(commits)-i)))
			break
		}
		sha := commitSHAStyle.Render(c.ShortSHA())
		subject := commitMessageStyle.Render(truncate(c.Subject(), inner-len(c.ShortSHA())-1))
		lines = append(lines, sha+" "+subject)
	}

	return sidebarStyle.
		Width(sidebarWidth).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}
