// Package models holds the bubbletea models behind interactive commands.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logger"
	"github.com/allbin/go-scpi/internal/tui/components"
	"github.com/allbin/go-scpi/internal/tui/keys"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

const timedOutText = "response timed out"

// CommandResultMsg carries the outcome of one console command.
type CommandResultMsg struct {
	Command  string
	Response string
	// Query is false for commands that expect no answer (no '?').
	Query   bool
	Err     error
	Elapsed time.Duration
}

// IsQuery reports whether command expects a response line. SCPI queries end
// their header with '?'; settings do not answer.
func IsQuery(command string) bool {
	return strings.Contains(command, "?")
}

// ConsoleModel is an interactive SCPI prompt bound to a single transport.
type ConsoleModel struct {
	transport scpi.Transport
	log       logger.Logger

	keys     keys.ConsoleKeys
	prompt   *components.Prompt
	status   *components.StatusBar
	viewport viewport.Model
	help     help.Model

	lines  []string
	busy   bool
	ready  bool
	width  int
	height int
}

// NewConsoleModel creates the console. details is shown in the status bar.
func NewConsoleModel(t scpi.Transport, details string, log logger.Logger) *ConsoleModel {
	return &ConsoleModel{
		transport: t,
		log:       log,
		keys:      keys.NewConsoleKeys(),
		prompt:    components.NewPrompt("*IDN?"),
		status:    components.NewStatusBar(t.Path(), details),
		viewport:  viewport.New(80, 20),
		help:      help.New(),
	}
}

func (m *ConsoleModel) Init() tea.Cmd {
	return textinput.Blink
}

// Lines returns the transcript without styling applied by View.
func (m *ConsoleModel) Lines() []string {
	return m.lines
}

func (m *ConsoleModel) Busy() bool {
	return m.busy
}

func (m *ConsoleModel) Prompt() *components.Prompt {
	return m.prompt
}

func (m *ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case CommandResultMsg:
		m.finish(msg)
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.lines = nil
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.HistoryPrev):
			m.prompt.HistoryPrev()
			return m, nil
		case key.Matches(msg, m.keys.HistoryNext):
			m.prompt.HistoryNext()
			return m, nil
		case key.Matches(msg, m.keys.Send):
			return m, m.send()
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// send starts the command in the prompt. Only one command is in flight at a
// time since the transport is not safe for concurrent use.
func (m *ConsoleModel) send() tea.Cmd {
	command := strings.TrimSpace(m.prompt.Value())
	if command == "" || m.busy {
		return nil
	}

	m.prompt.AddToHistory(command)
	m.prompt.Reset()
	m.busy = true
	m.status.SetBusy(command)
	m.appendLine("> " + command)
	m.log.Debug("console command", "device", m.transport.Path(), "command", command)

	return runCommand(m.transport, command)
}

func runCommand(t scpi.Transport, command string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		msg := CommandResultMsg{Command: command, Query: IsQuery(command)}
		if msg.Query {
			msg.Response, msg.Err = scpi.Query(t, command)
		} else {
			msg.Err = t.Write(command)
		}
		msg.Elapsed = time.Since(start)
		return msg
	}
}

func (m *ConsoleModel) finish(msg CommandResultMsg) {
	m.busy = false

	switch {
	case msg.Err != nil:
		m.log.Warn("console command failed", "device", m.transport.Path(), "command", msg.Command, "error", msg.Err)
		m.appendLine("error: " + msg.Err.Error())
		m.status.SetResult(styles.StatusError, msg.Err.Error(), msg.Elapsed)
	case !msg.Query:
		m.status.SetResult(styles.StatusIdle, "sent "+msg.Command, msg.Elapsed)
	case scpi.TimedOut(msg.Response):
		m.appendLine(timedOutText)
		m.status.SetResult(styles.StatusTimedOut, timedOutText, msg.Elapsed)
	default:
		m.appendLine(msg.Response)
		m.status.SetResult(styles.StatusIdle, "ok", msg.Elapsed)
	}
}

func (m *ConsoleModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *ConsoleModel) refresh() {
	styled := make([]string, len(m.lines))
	for i, line := range m.lines {
		switch {
		case strings.HasPrefix(line, "> "):
			styled[i] = styles.CommandStyle.Render(line)
		case strings.HasPrefix(line, "error: "):
			styled[i] = styles.ErrorStyle.Render(line)
		case line == timedOutText:
			styled[i] = styles.TimeoutStyle.Render(line)
		default:
			styled[i] = styles.ResponseStyle.Render(line)
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

func (m *ConsoleModel) layout() {
	m.status.SetWidth(m.width)
	m.prompt.SetWidth(m.width)
	m.help.Width = m.width

	// status(1) + prompt with border(3) + help
	chrome := 1 + 3 + lipgloss.Height(m.help.View(m.keys))
	height := m.height - chrome - 1
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.refresh()
}

func (m *ConsoleModel) View() string {
	if !m.ready {
		return fmt.Sprintf("Connecting to %s...", m.transport.Path())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.status.View(),
		styles.TranscriptStyle.Width(m.width).Render(m.viewport.View()),
		m.prompt.View(m.busy),
		m.help.View(m.keys),
	)
}
