package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

const maxHistory = 100

// Prompt is the command line of the console with shell-like history.
type Prompt struct {
	textInput     textinput.Model
	history       []string
	historyIndex  int
	currentInput  string // restored when navigating past the newest entry
	terminalWidth int
}

func NewPrompt(placeholder string) *Prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Focus()

	return &Prompt{
		textInput:    ti,
		historyIndex: -1,
	}
}

func (p *Prompt) SetWidth(width int) {
	p.terminalWidth = width
	// border(2) + padding(2) + symbol(1) + space(1)
	usable := width - 6
	if usable < 20 {
		usable = 20
	}
	p.textInput.Width = usable
}

func (p *Prompt) Value() string {
	return p.textInput.Value()
}

func (p *Prompt) SetValue(value string) {
	p.textInput.SetValue(value)
}

func (p *Prompt) Reset() {
	p.textInput.Reset()
}

func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	return p, cmd
}

// View renders the prompt. While a query is in flight the symbol dims.
func (p *Prompt) View(busy bool) string {
	symbol := styles.PromptStyle.Render(">")
	border := colors.Green
	if busy {
		symbol = styles.MutedStyle.Render(">")
		border = colors.Surface2
	}

	width := p.terminalWidth - 4
	if width < 10 {
		width = 10
	}

	return styles.InputStyle.
		Width(width).
		BorderForeground(border).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, symbol, " ", p.textInput.View()))
}

// AddToHistory records command unless it is blank or repeats the last entry.
func (p *Prompt) AddToHistory(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}
	if n := len(p.history); n == 0 || p.history[n-1] != command {
		p.history = append(p.history, command)
		if len(p.history) > maxHistory {
			p.history = p.history[1:]
		}
	}
	p.historyIndex = -1
	p.currentInput = ""
}

func (p *Prompt) History() []string {
	return p.history
}

func (p *Prompt) HistoryPrev() {
	if len(p.history) == 0 {
		return
	}

	if p.historyIndex == -1 {
		p.currentInput = p.textInput.Value()
		p.historyIndex = len(p.history) - 1
	} else if p.historyIndex > 0 {
		p.historyIndex--
	}

	p.textInput.SetValue(p.history[p.historyIndex])
	p.textInput.CursorEnd()
}

func (p *Prompt) HistoryNext() {
	if len(p.history) == 0 || p.historyIndex == -1 {
		return
	}

	if p.historyIndex < len(p.history)-1 {
		p.historyIndex++
		p.textInput.SetValue(p.history[p.historyIndex])
	} else {
		p.historyIndex = -1
		p.textInput.SetValue(p.currentInput)
		p.currentInput = ""
	}
	p.textInput.CursorEnd()
}
