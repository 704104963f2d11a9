package styles

import (
	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Batch output
	DeviceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve)

	CommandStyle = lipgloss.NewStyle().
			Foreground(colors.Blue)

	ResponseStyle = lipgloss.NewStyle().
			Foreground(colors.Text)

	TimeoutStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colors.Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)

	// Console
	PromptStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	TranscriptStyle = lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colors.Surface1)
)

type StatusType int

const (
	StatusIdle StatusType = iota
	StatusBusy
	StatusTimedOut
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusIdle:
		return lipgloss.NewStyle().Foreground(colors.Green).Bold(true)
	case StatusBusy:
		return lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true)
	case StatusTimedOut:
		return lipgloss.NewStyle().Foreground(colors.Peach).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colors.Red).Bold(true)
	}
}
