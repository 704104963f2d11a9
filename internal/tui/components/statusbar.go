package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

// StatusBar shows the connected device and the outcome of the last command.
type StatusBar struct {
	device  string
	details string
	status  styles.StatusType
	message string
	latency time.Duration
	count   int
	width   int
}

// NewStatusBar creates a bar for device. details is free text such as
// "serial 9600 8N1, 2s timeout".
func NewStatusBar(device, details string) *StatusBar {
	return &StatusBar{
		device:  device,
		details: details,
		status:  styles.StatusIdle,
		message: "ready",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetBusy(command string) {
	sb.status = styles.StatusBusy
	sb.message = "sending " + command
}

// SetResult records the outcome of a finished command.
func (sb *StatusBar) SetResult(status styles.StatusType, message string, latency time.Duration) {
	sb.status = status
	sb.message = message
	sb.latency = latency
	sb.count++
}

func (sb *StatusBar) Status() styles.StatusType {
	return sb.status
}

func (sb *StatusBar) Message() string {
	return sb.message
}

func (sb *StatusBar) View() string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	var indicator string
	switch sb.status {
	case styles.StatusIdle:
		indicator = "●"
	case styles.StatusBusy:
		indicator = "○"
	default:
		indicator = "✗"
	}
	indicator = styles.GetStatusStyle(sb.status).Padding(0, 1).Render(indicator)

	device := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	message := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(sb.message)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	details := sb.details
	if sb.count > 0 {
		details = fmt.Sprintf("%s │ %d sent, last %s", details, sb.count, sb.latency.Round(time.Millisecond))
	}
	right := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(details)

	left := lipgloss.JoinHorizontal(lipgloss.Left, device, indicator, message, divider)

	spacer := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacer < 1 {
		spacer = 1
	}

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, lipgloss.NewStyle().Width(spacer).Render(""), right))
}
