/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logger"
	"github.com/allbin/go-scpi/internal/tui/models"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console <device>",
	Short: "Interactive SCPI prompt for a single device",
	Long: `Open a device and send SCPI commands interactively.

Commands containing '?' are queries and wait for one response line; other
commands are written without reading. Use the arrow keys to recall earlier
commands and F1 for help.

Examples:
  scpi console /dev/usbtmc0
  scpi console /dev/ttyUSB0 --baud 115200 --timeout 500ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := transportOptions()
		if err != nil {
			return err
		}

		t, err := scpi.Resolve(args[0], opts...)
		if err != nil {
			return err
		}
		defer t.Close()

		m := models.NewConsoleModel(t, consoleDetails(args[0]), logger.Default())
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// consoleDetails summarizes the line settings shown in the status bar.
func consoleDetails(path string) string {
	kind, _ := scpi.KindOf(path)
	timeout := viper.GetDuration("timeout")
	if kind == scpi.KindSerial {
		return fmt.Sprintf("serial %d 8N1, %s timeout", viper.GetInt("baud"), timeout)
	}
	return fmt.Sprintf("%s, %s timeout", kind, timeout)
}
