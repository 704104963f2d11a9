/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <device>",
	Short: "Display detailed information about an instrument device",
	Long: `Display detailed information about a device node including USB metadata.

Examples:
  scpi info /dev/usbtmc0
  scpi info /dev/ttyUSB0

For USB devices, this displays vendor/product IDs, serial numbers, interface
numbers, and other USB-specific metadata extracted from sysfs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := scpi.GetDeviceInfo(args[0])
		if err != nil {
			return fmt.Errorf("getting device info: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n", styles.TitleStyle.Render("Device Information: "+info.Path))
		fmt.Fprintf(out, "  Name:        %s\n", info.Name)
		fmt.Fprintf(out, "  Kind:        %s\n", info.Kind)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)

		if !info.IsUSB() {
			return nil
		}

		fmt.Fprintln(out, "\nUSB Device Information:")
		for _, field := range []struct{ label, value string }{
			{"Vendor ID:   ", info.VendorID},
			{"Product ID:  ", info.ProductID},
			{"Serial:      ", info.SerialNumber},
			{"Interface:   ", info.InterfaceNumber},
			{"Bus:         ", info.BusNumber},
			{"Device:      ", info.DeviceNumber},
			{"Manufacturer:", info.Manufacturer},
			{"Product:     ", info.Product},
		} {
			if field.value != "" {
				fmt.Fprintf(out, "  %s %s\n", field.label, field.value)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
