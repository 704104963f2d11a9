/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	scpi "github.com/allbin/go-scpi"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <device|--serial SERIAL>",
	Short: "Reset a USB instrument",
	Long: `Perform a USB-level reset on an instrument. This can recover devices
that stopped answering queries without physically unplugging them.

The device will re-enumerate after reset, which may cause the path to
change (e.g., /dev/usbtmc0 might become /dev/usbtmc1). Use serial numbers
to reliably identify devices after reset.

Requirements:
- usbreset utility must be installed (from usbutils package)
- Root/sudo permissions required for USB operations

Examples:
  sudo scpi reset /dev/usbtmc0           # Reset by device path
  sudo scpi reset --serial MY12345678    # Reset by serial number`,
	Args: func(cmd *cobra.Command, args []string) error {
		serialFlag, _ := cmd.Flags().GetString("serial")
		if serialFlag == "" && len(args) != 1 {
			return errors.New("requires either a device path argument or --serial flag")
		}
		if serialFlag != "" && len(args) > 0 {
			return errors.New("cannot specify both device path and --serial flag")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scpi.IsUSBResetAvailable() {
			return fmt.Errorf("%w: install with: sudo apt-get install usbutils", scpi.ErrUSBResetNotAvailable)
		}

		out := cmd.OutOrStdout()
		serialFlag, _ := cmd.Flags().GetString("serial")

		var err error
		if serialFlag != "" {
			fmt.Fprintf(out, "Resetting USB device with serial: %s\n", serialFlag)
			err = scpi.ResetUSBDeviceBySerial(cmd.Context(), serialFlag)
		} else {
			fmt.Fprintf(out, "Resetting USB device: %s\n", args[0])
			err = scpi.ResetUSBDevice(cmd.Context(), args[0])
		}

		if errors.Is(err, scpi.ErrUSBInfoNotAvailable) {
			return fmt.Errorf("%w: this device does not appear to be a USB device", err)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "USB device reset successfully")
		fmt.Fprintln(out, "Device will re-enumerate (path may change)")
		fmt.Fprintln(out, "\nUse 'scpi list --table' to see updated device list")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringP("serial", "s", "", "Reset device by USB serial number")
}
