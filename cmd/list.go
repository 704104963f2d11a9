/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logger"
	"github.com/allbin/go-scpi/internal/report"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [patterns...]",
	Short: "List candidate instrument devices",
	Long: `List device nodes that may host a SCPI instrument.

Without arguments the default patterns are searched:
- Standard serial ports (ttyS*)
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- USB Test & Measurement devices (usbtmc*)

Listing a device does not open it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := scpi.Discover(args...)
		if err != nil {
			return err
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		devices := filterDevices(describeDevices(paths), filterType)

		out := cmd.OutOrStdout()
		if len(devices) == 0 {
			if filterType != "" {
				fmt.Fprintf(out, "No devices found matching filter: %s\n", filterType)
			} else {
				fmt.Fprintln(out, "No devices found")
			}
			return nil
		}

		if tableFormat {
			fmt.Fprintf(out, "Found %d device(s):\n\n", len(devices))
		}
		return report.WriteDevices(out, devices, tableFormat)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by device type: usb, serial, usbtmc, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// describeDevices looks up metadata for each path. A path whose metadata
// cannot be read is still listed with what its name tells.
func describeDevices(paths []string) []*scpi.DeviceInfo {
	log := logger.Default()

	devices := make([]*scpi.DeviceInfo, 0, len(paths))
	for _, path := range paths {
		info, err := scpi.GetDeviceInfo(path)
		if err != nil {
			log.Debug("no device info", "device", path, "error", err)
			kind, _ := scpi.KindOf(path)
			info = &scpi.DeviceInfo{Path: path, Kind: kind, Description: "unavailable"}
		}
		devices = append(devices, info)
	}
	return devices
}

// filterDevices filters the device list based on the specified filter type
func filterDevices(devices []*scpi.DeviceInfo, filterType string) []*scpi.DeviceInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return devices
	}

	var filtered []*scpi.DeviceInfo
	for _, d := range devices {
		switch filterType {
		case "usb":
			if d.Kind == scpi.KindUSBTMC || d.IsUSB() {
				filtered = append(filtered, d)
			}
		case "serial":
			if d.Kind == scpi.KindSerial {
				filtered = append(filtered, d)
			}
		case "usbtmc":
			if d.Kind == scpi.KindUSBTMC {
				filtered = append(filtered, d)
			}
		}
	}
	return filtered
}
