/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/batch"
	"github.com/allbin/go-scpi/internal/logger"
	"github.com/allbin/go-scpi/internal/publish"
	"github.com/allbin/go-scpi/internal/report"
)

const (
	defaultQuery   = "*IDN?"
	defaultDevices = "/dev/usbtmc*"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [commands...]",
	Short: "Send SCPI commands to every matching device",
	Long: `Send one or more SCPI commands to every device matching the device
patterns and print the answers grouped per device.

Commands run in the given order on each device. A command repeated on the
same device is reported under its text with "_" appended. The pseudo-command
SLEEP:<seconds> pauses without talking to the device.

Devices that cannot be opened are logged and skipped; use --errors to
include them in the output. An empty answer is shown as "response timed out".

Examples:
  scpi query                                  # *IDN? on /dev/usbtmc*
  scpi query --all                            # *IDN? on every known device kind
  scpi query "*RST" SLEEP:1 "MEAS:VOLT?" --devices "/dev/ttyUSB[0-9]*"
  scpi query --format json --mqtt-broker tcp://localhost:1883`,
	RunE: func(cmd *cobra.Command, args []string) error {
		commands := args
		if len(commands) == 0 {
			commands = []string{defaultQuery}
		}

		format, err := report.ParseFormat(viper.GetString("format"))
		if err != nil {
			return err
		}

		opts, err := transportOptions()
		if err != nil {
			return err
		}

		patterns := viper.GetStringSlice("devices")
		if all, _ := cmd.Flags().GetBool("all"); all {
			patterns = scpi.DefaultPatterns
		}

		devices, err := scpi.Discover(patterns...)
		if err != nil {
			return err
		}

		log := logger.Default()
		if len(devices) == 0 {
			log.Warn("no devices matched", "patterns", strings.Join(patterns, " "))
		}

		runner := batch.New(
			batch.WithTransportOptions(opts...),
			batch.WithLogger(log),
			batch.WithParallel(viper.GetInt("parallel")),
		)
		records := runner.Run(cmd.Context(), devices, commands)

		if showErrors, _ := cmd.Flags().GetBool("errors"); !showErrors {
			records = batch.Reachable(records)
		}

		if err := report.Write(cmd.OutOrStdout(), format, records); err != nil {
			return err
		}

		if viper.GetString("mqtt.broker") == "" {
			return nil
		}
		return publishRecords(cmd, records, log)
	},
}

func publishRecords(cmd *cobra.Command, records []batch.Record, log logger.Logger) error {
	qos := viper.GetInt("mqtt.qos")
	if qos < 0 || qos > 2 {
		return fmt.Errorf("invalid mqtt qos %d", qos)
	}

	p, err := publish.Connect(publish.Config{
		Broker:   viper.GetString("mqtt.broker"),
		Topic:    viper.GetString("mqtt.topic"),
		ClientID: viper.GetString("mqtt.client_id"),
		QoS:      byte(qos),
		Retained: viper.GetBool("mqtt.retained"),
		Timeout:  5 * time.Second,
	}, log)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.PublishAll(cmd.Context(), records)
}

func init() {
	rootCmd.AddCommand(queryCmd)

	flags := queryCmd.Flags()
	flags.StringSlice("devices", []string{defaultDevices}, "Device path or glob, e.g. /dev/usbtmc[0-9]* (repeatable)")
	flags.Bool("all", false, "Search all serial and USB-TMC device patterns")
	flags.StringP("format", "o", string(report.FormatText), "Output format: "+strings.Join(report.Formats(), ", "))
	flags.IntP("parallel", "p", 1, "Number of devices queried concurrently")
	flags.Bool("errors", false, "Include devices that could not be opened in the output")
	flags.String("mqtt-broker", "", "Publish each device's answers to this MQTT broker, e.g. tcp://localhost:1883")
	flags.String("mqtt-topic", publish.DefaultTopic, "MQTT topic prefix; the device name is appended")
	flags.String("mqtt-client-id", publish.DefaultClientID, "MQTT client ID")
	flags.Int("mqtt-qos", 0, "MQTT QoS level (0, 1 or 2)")
	flags.Bool("mqtt-retained", false, "Publish retained MQTT messages")

	for key, name := range map[string]string{
		"devices":        "devices",
		"format":         "format",
		"parallel":       "parallel",
		"mqtt.broker":    "mqtt-broker",
		"mqtt.topic":     "mqtt-topic",
		"mqtt.client_id": "mqtt-client-id",
		"mqtt.qos":       "mqtt-qos",
		"mqtt.retained":  "mqtt-retained",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}
