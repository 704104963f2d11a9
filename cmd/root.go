/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scpi",
	Short: "Query SCPI instruments over serial and USB-TMC",
	Long: `Send SCPI commands to laboratory instruments exposed as Linux devices.

Serial lines (/dev/ttyS*, /dev/ttyUSB*, /dev/ttyACM*) and USB-TMC nodes
(/dev/usbtmc*) are supported. Every command is terminated with a newline and
the answer is read up to the first newline or until the timeout expires.

Settings can be given as flags, in $HOME/.scpi.yaml or ./.scpi.yaml, or as
environment variables prefixed with SCPI_ (e.g. SCPI_TIMEOUT=500ms).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scpi.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-format", string(logger.FormatConsole), "Log format: console or json")
	flags.Duration("timeout", scpi.DefaultTimeout, "Read timeout per query (serial: multiple of 100ms, max 25.5s)")
	flags.IntP("baud", "b", scpi.DefaultBaudRate, "Baud rate for serial devices")

	for key, name := range map[string]string{
		"debug":      "debug",
		"log_format": "log-format",
		"timeout":    "timeout",
		"baud":       "baud",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scpi")
	}

	viper.SetEnvPrefix("SCPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Default().Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() error {
	format, ok := logger.ParseFormat(viper.GetString("log_format"))
	if !ok {
		return fmt.Errorf("invalid log format %q", viper.GetString("log_format"))
	}

	level := slog.LevelWarn
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	logger.SetDefault(logger.New(os.Stderr, format, level))
	return nil
}

// transportOptions builds the per-device options from flags and config and
// checks them once so a bad value is reported before any device is opened.
func transportOptions() ([]scpi.Option, error) {
	opts := []scpi.Option{
		scpi.WithBaudRate(viper.GetInt("baud")),
		scpi.WithTimeout(viper.GetDuration("timeout")),
	}

	config := scpi.DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return opts, nil
}
