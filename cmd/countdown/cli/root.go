// Package cli implements the countdown command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/tickworks/countdown/internal/settings"
	"github.com/tickworks/countdown/log"
)

var (
	configPath string
	logLevel   string
	quiet      bool
	jsonOut    bool

	conf settings.Settings
)

var rootCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Countdown timers with precise remainders and replayable runs",
	Long: `countdown runs interval-stepped timers from the terminal.

A run counts a fixed duration down to zero in logical interval steps,
survives aborts with its remainder intact, and can be archived to SQLite
and journaled to a CBOR event log for later inspection.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			path, err := settings.DefaultPath()
			if err != nil {
				return errtrace.Wrap(err)
			}
			configPath = path
		}

		var err error
		conf, err = settings.Load(configPath)
		if err != nil {
			return errtrace.Wrap(err)
		}
		if logLevel != "" {
			conf.LogLevel = logLevel
		}

		if quiet {
			log.SetDefault(log.Noop)
			return nil
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
			return errtrace.Wrap(fmt.Errorf("parse log level %q: %w", conf.LogLevel, err))
		}
		log.SetDefault(log.New(os.Stderr, level))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return errtrace.Wrap(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (defaults to the per-user settings path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "disable logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
}
