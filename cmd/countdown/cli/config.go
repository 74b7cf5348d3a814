package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/tickworks/countdown/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings",
	RunE:  showConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved settings to the settings file",
	Long: `Init writes the currently resolved settings to the settings file,
creating it with defaults on first use. Existing values are preserved,
the file is rewritten in canonical form.`,
	RunE: initConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func showConfig(cmd *cobra.Command, args []string) error {
	if jsonOut {
		out := map[string]any{
			"path":         configPath,
			"duration":     conf.Countdown.Duration.String(),
			"interval":     conf.Countdown.Interval.String(),
			"auto_start":   conf.Countdown.AutoStart,
			"emit_events":  conf.Countdown.EmitEvents,
			"frame_period": conf.FramePeriod.String(),
			"log_level":    conf.LogLevel,
			"history_size": conf.HistorySize,
			"history_path": conf.HistoryPath,
			"journal_path": conf.JournalPath,
		}
		return errtrace.Wrap(json.NewEncoder(os.Stdout).Encode(out))
	}

	fmt.Printf("Settings file: %s\n\n", configPath)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "duration\t%s\n", conf.Countdown.Duration)
	fmt.Fprintf(w, "interval\t%s\n", conf.Countdown.Interval)
	fmt.Fprintf(w, "auto_start\t%t\n", conf.Countdown.AutoStart)
	fmt.Fprintf(w, "emit_events\t%t\n", conf.Countdown.EmitEvents)
	fmt.Fprintf(w, "frame_period\t%s\n", conf.FramePeriod)
	fmt.Fprintf(w, "log_level\t%s\n", conf.LogLevel)
	fmt.Fprintf(w, "history_size\t%d\n", conf.HistorySize)
	fmt.Fprintf(w, "history_path\t%s\n", conf.HistoryPath)
	fmt.Fprintf(w, "journal_path\t%s\n", conf.JournalPath)
	return errtrace.Wrap(w.Flush())
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := settings.Save(configPath, conf); err != nil {
		return errtrace.Wrap(err)
	}
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
