package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/tickworks/countdown"
	"github.com/tickworks/countdown/history"
)

var (
	histEngineID string
	histLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived runs",
	Long: `History lists runs archived in the configured SQLite store,
most recent first. Archiving is enabled by setting history_path in the
settings file.`,
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&histEngineID, "engine", "", "only runs of the given engine id")
	historyCmd.Flags().IntVar(&histLimit, "limit", 20, "maximum number of runs to list")
}

func showHistory(cmd *cobra.Command, args []string) error {
	if conf.HistoryPath == "" {
		return errtrace.New("no run archive configured, set history_path in the settings file")
	}

	store, err := history.OpenStore(conf.HistoryPath)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer store.Close()

	var runs []countdown.FinishedRun
	if histEngineID != "" {
		runs, err = store.Runs(histEngineID)
	} else {
		runs, err = store.Recent(histLimit)
	}
	if err != nil {
		return errtrace.Wrap(err)
	}

	if jsonOut {
		return errtrace.Wrap(json.NewEncoder(os.Stdout).Encode(runs))
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINE\tOUTCOME\tDURATION\tINTERVAL\tREMAINING\tENDED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Outcome, run.Config.Duration, run.Config.Interval,
			countdown.MakeBreakdown(run.Remaining), formatAge(run.EndedAt))
	}
	return errtrace.Wrap(w.Flush())
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
