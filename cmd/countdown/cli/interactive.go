package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/tickworks/countdown"
	"github.com/tickworks/countdown/cmd/countdown/interactive"
	"github.com/tickworks/countdown/log"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl", "shell"},
	Short:   "Drive countdown engines interactively",
	Long: `Interactive opens a shell for creating and controlling several
engines at once. Runs are archived and journaled the same way the run
command does.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	frames := countdown.NewTickerFrameScheduler(&countdown.FrameSchedulerOptions{
		Period: conf.FramePeriod,
	})
	defer frames.Close()

	stats := &countdown.StatsRecorder{}
	mgr := countdown.NewManager(&countdown.ManagerOptions{
		Stats:       stats,
		HistorySize: conf.HistorySize,
		Logger:      log.Default(),
	})
	defer mgr.Close(context.Background())

	closeArchives, err := openArchives(mgr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer closeArchives()

	sess, err := interactive.New(mgr, frames, stats, conf.Countdown)
	if err != nil {
		return errtrace.Wrap(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Default().Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	sess.Run(ctx, cancel)
	return nil
}
