package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/tickworks/countdown"
	"github.com/tickworks/countdown/log"
)

var (
	runDuration time.Duration
	runInterval time.Duration
	runID       string
)

var runCmd = &cobra.Command{
	Use:   "run [duration]",
	Short: "Run a single countdown to completion",
	Long: `Run counts the given duration down to zero, printing the remainder
at every interval step. Interrupting the run aborts it, the remainder
at that point is preserved in the archived record.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCountdown,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVarP(&runDuration, "duration", "d", 0, "countdown duration (defaults to the configured duration)")
	runCmd.Flags().DurationVarP(&runInterval, "interval", "i", 0, "step interval (defaults to the configured interval)")
	runCmd.Flags().StringVar(&runID, "id", "", "engine id (defaults to a generated id)")
}

func runCountdown(cmd *cobra.Command, args []string) error {
	runCfg := conf.Countdown
	if cmd.Flags().Changed("duration") {
		runCfg.Duration = runDuration
	}
	if cmd.Flags().Changed("interval") {
		runCfg.Interval = runInterval
	}
	if len(args) == 1 {
		dur, err := time.ParseDuration(args[0])
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("parse duration %q: %w", args[0], err))
		}
		runCfg.Duration = dur
	}
	// The run is started explicitly below, progress is needed for output.
	runCfg.AutoStart = false
	runCfg.EmitEvents = true

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Default().Info("received signal, aborting", "signal", sig.String())
		cancel()
	}()

	frames := countdown.NewTickerFrameScheduler(&countdown.FrameSchedulerOptions{
		Period: conf.FramePeriod,
	})
	defer frames.Close()

	mgr := countdown.NewManager(&countdown.ManagerOptions{
		HistorySize: conf.HistorySize,
		Logger:      log.Default(),
	})
	defer mgr.Close(context.Background())

	closeArchives, err := openArchives(mgr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer closeArchives()

	eng, err := mgr.NewEngine(ctx, runCfg, &countdown.Options{
		ID:     runID,
		Frames: frames,
		Logger: log.Default(),
	})
	if err != nil {
		return errtrace.Wrap(err)
	}

	done := make(chan struct{})
	eng.OnStateChanged(func(_ context.Context, _, to countdown.State) {
		if to == countdown.StateIdle {
			close(done)
		}
	})
	if !jsonOut {
		eng.OnProgress(func(_ context.Context, _ *countdown.Engine, b countdown.Breakdown) {
			fmt.Printf("  %s\n", b)
		})
		fmt.Printf("Counting down %s in %s steps (engine %s)\n",
			runCfg.Duration, runCfg.Interval, eng.ID())
	}

	if err := eng.Start(ctx); err != nil {
		return errtrace.Wrap(err)
	}

	select {
	case <-ctx.Done():
		_ = eng.Abort(context.Background())
		<-done
	case <-done:
	}

	snap := eng.Snapshot()
	result := countdown.FinishedRun{
		ID:        snap.ID,
		Outcome:   countdown.OutcomeCompleted,
		Config:    snap.Config,
		Remaining: snap.Remaining,
		EndedAt:   snap.Time,
	}
	if snap.Remaining > 0 {
		result.Outcome = countdown.OutcomeAborted
	}

	if jsonOut {
		return errtrace.Wrap(json.NewEncoder(os.Stdout).Encode(result))
	}
	switch result.Outcome {
	case countdown.OutcomeCompleted:
		fmt.Println("Completed")
	case countdown.OutcomeAborted:
		fmt.Printf("Aborted with %s remaining\n", countdown.MakeBreakdown(result.Remaining))
	}
	return nil
}
