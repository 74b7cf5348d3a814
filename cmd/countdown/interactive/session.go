// Package interactive provides the interactive countdown shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"braces.dev/errtrace"
	"github.com/chzyer/readline"

	"github.com/tickworks/countdown"
)

// Session handles the interactive countdown shell.
type Session struct {
	mgr    *countdown.Manager
	frames countdown.FrameScheduler
	stats  *countdown.StatsRecorder
	tmpl   countdown.Config
	rl     *readline.Instance
}

// New creates a new interactive session. Engines created in the shell
// inherit tmpl and schedule their steps on frames. stats may be nil.
func New(mgr *countdown.Manager, frames countdown.FrameScheduler, stats *countdown.StatsRecorder, tmpl countdown.Config) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "countdown> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("failed to create readline: %w", err))
	}

	s := &Session{
		mgr:    mgr,
		frames: frames,
		stats:  stats,
		tmpl:   tmpl,
		rl:     rl,
	}

	// Print run activity above the prompt.
	mgr.OnNewEngine(func(_ context.Context, eng *countdown.Engine) {
		s.watch(eng)
	})

	return s, nil
}

// Stdout returns a writer that coordinates with the prompt.
// Use it for log output to avoid clobbering the input line.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

func (s *Session) watch(eng *countdown.Engine) {
	eng.OnProgress(func(_ context.Context, eng *countdown.Engine, b countdown.Breakdown) {
		fmt.Fprintf(s.rl.Stdout(), "%s  %s\n", eng.ID(), b)
	})
	eng.OnStateChanged(func(_ context.Context, from, to countdown.State) {
		fmt.Fprintf(s.rl.Stdout(), "%s  %s -> %s\n", eng.ID(), from, to)
	})
}

// Run starts the interactive command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "new", "n":
			s.cmdNew(ctx, args)

		case "start":
			s.cmdFire(ctx, args, (*countdown.Engine).Start)

		case "abort":
			s.cmdFire(ctx, args, (*countdown.Engine).Abort)

		case "end":
			s.cmdFire(ctx, args, (*countdown.Engine).End)

		case "remove", "rm":
			s.cmdRemove(ctx, args)

		case "status", "st":
			s.cmdStatus(args)

		case "finished", "fin":
			s.cmdFinished()

		case "stats":
			s.cmdStats()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Countdown Commands:
  Engines:
    new <id> [duration] [interval]  - Create an engine (e.g. new tea 3m 1s)
    start <id>                      - Start or resume counting
    abort <id>                      - Stop counting, keep the remainder
    end <id>                        - Finish immediately, zero the remainder
    remove <id>                     - Close the engine and drop it

  Inspection:
    status [id]                     - Show engine states and remainders
    finished                        - Show recently finished runs
    stats                           - Show run statistics

  General:
    help                            - Show this help
    quit                            - Exit the shell`)
}

func (s *Session) cmdNew(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: new <id> [duration] [interval]")
		return
	}

	cfg := s.tmpl
	cfg.AutoStart = false
	cfg.EmitEvents = true
	if len(args) > 1 {
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid duration: %v\n", err)
			return
		}
		cfg.Duration = dur
	}
	if len(args) > 2 {
		ivl, err := time.ParseDuration(args[2])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid interval: %v\n", err)
			return
		}
		cfg.Interval = ivl
	}

	eng, err := s.mgr.NewEngine(ctx, cfg, &countdown.Options{
		ID:     args[0],
		Frames: s.frames,
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Create failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Created %s: %s in %s steps\n",
		eng.ID(), cfg.Duration, cfg.Interval)
}

func (s *Session) cmdFire(ctx context.Context, args []string, op func(*countdown.Engine, context.Context) error) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: <command> <id>")
		return
	}
	eng, err := s.mgr.LoadEngine(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	if err := op(eng, ctx); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
	}
}

func (s *Session) cmdRemove(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: remove <id>")
		return
	}
	if err := s.mgr.RemoveEngine(ctx, args[0]); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Removed %s\n", args[0])
}

func (s *Session) cmdStatus(args []string) {
	var engines []*countdown.Engine
	if len(args) > 0 {
		eng, err := s.mgr.LoadEngine(args[0])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "%v\n", err)
			return
		}
		engines = append(engines, eng)
	} else {
		for eng := range s.mgr.Engines() {
			engines = append(engines, eng)
		}
		slices.SortFunc(engines, func(a, b *countdown.Engine) int {
			return strings.Compare(a.ID(), b.ID())
		})
	}
	if len(engines) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No engines")
		return
	}

	w := tabwriter.NewWriter(s.rl.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINE\tSTATE\tREMAINING\tEND TIME")
	for _, eng := range engines {
		endTime := "-"
		if eng.Counting() {
			endTime = eng.EndTime().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", eng.ID(), eng.State(), eng.Breakdown(), endTime)
	}
	w.Flush()
}

func (s *Session) cmdFinished() {
	runs := s.mgr.FinishedRuns()
	if len(runs) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No finished runs")
		return
	}

	w := tabwriter.NewWriter(s.rl.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINE\tOUTCOME\tREMAINING\tENDED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			run.ID, run.Outcome, countdown.MakeBreakdown(run.Remaining),
			run.EndedAt.Format(time.RFC3339))
	}
	w.Flush()
}

func (s *Session) cmdStats() {
	if s.stats == nil {
		fmt.Fprintln(s.rl.Stdout(), "Statistics not enabled")
		return
	}
	report := s.stats.Report()
	fmt.Fprintf(s.rl.Stdout(), `Counting:        %d
Started total:   %d
Aborted total:   %d
Completed total: %d
Steps total:     %d
`, report.Engines.Counting, report.Engines.StartsTotal,
		report.Engines.AbortsTotal, report.Engines.EndsTotal,
		report.Engines.StepsTotal)
}
