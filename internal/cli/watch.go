package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/config"
	"github.com/thalassalab/observe/internal/feed"
	"github.com/thalassalab/observe/internal/sink"
)

var (
	watchLogPath string
	watchFormat  string
	watchNoColor bool
	watchTick    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Watch paths and fan events out to the configured sinks",
	Long: `Watch filesystem paths and emit heartbeats, fanning every event out to the
console, the JSONL event log, and the summary counters. Paths given as
arguments override the configured watch paths. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.WatchPaths = args
		}
		if cmd.Flags().Changed("log") {
			cfg.LogPath = watchLogPath
		}
		if cmd.Flags().Changed("format") {
			cfg.Format = watchFormat
		}
		if cmd.Flags().Changed("tick") {
			cfg.TickInterval = watchTick
		}
		if watchNoColor {
			cfg.Color = false
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		return runWatch(cmd, cfg)
	},
}

func runWatch(cmd *cobra.Command, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, err := sink.NewRecorder(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("opening recorder: %w", err)
	}
	console, err := sink.NewConsole(cmd.OutOrStdout(), cfg.Format, cfg.Color)
	if err != nil {
		return err
	}
	counter := sink.NewCounter()

	watcher := feed.NewFileWatcher(cfg.WatchPaths...)
	ticker := feed.NewTicker(cfg.TickInterval)

	for _, s := range []*observe.Subject[feed.Event]{watcher.Events(), ticker.Events()} {
		s.Attach(console)
		s.Attach(recorder)
		s.Attach(counter)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return ticker.Run(gctx) })
	runErr := g.Wait()

	watcher.Close()
	ticker.Close()
	if err := recorder.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "closing recorder: %v\n", err)
	}

	printSummary(cmd, counter, recorder)
	return runErr
}

func printSummary(cmd *cobra.Command, counter *sink.Counter, recorder *sink.Recorder) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d event(s) observed.\n", counter.Total())

	counts := counter.Snapshot()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "  %-10s %d\n", t, counts[t])
	}

	if dropped := recorder.Dropped(); dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d event(s) could not be recorded: %v\n", dropped, recorder.Err())
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchLogPath, "log", "", "path of the JSONL event log")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "console output format (text, json, yaml)")
	watchCmd.Flags().BoolVar(&watchNoColor, "no-color", false, "disable styled text output")
	watchCmd.Flags().DurationVar(&watchTick, "tick", 0, "heartbeat interval")
	rootCmd.AddCommand(watchCmd)
}
