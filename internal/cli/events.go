package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thalassalab/observe/internal/config"
	"github.com/thalassalab/observe/internal/sink"
)

var (
	eventsLogPath string
	eventsType    string
	eventsSource  string
	eventsSince   string
	eventsUntil   string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Query the recorded event log",
	Long: `Read the JSONL event log written by watch and print the events matching
the given filters.

--since and --until accept either a duration looking back from now ("15m",
"2h") or an RFC 3339 timestamp.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		path := cfg.LogPath
		if cmd.Flags().Changed("log") {
			path = eventsLogPath
		}

		filter, err := eventsFilter(time.Now().UTC())
		if err != nil {
			return err
		}

		events, err := sink.ReadLog(path, filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching events.")
			return nil
		}

		out := cmd.OutOrStdout()
		for _, e := range events {
			fmt.Fprintf(out, "%s %-8s %-10s %s\n",
				e.Time.Format("2006-01-02 15:04:05"), e.Source, e.Type, e.Message)
		}
		fmt.Fprintf(out, "\n%d event(s).\n", len(events))
		return nil
	},
}

// eventsFilter builds the log filter from the command flags.
func eventsFilter(now time.Time) (sink.Filter, error) {
	filter := sink.Filter{Type: eventsType, Source: eventsSource}
	if eventsSince != "" {
		since, err := parseTimeFlag("since", eventsSince, now)
		if err != nil {
			return sink.Filter{}, err
		}
		filter.Since = &since
	}
	if eventsUntil != "" {
		until, err := parseTimeFlag("until", eventsUntil, now)
		if err != nil {
			return sink.Filter{}, err
		}
		filter.Until = &until
	}
	return filter, nil
}

// parseTimeFlag accepts a look-back duration or an RFC 3339 timestamp.
func parseTimeFlag(name, s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want a duration like 15m or an RFC 3339 timestamp", name, s)
	}
	return ts, nil
}

func init() {
	eventsCmd.Flags().StringVar(&eventsLogPath, "log", "", "path of the JSONL event log")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "only events of this type")
	eventsCmd.Flags().StringVar(&eventsSource, "source", "", "only events from this source")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events after this point in time")
	eventsCmd.Flags().StringVar(&eventsUntil, "until", "", "only events before this point in time")
	rootCmd.AddCommand(eventsCmd)
}
