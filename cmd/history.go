package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sessionplan/config"
	"github.com/kilianp07/sessionplan/core/runlog"
)

var historyOpts struct {
	requestID string
	state     string
	since     time.Duration
	limit     int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished searches from the run log",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyOpts.requestID, "request-id", "", "only this request")
	f.StringVar(&historyOpts.state, "state", "", "only this outcome: completed, aborted, cancelled or failed")
	f.DurationVar(&historyOpts.since, "since", 0, "only runs newer than this duration, e.g. 24h")
	f.IntVarP(&historyOpts.limit, "limit", "n", 20, "most recent runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := runlog.NewStore(cfg.RunLog.Module())
	if err != nil {
		return fmt.Errorf("run log: %w", err)
	}
	defer func() { _ = store.Close() }()

	q := runlog.Query{RequestID: historyOpts.requestID, State: historyOpts.state, Limit: historyOpts.limit}
	if historyOpts.since > 0 {
		q.Since = time.Now().Add(-historyOpts.since)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tREQUEST\tVARIANT\tSTATE\tSTEPS\tCANDIDATES\tBEST\tDURATION")
	for _, r := range recs {
		best := make([]string, len(r.Best))
		for i, k := range r.Best {
			best[i] = k.String()
		}
		state := r.State.String()
		if r.Error != "" {
			state += " (" + r.Error + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%d\t%s\t%s\n",
			r.Timestamp.Local().Format(time.DateTime), r.RequestID, r.Variant, state,
			r.Steps, r.Limit, r.Candidates, strings.Join(best, " "), r.Duration.Round(time.Millisecond))
	}
	return tw.Flush()
}
