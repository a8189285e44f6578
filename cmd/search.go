package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/pkg/export"
)

var searchOpts struct {
	format     string
	output     string
	rank       string
	requestID  string
	stepLimit  int
	maxResults int
}

var searchCmd = &cobra.Command{
	Use:   "search <request-file>",
	Short: "Run one search from a JSON or YAML request file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchOpts.format, "format", "f", "json", "output format: json or csv")
	f.StringVarP(&searchOpts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&searchOpts.rank, "rank", "", "rank mode: holiday-first, weekday-first or balanced")
	f.StringVar(&searchOpts.requestID, "request-id", "", "request id (default generated)")
	f.IntVar(&searchOpts.stepLimit, "step-limit", 0, "override the step budget")
	f.IntVar(&searchOpts.maxResults, "max-results", 0, "override the result cap (0 keeps the request value)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	write, err := writer(searchOpts.format)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	req := svc.RequestDefaults()
	if err := model.LoadRequestInto(args[0], &req); err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	if searchOpts.rank != "" {
		if req.RankMode, err = model.ParseRankMode(searchOpts.rank); err != nil {
			return err
		}
	}
	if searchOpts.stepLimit > 0 {
		req.StepLimit = searchOpts.stepLimit
	}
	if searchOpts.maxResults > 0 {
		req.MaxResults = searchOpts.maxResults
	}

	out, err := svc.Search(ctx, searchOpts.requestID, req)
	if err != nil {
		return err
	}
	if out.Err != nil {
		return fmt.Errorf("search %s failed: %w", out.RequestID, out.Err)
	}
	summary := fmt.Sprintf("%s: %s, %d date sets, %d candidates, %d/%d steps\n",
		out.RequestID, out.State, out.DateSets, len(out.Candidates), out.Steps, out.Limit)
	if _, err := fmt.Fprint(cmd.ErrOrStderr(), summary); err != nil {
		return err
	}

	dst := cmd.OutOrStdout()
	if searchOpts.output != "" {
		f, err := os.Create(searchOpts.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		dst = f
	}
	return write(dst, out.Candidates)
}

func writer(format string) (func(io.Writer, []model.Candidate) error, error) {
	switch format {
	case "json":
		return export.WriteJSON, nil
	case "csv":
		return export.WriteCSV, nil
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}
