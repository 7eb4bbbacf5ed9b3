package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytcomments/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded collect runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled (set history.enabled = true in config.toml)")
				return nil
			}

			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if id := strings.TrimSpace(runID); id != "" {
				return showRun(cmd, ctx, store, id)
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			printRuns(out, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-video outcomes of one run")
	return cmd
}

func showRun(cmd *cobra.Command, ctx *commandContext, store *history.Store, runID string) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	outcomes, err := store.Outcomes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if ctx.jsonMode() {
		if outcomes == nil {
			outcomes = []history.OutcomeRecord{}
		}
		return writeJSON(cmd, struct {
			history.Run
			Outcomes []history.OutcomeRecord `json:"outcomes"`
		}{run, outcomes})
	}

	out := cmd.OutOrStdout()
	printRuns(out, []history.Run{run})
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No outcomes recorded")
		return nil
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := o.Status
		if o.Repeat {
			status += " (repeat)"
		}
		rows = append(rows, []string{
			strconv.Itoa(o.Position),
			o.VideoID,
			status,
			o.Reason,
			strconv.Itoa(o.CommentCount),
			o.Duration.Round(time.Millisecond).String(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Video ID", "Status", "Reason", "Comments", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
	return nil
}

func printRuns(out io.Writer, runs []history.Run) {
	const stampLayout = "2006-01-02 15:04:05"
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(stampLayout),
			r.Status,
			strconv.Itoa(r.VideoCount),
			strconv.Itoa(r.CommentCount),
			r.OutputPath,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Status", "Videos", "Comments", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}
