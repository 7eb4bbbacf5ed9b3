package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ytcomments/internal/collector"
	"ytcomments/internal/commentcache"
	"ytcomments/internal/config"
	"ytcomments/internal/history"
	"ytcomments/internal/logging"
	"ytcomments/internal/services"
	"ytcomments/internal/services/ytdlp"
)

type collectSummary struct {
	RunID    string           `json:"run_id"`
	Output   string           `json:"output"`
	Saved    int              `json:"saved"`
	Outcomes []outcomeSummary `json:"outcomes"`
}

type outcomeSummary struct {
	VideoID  string `json:"video_id"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Comments int    `json:"comments"`
	Repeat   bool   `json:"repeat,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var videos []string
	var outputFlag string
	var folderFlag string

	cmd := &cobra.Command{
		Use:   "collect [VIDEO_ID...]",
		Short: "Download comments for videos and aggregate them into a CSV file",
		Long: "Download comments for each video ID with yt-dlp, cache them per video, and\n" +
			"write every comment to a single CSV file with a \"text\" column.\n\n" +
			"Video IDs may be passed as arguments or with --videos. Without any IDs the\n" +
			"collector.default_videos list is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			ids := config.NormalizeIdentifiers(append(append([]string{}, args...), videos...))
			if len(ids) == 0 {
				ids = config.NormalizeIdentifiers(cfg.Collector.DefaultVideos)
				if !ctx.jsonMode() {
					fmt.Fprintln(out, "No video IDs provided. Using example video IDs.")
				}
			}
			if len(ids) == 0 {
				return errors.New("no video IDs to collect (pass IDs or set collector.default_videos)")
			}

			outputPath, err := resolvePathFlag(outputFlag, cfg.Collector.Output)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			cacheDir, err := resolvePathFlag(folderFlag, cfg.Paths.CacheDir)
			if err != nil {
				return fmt.Errorf("resolve cache folder: %w", err)
			}

			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			return runCollect(cmd, ctx, cfg, logger, ids, outputPath, cacheDir)
		},
	}

	cmd.Flags().StringSliceVar(&videos, "videos", nil, "Video IDs to collect (comma separated or repeated)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output CSV file (default collector.output)")
	cmd.Flags().StringVar(&folderFlag, "folder", "", "Folder for cached comment files (default paths.cache_dir)")
	return cmd
}

func runCollect(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, logger *slog.Logger, ids []string, outputPath, cacheDir string) error {
	out := cmd.OutOrStdout()
	cache := commentcache.New(cacheDir, logger)

	client, err := ytdlp.New(cfg.YtDlp.Binary,
		ytdlp.WithURLTemplate(cfg.YtDlp.URLTemplate),
		ytdlp.WithExtraArgs(cfg.YtDlp.ExtraArgs...),
		ytdlp.WithTimeout(cfg.Timeout()),
		ytdlp.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	opts := []collector.Option{
		collector.WithDelay(cfg.Delay()),
		collector.WithNormalize(cfg.Collector.NormalizeText),
	}
	if bar := newProgressReporter(cmd.ErrOrStderr(), len(ids)); bar != nil {
		opts = append(opts, collector.WithProgress(bar.update))
		defer bar.finish()
	}

	lock, err := cache.Lock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	// The ledger run starts only once this process owns the cache, and every
	// exit path below finishes it.
	runID := uuid.NewString()
	ledger, run := openLedger(cmd.Context(), cfg, logger, len(ids), outputPath)
	if ledger != nil {
		defer ledger.Close()
		runID = run.ID
		opts = append(opts, collector.WithRecorder(history.NewRunRecorder(ledger, run.ID)))
	}

	c, err := collector.New(client, cache, logger, opts...)
	if err != nil {
		if ledger != nil {
			finishLedger(cmd.Context(), ledger, logger, runID, err, 0)
		}
		return err
	}

	runCtx := services.WithRunID(cmd.Context(), runID)
	table, runErr := c.FetchAll(runCtx, ids)
	saved := 0
	if runErr == nil {
		saved, runErr = collector.WriteTable(table, outputPath)
	}
	if ledger != nil {
		finishLedger(cmd.Context(), ledger, logger, runID, runErr, table.Len())
	}
	if runErr != nil {
		return runErr
	}

	if ctx.jsonMode() {
		return writeJSON(cmd, collectSummary{
			RunID:    runID,
			Output:   outputPath,
			Saved:    saved,
			Outcomes: summarizeOutcomes(table.Outcomes),
		})
	}

	printOutcomes(out, table.Outcomes)
	if saved == 0 {
		fmt.Fprintln(out, "No comments to save.")
		return nil
	}
	fmt.Fprintf(out, "Saved %d comments to %s\n", saved, outputPath)
	fmt.Fprintf(out, "Total comments collected: %d\n", table.Len())
	return nil
}

// openLedger opens the history ledger when enabled. Ledger failures are
// logged and the run continues without history.
func openLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger, videoCount int, outputPath string) (*history.Store, history.Run) {
	if !cfg.History.Enabled {
		return nil, history.Run{}
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "history ledger unavailable", "history_open_failed",
			logging.Error(err),
			logging.String("path", cfg.History.Path),
			logging.String(logging.FieldErrorHint, "check history.path or disable history"),
			logging.String(logging.FieldImpact, "this run is not recorded"))
		return nil, history.Run{}
	}
	run, err := store.StartRun(ctx, videoCount, outputPath)
	if err != nil {
		_ = store.Close()
		logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"))
		return nil, history.Run{}
	}
	return store, run
}

func finishLedger(ctx context.Context, store *history.Store, logger *slog.Logger, runID string, runErr error, comments int) {
	status := history.RunCompleted
	switch {
	case errors.Is(runErr, context.Canceled):
		status = history.RunCanceled
	case runErr != nil:
		status = history.RunFailed
	}
	// The run context may already be canceled; the final update still lands.
	if err := store.FinishRun(context.WithoutCancel(ctx), runID, status, comments); err != nil {
		logging.WarnWithContext(logger, "failed to record run end", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run stays marked as running in history"))
	}
}

func summarizeOutcomes(outcomes []collector.Outcome) []outcomeSummary {
	summaries := make([]outcomeSummary, 0, len(outcomes))
	for _, o := range outcomes {
		s := outcomeSummary{
			VideoID:  o.VideoID,
			Status:   string(o.Status),
			Reason:   string(o.Reason),
			Comments: len(o.Entries),
			Repeat:   o.Repeat,
		}
		if o.Err != nil {
			s.Error = o.Err.Error()
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func printOutcomes(out io.Writer, outcomes []collector.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := string(o.Status)
		if o.Repeat {
			status += " (repeat)"
		}
		rows = append(rows, []string{
			o.VideoID,
			status,
			string(o.Reason),
			strconv.Itoa(len(o.Entries)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video ID", "Status", "Reason", "Comments"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
}
