package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ytcomments/internal/commentcache"
	"ytcomments/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	var folderFlag string

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached comment records",
	}
	cacheCmd.PersistentFlags().StringVar(&folderFlag, "folder", "", "Cache folder (default paths.cache_dir)")

	open := func() (*commentcache.Cache, error) {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		dir, err := resolvePathFlag(folderFlag, cfg.Paths.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("resolve cache folder: %w", err)
		}
		return commentcache.New(dir, logging.NewNop()), nil
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx, open))
	cacheCmd.AddCommand(newCacheRemoveCommand(open))
	cacheCmd.AddCommand(newCacheClearCommand(open))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext, open func() (*commentcache.Cache, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := open()
			if err != nil {
				return err
			}
			records, err := cache.List()
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				if records == nil {
					records = []commentcache.Record{}
				}
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No cached comments in %s\n", cache.Dir())
				return nil
			}
			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(records))
			total := 0
			for _, r := range records {
				comments := strconv.Itoa(r.Comments)
				if r.Corrupt {
					comments = "corrupt"
				}
				total += r.Comments
				rows = append(rows, []string{
					r.VideoID,
					comments,
					humanize.Bytes(uint64(r.SizeBytes)),
					r.UpdatedAt.Local().Format(stampLayout),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Video ID", "Comments", "Size", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d videos, %d comments in %s\n", len(records), total, cache.Dir())
			return nil
		},
	}
}

func newCacheRemoveCommand(open func() (*commentcache.Cache, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "remove VIDEO_ID...",
		Short: "Remove cached comments so the next collect run downloads them again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := open()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := cache.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed cached comments for %s\n", id)
			}
			return nil
		},
	}
}

func newCacheClearCommand(open func() (*commentcache.Cache, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached comment record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := open()
			if err != nil {
				return err
			}
			lock, err := cache.Lock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			count, err := cache.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached videos from %s\n", count, cache.Dir())
			return nil
		},
	}
}
