package preflight

import (
	"context"
	"path/filepath"

	"ytcomments/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable filesystem checks for the given config.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCreatableDirectory("Cache directory", cfg.Paths.CacheDir),
		CheckCreatableDirectory("Output directory", filepath.Dir(cfg.Collector.Output)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckCreatableDirectory("History directory", filepath.Dir(cfg.History.Path)))
	}
	results = append(results, CheckReadableFile("Sorter input", cfg.Sorter.Input))
	return results
}
