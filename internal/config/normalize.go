package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYtDlp()
	if err := c.normalizeCollector(); err != nil {
		return err
	}
	if err := c.normalizeSorter(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeYtDlp() {
	c.YtDlp.Binary = strings.TrimSpace(c.YtDlp.Binary)
	if c.YtDlp.Binary == "" {
		c.YtDlp.Binary = defaultYtDlpBinary
	}
	c.YtDlp.URLTemplate = strings.TrimSpace(c.YtDlp.URLTemplate)
	if c.YtDlp.URLTemplate == "" {
		c.YtDlp.URLTemplate = defaultURLTemplate
	}
	args := make([]string, 0, len(c.YtDlp.ExtraArgs))
	for _, arg := range c.YtDlp.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.YtDlp.ExtraArgs = args
}

func (c *Config) normalizeCollector() error {
	var err error
	if strings.TrimSpace(c.Collector.Output) == "" {
		c.Collector.Output = defaultOutput
	}
	if c.Collector.Output, err = expandPath(strings.TrimSpace(c.Collector.Output)); err != nil {
		return fmt.Errorf("collector.output: %w", err)
	}
	c.Collector.DefaultVideos = NormalizeIdentifiers(c.Collector.DefaultVideos)
	return nil
}

func (c *Config) normalizeSorter() error {
	var err error
	if strings.TrimSpace(c.Sorter.Input) == "" {
		c.Sorter.Input = defaultSorterInput
	}
	if c.Sorter.Input, err = expandPath(strings.TrimSpace(c.Sorter.Input)); err != nil {
		return fmt.Errorf("sorter.input: %w", err)
	}
	if strings.TrimSpace(c.Sorter.Output) == "" {
		c.Sorter.Output = defaultSorterOutput
	}
	if c.Sorter.Output, err = expandPath(strings.TrimSpace(c.Sorter.Output)); err != nil {
		return fmt.Errorf("sorter.output: %w", err)
	}
	if c.Sorter.Delimiter == "" {
		c.Sorter.Delimiter = defaultSorterDelim
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeIdentifiers trims identifiers and drops empty ones, keeping order
// and duplicates.
func NormalizeIdentifiers(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
