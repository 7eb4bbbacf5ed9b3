package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateYtDlp(); err != nil {
		return err
	}
	if err := c.validateCollector(); err != nil {
		return err
	}
	if err := c.validateSorter(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateYtDlp() error {
	if strings.TrimSpace(c.YtDlp.Binary) == "" {
		return errors.New("ytdlp.binary must be set")
	}
	if strings.Count(c.YtDlp.URLTemplate, "%s") != 1 || strings.Count(c.YtDlp.URLTemplate, "%") != 1 {
		return fmt.Errorf("ytdlp.url_template must contain exactly one %%s placeholder (got %q)", c.YtDlp.URLTemplate)
	}
	if c.YtDlp.TimeoutSeconds < 0 {
		return errors.New("ytdlp.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateCollector() error {
	if c.Collector.DelayMS < 0 {
		return errors.New("collector.delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateSorter() error {
	delim := c.Sorter.Delimiter
	if utf8.RuneCountInString(delim) != 1 {
		return fmt.Errorf("sorter.delimiter must be a single character (got %q)", delim)
	}
	r, _ := utf8.DecodeRuneInString(delim)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("sorter.delimiter %q is not usable as a field separator", delim)
	}
	if c.Sorter.Input == c.Sorter.Output {
		return errors.New("sorter.input and sorter.output must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
