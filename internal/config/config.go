package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// YtDlp describes how the external comment extraction tool is invoked.
type YtDlp struct {
	Binary         string   `toml:"binary"`
	URLTemplate    string   `toml:"url_template"`
	ExtraArgs      []string `toml:"extra_args"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Collector contains configuration for comment collection runs.
type Collector struct {
	Output string `toml:"output"`
	// DelayMS is the pause between consecutive identifiers, cache hits included.
	DelayMS int `toml:"delay_ms"`
	// DefaultVideos is used when a run is started without identifiers.
	DefaultVideos []string `toml:"default_videos"`
	NormalizeText bool     `toml:"normalize_text"`
}

// Sorter contains configuration for the delimited file sorter.
type Sorter struct {
	Input         string `toml:"input"`
	Output        string `toml:"output"`
	Delimiter     string `toml:"delimiter"`
	SkipEmptyRows bool   `toml:"skip_empty_rows"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytcomments.
//
// Configuration sections by subsystem:
//   - Paths: cache folder and optional log directory
//   - YtDlp: external tool binary, URL template, extra arguments
//   - Collector: output file, pacing, fallback identifiers
//   - Sorter: input/output files and delimiter
//   - History: optional SQLite ledger of collect runs
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	YtDlp     YtDlp     `toml:"ytdlp"`
	Collector Collector `toml:"collector"`
	Sorter    Sorter    `toml:"sorter"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ytcomments/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytcomments.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Delay returns the pause inserted between identifiers.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Collector.DelayMS) * time.Millisecond
}

// Timeout returns the per-invocation yt-dlp timeout, or zero for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.YtDlp.TimeoutSeconds) * time.Second
}

// DelimiterRune returns the sorter delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Sorter.Delimiter {
		return r
	}
	return ';'
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "ytcomments", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/ytcomments/history.db"
	}
	return filepath.Join(home, ".local", "share", "ytcomments", "history.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
