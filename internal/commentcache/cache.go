package commentcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ytcomments/internal/fileutil"
	"ytcomments/internal/logging"
	"ytcomments/internal/services/ytdlp"
	"ytcomments/internal/textutil"
)

const recordSuffix = "_comments.json"

var (
	// ErrNotFound reports that no record exists for an identifier.
	ErrNotFound = errors.New("cache record not found")
	// ErrCorrupt reports a record file that exists but cannot be decoded.
	ErrCorrupt = errors.New("cache record corrupt")
)

// Entry is one cached comment.
type Entry struct {
	Text string `json:"text"`
}

// Record describes a cache file on disk.
type Record struct {
	VideoID   string    `json:"video_id"`
	Path      string    `json:"path"`
	Comments  int       `json:"comments"`
	SizeBytes int64     `json:"size_bytes"`
	UpdatedAt time.Time `json:"updated_at"`
	Corrupt   bool      `json:"corrupt,omitempty"`
}

// Cache provides access to the per-video record files in one directory.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// New returns a cache rooted at dir. The directory is not created until
// EnsureDir or Save is called.
func New(dir string, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "commentcache"),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// EnsureDir creates the cache directory if needed.
func (c *Cache) EnsureDir() error {
	if strings.TrimSpace(c.dir) == "" {
		return errors.New("cache directory not configured")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %q: %w", c.dir, err)
	}
	return nil
}

// Path returns the record file path for videoID.
func (c *Cache) Path(videoID string) string {
	return filepath.Join(c.dir, textutil.EscapeFileName(videoID)+recordSuffix)
}

// ArtifactPath returns where yt-dlp leaves its raw info document for videoID.
func (c *Cache) ArtifactPath(videoID string) string {
	return ytdlp.InfoPath(c.dir, videoID)
}

// Load returns the cached entries for videoID. found is false when no record
// exists. A record that cannot be decoded yields an error wrapping ErrCorrupt.
func (c *Cache) Load(videoID string) (entries []Entry, found bool, err error) {
	path := c.Path(videoID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache record: %w", err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, true, nil
}

// Save replaces the record for videoID with entries.
func (c *Cache) Save(videoID string, entries []Entry) error {
	if strings.TrimSpace(videoID) == "" {
		return errors.New("video ID cannot be empty")
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.Path(videoID), data, 0o644); err != nil {
		return fmt.Errorf("write cache record: %w", err)
	}
	c.logger.Debug("cached comments",
		logging.String(logging.FieldVideoID, videoID),
		logging.Int("comment_count", len(entries)))
	return nil
}

func encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// List returns every record in the cache directory sorted by video ID.
// Undecodable records are listed with Corrupt set.
func (c *Cache) List() ([]Record, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	records := make([]Record, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, recordSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		stem := strings.TrimSuffix(name, recordSuffix)
		record := Record{
			VideoID:   stem,
			Path:      filepath.Join(c.dir, name),
			SizeBytes: info.Size(),
			UpdatedAt: info.ModTime(),
		}
		videoID, err := textutil.UnescapeFileName(stem)
		if err != nil {
			record.Corrupt = true
			records = append(records, record)
			continue
		}
		record.VideoID = videoID
		entries, _, err := c.Load(videoID)
		if err != nil {
			record.Corrupt = true
		} else {
			record.Comments = len(entries)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].VideoID < records[j].VideoID
	})
	return records, nil
}

// Remove deletes the record and raw artifact of videoID. It returns
// ErrNotFound when neither exists.
func (c *Cache) Remove(videoID string) error {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return errors.New("video ID cannot be empty")
	}
	removed := false
	for _, path := range []string{c.Path(videoID), c.ArtifactPath(videoID)} {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}
	c.logger.Debug("removed cached comments", logging.String(logging.FieldVideoID, videoID))
	return nil
}

// Clear removes every record and raw artifact and returns how many records
// were deleted.
func (c *Cache) Clear() (int, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache directory: %w", err)
	}
	count := 0
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() {
			continue
		}
		isRecord := strings.HasSuffix(name, recordSuffix)
		if !isRecord && !strings.HasSuffix(name, "_comments.info.json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return count, fmt.Errorf("remove %s: %w", name, err)
		}
		if isRecord {
			count++
		}
	}
	c.logger.Debug("cleared comment cache", logging.Int("record_count", count))
	return count, nil
}
