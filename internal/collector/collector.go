package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"ytcomments/internal/commentcache"
	"ytcomments/internal/logging"
	"ytcomments/internal/services"
	"ytcomments/internal/services/ytdlp"
	"ytcomments/internal/textutil"
)

// DefaultDelay separates consecutive identifiers in FetchAll.
const DefaultDelay = time.Second

// Option configures a Collector.
type Option func(*Collector)

// WithDelay sets the pacing between identifiers. Zero disables pacing.
func WithDelay(delay time.Duration) Option {
	return func(c *Collector) {
		if delay >= 0 {
			c.delay = delay
		}
	}
}

// WithNormalize toggles NFC normalization of comment text.
func WithNormalize(enabled bool) Option {
	return func(c *Collector) {
		c.normalize = enabled
	}
}

// WithProgress installs a progress callback for FetchAll.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Collector) {
		c.progress = fn
	}
}

// WithRecorder forwards every FetchAll outcome to r.
func WithRecorder(r Recorder) Option {
	return func(c *Collector) {
		c.recorder = r
	}
}

// Collector fetches and caches comments.
type Collector struct {
	fetcher   Fetcher
	cache     *commentcache.Cache
	logger    *slog.Logger
	delay     time.Duration
	normalize bool
	progress  ProgressFunc
	recorder  Recorder
}

// New builds a collector and creates the cache directory. Failure to create
// the directory is returned as an error.
func New(fetcher Fetcher, cache *commentcache.Cache, logger *slog.Logger, opts ...Option) (*Collector, error) {
	if fetcher == nil {
		return nil, errors.New("collector requires a fetcher")
	}
	if cache == nil {
		return nil, errors.New("collector requires a cache")
	}
	c := &Collector{
		fetcher:   fetcher,
		cache:     cache,
		logger:    logging.NewComponentLogger(logger, "collector"),
		delay:     DefaultDelay,
		normalize: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := cache.EnsureDir(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "collector", "init", "", err)
	}
	return c, nil
}

// FetchOne returns the comments of videoID from the cache, or fetches and
// caches them on a miss. It never returns an error; failures are reported
// through the Outcome.
func (c *Collector) FetchOne(ctx context.Context, videoID string) Outcome {
	ctx = services.WithVideoID(ctx, videoID)
	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()

	outcome := c.fetchOne(ctx, logger, videoID)
	outcome.VideoID = videoID
	outcome.Duration = time.Since(started)
	if outcome.Entries == nil {
		outcome.Entries = []Entry{}
	}
	return outcome
}

func (c *Collector) fetchOne(ctx context.Context, logger *slog.Logger, videoID string) Outcome {
	entries, found, err := c.cache.Load(videoID)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "cached comments unreadable; refetching", "cache_corrupt",
			logging.Error(err),
			logging.String("path", c.cache.Path(videoID)),
			logging.String(logging.FieldErrorHint, "the record will be rewritten from a fresh download"),
			logging.String(logging.FieldImpact, "one extra yt-dlp call"))
	case found:
		logger.Info("comments already cached; loading from file",
			logging.Int("comment_count", len(entries)))
		return Outcome{Status: StatusCached, Entries: entries}
	}

	logger.Info("downloading comments")
	artifact, err := c.fetcher.Fetch(ctx, videoID, c.cache.Dir())
	if err != nil {
		reason := ReasonToolFailed
		hint := "verify the video is public and yt-dlp is up to date"
		if errors.Is(err, services.ErrNotFound) {
			reason = ReasonArtifactMissing
			hint = "yt-dlp exited cleanly but wrote no info file; check extra_args"
		}
		logging.WarnWithContext(logger, "comment download failed", "fetch_failed",
			logging.String("reason", string(reason)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint))
		return Outcome{Status: StatusFailed, Reason: reason, Err: err}
	}

	doc, err := ytdlp.ReadInfo(artifact)
	if err != nil {
		logging.WarnWithContext(logger, "comment file unreadable", "parse_failed",
			logging.Error(err),
			logging.String("path", artifact),
			logging.String(logging.FieldErrorHint, "remove the info file and retry"))
		return Outcome{Status: StatusFailed, Reason: ReasonParseFailed, Err: err}
	}

	texts := doc.Texts()
	entries = make([]Entry, 0, len(texts))
	for _, text := range texts {
		if c.normalize {
			text = textutil.NormalizeText(text)
		}
		entries = append(entries, Entry{Text: text})
	}

	if err := c.cache.Save(videoID, entries); err != nil {
		logging.WarnWithContext(logger, "failed to cache comments", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions of the cache directory"))
		return Outcome{Status: StatusFailed, Reason: ReasonCacheWriteFailed, Err: err}
	}

	logger.Info("comments downloaded", logging.Int("comment_count", len(entries)))
	return Outcome{Status: StatusFetched, Entries: entries}
}

// FetchAll processes ids in order and concatenates their entries. Identifiers
// are paced by the configured delay. A repeated identifier is answered from
// the first occurrence without another fetch. Cancellation of ctx stops the
// run between identifiers and returns the partial table with ctx's error.
func (c *Collector) FetchAll(ctx context.Context, ids []string) (Table, error) {
	table := Table{
		Entries:  []Entry{},
		Outcomes: make([]Outcome, 0, len(ids)),
	}

	var limiter *rate.Limiter
	if c.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(c.delay), 1)
	}

	seen := make(map[string]Outcome, len(ids))
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("collect run started",
		logging.Int("video_count", len(ids)),
		logging.Duration("delay", c.delay))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return table, err
		}

		var outcome Outcome
		if first, ok := seen[id]; ok {
			outcome = first
			outcome.Repeat = true
			outcome.Duration = 0
			if !outcome.Failed() {
				outcome.Status = StatusCached
			}
			logger.Debug("repeated video id answered from this run",
				logging.String(logging.FieldVideoID, id))
		} else {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return table, ctxErr
					}
					return table, fmt.Errorf("pacing: %w", err)
				}
			}
			outcome = c.FetchOne(ctx, id)
			seen[id] = outcome
		}

		table.Entries = append(table.Entries, outcome.Entries...)
		table.Outcomes = append(table.Outcomes, outcome)

		if c.recorder != nil {
			if err := c.recorder.RecordOutcome(ctx, outcome); err != nil {
				logging.WarnWithContext(logger, "failed to record outcome", "history_write_failed",
					logging.String(logging.FieldVideoID, id),
					logging.Error(err),
					logging.String(logging.FieldImpact, "history ledger incomplete for this run"))
			}
		}
		if c.progress != nil {
			c.progress(i+1, len(ids), outcome)
		}
	}

	cached, fetched, failed := table.Summary()
	logger.Info("collect run finished",
		logging.Int("comment_count", table.Len()),
		logging.Int("cached", cached),
		logging.Int("fetched", fetched),
		logging.Int("failed", failed))
	return table, nil
}
