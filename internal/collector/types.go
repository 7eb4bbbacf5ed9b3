package collector

import (
	"context"
	"time"

	"ytcomments/internal/commentcache"
)

// Entry is one comment in the aggregate table.
type Entry = commentcache.Entry

// Status tags how an identifier was answered.
type Status string

const (
	StatusCached  Status = "cached"
	StatusFetched Status = "fetched"
	StatusFailed  Status = "failed"
)

// Reason explains a failed outcome.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonToolFailed       Reason = "tool_failed"
	ReasonArtifactMissing  Reason = "artifact_missing"
	ReasonParseFailed      Reason = "parse_failed"
	ReasonCacheWriteFailed Reason = "cache_write_failed"
)

// Outcome is the per-identifier result of a fetch.
type Outcome struct {
	VideoID  string
	Status   Status
	Reason   Reason
	Entries  []Entry
	Err      error
	Duration time.Duration
	// Repeat is set when the identifier already appeared earlier in the run.
	Repeat bool
}

// Failed reports whether the identifier produced no usable result.
func (o Outcome) Failed() bool { return o.Status == StatusFailed }

// Table is the aggregate of a run: entries of every identifier in input order
// plus the outcome of each identifier.
type Table struct {
	Entries  []Entry
	Outcomes []Outcome
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.Entries) }

// Summary counts outcomes by status.
func (t Table) Summary() (cached, fetched, failed int) {
	for _, o := range t.Outcomes {
		switch o.Status {
		case StatusCached:
			cached++
		case StatusFetched:
			fetched++
		case StatusFailed:
			failed++
		}
	}
	return cached, fetched, failed
}

// Fetcher retrieves the raw info artifact for a video into folder and returns
// its path.
type Fetcher interface {
	Fetch(ctx context.Context, videoID, folder string) (string, error)
}

// Recorder receives every outcome of a run, for example to persist history.
type Recorder interface {
	RecordOutcome(ctx context.Context, outcome Outcome) error
}

// ProgressFunc is called after each identifier with the number processed so far.
type ProgressFunc func(done, total int, outcome Outcome)
