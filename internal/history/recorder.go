package history

import (
	"context"

	"ytcomments/internal/collector"
)

// RunRecorder appends collector outcomes to one run of the ledger.
type RunRecorder struct {
	store    *Store
	runID    string
	position int
}

// NewRunRecorder returns a recorder bound to runID.
func NewRunRecorder(store *Store, runID string) *RunRecorder {
	return &RunRecorder{store: store, runID: runID}
}

// RecordOutcome implements collector.Recorder.
func (r *RunRecorder) RecordOutcome(ctx context.Context, outcome collector.Outcome) error {
	r.position++
	rec := OutcomeRecord{
		RunID:        r.runID,
		Position:     r.position,
		VideoID:      outcome.VideoID,
		Status:       string(outcome.Status),
		Reason:       string(outcome.Reason),
		CommentCount: len(outcome.Entries),
		Repeat:       outcome.Repeat,
		Duration:     outcome.Duration,
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	return r.store.AppendOutcome(ctx, rec)
}
