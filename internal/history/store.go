package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunCanceled  = "canceled"
	RunFailed    = "failed"
)

// ErrRunNotFound reports an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one collect invocation.
type Run struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Status       string     `json:"status"`
	VideoCount   int        `json:"video_count"`
	CommentCount int        `json:"comment_count"`
	OutputPath   string     `json:"output_path,omitempty"`
}

// OutcomeRecord is one processed identifier within a run.
type OutcomeRecord struct {
	RunID        string        `json:"run_id"`
	Position     int           `json:"position"`
	VideoID      string        `json:"video_id"`
	Status       string        `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	CommentCount int           `json:"comment_count"`
	Repeat       bool          `json:"repeat,omitempty"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
	RecordedAt   time.Time     `json:"recorded_at"`
}

// StartRun inserts a running row and returns it with a fresh UUID.
func (s *Store) StartRun(ctx context.Context, videoCount int, outputPath string) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Status:     RunRunning,
		VideoCount: videoCount,
		OutputPath: outputPath,
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, started_at, status, video_count, output_path) VALUES (?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), run.Status, run.VideoCount, nullableString(run.OutputPath))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stamps a run with its final status and comment total.
func (s *Store) FinishRun(ctx context.Context, runID, status string, commentCount int) error {
	err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, comment_count = ? WHERE id = ?`,
		formatTime(time.Now()), status, commentCount, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// AppendOutcome stores one identifier result.
func (s *Store) AppendOutcome(ctx context.Context, rec OutcomeRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	repeat := 0
	if rec.Repeat {
		repeat = 1
	}
	err := s.exec(ctx,
		`INSERT INTO run_outcomes (
            run_id, position, video_id, status, reason, comment_count,
            repeat, error_message, duration_ms, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Position, rec.VideoID, rec.Status, nullableString(rec.Reason), rec.CommentCount,
		repeat, nullableString(rec.Error), rec.Duration.Milliseconds(), formatTime(rec.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, video_count, comment_count, output_path`

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
		outputPath sql.NullString
	)
	if err := scanner.Scan(&run.ID, &startedAt, &finishedAt, &run.Status,
		&run.VideoCount, &run.CommentCount, &outputPath); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		t := parseTime(finishedAt.String)
		run.FinishedAt = &t
	}
	run.OutputPath = outputPath.String
	return run, nil
}

// GetRun returns the run with the given ID or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit lists all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outcomes returns the recorded identifiers of a run in processing order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, position, video_id, status, reason, comment_count, repeat,
                error_message, duration_ms, recorded_at
         FROM run_outcomes WHERE run_id = ? ORDER BY position, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var (
			rec        OutcomeRecord
			reason     sql.NullString
			errMsg     sql.NullString
			repeat     int
			durationMS int64
			recordedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.Position, &rec.VideoID, &rec.Status, &reason,
			&rec.CommentCount, &repeat, &errMsg, &durationMS, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Reason = reason.String
		rec.Error = errMsg.String
		rec.Repeat = repeat != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.RecordedAt = parseTime(recordedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
