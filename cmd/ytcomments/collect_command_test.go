package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytcomments/internal/commentcache"
	"ytcomments/internal/history"
	"ytcomments/internal/logging"
	"ytcomments/internal/testsupport"
)

func stubInvocations(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read stub log: %v", err)
	}
	return strings.Fields(string(data))
}

func TestCollectWritesAggregateCSV(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collect", "vid1", "--videos", "vid2"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "Saved 4 comments to "+env.cfg.Collector.Output)
	requireContains(t, out, "Total comments collected: 4")
	requireContains(t, out, "fetched")

	got := testsupport.ReadFile(t, env.cfg.Collector.Output)
	if want := "text\nhello\nworld\nhello\nworld\n"; got != want {
		t.Fatalf("unexpected csv:\n%q\nwant\n%q", got, want)
	}
	for _, id := range []string{"vid1", "vid2"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.CacheDir, id+"_comments.json")); err != nil {
			t.Fatalf("expected cache record for %s: %v", id, err)
		}
	}
}

func TestCollectReusesCacheOnSecondRun(t *testing.T) {
	env := setupCLITestEnv(t)
	stubLog := filepath.Join(env.baseDir, "stub.log")
	t.Setenv("YTDLP_STUB_LOG", stubLog)

	if _, _, err := runCLI(t, []string{"collect", "vid1"}, env.configPath); err != nil {
		t.Fatalf("first collect: %v", err)
	}
	out, _, err := runCLI(t, []string{"collect", "vid1"}, env.configPath)
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	requireContains(t, out, "cached")
	requireContains(t, out, "Saved 2 comments")

	if calls := stubInvocations(t, stubLog); len(calls) != 1 {
		t.Fatalf("expected one yt-dlp invocation, got %v", calls)
	}
}

func TestCollectUsesExistingCacheRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	stubLog := filepath.Join(env.baseDir, "stub.log")
	t.Setenv("YTDLP_STUB_LOG", stubLog)
	testsupport.WriteCacheRecord(t, env.cfg.Paths.CacheDir, "vid1", "from cache")

	if _, _, err := runCLI(t, []string{"collect", "vid1"}, env.configPath); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := testsupport.ReadFile(t, env.cfg.Collector.Output); got != "text\nfrom cache\n" {
		t.Fatalf("unexpected csv %q", got)
	}
	if calls := stubInvocations(t, stubLog); len(calls) != 0 {
		t.Fatalf("expected no yt-dlp invocation, got %v", calls)
	}
}

func TestCollectSkipsFailedVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collect", "failvid", "vid1"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "tool_failed")
	requireContains(t, out, "Saved 2 comments")

	if _, err := os.Stat(filepath.Join(env.cfg.Paths.CacheDir, "failvid_comments.json")); !os.IsNotExist(err) {
		t.Fatalf("failed video must not be cached, stat err=%v", err)
	}
}

func TestCollectMissingArtifact(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collect", "silentvid"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "artifact_missing")
	requireContains(t, out, "No comments to save.")
}

func TestCollectNothingToSave(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collect", "failvid"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "No comments to save.")
	requireNotContains(t, out, "Total comments collected")
	if _, err := os.Stat(env.cfg.Collector.Output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestCollectFallsBackToDefaultVideos(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collect"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "No video IDs provided. Using example video IDs.")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.CacheDir, "defaultvid_comments.json")); err != nil {
		t.Fatalf("expected cache record for default video: %v", err)
	}
}

func TestCollectOutputAndFolderFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.baseDir, "custom", "out.csv")
	folder := filepath.Join(env.baseDir, "other-cache")

	if _, _, err := runCLI(t, []string{"collect", "vid1", "-o", output, "--folder", folder}, env.configPath); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected custom output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "vid1_comments.json")); err != nil {
		t.Fatalf("expected record in custom folder: %v", err)
	}
}

func TestCollectRefusesLockedCache(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := commentcache.New(env.cfg.Paths.CacheDir, logging.NewNop()).Lock()
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	_, _, err = runCLI(t, []string{"collect", "vid1"}, env.configPath)
	if !errors.Is(err, commentcache.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestCollectJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "collect", "vid1", "failvid", "vid1"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var summary collectSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.Saved != 4 {
		t.Fatalf("expected 4 saved comments, got %d", summary.Saved)
	}
	if len(summary.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(summary.Outcomes))
	}
	if o := summary.Outcomes[1]; o.Status != "failed" || o.Reason != "tool_failed" || o.Error == "" {
		t.Fatalf("unexpected failed outcome %+v", o)
	}
	if o := summary.Outcomes[2]; o.Status != "cached" || !o.Repeat || o.Comments != 2 {
		t.Fatalf("unexpected repeat outcome %+v", o)
	}
}

func TestCollectRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())

	out, _, err := runCLI(t, []string{"--json", "collect", "vid1", "failvid"}, env.configPath)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var summary collectSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json: %v", err)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	run, err := store.GetRun(t.Context(), summary.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != history.RunCompleted || run.VideoCount != 2 || run.CommentCount != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
	outcomes, err := store.Outcomes(t.Context(), run.ID)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(outcomes) != 2 || outcomes[1].Reason != "tool_failed" {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}
}

func TestCollectLockedCacheLeavesNoRunningHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())
	lock, err := commentcache.New(env.cfg.Paths.CacheDir, logging.NewNop()).Lock()
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	if _, _, err := runCLI(t, []string{"collect", "vid1"}, env.configPath); !errors.Is(err, commentcache.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(t.Context(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	for _, run := range runs {
		if run.Status == history.RunRunning {
			t.Fatalf("run %s left running after lock contention", run.ID)
		}
	}
}

func TestCollectOutputFailureMarksRunFailed(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())
	output := filepath.Join(env.baseDir, "taken")
	testsupport.WriteFile(t, filepath.Join(output, "keep"), "x")

	if _, _, err := runCLI(t, []string{"collect", "vid1", "-o", output}, env.configPath); err == nil {
		t.Fatal("expected output write error")
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.ListRuns(t.Context(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != history.RunFailed {
		t.Fatalf("expected one failed run, got %+v", runs)
	}
}
