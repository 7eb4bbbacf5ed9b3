package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytcomments/internal/services"
	"ytcomments/internal/services/ytdlp"
)

type stubExecutor struct {
	lines []string
	err   error
	calls int
	args  [][]string
	write func(args []string) error
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	cloned := append([]string(nil), args...)
	s.args = append(s.args, cloned)
	for _, line := range s.lines {
		onStdout(line)
	}
	if s.write != nil {
		if err := s.write(args); err != nil {
			return err
		}
	}
	return s.err
}

// writeInfo emulates yt-dlp resolving the --output template to an info file.
func writeInfo(body string) func([]string) error {
	return func(args []string) error {
		for i, arg := range args {
			if arg == "--output" && i+1 < len(args) {
				path := strings.Replace(args[i+1], "%(ext)s", "info.json", 1)
				return os.WriteFile(path, []byte(body), 0o644)
			}
		}
		return errors.New("no --output argument")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestArgsMatchInvocationContract(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExtraArgs("--no-warnings"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got := client.Args("abc123", "/tmp/cache")
	want := []string{
		"https://www.youtube.com/watch?v=abc123",
		"--skip-download",
		"--write-comments",
		"--output", "/tmp/cache/abc123_comments.%(ext)s",
		"--no-warnings",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected args:\n got %q\nwant %q", got, want)
	}
}

func TestURLTemplateOverride(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", ytdlp.WithURLTemplate("https://example.test/v/%s"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := client.URL("xyz"); got != "https://example.test/v/xyz" {
		t.Fatalf("URL = %q", got)
	}
}

func TestOutputTemplateEscapesIdentifier(t *testing.T) {
	got := ytdlp.OutputTemplate("/cache", "../evil")
	if got != "/cache/..%%2Fevil_comments.%(ext)s" {
		t.Fatalf("OutputTemplate = %q", got)
	}
	if got := ytdlp.InfoPath("/cache", "a%b"); got != "/cache/a%25b_comments.info.json" {
		t.Fatalf("InfoPath = %q", got)
	}
	if ytdlp.InfoPath("/cache", "a/b") == ytdlp.InfoPath("/cache", "a-b") {
		t.Fatal("distinct identifiers share an info path")
	}
	if got := ytdlp.OutputTemplate("/cache", "a%b"); got != "/cache/a%%25b_comments.%(ext)s" {
		t.Fatalf("OutputTemplate escapes percent: %q", got)
	}
}

func TestFetchReturnsInfoPath(t *testing.T) {
	dir := t.TempDir()
	exec := &stubExecutor{
		lines: []string{"[youtube] abc: Downloading webpage"},
		write: writeInfo(`{"id":"abc","comments":[{"text":"hi"}]}`),
	}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	path, err := client.Fetch(context.Background(), "abc", dir)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if path != filepath.Join(dir, "abc_comments.info.json") {
		t.Fatalf("unexpected path %q", path)
	}
	if exec.calls != 1 {
		t.Fatalf("expected one invocation, got %d", exec.calls)
	}
}

func TestFetchWrapsExecutorError(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(&stubExecutor{err: errors.New("exit status 1")}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Fetch(context.Background(), "abc", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestFetchMissingArtifact(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Fetch(context.Background(), "abc", t.TempDir())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "comments file not found") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestFetchRejectsEmptyIdentifier(t *testing.T) {
	exec := &stubExecutor{}
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	if _, err := client.Fetch(context.Background(), " ", t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("executor should not run for empty identifier")
	}
}

type deadlineExecutor struct {
	hadDeadline bool
}

func (d *deadlineExecutor) Run(ctx context.Context, _ string, _ []string, _ func(string)) error {
	_, d.hadDeadline = ctx.Deadline()
	return errors.New("stop")
}

func TestFetchAppliesTimeout(t *testing.T) {
	exec := &deadlineExecutor{}
	client, _ := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithTimeout(time.Minute))
	_, _ = client.Fetch(context.Background(), "abc", t.TempDir())
	if !exec.hadDeadline {
		t.Fatal("expected timeout deadline on executor context")
	}

	exec = &deadlineExecutor{}
	client, _ = ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	_, _ = client.Fetch(context.Background(), "abc", t.TempDir())
	if exec.hadDeadline {
		t.Fatal("expected no deadline without timeout")
	}
}

func TestReadInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc_comments.info.json")
	body := `{"id":"abc","title":"Demo","comment_count":3,"comments":[
		{"id":"1","text":"first","author":"@a","like_count":4},
		{"id":"2","parent":"1"},
		{"id":"3","text":"naïve ✓"}
	],"formats":[{"format_id":"18"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ytdlp.ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo returned error: %v", err)
	}
	texts := doc.Texts()
	if len(texts) != 3 || texts[0] != "first" || texts[1] != "" || texts[2] != "naïve ✓" {
		t.Fatalf("unexpected texts %q", texts)
	}
}

func TestReadInfoIgnoresUnusedFieldTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	body := `{"id":7,"comment_count":"1.2K","comments":[
		{"id":12,"text":"hi","timestamp":1700000000.5,"like_count":"3K","parent":null,"author":{"name":"x"}}
	]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ytdlp.ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo returned error: %v", err)
	}
	if texts := doc.Texts(); len(texts) != 1 || texts[0] != "hi" {
		t.Fatalf("unexpected texts %q", texts)
	}
}

func TestReadInfoNullComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	if err := os.WriteFile(path, []byte(`{"id":"abc","comments":null}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ytdlp.ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo returned error: %v", err)
	}
	if len(doc.Texts()) != 0 {
		t.Fatalf("expected no comments, got %d", len(doc.Texts()))
	}
}

func TestReadInfoMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.json")
	if err := os.WriteFile(path, []byte(`{"id":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ytdlp.ReadInfo(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
