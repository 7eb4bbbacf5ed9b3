package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ytcomments/internal/fileutil"
	"ytcomments/internal/logging"
	"ytcomments/internal/services"
	"ytcomments/internal/textutil"
)

const (
	// DefaultURLTemplate turns a video identifier into a watch URL.
	DefaultURLTemplate = "https://www.youtube.com/watch?v=%s"

	artifactSuffix = "_comments"
	infoExtension  = ".info.json"
	stderrTailSize = 20
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithURLTemplate overrides the watch URL template; it must contain one %s.
func WithURLTemplate(template string) Option {
	return func(c *Client) {
		if template = strings.TrimSpace(template); template != "" {
			c.urlTemplate = template
		}
	}
}

// WithExtraArgs appends arguments to every invocation.
func WithExtraArgs(args ...string) Option {
	return func(c *Client) {
		c.extraArgs = append(c.extraArgs, args...)
	}
}

// WithTimeout bounds each invocation. Zero leaves the process unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger routes tool output lines to the given logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "ytdlp")
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary      string
	urlTemplate string
	extraArgs   []string
	timeout     time.Duration
	exec        Executor
	logger      *slog.Logger
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:      binary,
		urlTemplate: DefaultURLTemplate,
		exec:        commandExecutor{},
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// URL returns the watch URL for a video identifier.
func (c *Client) URL(videoID string) string {
	return fmt.Sprintf(c.urlTemplate, videoID)
}

// Args returns the yt-dlp arguments that fetch metadata and comments for
// videoID into folder without downloading media.
func (c *Client) Args(videoID, folder string) []string {
	args := []string{
		c.URL(videoID),
		"--skip-download",
		"--write-comments",
		"--output", OutputTemplate(folder, videoID),
	}
	return append(args, c.extraArgs...)
}

// Fetch runs yt-dlp for videoID and returns the path of the info artifact.
func (c *Client) Fetch(ctx context.Context, videoID, folder string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", services.Wrap(services.ErrValidation, "ytdlp", "fetch", "empty video id", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()
	err := c.exec.Run(runCtx, c.binary, c.Args(videoID, folder), func(line string) {
		logger.Debug("yt-dlp output", logging.String("line", line))
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "fetch", videoID, err)
	}
	logger.Debug("yt-dlp finished", logging.Duration("elapsed", time.Since(started)))

	path := InfoPath(folder, videoID)
	if !fileutil.FileExists(path) {
		return "", services.Wrap(services.ErrNotFound, "ytdlp", "fetch", "comments file not found: "+path, nil)
	}
	return path, nil
}

// OutputTemplate is the yt-dlp --output template used for videoID.
func OutputTemplate(folder, videoID string) string {
	name := strings.ReplaceAll(artifactBase(videoID), "%", "%%")
	return filepath.Join(folder, name+".%(ext)s")
}

// InfoPath is where yt-dlp writes the metadata and comments of videoID.
func InfoPath(folder, videoID string) string {
	return filepath.Join(folder, artifactBase(videoID)+infoExtension)
}

func artifactBase(videoID string) string {
	return textutil.EscapeFileName(videoID) + artifactSuffix
}

// CommandError reports a non-zero exit together with the tail of stderr.
type CommandError struct {
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code, or -1 when the process did not exit normally.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var (
		wg      sync.WaitGroup
		scanErr error
		once    sync.Once
		mu      sync.Mutex
		tail    []string
	)

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forwardStdout := func(line string) {
		if onStdout != nil {
			onStdout(line)
		}
	}
	keepStderr := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		tail = append(tail, line)
		if len(tail) > stderrTailSize {
			tail = tail[len(tail)-stderrTailSize:]
		}
	}

	wg.Add(2)
	go scan(stdout, forwardStdout)
	go scan(stderr, keepStderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return &CommandError{Err: err, Stderr: strings.TrimSpace(strings.Join(tail, "\n"))}
	}
	return nil
}
