package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorStreamsStdout(t *testing.T) {
	script := writeScript(t, "echo one\necho two\necho noise >&2\n")
	var lines []string
	err := commandExecutor{}.Run(context.Background(), script, nil, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.Join(lines, ",") != "one,two" {
		t.Fatalf("unexpected stdout lines %q", lines)
	}
}

func TestCommandExecutorCapturesStderrOnFailure(t *testing.T) {
	script := writeScript(t, "echo 'ERROR: Video unavailable' >&2\nexit 1\n")
	err := commandExecutor{}.Run(context.Background(), script, nil, nil)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", cmdErr.ExitCode())
	}
	if !strings.Contains(cmdErr.Error(), "Video unavailable") {
		t.Fatalf("stderr tail missing from error: %v", cmdErr)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	err := commandExecutor{}.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "start command") {
		t.Fatalf("expected start error, got %v", err)
	}
}
