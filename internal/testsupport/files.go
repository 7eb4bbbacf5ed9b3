package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ytcomments/internal/textutil"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCacheRecord writes a cache record with the given comment texts in the
// same format the comment cache uses.
func WriteCacheRecord(t testing.TB, cacheDir, videoID string, texts ...string) string {
	t.Helper()
	type entry struct {
		Text string `json:"text"`
	}
	entries := make([]entry, 0, len(texts))
	for _, text := range texts {
		entries = append(entries, entry{Text: text})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		t.Fatalf("marshal cache record: %v", err)
	}
	path := filepath.Join(cacheDir, textutil.EscapeFileName(videoID)+"_comments.json")
	WriteFile(t, path, string(data))
	return path
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
