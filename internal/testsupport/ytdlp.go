package testsupport

// StubYtDlpScript imitates the yt-dlp invocation used by the collector. It
// resolves the --output template to an .info.json file holding two comments.
// A URL containing "fail" exits 1 with an error on stderr, and a URL
// containing "silent" exits 0 without writing anything. Each invocation is
// appended to $YTDLP_STUB_LOG when that variable is set.
const StubYtDlpScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo 2025.09.26
  exit 0
fi
url="$1"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then
    out="$2"
    shift
  fi
  shift
done
if [ -n "$YTDLP_STUB_LOG" ]; then
  echo "$url" >> "$YTDLP_STUB_LOG"
fi
case "$url" in
  *fail*)
    echo "ERROR: [youtube] Video unavailable" >&2
    exit 1
    ;;
  *silent*)
    exit 0
    ;;
esac
file=$(printf '%s' "$out" | sed 's/%(ext)s$/info.json/')
printf '{"id":"stub","title":"Stub","comments":[{"text":"hello"},{"text":"world"}]}' > "$file"
echo "[info] Writing video metadata as JSON to: $file"
`
