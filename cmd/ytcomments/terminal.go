package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"ytcomments/internal/collector"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressReporter draws a per-video progress bar during collect runs.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

// newProgressReporter returns nil unless w is a terminal.
func newProgressReporter(w io.Writer, total int) *progressReporter {
	if total <= 0 || !isTerminal(w) {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Processing videos"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReporter{bar: bar}
}

func (p *progressReporter) update(done, _ int, _ collector.Outcome) {
	_ = p.bar.Set(done)
}

func (p *progressReporter) finish() {
	_ = p.bar.Finish()
}
