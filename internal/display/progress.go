package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator manages multi-step progress display with ANSI colors
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	failed  int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Checking survey files:\n")
}

// Step displays progress for the current file: [N/Total] name (cyan)
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.total, filepath.Base(filename))
}

// Fail marks the current file as failed and prints reason under it in red
func (p *ProgressIndicator) Fail(reason string) {
	p.failed++
	fmt.Fprintf(p.writer, "\x1b[31m        %s\x1b[0m\n", reason)
}

// Failed returns the number of files marked with Fail
func (p *ProgressIndicator) Failed() int {
	return p.failed
}

// Complete displays the summary line: a green checkmark when every file
// passed, a red cross otherwise
func (p *ProgressIndicator) Complete() {
	if p.failed == 0 {
		fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m %d survey file(s) valid\n", p.total)
		return
	}
	fmt.Fprintf(p.writer, "\x1b[31m✗\x1b[0m %d of %d survey file(s) invalid\n", p.failed, p.total)
}

// DisplaySingleFile shows a simple loading message for one file
func DisplaySingleFile(w io.Writer, filename string) {
	fmt.Fprintf(w, "Loading survey from %s...\n", filename)
}
