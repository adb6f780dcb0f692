package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirsize/internal/dirstat"
)

// statusLine renders a progress snapshot as a single line.
func statusLine(p dirstat.Progress) string {
	size := humanize.IBytes(uint64(max(p.Bytes, 0))) //nolint:gosec // Clamped to non-negative

	if p.Total == 0 {
		return fmt.Sprintf("Enumerating… %d files, %s", p.Files, size)
	}

	return fmt.Sprintf("Scanning… %d/%d directories, %d files, %s", p.Scanned, p.Total, p.Files, size)
}

// progressPrinter redraws the status line in place on a terminal.
type progressPrinter struct {
	w io.Writer
}

// start hides the cursor for in-place updates.
func (p progressPrinter) start() {
	fmt.Fprint(p.w, "\033[?25l")
}

// update replaces the status line.
func (p progressPrinter) update(progress dirstat.Progress) {
	fmt.Fprintf(p.w, "\r\033[2K%s\r", statusLine(progress))
}

// stop clears the status line and restores the cursor.
func (p progressPrinter) stop() {
	fmt.Fprint(p.w, "\r\033[2K\r\033[?25h")
}
