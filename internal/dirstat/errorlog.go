package dirstat

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// errorLogTimeLayout formats the generation time in the error log header.
const errorLogTimeLayout = "2006-01-02 15:04:05"

// WriteErrorLog writes the inaccessible directories to path: a '#'-prefixed
// header with the generation time and count, a blank line, then one path per line.
func WriteErrorLog(path string, dirs []string, generated time.Time) error {
	var b strings.Builder

	b.WriteString("# Directory Analyzer - Inaccessible Directories\n")
	fmt.Fprintf(&b, "# Generated: %s\n", generated.Format(errorLogTimeLayout))
	fmt.Fprintf(&b, "# Total inaccessible directories: %d\n\n", len(dirs))

	for _, dir := range dirs {
		b.WriteString(dir)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // Log is meant to be readable
		return fmt.Errorf("writing error log %q: %w", path, err)
	}

	return nil
}
