package report

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirsize/internal/classify"
	"github.com/idelchi/dirsize/internal/dirstat"
)

// MinPercent is the smallest percentage shown with its value.
// Smaller shares render as "<0.01%".
const MinPercent = 0.01

// FormatPercent renders pct with two decimals. A zero share renders as "0.00%".
func FormatPercent(pct float64) string {
	if pct > 0 && pct < MinPercent {
		return fmt.Sprintf("<%.2f%%", MinPercent)
	}

	return fmt.Sprintf("%.2f%%", pct)
}

// Size renders a byte count in human-readable form.
func Size(bytes int64) string {
	return humanize.IBytes(uint64(max(bytes, 0))) //nolint:gosec // Clamped to non-negative
}

// Write renders the outcome to w in the given format.
func Write(w io.Writer, outcome *dirstat.Outcome, format string) error {
	switch format {
	case dirstat.FormatText, "":
		return WriteText(w, outcome)
	case dirstat.FormatCSV:
		return WriteCSV(w, outcome)
	case dirstat.FormatJSON:
		return WriteJSON(w, outcome)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteFile writes the outcome to the output file named in its options,
// using the configured format.
func WriteFile(outcome *dirstat.Outcome) (err error) {
	path := outcome.Options.OutputFile

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing results file: %w", cerr)
		}
	}()

	if err := Write(file, outcome, outcome.Options.Format); err != nil {
		return fmt.Errorf("writing results to %q: %w", path, err)
	}

	return nil
}

// WritePaths writes the paths of the top directories to w, one per line.
func WritePaths(w io.Writer, outcome *dirstat.Outcome) error {
	for _, rec := range outcome.Top() {
		if _, err := fmt.Fprintln(w, rec.Path); err != nil {
			return err
		}
	}

	return nil
}

// categoryLine is one row of a content-type breakdown.
type categoryLine struct {
	name    string
	display string
	bytes   int64
	files   int64
	percent float64
}

// categories returns the non-empty categories of the outcome, largest first.
func categories(outcome *dirstat.Outcome) []categoryLine {
	stats := outcome.Stats
	lines := make([]categoryLine, 0, len(stats.CategoryBytes))

	for _, name := range slices.Sorted(maps.Keys(stats.CategoryBytes)) {
		bytes := stats.CategoryBytes[name]
		if bytes <= 0 {
			continue
		}

		lines = append(lines, categoryLine{
			name:    name,
			display: classify.DisplayName(name),
			bytes:   bytes,
			files:   stats.CategoryFiles[name],
			percent: outcome.Percent(bytes),
		})
	}

	slices.SortStableFunc(lines, func(a, b categoryLine) int {
		return cmp.Compare(b.bytes, a.bytes)
	})

	return lines
}
