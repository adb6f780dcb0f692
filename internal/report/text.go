package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirsize/internal/classify"
	"github.com/idelchi/dirsize/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// Title heads every report.
	Title = "Directory Analyzer - Personal Storage Analytics"
)

// PrintSummary writes the terminal summary: scan statistics, the top
// directories and the content-type breakdown.
func PrintSummary(w io.Writer, outcome *dirstat.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, TabSpacing, ' ', 0)

	rule := strings.Repeat("=", 80)
	fmt.Fprintf(tw, "\n%s\n%s Tool\n%s\n", rule, Title, rule)

	writeStats(tw, outcome)

	if outcome.ErrorCount > 0 && !outcome.Options.Verbose {
		fmt.Fprintln(tw, "  Note:\tUse --verbose to see individual access errors")
	}

	if outcome.Interrupted {
		fmt.Fprintln(tw, "  Status:\tinterrupted, results are partial")
	}

	fmt.Fprintf(tw, "\nTop %d largest directories (by direct file size):\t\t\n", outcome.Options.TopN)

	for i, rec := range outcome.Top() {
		enhanced := outcome.Enhance(rec)

		fmt.Fprintf(tw, "  %d)\t%s\t(%s)\t%s\n",
			i+1, Size(rec.Size), FormatPercent(enhanced.Percent), rec.Path)

		if rec.FileCount > 0 {
			fmt.Fprintf(tw, "\t\t\t%s files, mostly %s\n",
				humanize.Comma(rec.FileCount), classify.DisplayName(enhanced.Dominant))
		}
	}

	writeCategories(tw, outcome, "\nContent type breakdown:\t\t\n")

	return tw.Flush()
}

// WriteText writes the full text report: every directory, not only the top ones.
func WriteText(w io.Writer, outcome *dirstat.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(tw, "%s Report\n%s\n", Title, strings.Repeat("=", 60))

	if outcome.ID != "" {
		fmt.Fprintf(tw, "Scan ID: %s\n", outcome.ID)
	}

	writeStats(tw, outcome)

	fmt.Fprintf(tw, "\nDirectory listing (sorted by size):\t\t\n")

	for i, rec := range outcome.Records {
		line := fmt.Sprintf("%4d.\t%s\t(%s)\t%s (%s files)",
			i+1, Size(rec.Size), FormatPercent(outcome.Percent(rec.Size)), rec.Path, humanize.Comma(rec.FileCount))

		if rec.HasError() {
			line += " [" + rec.Error + "]"
		}

		fmt.Fprintln(tw, line)
	}

	writeCategories(tw, outcome, "\nContent type analysis:\t\t\n")

	return tw.Flush()
}

func writeStats(w io.Writer, outcome *dirstat.Outcome) {
	stats := outcome.Stats

	fmt.Fprintln(w, "\nScan summary:\t\t")
	fmt.Fprintf(w, "  Target path:\t%s\n", outcome.Options.Path)
	fmt.Fprintf(w, "  Total directories:\t%s\n", humanize.Comma(stats.Directories))
	fmt.Fprintf(w, "  Total files:\t%s\n", humanize.Comma(stats.Files))
	fmt.Fprintf(w, "  Total size:\t%s (%d bytes)\n", Size(stats.TotalBytes), stats.TotalBytes)
	fmt.Fprintf(w, "  Scan duration:\t%.2fs\n", stats.Duration.Seconds())

	if outcome.ErrorCount > 0 {
		fmt.Fprintf(w, "  Access errors:\t%d directories (permission denied)\n", outcome.ErrorCount)
		fmt.Fprintf(w, "  Success rate:\t%.1f%%\n", 100*outcome.SuccessRate())
	}
}

func writeCategories(w io.Writer, outcome *dirstat.Outcome, heading string) {
	lines := categories(outcome)
	if len(lines) == 0 {
		return
	}

	fmt.Fprint(w, heading)

	for _, line := range lines {
		fmt.Fprintf(w, "  %s\t%s\t(%s)\t%s files\n",
			line.display, Size(line.bytes), FormatPercent(line.percent), humanize.Comma(line.files))
	}
}
