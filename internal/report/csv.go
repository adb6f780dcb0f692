package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/idelchi/dirsize/internal/dirstat"
)

// CSVHeader is the header row of the directory table.
//
//nolint:gochecknoglobals // Config constant
var CSVHeader = []string{"Rank", "Path", "Size (bytes)", "Size (HR)", "Percentage", "File Count"}

// WriteCSV writes '#'-prefixed summary rows, an empty row, then one row per directory.
func WriteCSV(w io.Writer, outcome *dirstat.Outcome) error {
	cw := csv.NewWriter(w)
	stats := outcome.Stats

	rows := [][]string{
		{"# Directory Analyzer Results"},
		{"# Scan ID", outcome.ID},
		{"# Total Directories", strconv.FormatInt(stats.Directories, 10)},
		{"# Total Files", strconv.FormatInt(stats.Files, 10)},
		{"# Total Size (bytes)", strconv.FormatInt(stats.TotalBytes, 10)},
		{"# Scan Duration (seconds)", fmt.Sprintf("%.2f", stats.Duration.Seconds())},
		{},
		CSVHeader,
	}

	for i, rec := range outcome.Records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rec.Path,
			strconv.FormatInt(rec.Size, 10),
			Size(rec.Size),
			FormatPercent(outcome.Percent(rec.Size)),
			strconv.FormatInt(rec.FileCount, 10),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("encoding CSV output: %w", err)
	}

	return nil
}
