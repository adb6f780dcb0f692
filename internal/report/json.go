package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/idelchi/dirsize/internal/dirstat"
)

// Document is the JSON representation of a scan outcome.
type Document struct {
	Summary         Summary             `json:"summary"`
	Directories     []Directory         `json:"directories"`
	ContentAnalysis map[string]Category `json:"content_analysis"`
}

// Summary holds the aggregate statistics of the scan.
type Summary struct {
	ScanID           string  `json:"scan_id"`
	TargetPath       string  `json:"target_path"`
	TotalDirectories int64   `json:"total_directories"`
	TotalFiles       int64   `json:"total_files"`
	TotalSizeBytes   int64   `json:"total_size_bytes"`
	TotalSizeHuman   string  `json:"total_size_human"`
	ScanDuration     float64 `json:"scan_duration"`
	ErrorCount       int     `json:"error_count"`
	SuccessRate      float64 `json:"success_rate"`
	Interrupted      bool    `json:"interrupted"`
}

// Directory is one ranked directory.
type Directory struct {
	Rank         int     `json:"rank"`
	Path         string  `json:"path"`
	SizeBytes    int64   `json:"size_bytes"`
	SizeHuman    string  `json:"size_human"`
	Percentage   float64 `json:"percentage"`
	FileCount    int64   `json:"file_count"`
	HasError     bool    `json:"has_error"`
	ErrorMessage *string `json:"error_message"`
}

// Category is the share of one content category.
type Category struct {
	SizeBytes   int64   `json:"size_bytes"`
	Percentage  float64 `json:"percentage"`
	FileCount   int64   `json:"file_count"`
	DisplayName string  `json:"display_name"`
}

// NewDocument builds the JSON document of an outcome.
func NewDocument(outcome *dirstat.Outcome) Document {
	stats := outcome.Stats

	doc := Document{
		Summary: Summary{
			ScanID:           outcome.ID,
			TargetPath:       outcome.Options.Path,
			TotalDirectories: stats.Directories,
			TotalFiles:       stats.Files,
			TotalSizeBytes:   stats.TotalBytes,
			TotalSizeHuman:   Size(stats.TotalBytes),
			ScanDuration:     stats.Duration.Seconds(),
			ErrorCount:       outcome.ErrorCount,
			SuccessRate:      outcome.SuccessRate(),
			Interrupted:      outcome.Interrupted,
		},
		Directories:     make([]Directory, 0, len(outcome.Records)),
		ContentAnalysis: make(map[string]Category),
	}

	for i, rec := range outcome.Records {
		dir := Directory{
			Rank:       i + 1,
			Path:       rec.Path,
			SizeBytes:  rec.Size,
			SizeHuman:  Size(rec.Size),
			Percentage: round2(outcome.Percent(rec.Size)),
			FileCount:  rec.FileCount,
			HasError:   rec.HasError(),
		}

		if rec.HasError() {
			dir.ErrorMessage = &rec.Error
		}

		doc.Directories = append(doc.Directories, dir)
	}

	for _, line := range categories(outcome) {
		doc.ContentAnalysis[line.name] = Category{
			SizeBytes:   line.bytes,
			Percentage:  round2(line.percent),
			FileCount:   line.files,
			DisplayName: line.display,
		}
	}

	return doc
}

// WriteJSON writes the outcome as an indented JSON document.
func WriteJSON(w io.Writer, outcome *dirstat.Outcome) error {
	data, err := json.MarshalIndent(NewDocument(outcome), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return err
	}

	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
