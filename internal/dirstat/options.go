package dirstat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/idelchi/dirsize/internal/classify"
)

// Output formats for the results file.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

const (
	// DefaultWorkers is the default size of the worker pool.
	DefaultWorkers = 4
	// DefaultTopN is the default number of directories shown.
	DefaultTopN = 50
	// DefaultErrorLog is the default path of the inaccessible-directories log.
	DefaultErrorLog = "no-access.txt"
	// DefaultOutputFile is the default path of the results file.
	DefaultOutputFile = "largest_directories.txt"
)

// ErrInvalidOptions is returned, wrapped, for every validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Formats lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var Formats = []string{FormatText, FormatCSV, FormatJSON}

// Options configures a scan.
type Options struct {
	// Path is the root directory to scan.
	Path string
	// IncludeHidden includes hidden directories and their subtrees.
	IncludeHidden bool
	// MinSize is the minimum direct size in bytes for a directory to be reported.
	MinSize int64
	// TopN is the number of top directories to display.
	TopN int
	// Format is the results file format (text, csv or json).
	Format string
	// Extensions restricts counted files to these extensions (empty = all).
	Extensions []string
	// ErrorLog is the path the inaccessible directories are written to.
	ErrorLog string
	// OutputFile is the path the full results are written to.
	OutputFile string
	// Workers is the size of the worker pool. 1 selects sequential mode.
	Workers int
	// Sequential forces sequential mode.
	Sequential bool
	// Verbose raises per-directory failures from debug to warning level.
	Verbose bool
	// SniffMIME detects MIME hints from file content instead of the extension.
	SniffMIME bool
	// Categories holds custom content categories, mapping names to extensions.
	Categories map[string][]string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// Validate checks the options and returns a normalized copy.
// The receiver is never modified; on error the returned Options is the zero value.
func (o Options) Validate() (Options, error) {
	if o.Path == "" {
		return Options{}, fmt.Errorf("%w: target path is required", ErrInvalidOptions)
	}

	abs, err := filepath.Abs(filepath.Clean(o.Path))
	if err != nil {
		return Options{}, fmt.Errorf("%w: resolving absolute path: %w", ErrInvalidOptions, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Options{}, fmt.Errorf("%w: target path does not exist: %s", ErrInvalidOptions, o.Path)
	}

	if !info.IsDir() {
		return Options{}, fmt.Errorf("%w: target path is not a directory: %s", ErrInvalidOptions, o.Path)
	}

	if o.TopN <= 0 {
		return Options{}, fmt.Errorf("%w: top count must be positive, got %d", ErrInvalidOptions, o.TopN)
	}

	if o.MinSize < 0 {
		return Options{}, fmt.Errorf("%w: minimum size cannot be negative", ErrInvalidOptions)
	}

	format := strings.ToLower(o.Format)
	if format == "" {
		format = FormatText
	}

	if !slices.Contains(Formats, format) {
		return Options{}, fmt.Errorf("%w: invalid output format %q: must be one of %v", ErrInvalidOptions, o.Format, Formats)
	}

	if o.Workers < 0 {
		return Options{}, fmt.Errorf("%w: workers cannot be negative", ErrInvalidOptions)
	}

	out := o
	out.Path = abs
	out.Format = format
	out.Extensions = normalizeExtensions(o.Extensions)
	out.Categories = copyCategories(o.Categories)

	if out.Workers == 0 {
		out.Workers = DefaultWorkers
	}

	if out.ErrorLog == "" {
		out.ErrorLog = DefaultErrorLog
	}

	if out.OutputFile == "" {
		out.OutputFile = DefaultOutputFile
	}

	if out.ProgressInterval <= 0 {
		out.ProgressInterval = DefaultProgressInterval
	}

	return out, nil
}

// Parallel reports whether the options select the worker pool.
func (o Options) Parallel() bool {
	return !o.Sequential && o.Workers > 1
}

// normalizeExtensions lowercases, dot-prefixes and deduplicates exts.
// Empty input yields nil, meaning no filter.
func normalizeExtensions(exts []string) []string {
	var out []string

	for _, ext := range exts {
		ext = classify.NormalizeExtension(ext)
		if ext != "" && !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}

	return out
}

func copyCategories(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string][]string, len(in))
	for name, exts := range in {
		out[name] = slices.Clone(exts)
	}

	return out
}
