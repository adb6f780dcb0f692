package dirstat

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/idelchi/dirsize/internal/classify"
)

// DirRecord represents the direct-file statistics of one scanned directory.
type DirRecord struct {
	// Path is the absolute directory path.
	Path string `json:"path"`
	// Size is the cumulative size in bytes of the files held directly in the directory.
	Size int64 `json:"size"`
	// FileCount is the number of direct files counted.
	FileCount int64 `json:"file_count"`
	// ScannedAt is the time the scan of the directory started.
	ScannedAt time.Time `json:"scanned_at"`
	// Error describes why the directory could not be scanned.
	Error string `json:"error,omitempty"`
}

// HasError reports whether the directory failed to scan.
func (r DirRecord) HasError() bool {
	return r.Error != ""
}

// Statistics holds aggregate statistics for a scan.
type Statistics struct {
	// Directories is the number of directories scanned.
	Directories int64 `json:"total_directories"`
	// Files is the total number of files counted.
	Files int64 `json:"total_files"`
	// TotalBytes is the cumulative size of all counted files.
	TotalBytes int64 `json:"total_size_bytes"`
	// Duration is the time taken by the scan.
	Duration time.Duration `json:"scan_duration"`
	// CategoryBytes maps content categories to their cumulative size.
	CategoryBytes map[string]int64 `json:"category_breakdown"`
	// CategoryFiles maps content categories to their file count.
	CategoryFiles map[string]int64 `json:"file_count_by_category"`
}

// Enhanced extends a DirRecord with its content breakdown.
type Enhanced struct {
	DirRecord

	// Files are the classified files directly in the directory.
	Files []classify.File `json:"-"`
	// CategoryBytes maps content categories to their size within the directory.
	CategoryBytes map[string]int64 `json:"category_breakdown"`
	// Dominant is the category holding the most bytes.
	Dominant string `json:"dominant_category"`
	// Percent is the share of the directory in the total scanned size.
	Percent float64 `json:"percentage_of_total"`
}

// Outcome is the result of a scan.
type Outcome struct {
	// ID identifies the scan.
	ID string `json:"id"`
	// Records holds the scanned directories, largest first.
	Records []DirRecord `json:"directories"`
	// Files holds every counted file.
	Files []classify.File `json:"-"`
	// Errors lists the directories that could not be scanned.
	Errors []string `json:"errors"`
	// ErrorCount is the number of directories that could not be scanned.
	ErrorCount int `json:"error_count"`
	// Elapsed is the total time taken by the scan.
	Elapsed time.Duration `json:"elapsed"`
	// Options are the options the scan ran with.
	Options Options `json:"-"`
	// Stats holds the aggregate statistics.
	Stats Statistics `json:"statistics"`
	// Interrupted is set when the scan was cancelled before completion.
	Interrupted bool `json:"interrupted"`

	indexOnce  sync.Once
	filesByDir map[string][]classify.File
}

// Top returns the first TopN error-free records.
func (o *Outcome) Top() []DirRecord {
	top := make([]DirRecord, 0, min(o.Options.TopN, len(o.Records)))

	for _, rec := range o.Records {
		if len(top) == o.Options.TopN {
			break
		}

		if !rec.HasError() {
			top = append(top, rec)
		}
	}

	return top
}

// SuccessRate returns the fraction of scanned directories without errors.
func (o *Outcome) SuccessRate() float64 {
	if o.Stats.Directories == 0 {
		return 0
	}

	return float64(o.Stats.Directories-int64(o.ErrorCount)) / float64(o.Stats.Directories)
}

// Percent returns size as a percentage of the total scanned size.
func (o *Outcome) Percent(size int64) float64 {
	if o.Stats.TotalBytes == 0 {
		return 0
	}

	return 100.0 * float64(size) / float64(o.Stats.TotalBytes)
}

// Enhance returns rec together with its per-category breakdown.
// The files are looked up in a per-directory index built on first use.
func (o *Outcome) Enhance(rec DirRecord) Enhanced {
	files := slices.Clone(o.index()[rec.Path])
	bytes, _ := classify.Aggregate(files)

	return Enhanced{
		DirRecord:     rec,
		Files:         files,
		CategoryBytes: bytes,
		Dominant:      classify.Dominant(files),
		Percent:       o.Percent(rec.Size),
	}
}

// index groups the counted files by their parent directory.
func (o *Outcome) index() map[string][]classify.File {
	o.indexOnce.Do(func() {
		o.filesByDir = make(map[string][]classify.File)

		for _, f := range o.Files {
			dir := filepath.Dir(f.Path)
			o.filesByDir[dir] = append(o.filesByDir[dir], f)
		}
	})

	return o.filesByDir
}

// Progress is a snapshot of a running scan.
type Progress struct {
	// Scanned is the number of directories scanned so far.
	Scanned int64
	// Total is the number of directories to scan, 0 while still enumerating.
	Total int64
	// Files is the number of files counted so far.
	Files int64
	// Bytes is the size of the files counted so far.
	Bytes int64
}

// accumulator aggregates results from concurrent directory scans using a mutex.
type accumulator struct {
	mu         sync.Mutex // Protect concurrent access
	files      []classify.File
	fileCount  int64
	totalBytes int64
	scanned    int64
	total      int64
	errors     []string
	errorSeen  map[string]struct{}
}

// newAccumulator creates an empty accumulator.
func newAccumulator() *accumulator {
	return &accumulator{
		files:     make([]classify.File, 0),
		errorSeen: make(map[string]struct{}),
	}
}

// commit records the accepted files of one directory. Files and counters
// are updated under a single lock so totals always match the file list.
func (a *accumulator) commit(files []classify.File) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.files = append(a.files, files...)
	for _, f := range files {
		a.fileCount++
		a.totalBytes += f.Size
	}
}

// addError records an inaccessible directory once, keeping first-seen order.
func (a *accumulator) addError(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.errorSeen[path]; ok {
		return
	}

	a.errorSeen[path] = struct{}{}
	a.errors = append(a.errors, path)
}

// markScanned counts one finished directory scan.
func (a *accumulator) markScanned() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scanned++
}

// setTotal records the number of directories found by the enumeration.
func (a *accumulator) setTotal(total int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total = int64(total)
}

// progress returns a consistent snapshot of the counters.
func (a *accumulator) progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Progress{
		Scanned: a.scanned,
		Total:   a.total,
		Files:   a.fileCount,
		Bytes:   a.totalBytes,
	}
}

// errorPaths returns a copy of the recorded error paths.
func (a *accumulator) errorPaths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.errors...)
}

// finalize produces the Statistics and the file list from the collected data.
func (a *accumulator) finalize(elapsed time.Duration) (Statistics, []classify.File) {
	a.mu.Lock()
	defer a.mu.Unlock()

	bytes, counts := classify.Aggregate(a.files)

	return Statistics{
		Directories:   a.scanned,
		Files:         a.fileCount,
		TotalBytes:    a.totalBytes,
		Duration:      elapsed,
		CategoryBytes: bytes,
		CategoryFiles: counts,
	}, append([]classify.File(nil), a.files...)
}
