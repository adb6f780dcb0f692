package dirstat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/idelchi/dirsize/internal/classify"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Classifier builds classified file records.
type Classifier interface {
	File(path string, size int64) classify.File
}

// Scanner computes direct-file sizes for every directory below a root.
// A Scanner holds no per-scan state and may be run more than once.
type Scanner struct {
	opts       Options
	log        *slog.Logger
	classifier Classifier
	progress   func(Progress)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.log = logger
	}
}

// WithClassifier replaces the classifier built from the options.
func WithClassifier(classifier Classifier) Option {
	return func(s *Scanner) {
		s.classifier = classifier
	}
}

// WithProgress sets a hook called periodically with a snapshot of the scan.
func WithProgress(hook func(Progress)) Option {
	return func(s *Scanner) {
		s.progress = hook
	}
}

// New validates opts and creates a Scanner.
func New(opts Options, options ...Option) (*Scanner, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	scanner := &Scanner{opts: opts}

	for _, option := range options {
		option(scanner)
	}

	if scanner.log == nil {
		scanner.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if scanner.classifier == nil {
		scanner.classifier = classify.New(
			classify.WithCategories(opts.Categories),
			classify.WithSniffing(opts.SniffMIME),
		)
	}

	return scanner, nil
}

// Options returns the validated options of the scanner.
func (s *Scanner) Options() Options {
	return s.opts
}

// startProgressReporter invokes hook on each tick until ctx is done.
// The returned channel is closed once the reporter has stopped.
func startProgressReporter(ctx context.Context, acc *accumulator, hook func(Progress), interval time.Duration) <-chan struct{} {
	done := make(chan struct{})

	if hook == nil {
		close(done)

		return done
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(acc.progress())
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}

// Run performs the scan and returns the outcome.
//
// The directory tree is enumerated first, then every directory is scanned
// either sequentially or by the worker pool, depending on the options.
// Records below the minimum size are dropped from the outcome but their files
// still count towards the statistics. The records are sorted by size,
// largest first, keeping the scan order among equal sizes.
//
// If ctx is cancelled, Run stops handing out directories and returns the
// records completed so far with Interrupted set; this is not an error.
// Inaccessible directories are written to the error log when there are any.
func (s *Scanner) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()

	sc := &scan{
		opts:       s.opts,
		log:        s.log,
		classifier: s.classifier,
		acc:        newAccumulator(),
	}

	// Create child context to ensure progress reporter cleanup
	progressCtx, cancel := context.WithCancel(ctx)
	reporterDone := startProgressReporter(progressCtx, sc.acc, s.progress, s.opts.ProgressInterval)

	defer func() {
		cancel()
		<-reporterDone
	}()

	mode := "sequential"
	if s.opts.Parallel() {
		mode = "parallel"
	}

	s.log.InfoContext(ctx, "starting directory scan", "path", s.opts.Path, "mode", mode, "workers", s.opts.Workers)

	w := walker{
		root:          s.opts.Path,
		includeHidden: s.opts.IncludeHidden,
		onError: func(path string, err error) {
			s.log.Log(ctx, sc.failLevel(), "traversing directory", "path", path, "error", err)
			sc.acc.addError(path)
		},
	}

	var (
		dirs []string
		err  error
	)

	if s.opts.Parallel() {
		dirs, err = w.enumerateConcurrent(ctx, s.opts.Workers)
	} else {
		dirs, err = w.enumerate(ctx)
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("enumerating %q: %w", s.opts.Path, err)
	}

	sc.acc.setTotal(len(dirs))
	s.log.DebugContext(ctx, "enumerated directories", "count", len(dirs))

	var records []DirRecord
	if s.opts.Parallel() {
		records = sc.parallel(ctx, dirs)
	} else {
		records = sc.sequential(ctx, dirs)
	}

	slices.SortStableFunc(records, func(a, b DirRecord) int {
		return cmp.Compare(b.Size, a.Size)
	})

	errorPaths := sc.acc.errorPaths()
	if len(errorPaths) > 0 {
		if err := WriteErrorLog(s.opts.ErrorLog, errorPaths, time.Now()); err != nil {
			s.log.ErrorContext(ctx, "writing error log", "path", s.opts.ErrorLog, "error", err)
		}
	}

	elapsed := time.Since(start)
	stats, files := sc.acc.finalize(elapsed)

	outcome := &Outcome{
		ID:          uuid.NewString(),
		Records:     records,
		Files:       files,
		Errors:      errorPaths,
		ErrorCount:  len(errorPaths),
		Elapsed:     elapsed,
		Options:     s.opts,
		Stats:       stats,
		Interrupted: ctx.Err() != nil,
	}

	if outcome.Interrupted {
		s.log.InfoContext(ctx, "scan interrupted", "scanned", stats.Directories, "enumerated", len(dirs))
	} else {
		s.log.InfoContext(ctx, "scan completed", "directories", len(records), "elapsed", elapsed)
	}

	return outcome, nil
}
