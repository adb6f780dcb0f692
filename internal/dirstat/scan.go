package dirstat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/idelchi/dirsize/internal/classify"
)

// ErrInaccessible is the error message recorded for directories that cannot be listed.
const ErrInaccessible = "permission denied or inaccessible"

// scan holds the state of a single Run invocation.
type scan struct {
	opts       Options
	log        *slog.Logger
	classifier Classifier
	acc        *accumulator
}

// failLevel is the level per-directory failures are logged at.
func (s *scan) failLevel() slog.Level {
	if s.opts.Verbose {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

// accepts reports whether a file with the given path passes the extension filter.
func (s *scan) accepts(path string) bool {
	if len(s.opts.Extensions) == 0 {
		return true
	}

	return slices.Contains(s.opts.Extensions, classify.Extension(path))
}

// scanOne computes the direct-file statistics of dir.
// Files are committed to the shared accumulator only once the whole directory
// has been listed, so a failing directory contributes nothing.
func (s *scan) scanOne(ctx context.Context, dir string) (rec DirRecord) {
	rec = DirRecord{Path: dir, ScannedAt: time.Now()}

	defer s.acc.markScanned()

	defer func() {
		if r := recover(); r != nil {
			rec = s.fail(ctx, rec, fmt.Sprint(r))
		}
	}()

	if !IsAccessible(dir) {
		return s.fail(ctx, rec, ErrInaccessible)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return s.fail(ctx, rec, err.Error())
	}

	files := make([]classify.File, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !isFile(path, entry) || !s.accepts(path) {
			continue
		}

		file := s.classifier.File(path, FileSize(path))
		files = append(files, file)
		rec.Size += file.Size
	}

	rec.FileCount = int64(len(files))
	s.acc.commit(files)

	return rec
}

// fail turns rec into an error record and records dir as inaccessible.
func (s *scan) fail(ctx context.Context, rec DirRecord, msg string) DirRecord {
	s.log.Log(ctx, s.failLevel(), "scanning directory", "path", rec.Path, "error", msg)
	s.acc.addError(rec.Path)

	rec.Size = 0
	rec.FileCount = 0
	rec.Error = msg

	return rec
}

// sequential scans dirs one after another in order.
func (s *scan) sequential(ctx context.Context, dirs []string) []DirRecord {
	records := make([]DirRecord, 0, len(dirs))

	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}

		if rec := s.scanOne(ctx, dir); rec.Size >= s.opts.MinSize {
			records = append(records, rec)
		}
	}

	return records
}
