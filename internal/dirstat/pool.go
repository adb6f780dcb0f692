package dirstat

import (
	"context"
	"fmt"
	"sync"
)

// taskResult is the outcome of one directory task run by the pool.
type taskResult struct {
	dir string
	rec DirRecord
	err error
}

// parallel scans dirs with a fixed pool of workers, one task per directory.
// Results are collected in completion order by the calling goroutine only.
// On cancellation no further directories are handed out; tasks already
// running complete and the pool is joined before returning.
func (s *scan) parallel(ctx context.Context, dirs []string) []DirRecord {
	workers := max(s.opts.Workers, 1)

	jobs := make(chan string)
	results := make(chan taskResult, workers)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for dir := range jobs {
				results <- s.task(ctx, dir)
			}
		}()
	}

	go func() {
		defer close(jobs)

		for _, dir := range dirs {
			if ctx.Err() != nil {
				return
			}

			select {
			case jobs <- dir:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]DirRecord, 0, len(dirs))

	for res := range results {
		if res.err != nil {
			s.log.ErrorContext(ctx, "processing directory", "path", res.dir, "error", res.err)

			continue
		}

		if res.rec.Size >= s.opts.MinSize {
			records = append(records, res.rec)
		}
	}

	return records
}

// task runs scanOne for dir, converting an escaped panic into an error
// so that siblings are unaffected.
func (s *scan) task(ctx context.Context, dir string) (res taskResult) {
	res.dir = dir

	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	res.rec = s.scanOne(ctx, dir)

	return res
}
