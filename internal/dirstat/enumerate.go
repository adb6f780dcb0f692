package dirstat

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// walker enumerates the directories below a root.
type walker struct {
	root          string
	includeHidden bool
	// onError is called for every directory that cannot be listed.
	onError func(path string, err error)
}

// skip reports whether the subdirectory at path is filtered out together with its subtree.
func (w walker) skip(path string, entry fs.DirEntry) bool {
	return !w.includeHidden && path != w.root && IsHidden(path, entry)
}

// enumerate returns every directory below the root in depth-first pre-order,
// root first, siblings in lexical order. An unlistable directory is itself
// returned but not descended into.
//
// An explicit stack is used instead of recursion so deep trees cannot exhaust the call stack.
func (w walker) enumerate(ctx context.Context) ([]string, error) {
	var dirs []string

	stack := []string{w.root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return dirs, err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dirs = append(dirs, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			w.onError(dir, err)

			continue
		}

		var children []string

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			child := filepath.Join(dir, entry.Name())
			if w.skip(child, entry) {
				continue
			}

			children = append(children, child)
		}

		// Push in reverse so the first sibling is popped first.
		slices.Reverse(children)
		stack = append(stack, children...)
	}

	return dirs, nil
}

// enumerateConcurrent returns the same set of directories as enumerate,
// walking the tree with fastwalk. The order is not deterministic.
func (w walker) enumerateConcurrent(ctx context.Context, workers int) ([]string, error) {
	var (
		mu   sync.Mutex
		dirs []string
	)

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Second call for a directory whose listing failed.
			if d != nil && d.IsDir() {
				w.onError(path, err)
			}

			return nil
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !d.IsDir() {
			if d.Type().IsRegular() {
				return fastwalk.ErrSkipFiles
			}

			return nil
		}

		if w.skip(path, d) {
			return fastwalk.SkipDir
		}

		mu.Lock()
		dirs = append(dirs, path)
		mu.Unlock()

		return nil
	})

	mu.Lock()
	defer mu.Unlock()

	return dirs, err
}
