package dirstat

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirsize/internal/classify"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

// scenarioTree builds:
//
//	root.txt             1000
//	subdir1/image.jpg    5000
//	subdir1/document.pdf 3000
//	subdir2/video.mp4    10000
//	subdir2/nested/data.csv 2000
func scenarioTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFile(t, filepath.Join(root, "root.txt"), 1000)
	writeFile(t, filepath.Join(root, "subdir1", "image.jpg"), 5000)
	writeFile(t, filepath.Join(root, "subdir1", "document.pdf"), 3000)
	writeFile(t, filepath.Join(root, "subdir2", "video.mp4"), 10000)
	writeFile(t, filepath.Join(root, "subdir2", "nested", "data.csv"), 2000)

	return root
}

func testOptions(t *testing.T, root string) Options {
	t.Helper()

	return Options{
		Path:     root,
		TopN:     DefaultTopN,
		ErrorLog: filepath.Join(t.TempDir(), "no-access.txt"),
	}
}

// modes returns the option mutators for sequential and parallel execution.
func modes() map[string]func(*Options) {
	return map[string]func(*Options){
		"sequential": func(o *Options) { o.Sequential = true },
		"parallel":   func(o *Options) { o.Workers = 4 },
	}
}

func runScan(t *testing.T, opts Options, options ...Option) *Outcome {
	t.Helper()

	scanner, err := New(opts, options...)
	require.NoError(t, err)

	outcome, err := scanner.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, outcome)

	return outcome
}

func byPath(records []DirRecord) map[string]DirRecord {
	m := make(map[string]DirRecord, len(records))
	for _, rec := range records {
		m[rec.Path] = rec
	}

	return m
}

type triple struct {
	path  string
	size  int64
	count int64
}

func triples(records []DirRecord) map[triple]struct{} {
	set := make(map[triple]struct{}, len(records))
	for _, rec := range records {
		set[triple{rec.Path, rec.Size, rec.FileCount}] = struct{}{}
	}

	return set
}

func assertSorted(t *testing.T, records []DirRecord) {
	t.Helper()

	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Size, records[i].Size, "records not sorted at %d", i)
	}
}

func TestRunScenario(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := scenarioTree(t)
			opts := testOptions(t, root)
			mode(&opts)

			outcome := runScan(t, opts)
			records := byPath(outcome.Records)

			require.Len(t, records, 4)

			tests := []struct {
				dir   string
				size  int64
				count int64
			}{
				{root, 1000, 1},
				{filepath.Join(root, "subdir1"), 8000, 2},
				{filepath.Join(root, "subdir2"), 10000, 1},
				{filepath.Join(root, "subdir2", "nested"), 2000, 1},
			}

			for _, tt := range tests {
				rec, ok := records[tt.dir]
				require.True(t, ok, "missing record for %s", tt.dir)
				assert.Equal(t, tt.size, rec.Size, tt.dir)
				assert.Equal(t, tt.count, rec.FileCount, tt.dir)
				assert.False(t, rec.HasError())
				assert.False(t, rec.ScannedAt.IsZero())
			}

			assert.Equal(t, int64(4), outcome.Stats.Directories)
			assert.Equal(t, int64(5), outcome.Stats.Files)
			assert.Equal(t, int64(21000), outcome.Stats.TotalBytes)
			assert.Equal(t, map[string]int64{
				"office":       1000,
				"images":       5000,
				"documents":    3000,
				"videos":       10000,
				classify.Other: 2000,
			}, outcome.Stats.CategoryBytes)
			assert.Equal(t, int64(1), outcome.Stats.CategoryFiles["videos"])
			assert.Len(t, outcome.Files, 5)

			assertSorted(t, outcome.Records)
			assert.Equal(t, filepath.Join(root, "subdir2"), outcome.Records[0].Path)

			assert.Zero(t, outcome.ErrorCount)
			assert.False(t, outcome.Interrupted)
			assert.NotEmpty(t, outcome.ID)
			assert.NoFileExists(t, opts.ErrorLog)
		})
	}
}

func TestModeEquivalence(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	for i, dir := range []string{"a", "a/b", "a/b/c", "d", "d/e", "f", "f/g/h/i"} {
		for j := range 3 {
			writeFile(t, filepath.Join(root, dir, "file"+string(rune('0'+j))+".bin"), (i+1)*(j+7)*13)
		}
	}

	writeFile(t, filepath.Join(root, "top.mp3"), 333)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755))

	seqOpts := testOptions(t, root)
	seqOpts.Sequential = true

	parOpts := testOptions(t, root)
	parOpts.Workers = 3

	seq := runScan(t, seqOpts)
	par := runScan(t, parOpts)

	assert.Equal(t, triples(seq.Records), triples(par.Records))
	assert.Equal(t, seq.Stats.Directories, par.Stats.Directories)
	assert.Equal(t, seq.Stats.Files, par.Stats.Files)
	assert.Equal(t, seq.Stats.TotalBytes, par.Stats.TotalBytes)
	assert.Equal(t, seq.Stats.CategoryBytes, par.Stats.CategoryBytes)
	assert.Equal(t, seq.Stats.CategoryFiles, par.Stats.CategoryFiles)

	assertSorted(t, seq.Records)
	assertSorted(t, par.Records)
}

func TestRunMinSize(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := scenarioTree(t)
			opts := testOptions(t, root)
			opts.MinSize = 5000
			mode(&opts)

			outcome := runScan(t, opts)

			for _, rec := range outcome.Records {
				assert.GreaterOrEqual(t, rec.Size, int64(5000))
			}

			records := byPath(outcome.Records)
			assert.Len(t, records, 2)
			assert.Contains(t, records, filepath.Join(root, "subdir1"))
			assert.Contains(t, records, filepath.Join(root, "subdir2"))

			// Directories below the threshold still feed the statistics.
			assert.Equal(t, int64(4), outcome.Stats.Directories)
			assert.Equal(t, int64(5), outcome.Stats.Files)
			assert.Equal(t, int64(21000), outcome.Stats.TotalBytes)
		})
	}
}

func TestRunExtensionFilter(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := scenarioTree(t)
			writeFile(t, filepath.Join(root, "subdir1", "extra.PDF"), 700)
			writeFile(t, filepath.Join(root, "subdir1", "notes.txt"), 400)

			opts := testOptions(t, root)
			opts.Extensions = []string{".jpg", "PDF"}
			mode(&opts)

			outcome := runScan(t, opts)
			records := byPath(outcome.Records)

			sub1 := records[filepath.Join(root, "subdir1")]
			assert.Equal(t, int64(5000+3000+700), sub1.Size)
			assert.Equal(t, int64(3), sub1.FileCount)

			assert.Equal(t, int64(0), records[root].Size)
			assert.Equal(t, int64(0), records[filepath.Join(root, "subdir2")].FileCount)

			assert.Equal(t, int64(3), outcome.Stats.Files)
			assert.Equal(t, int64(8700), outcome.Stats.TotalBytes)
			assert.Equal(t, map[string]int64{"images": 5000, "documents": 3700}, outcome.Stats.CategoryBytes)
		})
	}
}

func TestRunCategoryConservation(t *testing.T) {
	t.Parallel()

	root := scenarioTree(t)
	writeFile(t, filepath.Join(root, "noext"), 17)
	writeFile(t, filepath.Join(root, "subdir1", "archive.tar.gz"), 250)

	outcome := runScan(t, testOptions(t, root))

	var sum int64
	for _, size := range outcome.Stats.CategoryBytes {
		sum += size
	}

	assert.Equal(t, outcome.Stats.TotalBytes, sum)
	assert.Equal(t, int64(21000+17+250), sum)
}

func TestRunStableTies(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.bin"), 100)
	writeFile(t, filepath.Join(root, "b", "x.bin"), 100)
	writeFile(t, filepath.Join(root, "c", "x.bin"), 100)

	opts := testOptions(t, root)
	opts.Sequential = true

	outcome := runScan(t, opts)

	require.Len(t, outcome.Records, 4)
	assert.Equal(t, filepath.Join(root, "a"), outcome.Records[0].Path)
	assert.Equal(t, filepath.Join(root, "b"), outcome.Records[1].Path)
	assert.Equal(t, filepath.Join(root, "c"), outcome.Records[2].Path)
	assert.Equal(t, root, outcome.Records[3].Path)
}

func TestRunInaccessibleIsolation(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := scenarioTree(t)
			locked := filepath.Join(root, "locked")
			writeFile(t, filepath.Join(locked, "secret.txt"), 999)
			writeFile(t, filepath.Join(locked, "inner", "deep.txt"), 999)

			require.NoError(t, os.Chmod(locked, 0o000))
			t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

			opts := testOptions(t, root)
			mode(&opts)

			outcome := runScan(t, opts)
			records := byPath(outcome.Records)

			require.Len(t, records, 5)

			rec := records[locked]
			assert.True(t, rec.HasError())
			assert.Zero(t, rec.Size)
			assert.Zero(t, rec.FileCount)
			assert.NotContains(t, records, filepath.Join(locked, "inner"))

			assert.Equal(t, int64(8000), records[filepath.Join(root, "subdir1")].Size)
			assert.Equal(t, int64(21000), outcome.Stats.TotalBytes)
			assert.Equal(t, int64(5), outcome.Stats.Directories)

			assert.Equal(t, 1, outcome.ErrorCount)
			assert.Equal(t, []string{locked}, outcome.Errors)
			assert.InDelta(t, 0.8, outcome.SuccessRate(), 0.0001)

			data, err := os.ReadFile(opts.ErrorLog)
			require.NoError(t, err)
			assert.Contains(t, string(data), "# Total inaccessible directories: 1\n\n"+locked+"\n")

			for _, top := range outcome.Top() {
				assert.False(t, top.HasError())
			}
		})
	}
}

func TestRunHiddenDirectories(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := filepath.Join(t.TempDir(), ".root")
			writeFile(t, filepath.Join(root, "visible", "a.txt"), 10)
			writeFile(t, filepath.Join(root, ".git", "objects", "pack.bin"), 500)
			writeFile(t, filepath.Join(root, ".hidden.txt"), 5)

			opts := testOptions(t, root)
			mode(&opts)

			outcome := runScan(t, opts)
			records := byPath(outcome.Records)

			assert.Len(t, records, 2)
			assert.Contains(t, records, root)
			assert.Contains(t, records, filepath.Join(root, "visible"))
			// Hidden files still count; only hidden directories are filtered.
			assert.Equal(t, int64(5), records[root].Size)
			assert.Equal(t, int64(15), outcome.Stats.TotalBytes)

			opts.IncludeHidden = true
			outcome = runScan(t, opts)
			records = byPath(outcome.Records)

			assert.Len(t, records, 4)
			assert.Equal(t, int64(500), records[filepath.Join(root, ".git", "objects")].Size)
			assert.Equal(t, int64(515), outcome.Stats.TotalBytes)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := testOptions(t, scenarioTree(t))
			mode(&opts)

			scanner, err := New(opts)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			outcome, err := scanner.Run(ctx)
			require.NoError(t, err)
			assert.True(t, outcome.Interrupted)
			assert.Empty(t, outcome.Records)
		})
	}
}

type panickingClassifier struct {
	inner *classify.Classifier
	name  string
}

func (p panickingClassifier) File(path string, size int64) classify.File {
	if filepath.Base(path) == p.name {
		panic("classifier exploded")
	}

	return p.inner.File(path, size)
}

func TestRunFailureIsolatedToDirectory(t *testing.T) {
	t.Parallel()

	for name, mode := range modes() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := scenarioTree(t)
			opts := testOptions(t, root)
			mode(&opts)

			outcome := runScan(t, opts, WithClassifier(panickingClassifier{
				inner: classify.New(),
				name:  "video.mp4",
			}))
			records := byPath(outcome.Records)

			require.Len(t, records, 4)

			failed := records[filepath.Join(root, "subdir2")]
			assert.Equal(t, "classifier exploded", failed.Error)
			assert.Zero(t, failed.Size)
			assert.Zero(t, failed.FileCount)

			assert.Equal(t, int64(2000), records[filepath.Join(root, "subdir2", "nested")].Size)
			assert.Equal(t, int64(4), outcome.Stats.Files)
			assert.Equal(t, int64(11000), outcome.Stats.TotalBytes)
			assert.Equal(t, []string{filepath.Join(root, "subdir2")}, outcome.Errors)
		})
	}
}

func TestOutcomeTopAndEnhance(t *testing.T) {
	t.Parallel()

	root := scenarioTree(t)
	opts := testOptions(t, root)
	opts.TopN = 2

	outcome := runScan(t, opts)

	top := outcome.Top()
	require.Len(t, top, 2)
	assert.Equal(t, filepath.Join(root, "subdir2"), top[0].Path)
	assert.Equal(t, filepath.Join(root, "subdir1"), top[1].Path)

	enhanced := outcome.Enhance(top[1])
	assert.Equal(t, "images", enhanced.Dominant)
	assert.Equal(t, map[string]int64{"images": 5000, "documents": 3000}, enhanced.CategoryBytes)
	assert.Len(t, enhanced.Files, 2)
	assert.InDelta(t, 100.0*8000/21000, enhanced.Percent, 0.0001)

	empty := outcome.Enhance(DirRecord{Path: filepath.Join(root, "nowhere")})
	assert.Equal(t, classify.Other, empty.Dominant)
	assert.Zero(t, empty.Percent)
}

func TestOutcomeEnhanceIndex(t *testing.T) {
	t.Parallel()

	outcome := &Outcome{
		Files: []classify.File{
			{Path: filepath.Join("/data", "a.jpg"), Size: 10, Category: "images"},
			{Path: filepath.Join("/data", "sub", "b.pdf"), Size: 20, Category: "documents"},
			{Path: filepath.Join("/data", "c.mp4"), Size: 30, Category: "videos"},
			{Path: filepath.Join("/data", "sub", "d.pdf"), Size: 5, Category: "documents"},
		},
		Stats: Statistics{TotalBytes: 65},
	}

	data := outcome.Enhance(DirRecord{Path: "/data", Size: 40, FileCount: 2})
	sub := outcome.Enhance(DirRecord{Path: filepath.Join("/data", "sub"), Size: 25, FileCount: 2})

	assert.Equal(t, "videos", data.Dominant)
	assert.Equal(t, map[string]int64{"images": 10, "videos": 30}, data.CategoryBytes)
	assert.Equal(t, map[string]int64{"documents": 25}, sub.CategoryBytes)
	assert.Len(t, outcome.filesByDir, 2, "one index entry per directory")

	// Returned files do not alias the index.
	sub.Files[0].Size = 1000
	again := outcome.Enhance(DirRecord{Path: filepath.Join("/data", "sub"), Size: 25, FileCount: 2})
	assert.Equal(t, int64(20), again.Files[0].Size)
}

func TestRunExtensionFilterSkipsDotfiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".bashrc"), 100)
	writeFile(t, filepath.Join(root, "x.bashrc"), 7)

	opts := testOptions(t, root)
	opts.Extensions = []string{".bashrc"}

	outcome := runScan(t, opts)

	assert.Equal(t, int64(1), outcome.Stats.Files)
	assert.Equal(t, int64(7), outcome.Stats.TotalBytes)
}

func TestRunProgress(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, scenarioTree(t))
	opts.ProgressInterval = 1

	calls := make(chan Progress, 1024)
	outcome := runScan(t, opts, WithProgress(func(p Progress) {
		select {
		case calls <- p:
		default:
		}
	}))

	assert.Equal(t, int64(4), outcome.Stats.Directories)

	// Run has joined the reporter, so no hook call can race with the reads below.
	close(calls)

	for p := range calls {
		assert.LessOrEqual(t, p.Scanned, int64(4))
		assert.LessOrEqual(t, p.Bytes, int64(21000))
	}
}
