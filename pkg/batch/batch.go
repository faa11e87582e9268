// Package batch extracts many files in parallel.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnana997/extractinator/pkg/cache"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/ir"
	"github.com/gnana997/extractinator/pkg/util"
)

// ProgressCallback is called after each file completes.
//
// Parameters:
//   - done: Number of files finished so far
//   - total: Total number of files
//   - file: Path of the file that just finished
type ProgressCallback func(done, total int, file string)

// Options configures ExtractAll.
type Options struct {
	// Workers is the number of worker goroutines (0 = auto-detect)
	Workers int

	// Sources is the source cache to read through. Nil creates one for
	// the run.
	Sources util.SourceCache

	// Cache memoizes results across runs. Nil disables caching.
	Cache *cache.Cache

	Progress ProgressCallback
	Logger   *slog.Logger
}

// Summary describes a batch run.
type Summary struct {
	Files     int
	Extracted int
	Failed    int

	// Diagnostics counts diagnostics by kind over all files
	Diagnostics map[ir.DiagnosticKind]int

	Took time.Duration
}

// AllFailed reports whether there were files and none was extracted.
func (s Summary) AllFailed() bool {
	return s.Files > 0 && s.Extracted == 0
}

// ExtractAll extracts paths in parallel. Results are in input order;
// a file that cannot be read or parsed gets a Result with Err set and
// never stops the others. When ctx is cancelled, files not yet
// extracted get ctx.Err() as their error.
func ExtractAll(ctx context.Context, x *extractor.Extractor, paths []string, opts Options) ([]extractor.Result, Summary) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]extractor.Result, len(paths))
	finished := make([]bool, len(paths))
	summary := Summary{Files: len(paths), Diagnostics: make(map[ir.DiagnosticKind]int)}

	sources := opts.Sources
	if sources == nil {
		sources = util.NewSourceCache(&util.SourceCacheConfig{Logger: logger})
		defer sources.Close()
	}

	pool := NewWorkerPool(opts.Workers, x, sources, opts.Cache, logger)
	pool.Start()
	defer pool.Stop()

	// **CRITICAL:** Submit from a separate goroutine so that a full jobs
	// channel cannot block result collection.
	submitted := make(chan int, 1)
	go func() {
		n := 0
		defer func() {
			pool.FinishSubmitting()
			submitted <- n
		}()
		for i, path := range paths {
			if err := pool.Submit(ctx, FileJob{FilePath: path, JobID: i}); err != nil {
				logger.Debug("stopped submitting", "error", err)
				return
			}
			n++
		}
	}()

	done := 0
	expected := -1
collect:
	for expected < 0 || done < expected {
		select {
		case n := <-submitted:
			expected = n
		case fr := <-pool.Results():
			results[fr.JobID] = fr.Result
			finished[fr.JobID] = true
			done++
			if opts.Progress != nil {
				opts.Progress(done, len(paths), fr.FilePath)
			}
		case <-ctx.Done():
			break collect
		}
	}

	if expected < 0 {
		<-submitted
	}

	for i, ok := range finished {
		if !ok {
			results[i] = extractor.Result{Err: context.Cause(ctx)}
			if results[i].Err == nil {
				results[i].Err = context.Canceled
			}
		}
	}

	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Extracted++
		}
		for _, d := range r.Diagnostics {
			summary.Diagnostics[d.Kind]++
		}
	}
	summary.Took = time.Since(start)

	logger.Info("batch extraction finished",
		"files", summary.Files,
		"extracted", summary.Extracted,
		"failed", summary.Failed,
		"took", util.FormatDuration(summary.Took))

	return results, summary
}
