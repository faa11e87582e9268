package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnana997/extractinator/pkg/cache"
	"github.com/gnana997/extractinator/pkg/extractor"
	"github.com/gnana997/extractinator/pkg/util"
)

// ErrPoolClosed is returned by Submit once FinishSubmitting or Stop has
// been called.
var ErrPoolClosed = errors.New("worker pool is not accepting jobs")

// FileJob is one file to extract. JobID is echoed in the FileResult so
// callers can put results back in order.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is the extraction outcome for one job. A file that cannot
// be read is a result too, with Result.Err set.
type FileResult struct {
	FilePath string
	JobID    int
	Result   extractor.Result

	// Cached is set when the result came from the result cache
	Cached bool

	Took time.Duration
}

// WorkerPool extracts files on a fixed set of goroutines.
//
// Jobs go in through Submit and come out, in completion order, on
// Results. A failing file never stops a worker. Sources are read through
// a SourceCache shared by all workers, and an optional result cache
// skips extraction of unchanged files.
//
// Usage:
//
//	pool := NewWorkerPool(0, x, sources, nil, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	go func() {
//	    for i, file := range files {
//	        pool.Submit(ctx, FileJob{FilePath: file, JobID: i})
//	    }
//	    pool.FinishSubmitting()
//	}()
//
//	for range files {
//	    fr := <-pool.Results()
//	    ...
//	}
type WorkerPool struct {
	workers   int
	jobs      chan FileJob
	results   chan FileResult
	extractor *extractor.Extractor
	sources   util.SourceCache
	cache     *cache.Cache
	logger    *slog.Logger

	wg        sync.WaitGroup
	quit      chan struct{}
	startOnce sync.Once
	closeJobs sync.Once
	stopOnce  sync.Once

	// mu orders Submit against closing the jobs channel
	mu     sync.RWMutex
	closed bool

	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	cached    atomic.Int64
}

// NewWorkerPool creates a pool of workers goroutines; 0 picks
// util.GetOptimalPoolSize(), the same size the parser pools use, so a
// worker never waits for a parser. A nil sources gets a private
// SourceCache and a nil results disables result caching.
func NewWorkerPool(workers int, x *extractor.Extractor, sources util.SourceCache, results *cache.Cache, logger *slog.Logger) *WorkerPool {
	workers = util.GetOptimalPoolSizeWithOverride(workers)
	if logger == nil {
		logger = slog.Default()
	}
	if sources == nil {
		sources = util.NewSourceCache(&util.SourceCacheConfig{Logger: logger})
	}
	return &WorkerPool{
		workers:   workers,
		jobs:      make(chan FileJob, workers*2),
		results:   make(chan FileResult, workers),
		extractor: x,
		sources:   sources,
		cache:     results,
		logger:    logger,
		quit:      make(chan struct{}),
	}
}

// Start launches the workers. Calls after the first are no-ops.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		wp.logger.Debug("starting worker pool", "workers", wp.workers)
		wp.wg.Add(wp.workers)
		for id := range wp.workers {
			go wp.run(id)
		}
	})
}

func (wp *WorkerPool) run(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.quit:
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			fr := wp.process(id, job)
			select {
			case wp.results <- fr:
			case <-wp.quit:
				return
			}
		}
	}
}

func (wp *WorkerPool) process(worker int, job FileJob) (fr FileResult) {
	start := time.Now()
	fr = FileResult{FilePath: job.FilePath, JobID: job.JobID}
	defer func() {
		fr.Took = time.Since(start)
		if fr.Result.Err != nil {
			wp.failed.Add(1)
		} else {
			wp.processed.Add(1)
		}
	}()

	mf, err := wp.sources.Acquire(job.FilePath)
	if err != nil {
		wp.logger.Debug("file read error", "worker", worker, "file", job.FilePath, "error", err)
		fr.Result = extractor.ReadFailure(job.FilePath, err)
		return fr
	}
	defer func() {
		if err := wp.sources.Release(job.FilePath); err != nil {
			wp.logger.Warn("failed to release source", "file", job.FilePath, "error", err)
		}
	}()

	source := mf.Bytes()
	if wp.cache != nil {
		if r, ok := wp.cache.Get(job.FilePath, source); ok {
			wp.cached.Add(1)
			fr.Result, fr.Cached = r, true
			return fr
		}
	}
	fr.Result = wp.extractor.Extract(job.FilePath, source)
	if wp.cache != nil {
		wp.cache.Put(job.FilePath, source, fr.Result)
	}
	return fr
}

// Submit queues a job, blocking while the queue is full. It fails with
// ErrPoolClosed after FinishSubmitting or Stop, and with ctx.Err() when
// ctx ends first.
func (wp *WorkerPool) Submit(ctx context.Context, job FileJob) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.jobs <- job:
		wp.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.quit:
		return ErrPoolClosed
	}
}

// Results delivers one FileResult per job in completion order. It is
// closed by Stop.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// FinishSubmitting tells the workers no more jobs are coming; they exit
// once the queue is drained. It is safe to call more than once.
func (wp *WorkerPool) FinishSubmitting() {
	wp.closeJobs.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.jobs)
		wp.mu.Unlock()
		wp.logger.Debug("jobs closed", "submitted", wp.submitted.Load())
	})
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop abandons queued jobs and unconsumed results, waits for the
// workers and closes Results. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.quit)
		wp.FinishSubmitting()
		wp.wg.Wait()
		close(wp.results)

		s := wp.GetStats()
		wp.logger.Debug("worker pool stopped",
			"submitted", s.JobsSubmitted,
			"processed", s.JobsProcessed,
			"failed", s.JobsFailed,
			"cached", s.JobsCached)
	})
}

// WorkerPoolStats is a snapshot of pool counters.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64

	// JobsCached counts processed jobs answered by the result cache
	JobsCached int64

	QueueLength   int
	ResultsQueued int
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.workers,
		JobsSubmitted: wp.submitted.Load(),
		JobsProcessed: wp.processed.Load(),
		JobsFailed:    wp.failed.Load(),
		JobsCached:    wp.cached.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
	}
}
