package convert

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/composeport/pkg/schedule"
	"github.com/gnana997/composeport/pkg/unit"
	"github.com/gnana997/composeport/pkg/util"
)

// unitJob is one scheduled unit handed to the worker pool.
type unitJob struct {
	Unit  *unit.SourceUnit
	Task  schedule.ConversionTask
	JobID int
}

// unitJobResult carries one finished conversion back to the collector.
type unitJobResult struct {
	Result UnitResult
	JobID  int
}

// workerPool runs per-unit conversions in parallel. Per-unit work is a pure
// transformation over immutable inputs, so workers share nothing; a worker
// failure (including a panic) is recorded on its own result and never
// aborts sibling units.
type workerPool struct {
	numWorkers int
	jobs       chan unitJob
	results    chan unitJobResult
	wg         sync.WaitGroup
	run        func(context.Context, unitJob) UnitResult
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
}

// newWorkerPool creates a pool. numWorkers 0 auto-detects.
func newWorkerPool(numWorkers int, run func(context.Context, unitJob) UnitResult, logger *slog.Logger) *workerPool {
	numWorkers = util.GetOptimalPoolSizeWithOverride(numWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	return &workerPool{
		numWorkers: numWorkers,
		jobs:       make(chan unitJob, numWorkers*2),
		results:    make(chan unitJobResult, numWorkers),
		run:        run,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *workerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *workerPool) worker(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.results <- unitJobResult{Result: wp.safeRun(job), JobID: job.JobID}
			wp.jobsProcessed.Add(1)
		}
	}
}

// safeRun isolates panics from malformed units into an error result.
func (wp *workerPool) safeRun(job unitJob) (res UnitResult) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("unit conversion panicked", "unit", job.Unit.Path, "panic", r)
			res = UnitResult{
				UnitPath: job.Unit.Path,
				Err:      fmt.Sprintf("conversion panicked: %v", r),
			}
		}
	}()
	return wp.run(wp.ctx, job)
}

// Submit enqueues a job. Blocks while the jobs channel is full.
func (wp *workerPool) Submit(job unitJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobsSubmitted.Add(1)
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the result channel.
func (wp *workerPool) Results() <-chan unitJobResult { return wp.results }

// FinishSubmitting closes the jobs channel so workers drain and exit.
// Idempotent.
func (wp *workerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Stop shuts the pool down: closes jobs if needed, waits for in-flight
// work, then closes the result channel. Idempotent.
func (wp *workerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load())
}
