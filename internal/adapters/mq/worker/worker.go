// Package worker runs queued simulation jobs against the scenario engine.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/muster/internal/adapters/mq/queue"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/scenario"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Job status labels for metrics.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Runner executes one scenario request.
type Runner func(personnel.Roster, scenario.Request) (scenario.Report, error)

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// RosterSource supplies the roster a job runs against.
type RosterSource interface {
	FetchRoster(ctx context.Context) (personnel.Roster, error)
}

// JobRecorder stores job transitions and outcomes.
type JobRecorder interface {
	Start(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, report scenario.Report) error
	Fail(ctx context.Context, id string, cause error) error
}

// Worker processes jobs and records their outcomes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is closed and drained.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	roster RosterSource
	jobs   JobRecorder
	run    Runner
	name   string

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, rs RosterSource, jobs JobRecorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		roster:   rs,
		jobs:     jobs,
		run:      scenario.Run,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		// A stop request wins over queued jobs.
		select {
		case <-w.shutdown:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("jobID", job.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for its loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// processJob runs one job and records its outcome. The returned error
// reports bookkeeping failures only; a failing scenario is a job outcome.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	kind := string(job.Request.Kind)

	if err := w.jobs.Start(ctx, job.ID); err != nil {
		metrics.RecordErrorByComponent("worker", "job_state")
		return fmt.Errorf("start job %s: %w", job.ID, err)
	}

	snapshot, err := w.roster.FetchRoster(ctx)
	if err != nil {
		errType := "roster_error"
		var ne *roster.NetworkError
		if errors.As(err, &ne) {
			errType = "roster_unavailable"
		}
		return w.fail(ctx, job, start, errType, err)
	}

	runStart := time.Now()
	report, err := w.run(snapshot, job.Request)
	runMs := float64(time.Since(runStart).Microseconds()) / 1000
	if err != nil {
		metrics.RecordScenarioRun(kind, metrics.OutcomeError, runMs)
		return w.fail(ctx, job, start, "scenario_error", err)
	}
	metrics.RecordScenarioRun(kind, metrics.OutcomeSuccess, runMs)

	if err := w.jobs.Complete(ctx, job.ID, report); err != nil {
		metrics.RecordErrorByComponent("worker", "job_state")
		return fmt.Errorf("complete job %s: %w", job.ID, err)
	}
	metrics.RecordJobOutcome(kind, statusSucceeded, float64(time.Since(start).Microseconds())/1000)

	w.logger.Debug(ctx, "job succeeded",
		logger.String("jobID", job.ID),
		logger.String("kind", kind),
		logger.Int("roster", len(snapshot)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (w *InMemoryWorker) fail(ctx context.Context, job queue.Job, start time.Time, errType string, cause error) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	metrics.RecordErrorByComponent("worker", errType)
	metrics.RecordJobOutcome(string(job.Request.Kind), statusFailed, float64(time.Since(start).Microseconds())/1000)

	w.logger.Warn(ctx, "job failed",
		logger.String("jobID", job.ID),
		logger.String("kind", string(job.Request.Kind)),
		logger.Error(cause),
	)

	if err := w.jobs.Fail(ctx, job.ID, cause); err != nil {
		return fmt.Errorf("fail job %s: %w", job.ID, err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	started atomic.Bool

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker
// per CPU.
func NewPool(workerCount int, q Queue, rs RosterSource, jobs JobRecorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, rs, jobs, workerOpts...)
	}

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Shutdown closes the queue and lets workers drain what is already queued.
// Workers still busy when ctx expires are stopped after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	defer metrics.UpdateWorkerActiveCount(0)

	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.started.Load() {
		return nil
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			w.stop()
			<-w.done
		}
	}

	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
	return nil
}
