// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	jobqueue "github.com/okian/muster/internal/adapters/mq/queue"
	workerpool "github.com/okian/muster/internal/adapters/mq/worker"
	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/scenario"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 1000
	defaultShutdownTimeout = 30 * time.Second
)

// Service implements the API dependencies for the roster analytics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider   roster.Provider
	dashboards *dashboard.Builder
	jobs       *repository.JobStore
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	shutdownTimeout time.Duration

	// State
	started    bool
	rosterSize atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration. Without a
// provider the service serves the seeded mock roster.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.provider == nil {
		s.provider = roster.NewMockProvider()
	}
	if s.dashboards == nil {
		s.dashboards = dashboard.New()
	}
	s.rosterSize.Store(-1)
	return s
}

// Start initializes and starts the job components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting roster analytics service...")

	s.jobs = repository.NewJobStore()
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s, s.jobs)
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "roster analytics service started",
		logger.String("source", s.provider.Name()),
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// Stop drains queued jobs and shuts the workers down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping roster analytics service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "roster analytics service stopped")
}

// FetchRoster returns the current roster snapshot. It also serves as the
// roster source for job workers.
func (s *Service) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	r, err := s.provider.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	s.rosterSize.Store(int64(len(r)))
	return r, nil
}

// Roster returns the roster, optionally filtered to one unit and capped at
// limit records when limit is positive.
func (s *Service) Roster(ctx context.Context, unit string, limit int) (personnel.Roster, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	if unit != "" {
		r = r.Filter(func(rec *personnel.Record) bool { return rec.Unit == unit })
	}
	if limit > 0 && len(r) > limit {
		r = r[:limit]
	}
	return r, nil
}

// Personnel returns the dashboard for one member.
func (s *Service) Personnel(ctx context.Context, id string) (*dashboard.Profile, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	return s.dashboards.Personnel(r, id)
}

// Dashboard returns the roster-wide dashboard for role.
func (s *Service) Dashboard(ctx context.Context, role dashboard.Role, unit string) (any, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	return s.dashboards.Build(role, r, unit)
}

// Leaderboard returns the top n members by metric.
func (s *Service) Leaderboard(ctx context.Context, metric dashboard.Metric, n int) ([]dashboard.Standing, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	return s.dashboards.Leaderboard(r, metric, n)
}

// RunScenario runs one analysis synchronously.
func (s *Service) RunScenario(ctx context.Context, req scenario.Request) (scenario.Report, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep, err := scenario.Run(r, req)
	recordRun(string(req.Kind), start, err)
	return rep, err
}

// Compare runs the requested analyses side by side.
func (s *Service) Compare(ctx context.Context, req scenario.CompareRequest) (*scenario.CompareResult, error) {
	r, err := s.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := scenario.Compare(ctx, r, req)
	recordRun("compare", start, err)
	return res, err
}

func recordRun(kind string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordScenarioRun(kind, outcome, float64(time.Since(start).Microseconds())/1000)
}

// CreateJob registers a job for req. A repeated requestID returns the
// existing job and created=false.
func (s *Service) CreateJob(ctx context.Context, requestID string, req scenario.Request) (repository.Job, bool, error) {
	jobs, _, err := s.components()
	if err != nil {
		return repository.Job{}, false, err
	}
	return jobs.Create(ctx, requestID, req)
}

// EnqueueJob submits a created job for asynchronous processing. Returns
// false on backpressure.
func (s *Service) EnqueueJob(ctx context.Context, job repository.Job) bool { //nolint:gocritic // hugeParam: Job is copied into the queue
	_, q, err := s.components()
	if err != nil {
		return false
	}
	return q.Enqueue(ctx, jobqueue.Job{ID: job.ID, Request: job.Request})
}

// RemoveJob forgets a job that could not be enqueued.
func (s *Service) RemoveJob(ctx context.Context, id string) error {
	jobs, _, err := s.components()
	if err != nil {
		return err
	}
	return jobs.Remove(ctx, id)
}

// Job returns the current state of a job.
func (s *Service) Job(ctx context.Context, id string) (repository.Job, error) {
	jobs, _, err := s.components()
	if err != nil {
		return repository.Job{}, err
	}
	return jobs.Get(ctx, id)
}

func (s *Service) components() (*repository.JobStore, jobqueue.Queue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, fmt.Errorf("jobs: %w", ErrNotStarted)
	}
	return s.jobs, s.jobQueue, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"source":      s.provider.Name(),
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if n := s.rosterSize.Load(); n >= 0 {
		stats["rosterSize"] = n
	}

	if s.started {
		stats["workerCount"] = s.workerPool.Size()
		stats["queueLength"] = s.jobQueue.Len(ctx)
		counts := s.jobs.Counts(ctx)
		jobs := make(map[string]int, len(counts))
		for status, n := range counts {
			jobs[string(status)] = n
		}
		stats["jobs"] = jobs
	}

	return stats
}
