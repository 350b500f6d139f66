package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/muster/internal/domain/scenario"
)

const defaultMaxFinished = 10000

// JobStore is an in-memory JobRepository. Finished jobs beyond the
// retention bound are evicted oldest first.
type JobStore struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	byRequest   map[string]string // request id -> job id
	finished    []string          // job ids in completion order
	maxFinished int
	now         func() time.Time
}

// NewJobStore creates an empty job store.
func NewJobStore(opts ...JobOption) *JobStore {
	s := &JobStore{
		jobs:        make(map[string]*Job),
		byRequest:   make(map[string]string),
		maxFinished: defaultMaxFinished,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements JobRepository.
func (s *JobStore) Create(_ context.Context, requestID string, req scenario.Request) (Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != "" {
		if id, ok := s.byRequest[requestID]; ok {
			return *s.jobs[id], false, nil
		}
	}

	job := &Job{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Request:   req,
		Status:    JobQueued,
		CreatedAt: s.now(),
	}
	s.jobs[job.ID] = job
	if requestID != "" {
		s.byRequest[requestID] = job.ID
	}
	return *job, true, nil
}

// Get implements JobRepository.
func (s *JobStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	return *job, nil
}

// Start implements JobRepository.
func (s *JobStore) Start(_ context.Context, id string) error {
	return s.transition(id, JobQueued, func(j *Job) {
		j.Status = JobRunning
		j.StartedAt = s.now()
	})
}

// Complete implements JobRepository.
func (s *JobStore) Complete(_ context.Context, id string, report scenario.Report) error {
	return s.transition(id, JobRunning, func(j *Job) {
		j.Status = JobSucceeded
		j.Report = report
		j.FinishedAt = s.now()
	})
}

// Fail implements JobRepository. A queued job may fail without starting.
func (s *JobStore) Fail(_ context.Context, id string, cause error) error {
	return s.transition(id, "", func(j *Job) {
		j.Status = JobFailed
		j.Err = cause
		j.FinishedAt = s.now()
	})
}

// Remove implements JobRepository.
func (s *JobStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	s.forget(job)
	return nil
}

// Counts implements JobRepository.
func (s *JobStore) Counts(_ context.Context) map[JobStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[JobStatus]int{JobQueued: 0, JobRunning: 0, JobSucceeded: 0, JobFailed: 0}
	for _, j := range s.jobs {
		out[j.Status]++
	}
	return out
}

// transition applies fn if the job is in state from. An empty from accepts
// any unfinished state.
func (s *JobStore) transition(id string, from JobStatus, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	if job.Status.Done() || (from != "" && job.Status != from) {
		return fmt.Errorf("job %q is %s: %w", id, job.Status, ErrInvalidStatus)
	}
	fn(job)
	if job.Status.Done() {
		s.finished = append(s.finished, id)
		s.evict()
	}
	return nil
}

func (s *JobStore) evict() {
	for len(s.finished) > s.maxFinished {
		job, ok := s.jobs[s.finished[0]]
		if !ok {
			s.finished = s.finished[1:]
			continue
		}
		s.forget(job)
	}
}

func (s *JobStore) forget(job *Job) {
	delete(s.jobs, job.ID)
	if job.RequestID != "" {
		delete(s.byRequest, job.RequestID)
	}
	for i, id := range s.finished {
		if id == job.ID {
			s.finished = append(s.finished[:i], s.finished[i+1:]...)
			break
		}
	}
}
