// Package repository persists roster snapshots and simulation jobs.
package repository

import (
	"context"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/scenario"
)

// ImportBatch describes one roster import.
type ImportBatch struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	ImportedAt time.Time `json:"imported_at"`
}

// RosterStore provides read/write access to the persisted roster.
type RosterStore interface {
	// ReplaceAll swaps the stored roster for roster in one transaction.
	ReplaceAll(ctx context.Context, roster personnel.Roster, source string) (ImportBatch, error)
	// All returns the stored roster in import order.
	All(ctx context.Context) (personnel.Roster, error)
	// Get returns one record. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (personnel.Record, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
	// LastImport returns the most recent batch. Returns ErrNotFound if none.
	LastImport(ctx context.Context) (ImportBatch, error)
}

// JobStatus is the lifecycle state of a simulation job.
type JobStatus string

// Job states.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Done reports whether the job reached a final state.
func (s JobStatus) Done() bool { return s == JobSucceeded || s == JobFailed }

// Job is a simulation request and its outcome.
type Job struct {
	ID         string
	RequestID  string
	Request    scenario.Request
	Status     JobStatus
	Report     scenario.Report
	Err        error
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// JobRepository tracks simulation jobs.
type JobRepository interface {
	// Create registers a queued job. A non-empty requestID that was seen
	// before returns the existing job and created=false.
	Create(ctx context.Context, requestID string, req scenario.Request) (job Job, created bool, err error)
	// Get returns a job. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (Job, error)
	// Start moves a job to running.
	Start(ctx context.Context, id string) error
	// Complete stores the report and marks the job succeeded.
	Complete(ctx context.Context, id string, report scenario.Report) error
	// Fail stores the cause and marks the job failed.
	Fail(ctx context.Context, id string, cause error) error
	// Remove forgets a job, releasing its request id.
	Remove(ctx context.Context, id string) error
	// Counts returns the number of jobs per status.
	Counts(ctx context.Context) map[JobStatus]int
}
