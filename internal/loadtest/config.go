// Package loadtest drives a running muster server with concurrent
// simulation jobs and checks that every accepted job finishes.
package loadtest

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Jobs         int           // Number of jobs to submit
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between job status polls
	Deadline     time.Duration // Upper bound for all jobs to finish
	Seed         int64         // Seed for parameter variation
	Verbose      bool          // Log every job
}

// JobRequest is the body of POST /jobs.
type JobRequest struct {
	RequestID string         `json:"request_id"`
	Kind      string         `json:"kind"`
	Params    map[string]any `json:"params,omitempty"`
}

// Ack is the response to POST /jobs.
type Ack struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// JobStatus is the subset of GET /jobs/{id} the runner checks.
type JobStatus struct {
	JobID  string `json:"job_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Done reports whether the job reached a final state.
func (s JobStatus) Done() bool { return s.Status == "succeeded" || s.Status == "failed" }

// Stats holds run statistics.
type Stats struct {
	Submitted   int            `json:"submitted"`
	Accepted    int            `json:"accepted"`
	Duplicate   int            `json:"duplicate"`
	Rejected    int            `json:"rejected"` // 429 backpressure
	Failed      int            `json:"failed"`   // transport or unexpected status
	Succeeded   int            `json:"succeeded"`
	JobFailures map[string]int `json:"job_failures"` // by error code
	StartTime   time.Time      `json:"start_time"`
	Duration    time.Duration  `json:"duration_ns"`
}
