package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/domain/scenario"
)

// JobDependencies submits and tracks asynchronous simulations.
type JobDependencies interface {
	// CreateJob registers a job. A repeated requestID returns the existing
	// job and created=false.
	CreateJob(ctx context.Context, requestID string, req scenario.Request) (repository.Job, bool, error)

	// EnqueueJob pushes a job for async processing. Returns false on backpressure.
	EnqueueJob(ctx context.Context, job repository.Job) bool

	// RemoveJob forgets a job that could not be enqueued.
	RemoveJob(ctx context.Context, id string) error

	Job(ctx context.Context, id string) (repository.Job, error)
}

// jobRequest mirrors the OpenAPI schema for POST /jobs.
type jobRequest struct {
	RequestID string          `json:"request_id"`
	Kind      string          `json:"kind"`
	Params    json.RawMessage `json:"params"`
}

type ackResponse struct {
	JobID     string               `json:"job_id"`
	Status    repository.JobStatus `json:"status"`
	Duplicate bool                 `json:"duplicate"`
}

type jobResponse struct {
	JobID      string               `json:"job_id"`
	RequestID  string               `json:"request_id,omitempty"`
	Kind       scenario.Kind        `json:"kind"`
	Status     repository.JobStatus `json:"status"`
	Report     scenario.Report      `json:"report,omitempty"`
	Error      *errorResponse       `json:"error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}

func newJobResponse(job *repository.Job) jobResponse {
	resp := jobResponse{
		JobID:      job.ID,
		RequestID:  job.RequestID,
		Kind:       job.Request.Kind,
		Status:     job.Status,
		Report:     job.Report,
		CreatedAt:  job.CreatedAt,
		StartedAt:  timePtr(job.StartedAt),
		FinishedAt: timePtr(job.FinishedAt),
	}
	if job.Err != nil {
		_, code := classify(job.Err)
		resp.Error = &errorResponse{Code: code, Message: job.Err.Error()}
	}
	return resp
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func bytesReader(b []byte) io.Reader {
	if len(b) == 0 {
		return nil
	}
	return bytes.NewReader(b)
}

// JobsHandler handles job requests.
type JobsHandler struct {
	deps JobDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleSubmit handles POST /jobs requests.
func (h *JobsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_job"
	var body jobRequest
	if _, err := decodeBody(r.Body, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if body.Kind == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing kind")))
		return
	}
	req, err := decodeRequest(body.Kind, bytesReader(body.Params))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	// Reject bad parameters now rather than in a failed job.
	if err := req.Params.Validate(); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	job, created, err := h.deps.CreateJob(r.Context(), body.RequestID, req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, ackResponse{JobID: job.ID, Status: job.Status, Duplicate: true})
		return
	}

	if ok := h.deps.EnqueueJob(r.Context(), job); !ok {
		// Release the request id so the client can retry
		_ = h.deps.RemoveJob(r.Context(), job.ID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{JobID: job.ID, Status: job.Status})
}

// HandleGet handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	job, err := h.deps.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newJobResponse(&job))
}
