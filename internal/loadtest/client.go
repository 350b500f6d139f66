package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// HTTPClient talks to the muster API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client with a per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health checks that /healthz answers 200.
func (c *HTTPClient) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// Submit posts a job and returns the HTTP status with the decoded ack.
func (c *HTTPClient) Submit(ctx context.Context, req JobRequest) (int, Ack, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/jobs", req)
	if err != nil {
		return 0, Ack{}, err
	}
	var ack Ack
	if status == http.StatusOK || status == http.StatusAccepted {
		if err := json.Unmarshal(body, &ack); err != nil {
			return status, ack, fmt.Errorf("decode ack: %w", err)
		}
	}
	return status, ack, nil
}

// Job fetches the state of a job.
func (c *HTTPClient) Job(ctx context.Context, id string) (JobStatus, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/jobs/"+id, nil)
	if err != nil {
		return JobStatus{}, err
	}
	if status != http.StatusOK {
		return JobStatus{}, fmt.Errorf("get job %s: status %d", id, status)
	}
	var js JobStatus
	if err := json.Unmarshal(body, &js); err != nil {
		return JobStatus{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return js, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}
