package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/pkg/logger"
)

// maxRosterBody caps the size of a remote roster payload.
const maxRosterBody = 64 << 20

var errMalformedPayload = errors.New("malformed roster payload")

// HTTPProvider fetches a JSON array of wire records with GET. Transport
// failures and 5xx responses are retried; other failures are not.
type HTTPProvider struct {
	url     string
	client  *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
}

// NewHTTPProvider creates a provider for url.
func NewHTTPProvider(url string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		url:     url,
		client:  http.DefaultClient,
		timeout: DefaultFetchTimeout,
		retries: DefaultFetchRetries,
		backoff: DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Provider.
func (p *HTTPProvider) Name() string { return SourceHTTP }

// FetchRoster implements Provider.
func (p *HTTPProvider) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	start := time.Now()
	roster, err := p.fetchWithRetry(ctx)
	observe(SourceHTTP, start, roster, err)
	return roster, err
}

func (p *HTTPProvider) fetchWithRetry(ctx context.Context) (personnel.Roster, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			logger.Get().Warn(ctx, "retrying roster fetch",
				logger.String("url", p.url),
				logger.Int("attempt", attempt),
				logger.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, &NetworkError{URL: p.url, Err: ctx.Err()}
			case <-time.After(p.backoff * time.Duration(attempt)):
			}
		}

		wire, err := p.fetchOnce(ctx)
		if err == nil {
			return personnel.DecodeRoster(wire)
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (p *HTTPProvider) fetchOnce(ctx context.Context) ([]personnel.WireRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build roster request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: p.url, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(cerr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &NetworkError{URL: p.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRosterBody))
	if err != nil {
		return nil, &NetworkError{URL: p.url, Err: err}
	}
	var wire []personnel.WireRecord
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &NetworkError{URL: p.url, Err: fmt.Errorf("%w: %w", errMalformedPayload, err)}
	}
	return wire, nil
}

func retryable(err error) bool {
	var ne *NetworkError
	if !errors.As(err, &ne) {
		return false
	}
	if ne.StatusCode != 0 {
		return ne.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(ne.Err, errMalformedPayload)
}
