package roster

import (
	"math/rand"
	"net/http"
	"time"
)

// Default provider settings.
const (
	DefaultMockSize     = 500
	DefaultMockSeed     = 42
	DefaultFetchTimeout = 5 * time.Second
	DefaultFetchRetries = 2
	DefaultRetryBackoff = 200 * time.Millisecond
)

// MockOption configures a MockProvider.
type MockOption func(*MockProvider)

// WithSize sets how many records each fetch generates.
func WithSize(n int) MockOption {
	return func(p *MockProvider) {
		if n >= 0 {
			p.size = n
		}
	}
}

// WithSeed makes every fetch replay the same sequence from seed.
func WithSeed(seed int64) MockOption {
	return func(p *MockProvider) {
		p.newSource = func() rand.Source { return rand.NewSource(seed) }
	}
}

// WithSource shares one random source across fetches, so consecutive
// fetches return different rosters.
func WithSource(src rand.Source) MockOption {
	return func(p *MockProvider) {
		if src != nil {
			p.newSource = func() rand.Source { return src }
		}
	}
}

// WithClock sets the reference time for generated dates.
func WithClock(now func() time.Time) MockOption {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n int) HTTPOption {
	return func(p *HTTPProvider) {
		if n >= 0 {
			p.retries = n
		}
	}
}

// WithRetryBackoff sets the base delay between attempts. The delay grows
// linearly with the attempt number.
func WithRetryBackoff(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if d >= 0 {
			p.backoff = d
		}
	}
}

// CacheOption configures a CachedProvider.
type CacheOption func(*CachedProvider)

// WithCacheClock sets the clock used to judge staleness.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(p *CachedProvider) {
		if now != nil {
			p.now = now
		}
	}
}
