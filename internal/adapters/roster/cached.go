package roster

import (
	"context"
	"sync"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/pkg/metrics"
)

// CachedProvider serves a snapshot from an inner provider until it is
// older than the TTL. A non-positive TTL disables caching. Callers get
// their own copy of the snapshot.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	snapshot  personnel.Roster
	fetchedAt time.Time
	valid     bool
}

// NewCachedProvider wraps inner with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration, opts ...CacheOption) *CachedProvider {
	p := &CachedProvider{inner: inner, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name reports the inner provider's name.
func (p *CachedProvider) Name() string { return p.inner.Name() }

// FetchRoster implements Provider. Concurrent callers that miss wait for
// a single refresh.
func (p *CachedProvider) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid && p.ttl > 0 && p.now().Sub(p.fetchedAt) < p.ttl {
		metrics.RecordRosterCache("hit")
		return p.snapshot.Clone(), nil
	}
	metrics.RecordRosterCache("miss")

	roster, err := p.inner.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	p.snapshot = roster
	p.fetchedAt = p.now()
	p.valid = true
	return roster.Clone(), nil
}

// Invalidate drops the cached snapshot so the next fetch refreshes.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.snapshot = nil
	p.mu.Unlock()
}
