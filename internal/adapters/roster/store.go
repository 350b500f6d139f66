package roster

import (
	"context"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
)

// Reader is the read side of a persistent roster store.
type Reader interface {
	All(ctx context.Context) (personnel.Roster, error)
}

// StoreProvider serves the roster last imported into a store.
type StoreProvider struct {
	store Reader
}

// NewStoreProvider creates a provider over store.
func NewStoreProvider(store Reader) *StoreProvider {
	return &StoreProvider{store: store}
}

// Name implements Provider.
func (p *StoreProvider) Name() string { return SourceSQLite }

// FetchRoster implements Provider.
func (p *StoreProvider) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	start := time.Now()
	roster, err := p.store.All(ctx)
	observe(SourceSQLite, start, roster, err)
	return roster, err
}
