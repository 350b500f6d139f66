// Package roster provides the sources a roster snapshot can be fetched from.
package roster

import (
	"context"
	"errors"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/pkg/metrics"
)

// Provider names used as metric labels and in service stats.
const (
	SourceMock   = "mock"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Provider supplies a full roster snapshot. Implementations must be safe
// for concurrent use.
type Provider interface {
	FetchRoster(ctx context.Context) (personnel.Roster, error)
	Name() string
}

// observe records fetch metrics for a completed fetch.
func observe(source string, start time.Time, roster personnel.Roster, err error) {
	latency := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordRosterFetch(source, metrics.OutcomeError, latency)
		var ire *personnel.InvalidRecordError
		if errors.As(err, &ire) {
			metrics.RecordRejectedRecord(ire.Field)
		}
		return
	}
	metrics.RecordRosterFetch(source, metrics.OutcomeSuccess, latency)
	metrics.UpdateRosterSize(len(roster))
}
