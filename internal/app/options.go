package service

import (
	"time"

	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the roster source.
func WithProvider(p roster.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithDashboards sets the dashboard builder.
func WithDashboards(b *dashboard.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.dashboards = b
		}
	}
}

// WithWorkerCount sets the number of job workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for queued jobs.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
