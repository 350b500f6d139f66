// Package worker runs queued simulation jobs against the scenario engine.
package worker

import (
	"github.com/okian/muster/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRunner replaces the scenario dispatcher. Used by tests.
func WithRunner(run Runner) Option {
	return func(w *InMemoryWorker) {
		if run != nil {
			w.run = run
		}
	}
}
