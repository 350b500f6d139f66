package repository

import "time"

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithClock sets the clock used to stamp import batches.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// JobOption applies a configuration option to the JobStore.
type JobOption func(*JobStore)

// WithJobClock sets the clock used to stamp job transitions.
func WithJobClock(now func() time.Time) JobOption {
	return func(s *JobStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxFinished bounds how many finished jobs are retained. The oldest
// finished jobs are evicted first.
func WithMaxFinished(n int) JobOption {
	return func(s *JobStore) {
		if n > 0 {
			s.maxFinished = n
		}
	}
}
