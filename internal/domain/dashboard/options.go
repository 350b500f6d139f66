package dashboard

import "time"

// Default dashboard configuration constants.
const (
	defaultOverdueMonths = 6
	defaultTopPerformers = 5
	defaultListLimit     = 8
	defaultAtRiskLimit   = 10
	defaultPromotionDays = 90
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithOverdueMonths sets how many months may pass between medical checks.
func WithOverdueMonths(months int) Option {
	return func(b *Builder) {
		if months > 0 {
			b.overdueMonths = months
		}
	}
}

// WithClock sets the time source used for date based rules.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}
