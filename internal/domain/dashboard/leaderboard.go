package dashboard

import (
	"errors"
	"fmt"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// Metric names a score a leaderboard can be ordered by.
type Metric string

// Leaderboard metrics.
const (
	MetricReadiness   Metric = "readiness"
	MetricFitness     Metric = "fitness"
	MetricPerformance Metric = "performance"
	MetricEngagement  Metric = "engagement"
)

// ErrUnknownMetric is returned for a metric without a selector.
var ErrUnknownMetric = errors.New("unknown leaderboard metric")

var metricSelectors = map[Metric]stats.Selector{
	MetricReadiness:   stats.Readiness,
	MetricFitness:     stats.Fitness,
	MetricPerformance: stats.Performance,
	MetricEngagement:  stats.Engagement,
}

// ParseMetric validates a metric name. An empty name means readiness.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricReadiness, nil
	}
	m := Metric(s)
	if _, ok := metricSelectors[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Standing is one leaderboard row. Rank is the leaderboard position; the
// member's service rank stays under Member.Rank.
type Standing struct {
	Rank  int     `json:"position"`
	Score float64 `json:"score"`
	Member
}

// Leaderboard returns the n best members by metric. Equal scores share a
// rank and the next score takes the following rank.
func (b *Builder) Leaderboard(roster personnel.Roster, metric Metric, n int) ([]Standing, error) {
	sel, ok := metricSelectors[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if len(roster) == 0 {
		return nil, personnel.ErrEmptyRoster
	}

	top := stats.TopN(roster, sel, n)
	out := make([]Standing, len(top))
	rank := 0
	for i := range top {
		score := sel(&top[i])
		if i == 0 || score != out[i-1].Score {
			rank++
		}
		out[i] = Standing{Rank: rank, Score: score, Member: member(&top[i])}
	}
	return out, nil
}
