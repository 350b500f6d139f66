// Package stats provides the roster-wide aggregates used by every dashboard.
// All functions are pure reads over the roster.
package stats

import (
	"sort"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
)

// Predicate selects records.
type Predicate func(*personnel.Record) bool

// Selector extracts a numeric attribute from a record.
type Selector func(*personnel.Record) float64

// Common selectors.
var (
	Readiness   Selector = func(r *personnel.Record) float64 { return r.ReadinessScore }
	Fitness     Selector = func(r *personnel.Record) float64 { return r.FitnessScore }
	Stress      Selector = func(r *personnel.Record) float64 { return r.StressIndex }
	Engagement  Selector = func(r *personnel.Record) float64 { return r.EngagementScore }
	Performance Selector = func(r *personnel.Record) float64 { return r.PerformanceScore }
)

// CountBy returns the number of records matching pred.
func CountBy(roster personnel.Roster, pred Predicate) int {
	n := 0
	for i := range roster {
		if pred(&roster[i]) {
			n++
		}
	}
	return n
}

// Average returns the arithmetic mean of sel over the roster. An empty roster
// yields 0 and personnel.ErrEmptyRoster.
func Average(roster personnel.Roster, sel Selector) (float64, error) {
	if len(roster) == 0 {
		return 0, personnel.ErrEmptyRoster
	}
	var sum float64
	for i := range roster {
		sum += sel(&roster[i])
	}
	return sum / float64(len(roster)), nil
}

// TopN returns up to n records ordered by sel descending. Ties keep roster
// order. The result is a fresh slice.
func TopN(roster personnel.Roster, sel Selector, n int) personnel.Roster {
	if n <= 0 || len(roster) == 0 {
		return personnel.Roster{}
	}
	out := make(personnel.Roster, len(roster))
	copy(out, roster)
	sort.SliceStable(out, func(i, j int) bool {
		return sel(&out[i]) > sel(&out[j])
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// BottomN returns up to n records ordered by sel ascending, ties in roster order.
func BottomN(roster personnel.Roster, sel Selector, n int) personnel.Roster {
	if n <= 0 || len(roster) == 0 {
		return personnel.Roster{}
	}
	out := make(personnel.Roster, len(roster))
	copy(out, roster)
	sort.SliceStable(out, func(i, j int) bool {
		return sel(&out[i]) < sel(&out[j])
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Overdue reports whether the last medical check is more than months calendar
// months before now. An unknown check date counts as overdue.
func Overdue(r *personnel.Record, months int, now time.Time) bool {
	if r.LastMedicalCheck.IsZero() {
		return true
	}
	return r.LastMedicalCheck.Before(now.AddDate(0, -months, 0))
}
