package stats

import "github.com/okian/muster/internal/domain/personnel"

// Bucket is a named half-open score interval [Low, High). The bucket whose
// High is at or above personnel.MaxScore also includes MaxScore itself.
type Bucket struct {
	Name string
	Low  float64
	High float64
}

// Bucketing is an exhaustive, ordered set of buckets over one attribute.
type Bucketing struct {
	Selector Selector
	Buckets  []Bucket
}

// FitnessBuckets groups fitness scores by the medical dashboard thresholds.
var FitnessBuckets = Bucketing{
	Selector: Fitness,
	Buckets: []Bucket{
		{Name: "poor", Low: personnel.MinScore, High: 60},
		{Name: "average", Low: 60, High: 75},
		{Name: "good", Low: 75, High: 90},
		{Name: "excellent", Low: 90, High: personnel.MaxScore},
	},
}

// ReadinessBuckets groups readiness scores the same way.
var ReadinessBuckets = Bucketing{
	Selector: Readiness,
	Buckets: []Bucket{
		{Name: "low", Low: personnel.MinScore, High: 60},
		{Name: "moderate", Low: 60, High: 75},
		{Name: "high", Low: 75, High: 90},
		{Name: "peak", Low: 90, High: personnel.MaxScore},
	},
}

// Keys returns the bucket names in declaration order.
func (b Bucketing) Keys() []string {
	keys := make([]string, len(b.Buckets))
	for i := range b.Buckets {
		keys[i] = b.Buckets[i].Name
	}
	return keys
}

// Locate returns the bucket name for v. Values below the first bucket fall
// into it, values above the last fall into the last, so every validated
// record lands in exactly one bucket.
func (b Bucketing) Locate(v float64) string {
	last := len(b.Buckets) - 1
	for i := range b.Buckets {
		if v < b.Buckets[i].High {
			return b.Buckets[i].Name
		}
	}
	return b.Buckets[last].Name
}

// Distribution counts records per bucket. Every declared key is present.
func Distribution(roster personnel.Roster, b Bucketing) map[string]int {
	out := make(map[string]int, len(b.Buckets))
	for _, k := range b.Keys() {
		out[k] = 0
	}
	if len(b.Buckets) == 0 {
		return out
	}
	for i := range roster {
		out[b.Locate(b.Selector(&roster[i]))]++
	}
	return out
}
