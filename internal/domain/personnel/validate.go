package personnel

import (
	"math"
	"strings"
)

// Score bounds shared by every 0-100 attribute.
const (
	MinScore = 0
	MaxScore = 100
)

// Validate checks a single record against the schema. The returned error is
// an *InvalidRecordError with Index -1.
func Validate(r *Record) error {
	return validateAt(r, -1)
}

// ValidateRoster validates every record and rejects duplicate ids. It stops at
// the first offending record.
func ValidateRoster(roster Roster) error {
	seen := make(map[string]struct{}, len(roster))
	for i := range roster {
		if err := validateAt(&roster[i], i); err != nil {
			return err
		}
		if _, dup := seen[roster[i].ID]; dup {
			return &InvalidRecordError{Index: i, ID: roster[i].ID, Field: "id", Reason: "is not unique"}
		}
		seen[roster[i].ID] = struct{}{}
	}
	return nil
}

func validateAt(r *Record, idx int) error {
	fail := func(field, reason string) error {
		return &InvalidRecordError{Index: idx, ID: r.ID, Field: field, Reason: reason}
	}

	switch {
	case strings.TrimSpace(r.ID) == "":
		return fail("id", "is required")
	case strings.TrimSpace(r.Name) == "":
		return fail("name", "is required")
	case strings.TrimSpace(r.Unit) == "":
		return fail("unit", "is required")
	case !validRank(r.Rank):
		return fail("rank", "has unknown value "+quote(string(r.Rank)))
	case !validBranch(r.Branch):
		return fail("branch", "has unknown value "+quote(string(r.Branch)))
	case !validLeadership(r.LeadershipPotential):
		return fail("leadership_potential", "has unknown value "+quote(string(r.LeadershipPotential)))
	case !validRating(r.PerformanceRating):
		return fail("performance_rating", "has unknown value "+quote(string(r.PerformanceRating)))
	case r.Age < 0:
		return fail("age", "must not be negative")
	case r.YearsOfService < 0:
		return fail("years_of_service", "must not be negative")
	case r.YearsOfService > r.Age:
		return fail("years_of_service", "must not exceed age")
	}

	scores := []struct {
		field string
		value float64
	}{
		{"readiness_score", r.ReadinessScore},
		{"fitness_score", r.FitnessScore},
		{"stress_index", r.StressIndex},
		{"engagement_score", r.EngagementScore},
		{"performance_score", r.PerformanceScore},
	}
	for _, s := range scores {
		if math.IsNaN(s.value) || s.value < MinScore || s.value > MaxScore {
			return fail(s.field, "must be within [0,100]")
		}
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }

func validRank(r Rank) bool {
	for _, known := range Ranks {
		if r == known {
			return true
		}
	}
	return false
}

func validBranch(b Branch) bool {
	for _, known := range Branches {
		if b == known {
			return true
		}
	}
	return false
}

func validLeadership(l LeadershipPotential) bool {
	switch l {
	case LeadershipLow, LeadershipMedium, LeadershipHigh:
		return true
	}
	return false
}

func validRating(p PerformanceRating) bool {
	switch p {
	case RatingGood, RatingVeryGood, RatingExcellent, RatingOutstanding:
		return true
	}
	return false
}
