// Package personnel contains the roster record model shared by every layer.
package personnel

import "time"

// Rank is a service rank.
type Rank string

// Accepted service ranks, most senior first.
const (
	RankAirChiefMarshal  Rank = "Air Chief Marshal"
	RankAirMarshal       Rank = "Air Marshal"
	RankAirViceMarshal   Rank = "Air Vice Marshal"
	RankAirCommodore     Rank = "Air Commodore"
	RankGroupCaptain     Rank = "Group Captain"
	RankWingCommander    Rank = "Wing Commander"
	RankSquadronLeader   Rank = "Squadron Leader"
	RankFlightLieutenant Rank = "Flight Lieutenant"
	RankFlyingOfficer    Rank = "Flying Officer"
	RankWarrantOfficer   Rank = "Warrant Officer"
	RankSergeant         Rank = "Sergeant"
	RankCorporal         Rank = "Corporal"
)

// Ranks lists every accepted rank in seniority order.
var Ranks = []Rank{
	RankAirChiefMarshal, RankAirMarshal, RankAirViceMarshal, RankAirCommodore,
	RankGroupCaptain, RankWingCommander, RankSquadronLeader, RankFlightLieutenant,
	RankFlyingOfficer, RankWarrantOfficer, RankSergeant, RankCorporal,
}

// Branch is the service branch a member belongs to.
type Branch string

// Service branches.
const (
	BranchFlying         Branch = "Flying"
	BranchTechnical      Branch = "Technical"
	BranchAdministrative Branch = "Administrative"
	BranchMedical        Branch = "Medical"
)

// Branches lists every accepted branch.
var Branches = []Branch{BranchFlying, BranchTechnical, BranchAdministrative, BranchMedical}

// LeadershipPotential is the assessed leadership band.
type LeadershipPotential string

// Leadership potential bands.
const (
	LeadershipLow    LeadershipPotential = "low"
	LeadershipMedium LeadershipPotential = "medium"
	LeadershipHigh   LeadershipPotential = "high"
)

// PerformanceRating is the latest appraisal grade.
type PerformanceRating string

// Performance ratings, lowest first.
const (
	RatingGood        PerformanceRating = "Good"
	RatingVeryGood    PerformanceRating = "Very Good"
	RatingExcellent   PerformanceRating = "Excellent"
	RatingOutstanding PerformanceRating = "Outstanding"
)

// Record is one service member's snapshot. Scores are on a 0-100 scale.
type Record struct {
	ID               string
	Name             string
	Rank             Rank
	Unit             string
	Branch           Branch
	Specialization   string
	BaseLocation     string // optional
	AircraftAssigned string // optional, empty when none

	Age              int
	YearsOfService   int
	ReadinessScore   float64
	FitnessScore     float64
	StressIndex      float64
	EngagementScore  float64
	PerformanceScore float64

	LeadershipPotential LeadershipPotential
	PerformanceRating   PerformanceRating
	AttritionRisk       bool

	Skills        []string
	InjuryHistory []string

	// Zero time means unknown.
	LastMedicalCheck time.Time
	NextPromotionDue time.Time
}

// HasInjuries reports whether any injury note is recorded.
func (r *Record) HasInjuries() bool { return len(r.InjuryHistory) > 0 }

// Roster is an ordered collection of records considered in one analytics call.
type Roster []Record

// Clone returns a deep copy so callers can hand out rosters without sharing
// the underlying slices.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for i := range r {
		out[i] = r[i]
		out[i].Skills = append([]string(nil), r[i].Skills...)
		out[i].InjuryHistory = append([]string(nil), r[i].InjuryHistory...)
	}
	return out
}

// Filter returns the records matching pred, preserving order.
func (r Roster) Filter(pred func(*Record) bool) Roster {
	out := make(Roster, 0, len(r))
	for i := range r {
		if pred(&r[i]) {
			out = append(out, r[i])
		}
	}
	return out
}

// ByID returns the record with the given id.
func (r Roster) ByID(id string) (Record, bool) {
	for i := range r {
		if r[i].ID == id {
			return r[i], true
		}
	}
	return Record{}, false
}
