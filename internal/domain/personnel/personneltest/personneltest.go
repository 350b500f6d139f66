// Package personneltest builds valid records for tests in other packages.
package personneltest

import (
	"fmt"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
)

// Reference date used by fixtures.
var Now = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// Option tweaks a fixture record.
type Option func(*personnel.Record)

// Record returns a valid record with the given id and options applied.
func Record(id string, opts ...Option) personnel.Record {
	r := personnel.Record{
		ID:                  id,
		Name:                "Member " + id,
		Rank:                personnel.RankFlightLieutenant,
		Unit:                "No. 1 Squadron",
		Branch:              personnel.BranchFlying,
		Specialization:      "Fighter Pilot",
		BaseLocation:        "Hindon",
		Age:                 35,
		YearsOfService:      10,
		ReadinessScore:      80,
		FitnessScore:        80,
		StressIndex:         30,
		EngagementScore:     70,
		PerformanceScore:    75,
		LeadershipPotential: personnel.LeadershipMedium,
		PerformanceRating:   personnel.RatingVeryGood,
		Skills:              []string{"Navigation"},
		LastMedicalCheck:    Now.AddDate(0, -1, 0),
		NextPromotionDue:    Now.AddDate(1, 0, 0),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Roster returns n records with ids P0000.. and the options applied to each.
func Roster(n int, opts ...Option) personnel.Roster {
	out := make(personnel.Roster, n)
	for i := range out {
		out[i] = Record(fmt.Sprintf("P%04d", i), opts...)
	}
	return out
}

// Age sets the age.
func Age(age int) Option { return func(r *personnel.Record) { r.Age = age } }

// Unit sets the unit.
func Unit(unit string) Option { return func(r *personnel.Record) { r.Unit = unit } }

// Readiness sets the readiness score.
func Readiness(v float64) Option { return func(r *personnel.Record) { r.ReadinessScore = v } }

// Fitness sets the fitness score.
func Fitness(v float64) Option { return func(r *personnel.Record) { r.FitnessScore = v } }

// Stress sets the stress index.
func Stress(v float64) Option { return func(r *personnel.Record) { r.StressIndex = v } }

// Specialization sets the specialization.
func Specialization(s string) Option { return func(r *personnel.Record) { r.Specialization = s } }

// Skills sets the skills.
func Skills(s ...string) Option { return func(r *personnel.Record) { r.Skills = s } }

// Injuries sets the injury history.
func Injuries(s ...string) Option { return func(r *personnel.Record) { r.InjuryHistory = s } }

// Aircraft sets the assigned aircraft.
func Aircraft(tail string) Option { return func(r *personnel.Record) { r.AircraftAssigned = tail } }

// LastCheck sets the last medical check date.
func LastCheck(t time.Time) Option { return func(r *personnel.Record) { r.LastMedicalCheck = t } }

// With applies an arbitrary mutation.
func With(fn func(*personnel.Record)) Option { return Option(fn) }
