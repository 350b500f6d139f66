package dashboard

import (
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// MedicalStatus is the duty status derived from fitness and stress.
type MedicalStatus string

// Medical statuses.
const (
	StatusFitForDuty        MedicalStatus = "Fit for Duty"
	StatusMonitor           MedicalStatus = "Monitor"
	StatusRequiresAttention MedicalStatus = "Requires Attention"
)

// Medical thresholds.
const (
	highStressAbove     = 60
	fitForDutyFitness   = 75
	fitForDutyStressMax = 50
	monitorFitness      = 60
	monitorStressMax    = 65
	attentionFitness    = 65
)

// MedicalCase is one member on the attention list.
type MedicalCase struct {
	Member
	Status     MedicalStatus `json:"status"`
	Injuries   []string      `json:"injuries,omitempty"`
	CheckupDue bool          `json:"checkup_due"`
	LastCheck  string        `json:"last_medical_check,omitempty"`
}

// MedicalSummary is the fitness and wellbeing overview.
type MedicalSummary struct {
	Total               int                   `json:"total_personnel"`
	AvgFitness          float64               `json:"avg_fitness"`
	HighStress          int                   `json:"high_stress"`
	WithInjuries        int                   `json:"with_injuries"`
	DueCheckup          int                   `json:"due_checkup"`
	FitnessDistribution map[string]int        `json:"fitness_distribution"`
	StatusCounts        map[MedicalStatus]int `json:"status_counts"`
	Attention           []MedicalCase         `json:"attention"`
}

// Status classifies a member as fit, to monitor, or requiring attention.
func (b *Builder) Status(r *personnel.Record) MedicalStatus {
	overdue := stats.Overdue(r, b.overdueMonths, b.now())
	switch {
	case r.FitnessScore >= fitForDutyFitness && r.StressIndex <= fitForDutyStressMax && !overdue:
		return StatusFitForDuty
	case r.FitnessScore >= monitorFitness && r.StressIndex <= monitorStressMax:
		return StatusMonitor
	default:
		return StatusRequiresAttention
	}
}

// NeedsAttention reports whether a member belongs on the medical attention list.
func NeedsAttention(r *personnel.Record) bool {
	return r.StressIndex > highStressAbove || r.FitnessScore < attentionFitness || r.HasInjuries()
}

// Medical summarizes fitness, stress, injuries and overdue checkups.
func (b *Builder) Medical(roster personnel.Roster) (*MedicalSummary, error) {
	fitness, err := stats.Average(roster, stats.Fitness)
	if err != nil {
		return nil, err
	}
	now := b.now()

	sum := &MedicalSummary{
		Total:      len(roster),
		AvgFitness: stats.Round1(fitness),
		HighStress: stats.CountBy(roster, func(r *personnel.Record) bool { return r.StressIndex > highStressAbove }),
		WithInjuries: stats.CountBy(roster, func(r *personnel.Record) bool {
			return r.HasInjuries()
		}),
		DueCheckup: stats.CountBy(roster, func(r *personnel.Record) bool {
			return stats.Overdue(r, b.overdueMonths, now)
		}),
		FitnessDistribution: stats.Distribution(roster, stats.FitnessBuckets),
		StatusCounts: map[MedicalStatus]int{
			StatusFitForDuty:        0,
			StatusMonitor:           0,
			StatusRequiresAttention: 0,
		},
		Attention: make([]MedicalCase, 0),
	}
	for i := range roster {
		r := &roster[i]
		status := b.Status(r)
		sum.StatusCounts[status]++
		if !NeedsAttention(r) {
			continue
		}
		sum.Attention = append(sum.Attention, MedicalCase{
			Member:     member(r),
			Status:     status,
			Injuries:   r.InjuryHistory,
			CheckupDue: stats.Overdue(r, b.overdueMonths, now),
			LastCheck:  personnel.Encode(*r).LastMedicalCheck,
		})
	}
	return sum, nil
}
