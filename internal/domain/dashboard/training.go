package dashboard

import (
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// Training thresholds.
const (
	needsTrainingBelow    = 75
	flyingRefresherBelow  = 70
	technicalUpskillBelow = 75
	fitnessProgramBelow   = 70
	stressProgramAbove    = 60
)

// ProgramCandidates counts members eligible for each training program.
type ProgramCandidates struct {
	FlyingRefresher     int `json:"flying_refresher"`
	TechnicalUpskilling int `json:"technical_upskilling"`
	Leadership          int `json:"leadership"`
	StressManagement    int `json:"stress_management"`
	Fitness             int `json:"fitness"`
}

// TrainingSummary is the training needs overview.
type TrainingSummary struct {
	Total          int               `json:"total_personnel"`
	NeedsTraining  int               `json:"needs_training"`
	HighPerformers int               `json:"high_performers"`
	AvgReadiness   float64           `json:"avg_readiness"`
	Priority       []Member          `json:"priority"`
	SkillAnalysis  []stats.SkillStat `json:"skill_analysis"`
	Programs       ProgramCandidates `json:"programs"`
}

// Training summarizes who needs training and which programs fit.
func (b *Builder) Training(roster personnel.Roster) (*TrainingSummary, error) {
	readiness, err := stats.Average(roster, stats.Readiness)
	if err != nil {
		return nil, err
	}
	needs := roster.Filter(func(r *personnel.Record) bool { return r.ReadinessScore < needsTrainingBelow })
	count := func(pred stats.Predicate) int { return stats.CountBy(roster, pred) }

	return &TrainingSummary{
		Total:         len(roster),
		NeedsTraining: len(needs),
		HighPerformers: count(func(r *personnel.Record) bool {
			return r.PerformanceRating == personnel.RatingOutstanding || r.PerformanceRating == personnel.RatingExcellent
		}),
		AvgReadiness:  stats.Round1(readiness),
		Priority:      members(stats.BottomN(needs, stats.Readiness, defaultListLimit)),
		SkillAnalysis: limitSkills(stats.SkillFrequency(roster), defaultListLimit),
		Programs: ProgramCandidates{
			FlyingRefresher: count(func(r *personnel.Record) bool {
				return r.Branch == personnel.BranchFlying && r.ReadinessScore < flyingRefresherBelow
			}),
			TechnicalUpskilling: count(func(r *personnel.Record) bool {
				return r.Branch == personnel.BranchTechnical && r.ReadinessScore < technicalUpskillBelow
			}),
			Leadership: count(func(r *personnel.Record) bool {
				return r.LeadershipPotential == personnel.LeadershipHigh
			}),
			StressManagement: count(func(r *personnel.Record) bool { return r.StressIndex > stressProgramAbove }),
			Fitness:          count(func(r *personnel.Record) bool { return r.FitnessScore < fitnessProgramBelow }),
		},
	}, nil
}
