package dashboard

import (
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// HRSummary is the retention and talent overview.
type HRSummary struct {
	Total                   int               `json:"total_personnel"`
	HighAttritionRisk       int               `json:"high_attrition_risk"`
	AtRisk                  []Member          `json:"at_risk"`
	HighLeadershipPotential int               `json:"high_leadership_potential"`
	AvgEngagement           float64           `json:"avg_engagement"`
	AvgYearsOfService       float64           `json:"avg_years_of_service"`
	TopSkills               []stats.SkillStat `json:"top_skills"`
}

// HR summarizes attrition risk, leadership and skills.
func (b *Builder) HR(roster personnel.Roster) (*HRSummary, error) {
	engagement, err := stats.Average(roster, stats.Engagement)
	if err != nil {
		return nil, err
	}
	service, err := stats.Average(roster, func(r *personnel.Record) float64 { return float64(r.YearsOfService) })
	if err != nil {
		return nil, err
	}

	atRisk := roster.Filter(func(r *personnel.Record) bool { return r.AttritionRisk })
	highRisk := len(atRisk)
	if len(atRisk) > defaultAtRiskLimit {
		atRisk = atRisk[:defaultAtRiskLimit]
	}

	return &HRSummary{
		Total:             len(roster),
		HighAttritionRisk: highRisk,
		AtRisk:            members(atRisk),
		HighLeadershipPotential: stats.CountBy(roster, func(r *personnel.Record) bool {
			return r.LeadershipPotential == personnel.LeadershipHigh
		}),
		AvgEngagement:     stats.Round1(engagement),
		AvgYearsOfService: stats.Round1(service),
		TopSkills:         limitSkills(stats.SkillFrequency(roster), defaultListLimit),
	}, nil
}

func limitSkills(s []stats.SkillStat, n int) []stats.SkillStat {
	if len(s) > n {
		return s[:n]
	}
	return s
}
