package dashboard

import (
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// CommanderSummary is the command readiness overview.
type CommanderSummary struct {
	Unit                    string           `json:"unit,omitempty"`
	Total                   int              `json:"total_personnel"`
	AvgReadiness            float64          `json:"avg_readiness"`
	HighAttritionRisk       int              `json:"high_attrition_risk"`
	HighLeadershipPotential int              `json:"high_leadership_potential"`
	Units                   []stats.KeyCount `json:"units"`
	Ranks                   []stats.KeyCount `json:"ranks"`
	ReadinessBands          map[string]int   `json:"readiness_bands"`
	TopPerformers           []Member         `json:"top_performers"`
}

// Commander summarizes readiness for the whole roster, or for one unit when
// unit is not empty.
func (b *Builder) Commander(roster personnel.Roster, unit string) (*CommanderSummary, error) {
	if unit != "" {
		roster = roster.Filter(func(r *personnel.Record) bool { return r.Unit == unit })
	}
	avg, err := stats.Average(roster, stats.Readiness)
	if err != nil {
		return nil, err
	}
	return &CommanderSummary{
		Unit:              unit,
		Total:             len(roster),
		AvgReadiness:      stats.Round1(avg),
		HighAttritionRisk: stats.CountBy(roster, func(r *personnel.Record) bool { return r.AttritionRisk }),
		HighLeadershipPotential: stats.CountBy(roster, func(r *personnel.Record) bool {
			return r.LeadershipPotential == personnel.LeadershipHigh
		}),
		Units:          stats.GroupCount(roster, byUnit),
		Ranks:          stats.GroupCount(roster, byRank),
		ReadinessBands: stats.Distribution(roster, stats.ReadinessBuckets),
		TopPerformers:  members(stats.TopN(roster, stats.Readiness, defaultTopPerformers)),
	}, nil
}
