package scenario

import (
	"math"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// Retirement risk thresholds on the absolute projected count.
const (
	retirementHighAbove   = 50
	retirementMediumAbove = 20
)

// RetirementTimeline is the fixed planning horizon of a retirement report.
const RetirementTimeline = "12-18 months"

// RetirementRecommendations are returned by every retirement report.
var RetirementRecommendations = []string{
	"Accelerate recruitment",
	"Implement knowledge transfer programs",
	"Consider retention incentives",
}

// RetirementReport is the outcome of RunRetirement.
type RetirementReport struct {
	Header
	TotalEligible        int            `json:"total_eligible"`
	ProjectedRetirements int            `json:"projected_retirements"`
	PercentageImpact     float64        `json:"percentage_impact"`
	UnitImpact           map[string]int `json:"unit_impact"`
	BaseImpact           map[string]int `json:"base_impact"`
	AircraftImpact       map[string]int `json:"aircraft_impact"`
	Timeline             string         `json:"timeline"`
}

// Kind implements Report.
func (*RetirementReport) Kind() Kind { return KindRetirement }

// RunRetirement projects retirements among members at or above the age
// threshold. The affected cohort is the first projected eligible records.
func RunRetirement(roster personnel.Roster, p RetirementParams) (*RetirementReport, error) {
	if err := prepare(roster, p); err != nil {
		return nil, err
	}

	eligible := roster.Filter(func(r *personnel.Record) bool { return r.Age >= p.AgeThreshold })
	projected := int(math.Floor(float64(len(eligible)) * p.RetirementRatePercent / 100))
	affected := eligible[:projected]

	rep := &RetirementReport{
		Header: Header{
			ReportType:      ReportRetirement,
			RiskLevel:       retirementRisk(projected),
			Recommendations: append([]string(nil), RetirementRecommendations...),
		},
		TotalEligible:        len(eligible),
		ProjectedRetirements: projected,
		PercentageImpact:     stats.Percent(projected, len(roster)),
		UnitImpact:           tally(affected, func(r *personnel.Record) string { return r.Unit }),
		BaseImpact:           tally(affected, func(r *personnel.Record) string { return r.BaseLocation }),
		AircraftImpact:       tally(affected, func(r *personnel.Record) string { return r.AircraftAssigned }),
		Timeline:             RetirementTimeline,
	}
	rep.ActionPlan = retirementPlan(rep, p)
	return rep, nil
}

func retirementRisk(projected int) RiskLevel {
	switch {
	case projected > retirementHighAbove:
		return RiskHigh
	case projected > retirementMediumAbove:
		return RiskMedium
	default:
		return RiskLow
	}
}
