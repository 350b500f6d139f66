package scenario

import (
	"math"

	"github.com/okian/muster/internal/domain/personnel"
)

// Redeployment ratios of moved to source cohort size.
const (
	significantImpactAbove = 0.3
	redeployHighRiskAbove  = 0.4
)

// Operational impact labels.
const (
	ImpactSignificant = "Significant"
	ImpactModerate    = "Moderate"
	ImpactEnhanced    = "Enhanced capability"
)

// RedeploymentTimeline is the fixed transition window of a redeployment report.
const RedeploymentTimeline = "2-4 weeks"

// RedeploymentRecommendations are returned by every redeployment report.
var RedeploymentRecommendations = []string{
	"Conduct skills assessment for transferring personnel",
	"Schedule unit-specific transition training",
	"Establish communication protocols between units",
}

// OperationalImpact describes the effect on both units.
type OperationalImpact struct {
	SourceUnit string `json:"source_unit"`
	TargetUnit string `json:"target_unit"`
}

// RedeploymentReport is the outcome of RunRedeployment.
type RedeploymentReport struct {
	Header
	SourceUnit          string            `json:"source_unit"`
	TargetUnit          string            `json:"target_unit"`
	SourceCohort        int               `json:"source_cohort"`
	PersonnelToMove     int               `json:"personnel_to_move"`
	SourceUnitRemaining int               `json:"source_unit_remaining"`
	SkillsTransferred   map[string]int    `json:"skills_transferred"`
	OperationalImpact   OperationalImpact `json:"operational_impact"`
	Timeline            string            `json:"timeline"`
}

// Kind implements Report.
func (*RedeploymentReport) Kind() Kind { return KindRedeployment }

// RunRedeployment moves the first share of the source unit to the target
// unit. A source unit with no members is an *EmptyCohortError.
func RunRedeployment(roster personnel.Roster, p RedeploymentParams) (*RedeploymentReport, error) {
	if err := prepare(roster, p); err != nil {
		return nil, err
	}

	source := roster.Filter(func(r *personnel.Record) bool { return r.Unit == p.SourceUnit })
	if len(source) == 0 {
		return nil, &EmptyCohortError{Unit: p.SourceUnit}
	}
	move := int(math.Floor(float64(len(source)) * p.MoveRatePercent / 100))
	moved := source[:move]
	cohort := float64(len(source))

	impact := ImpactModerate
	if float64(move) > significantImpactAbove*cohort {
		impact = ImpactSignificant
	}
	risk := RiskMedium
	if float64(move) > redeployHighRiskAbove*cohort {
		risk = RiskHigh
	}

	rep := &RedeploymentReport{
		Header: Header{
			ReportType:      ReportRedeployment,
			RiskLevel:       risk,
			Recommendations: append([]string(nil), RedeploymentRecommendations...),
		},
		SourceUnit:          p.SourceUnit,
		TargetUnit:          p.TargetUnit,
		SourceCohort:        len(source),
		PersonnelToMove:     move,
		SourceUnitRemaining: len(source) - move,
		SkillsTransferred:   tally(moved, func(r *personnel.Record) string { return r.Specialization }),
		OperationalImpact:   OperationalImpact{SourceUnit: impact, TargetUnit: ImpactEnhanced},
		Timeline:            RedeploymentTimeline,
	}
	rep.ActionPlan = redeploymentPlan(rep)
	return rep, nil
}
