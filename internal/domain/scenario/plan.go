package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Thresholds that shape the action plans.
const (
	unitFocusAbove       = 5
	criticalSkillAbove   = 2
	urgentTransferAge    = 55
	shortTimeframeHours  = 12
	dayTimeframeHours    = 24
	emergencyHireFactor  = 1.2
	emergencyReserveRate = 0.5
	selectiveReserveRate = 0.2
)

func retirementPlan(rep *RetirementReport, p RetirementParams) []ActionItem {
	n := rep.ProjectedRetirements
	plan := make([]ActionItem, 0, 3)

	switch {
	case n > retirementHighAbove:
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Emergency recruitment drive - hire %d personnel", int(math.Ceil(float64(n)*emergencyHireFactor))),
			Timeline:  "2-4 months",
			Resources: "HR Department, Recruitment Team, External Agencies",
			Steps: []string{
				"Declare recruitment emergency",
				"Partner with external recruitment agencies",
				"Offer immediate joining bonuses",
				"Fast-track all selection processes",
			},
			KPIs: []string{"Weekly recruitment numbers", "Time-to-hire reduction", "Emergency hiring success rate"},
		})
	case n > retirementMediumAbove:
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Accelerate recruitment by %d%%", int(math.Ceil(rep.PercentageImpact))),
			Timeline:  "3-6 months",
			Resources: "HR Department, Recruitment Team",
			Steps: []string{
				"Increase recruitment budget allocation",
				"Expand recruitment channels",
				"Fast-track selection processes",
				"Offer competitive packages",
			},
			KPIs: []string{"Monthly recruitment numbers", "Time-to-hire metrics", "Quality of recruits"},
		})
	default:
		plan = append(plan, ActionItem{
			Title:     "Maintain steady recruitment pipeline",
			Timeline:  "6-12 months",
			Resources: "HR Department",
			Steps: []string{
				"Continue regular recruitment cycles",
				"Focus on quality over quantity",
				"Build talent pipeline",
				"Strengthen employer branding",
			},
			KPIs: []string{"Recruitment quality index", "Pipeline strength", "Brand perception"},
		})
	}

	transfer := "2-4 months"
	if p.AgeThreshold > urgentTransferAge {
		transfer = "1-2 months"
	}
	plan = append(plan, ActionItem{
		Title:     fmt.Sprintf("Implement knowledge transfer for %d retiring personnel", n),
		Timeline:  transfer,
		Resources: "Training Command, Senior Officers",
		Steps: []string{
			"Create mentorship programs",
			"Document critical procedures",
			"Establish cross-training initiatives",
			"Record expertise from retiring personnel",
		},
		KPIs: []string{"Knowledge retention rate", "Training completion", "Skill transfer success"},
	})

	if unit, count := mostImpacted(rep.UnitImpact); count > unitFocusAbove {
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Priority focus on %s - %d retirements", unit, count),
			Timeline:  "1-3 months",
			Resources: "Unit Commander, HR Analytics",
			Steps: []string{
				"Assess critical skill gaps in unit",
				"Identify internal transfer candidates",
				"Plan specialized recruitment",
				"Implement retention strategies",
			},
			KPIs: []string{"Unit readiness score", "Skill gap closure", "Retention improvement"},
		})
	}
	return plan
}

func redeploymentPlan(rep *RedeploymentReport) []ActionItem {
	cohort := float64(rep.SourceCohort)
	moved := float64(rep.PersonnelToMove)
	plan := make([]ActionItem, 0, 4)

	assess := "1-2 weeks"
	if moved > significantImpactAbove*cohort {
		assess = "2-3 weeks"
	}
	plan = append(plan, ActionItem{
		Title:     fmt.Sprintf("Assess %d personnel for %s to %s transfer", rep.PersonnelToMove, rep.SourceUnit, rep.TargetUnit),
		Timeline:  assess,
		Resources: "Training Officers, Unit Commanders",
		Steps: []string{
			"Evaluate current skill levels of selected personnel",
			"Identify skill requirements for " + rep.TargetUnit,
			"Match personnel skills to unit requirements",
			"Create individual development plans",
		},
		KPIs: []string{"Skill match percentage", "Assessment completion rate", "Readiness score"},
	})

	critical := make([]string, 0)
	for spec, n := range rep.SkillsTransferred {
		if n > criticalSkillAbove {
			critical = append(critical, spec)
		}
	}
	if len(critical) > 0 {
		sort.Strings(critical)
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Specialized training for %s roles", strings.Join(critical, ", ")),
			Timeline:  "2-4 weeks",
			Resources: "Training Command, Subject Matter Experts",
			Steps: []string{
				"Design " + rep.TargetUnit + "-specific training modules",
				"Schedule intensive skill workshops",
				"Arrange equipment familiarization",
				"Conduct operational simulations",
			},
			KPIs: []string{"Training completion rate", "Competency improvement", "Operational readiness"},
		})
	}

	plan = append(plan, ActionItem{
		Title:     fmt.Sprintf("Establish %s-%s transition communication", rep.SourceUnit, rep.TargetUnit),
		Timeline:  "1 week",
		Resources: "Communications Team, Unit Leaders",
		Steps: []string{
			"Set up secure communication channels",
			"Brief personnel on new command structure",
			"Establish transition timeline",
			"Create feedback and support systems",
		},
		KPIs: []string{"Communication clarity", "Transition smoothness", "Personnel satisfaction"},
	})

	if moved > redeployHighRiskAbove*cohort {
		plan = append(plan, ActionItem{
			Title:     "High-impact transfer mitigation for " + rep.SourceUnit,
			Timeline:  "1-2 weeks",
			Resources: "Strategic Planning, Unit Commanders",
			Steps: []string{
				"Identify critical functions at risk",
				"Plan temporary personnel backfill",
				"Accelerate replacement recruitment",
				"Implement knowledge transfer protocols",
			},
			KPIs: []string{"Operational continuity", "Mission readiness", "Risk reduction"},
		})
	}
	return plan
}

func mobilizationPlan(rep *MobilizationReport, p MobilizationParams) []ActionItem {
	sub := float64(rep.SubThreshold)
	short := p.TimeframeHours <= shortTimeframeHours
	plan := make([]ActionItem, 0, 4)

	if rep.OverallReadiness < mobilizationLowRisk {
		timeline := "6-12 hours"
		if short {
			timeline = "4-8 hours"
		}
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Emergency reserve activation - %d personnel needed", int(math.Ceil(sub*emergencyReserveRate))),
			Timeline:  timeline,
			Resources: "Reserve Command, Emergency Communications",
			Steps: []string{
				"Issue immediate activation orders",
				"Deploy emergency transport",
				"Conduct rapid integration protocols",
				"Establish emergency command structure",
			},
			KPIs: []string{"Activation response time", "Reserve integration rate", "Readiness improvement"},
		})
	} else {
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Selective reserve activation - %d personnel", int(math.Ceil(sub*selectiveReserveRate))),
			Timeline:  "6-12 hours",
			Resources: "Reserve Command, Communications",
			Steps: []string{
				"Activate specialized reserve units",
				"Coordinate targeted transportation",
				"Conduct readiness assessments",
				"Integrate with active units",
			},
			KPIs: []string{"Targeted activation success", "Readiness enhancement", "Integration efficiency"},
		})
	}

	if rep.SubThreshold > 0 {
		timeline := "24-48 hours"
		if p.TimeframeHours <= dayTimeframeHours {
			timeline = "12-18 hours"
		}
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Rapid training for %d sub-threshold personnel", rep.SubThreshold),
			Timeline:  timeline,
			Resources: "Training Command, Mobile Units, Simulators",
			Steps: []string{
				"Deploy mobile training units",
				"Conduct intensive skill refreshers",
				"Use simulation-based rapid training",
				"Focus on critical operational skills",
			},
			KPIs: []string{"Training completion rate", "Readiness score improvement", "Operational capability"},
		})
	}

	if len(rep.CriticalGaps) > 0 {
		timeline := "12-24 hours"
		if short {
			timeline = "6-12 hours"
		}
		plan = append(plan, ActionItem{
			Title:     fmt.Sprintf("Priority support for %d critical units: %s", len(rep.CriticalGaps), strings.Join(rep.CriticalGaps, ", ")),
			Timeline:  timeline,
			Resources: "Logistics Command, Strategic Reserve",
			Steps: []string{
				"Reallocate personnel to critical units",
				"Deploy emergency equipment",
				"Establish priority supply chains",
				"Implement emergency protocols",
			},
			KPIs: []string{"Critical unit readiness", "Resource allocation speed", "Operational continuity"},
		})
	}

	plan = append(plan, ActionItem{
		Title:     fmt.Sprintf("Activate %d-hour emergency mobilization protocols", p.TimeframeHours),
		Timeline:  "Immediate",
		Resources: "Command Center, All Units",
		Steps: []string{
			"Activate emergency command structure",
			"Implement security condition escalation",
			"Establish rapid communication networks",
			"Deploy emergency response teams",
		},
		KPIs: []string{"Protocol activation time", "Communication effectiveness", "Security readiness"},
	})
	return plan
}

// mostImpacted returns the key with the highest count. Ties go to the
// lexically smaller key so the plan is stable across runs.
func mostImpacted(counts map[string]int) (string, int) {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best, bestN
}
