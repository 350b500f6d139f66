package scenario

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// Fixed capacity coefficients. They do not depend on the timeframe.
const (
	within24hShare = 0.85
	within48hShare = 0.95
)

// Thresholds on readiness ratios.
const (
	criticalGapBelow    = 0.8
	mobilizationLowRisk = 80.0
	mobilizationMidRisk = 70.0
)

// MobilizationRecommendations are returned by every mobilization report.
var MobilizationRecommendations = []string{
	"Activate reserve personnel",
	"Conduct rapid readiness training for sub-threshold personnel",
	"Prioritize support for critical units",
}

// Capacity is the number of members available at each horizon.
type Capacity struct {
	Immediate int `json:"immediate"`
	Within24h int `json:"within_24h"`
	Within48h int `json:"within_48h"`
}

// UnitReadiness is the readiness of one unit against the threshold.
type UnitReadiness struct {
	Unit             string  `json:"unit"`
	Ready            int     `json:"ready"`
	Total            int     `json:"total"`
	ReadinessPercent float64 `json:"readiness_percent"`
}

// MobilizationReport is the outcome of RunMobilization.
type MobilizationReport struct {
	Header
	Timeframe          string          `json:"timeframe"`
	ReadinessThreshold string          `json:"readiness_threshold"`
	Capacity           Capacity        `json:"capacity"`
	UnitReadiness      []UnitReadiness `json:"unit_readiness"`
	CriticalGaps       []string        `json:"critical_gaps"`
	OverallReadiness   float64         `json:"overall_readiness"`
	SubThreshold       int             `json:"sub_threshold"`
}

// Kind implements Report.
func (*MobilizationReport) Kind() Kind { return KindMobilization }

// RunMobilization measures how many members meet the readiness bar, overall
// and per unit. Units are reported in first-seen roster order.
func RunMobilization(roster personnel.Roster, p MobilizationParams) (*MobilizationReport, error) {
	if err := prepare(roster, p); err != nil {
		return nil, err
	}

	isReady := func(r *personnel.Record) bool { return r.ReadinessScore >= p.MinReadiness }
	ready := stats.CountBy(roster, isReady)

	idx := make(map[string]int)
	units := make([]UnitReadiness, 0)
	for i := range roster {
		r := &roster[i]
		pos, ok := idx[r.Unit]
		if !ok {
			pos = len(units)
			idx[r.Unit] = pos
			units = append(units, UnitReadiness{Unit: r.Unit})
		}
		units[pos].Total++
		if isReady(r) {
			units[pos].Ready++
		}
	}
	gaps := make([]string, 0)
	for i := range units {
		u := &units[i]
		u.ReadinessPercent = stats.Percent(u.Ready, u.Total)
		if float64(u.Ready)/float64(u.Total) < criticalGapBelow {
			gaps = append(gaps, u.Unit)
		}
	}

	overall := stats.Percent(ready, len(roster))
	rep := &MobilizationReport{
		Header: Header{
			ReportType:      ReportMobilization,
			RiskLevel:       mobilizationRisk(overall),
			Recommendations: append([]string(nil), MobilizationRecommendations...),
		},
		Timeframe:          fmt.Sprintf("%d hours", p.TimeframeHours),
		ReadinessThreshold: strconv.FormatFloat(p.MinReadiness, 'f', -1, 64) + "%",
		Capacity: Capacity{
			Immediate: ready,
			Within24h: int(math.Floor(float64(len(roster)) * within24hShare)),
			Within48h: int(math.Floor(float64(len(roster)) * within48hShare)),
		},
		UnitReadiness:    units,
		CriticalGaps:     gaps,
		OverallReadiness: overall,
		SubThreshold:     len(roster) - ready,
	}
	rep.ActionPlan = mobilizationPlan(rep, p)
	return rep, nil
}

func mobilizationRisk(overall float64) RiskLevel {
	switch {
	case overall >= mobilizationLowRisk:
		return RiskLow
	case overall >= mobilizationMidRisk:
		return RiskMedium
	default:
		return RiskHigh
	}
}
