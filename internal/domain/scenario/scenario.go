// Package scenario implements the what-if workforce analyses: retirement,
// redeployment and mobilization.
//
// Every analysis is a pure function of a roster and its parameters. The
// roster and parameters are validated first and no partial report is ever
// returned alongside an error. Cohorts are selected positionally in roster
// order, so reordering the roster can change which records are affected.
package scenario

import "github.com/okian/muster/internal/domain/personnel"

// Kind names a scenario analysis.
type Kind string

// Supported scenario kinds.
const (
	KindRetirement   Kind = "retirement"
	KindRedeployment Kind = "redeployment"
	KindMobilization Kind = "mobilization"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindRetirement, KindRedeployment, KindMobilization}

// RiskLevel grades a scenario outcome.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Report types carried in every report.
const (
	ReportRetirement   = "Mass Retirement Analysis"
	ReportRedeployment = "Unit Redeployment Analysis"
	ReportMobilization = "Emergency Mobilization Analysis"
)

// Header is the part shared by every report.
type Header struct {
	ReportType      string       `json:"report_type"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	Recommendations []string     `json:"recommendations"`
	ActionPlan      []ActionItem `json:"action_plan"`
}

// Summary returns the shared header.
func (h Header) Summary() Header { return h }

// ActionItem is a parameter-dependent follow-up attached to a report.
type ActionItem struct {
	Title     string   `json:"title"`
	Timeline  string   `json:"timeline"`
	Resources string   `json:"resources"`
	Steps     []string `json:"steps"`
	KPIs      []string `json:"kpis"`
}

// Report is implemented by every scenario report.
type Report interface {
	Kind() Kind
	Summary() Header
}

// prepare validates the roster and params before any computation.
func prepare(roster personnel.Roster, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(roster) == 0 {
		return personnel.ErrEmptyRoster
	}
	return personnel.ValidateRoster(roster)
}

// tally counts records per key, skipping empty keys.
func tally(records personnel.Roster, key func(*personnel.Record) string) map[string]int {
	out := make(map[string]int)
	for i := range records {
		if k := key(&records[i]); k != "" {
			out[k]++
		}
	}
	return out
}
