package scenario

import (
	"math"
	"strings"
)

// Params is implemented by every parameter shape.
type Params interface {
	Kind() Kind
	Validate() error
}

// RetirementParams selects who retires: AgeThreshold and above, at the given rate.
type RetirementParams struct {
	AgeThreshold          int     `json:"age_threshold"           yaml:"age_threshold"`
	RetirementRatePercent float64 `json:"retirement_rate_percent" yaml:"retirement_rate_percent"`
}

// RedeploymentParams moves a share of SourceUnit to TargetUnit.
type RedeploymentParams struct {
	SourceUnit      string  `json:"source_unit"       yaml:"source_unit"`
	TargetUnit      string  `json:"target_unit"       yaml:"target_unit"`
	MoveRatePercent float64 `json:"move_rate_percent" yaml:"move_rate_percent"`
}

// MobilizationParams sets the readiness bar for a mobilization window.
type MobilizationParams struct {
	TimeframeHours int     `json:"timeframe_hours" yaml:"timeframe_hours"`
	MinReadiness   float64 `json:"min_readiness"   yaml:"min_readiness"`
}

// Defaults used by the planning screen.
var (
	DefaultRetirement   = RetirementParams{AgeThreshold: 58, RetirementRatePercent: 15}
	DefaultRedeployment = RedeploymentParams{MoveRatePercent: 20}
	DefaultMobilization = MobilizationParams{TimeframeHours: 24, MinReadiness: 90}
)

// Kind implements Params.
func (RetirementParams) Kind() Kind { return KindRetirement }

// Kind implements Params.
func (RedeploymentParams) Kind() Kind { return KindRedeployment }

// Kind implements Params.
func (MobilizationParams) Kind() Kind { return KindMobilization }

// Validate implements Params.
func (p RetirementParams) Validate() error {
	if p.AgeThreshold < 0 {
		return &InvalidParameterError{Param: "age_threshold", Value: p.AgeThreshold, Reason: "must not be negative"}
	}
	return checkPercent("retirement_rate_percent", p.RetirementRatePercent)
}

// Validate implements Params.
func (p RedeploymentParams) Validate() error {
	switch {
	case strings.TrimSpace(p.SourceUnit) == "":
		return &InvalidParameterError{Param: "source_unit", Value: p.SourceUnit, Reason: "is required"}
	case strings.TrimSpace(p.TargetUnit) == "":
		return &InvalidParameterError{Param: "target_unit", Value: p.TargetUnit, Reason: "is required"}
	case p.SourceUnit == p.TargetUnit:
		return &InvalidParameterError{Param: "target_unit", Value: p.TargetUnit, Reason: "must differ from source_unit"}
	}
	return checkPercent("move_rate_percent", p.MoveRatePercent)
}

// Validate implements Params.
func (p MobilizationParams) Validate() error {
	if p.TimeframeHours <= 0 {
		return &InvalidParameterError{Param: "timeframe_hours", Value: p.TimeframeHours, Reason: "must be positive"}
	}
	return checkPercent("min_readiness", p.MinReadiness)
}

func checkPercent(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return &InvalidParameterError{Param: name, Value: v, Reason: "must be within [0,100]"}
	}
	return nil
}
