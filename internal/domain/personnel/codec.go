package personnel

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// listSeparator joins skills and injury notes in the wire form.
const listSeparator = ", "

// WireRecord is the serialized shape of a Record as exchanged with roster
// sources. Numeric fields are pointers so a missing field can be told apart
// from a zero value.
type WireRecord struct {
	ID               string `json:"id"                          yaml:"id"`
	Name             string `json:"name"                        yaml:"name"`
	Rank             string `json:"rank"                        yaml:"rank"`
	Unit             string `json:"unit"                        yaml:"unit"`
	Branch           string `json:"branch"                      yaml:"branch"`
	Specialization   string `json:"specialization"              yaml:"specialization"`
	BaseLocation     string `json:"base_location,omitempty"     yaml:"base_location,omitempty"`
	AircraftAssigned string `json:"aircraft_assigned,omitempty" yaml:"aircraft_assigned,omitempty"`

	Age              *int     `json:"age"               yaml:"age"`
	YearsOfService   *int     `json:"years_of_service"  yaml:"years_of_service"`
	ReadinessScore   *float64 `json:"readiness_score"   yaml:"readiness_score"`
	FitnessScore     *float64 `json:"fitness_score"     yaml:"fitness_score"`
	StressIndex      *float64 `json:"stress_index"      yaml:"stress_index"`
	EngagementScore  *float64 `json:"engagement_score"  yaml:"engagement_score"`
	PerformanceScore *float64 `json:"performance_score" yaml:"performance_score"`

	LeadershipPotential string `json:"leadership_potential"    yaml:"leadership_potential"`
	PerformanceRating   string `json:"performance_rating"      yaml:"performance_rating"`
	AttritionRisk       bool   `json:"attrition_risk,omitempty" yaml:"attrition_risk,omitempty"`

	SkillsStr        string `json:"skills_str"         yaml:"skills_str"`
	InjuryHistoryStr string `json:"injury_history_str" yaml:"injury_history_str"`

	LastMedicalCheck string `json:"last_medical_check"           yaml:"last_medical_check"`
	NextPromotionDue string `json:"next_promotion_due,omitempty" yaml:"next_promotion_due,omitempty"`
}

// Decode converts a wire record into a validated Record.
func Decode(w WireRecord) (Record, error) {
	return decodeAt(w, -1)
}

// DecodeRoster decodes every wire record in order. Duplicate ids are rejected.
func DecodeRoster(ws []WireRecord) (Roster, error) {
	out := make(Roster, 0, len(ws))
	seen := make(map[string]struct{}, len(ws))
	for i := range ws {
		r, err := decodeAt(ws[i], i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[r.ID]; dup {
			return nil, &InvalidRecordError{Index: i, ID: r.ID, Field: "id", Reason: "is not unique"}
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// Encode converts a Record to its wire form.
func Encode(r Record) WireRecord {
	age, yos := r.Age, r.YearsOfService
	readiness, fitness, stress := r.ReadinessScore, r.FitnessScore, r.StressIndex
	engagement, performance := r.EngagementScore, r.PerformanceScore
	return WireRecord{
		ID:                  r.ID,
		Name:                r.Name,
		Rank:                string(r.Rank),
		Unit:                r.Unit,
		Branch:              string(r.Branch),
		Specialization:      r.Specialization,
		BaseLocation:        r.BaseLocation,
		AircraftAssigned:    r.AircraftAssigned,
		Age:                 &age,
		YearsOfService:      &yos,
		ReadinessScore:      &readiness,
		FitnessScore:        &fitness,
		StressIndex:         &stress,
		EngagementScore:     &engagement,
		PerformanceScore:    &performance,
		LeadershipPotential: string(r.LeadershipPotential),
		PerformanceRating:   string(r.PerformanceRating),
		AttritionRisk:       r.AttritionRisk,
		SkillsStr:           JoinList(r.Skills),
		InjuryHistoryStr:    JoinList(r.InjuryHistory),
		LastMedicalCheck:    formatDate(r.LastMedicalCheck),
		NextPromotionDue:    formatDate(r.NextPromotionDue),
	}
}

// EncodeRoster encodes every record in order.
func EncodeRoster(roster Roster) []WireRecord {
	out := make([]WireRecord, len(roster))
	for i := range roster {
		out[i] = Encode(roster[i])
	}
	return out
}

// SplitList parses a comma separated list, trimming blanks. Empty input yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, listSeparator)
}

// ParseDate accepts a calendar date or an RFC3339 timestamp. Empty input is
// the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func decodeAt(w WireRecord, idx int) (Record, error) {
	missing := func(field string) error {
		return &InvalidRecordError{Index: idx, ID: w.ID, Field: field, Reason: "is required"}
	}
	switch {
	case w.Age == nil:
		return Record{}, missing("age")
	case w.YearsOfService == nil:
		return Record{}, missing("years_of_service")
	case w.ReadinessScore == nil:
		return Record{}, missing("readiness_score")
	case w.FitnessScore == nil:
		return Record{}, missing("fitness_score")
	case w.StressIndex == nil:
		return Record{}, missing("stress_index")
	case w.EngagementScore == nil:
		return Record{}, missing("engagement_score")
	case w.PerformanceScore == nil:
		return Record{}, missing("performance_score")
	}

	lastCheck, err := ParseDate(w.LastMedicalCheck)
	if err != nil {
		return Record{}, &InvalidRecordError{Index: idx, ID: w.ID, Field: "last_medical_check", Reason: "is not a date"}
	}
	promotion, err := ParseDate(w.NextPromotionDue)
	if err != nil {
		return Record{}, &InvalidRecordError{Index: idx, ID: w.ID, Field: "next_promotion_due", Reason: "is not a date"}
	}

	r := Record{
		ID:                  strings.TrimSpace(w.ID),
		Name:                w.Name,
		Rank:                Rank(w.Rank),
		Unit:                w.Unit,
		Branch:              Branch(w.Branch),
		Specialization:      w.Specialization,
		BaseLocation:        w.BaseLocation,
		AircraftAssigned:    w.AircraftAssigned,
		Age:                 *w.Age,
		YearsOfService:      *w.YearsOfService,
		ReadinessScore:      *w.ReadinessScore,
		FitnessScore:        *w.FitnessScore,
		StressIndex:         *w.StressIndex,
		EngagementScore:     *w.EngagementScore,
		PerformanceScore:    *w.PerformanceScore,
		LeadershipPotential: LeadershipPotential(w.LeadershipPotential),
		PerformanceRating:   PerformanceRating(w.PerformanceRating),
		AttritionRisk:       w.AttritionRisk,
		Skills:              SplitList(w.SkillsStr),
		InjuryHistory:       SplitList(w.InjuryHistoryStr),
		LastMedicalCheck:    lastCheck,
		NextPromotionDue:    promotion,
	}
	if err := validateAt(&r, idx); err != nil {
		return Record{}, err
	}
	return r, nil
}
