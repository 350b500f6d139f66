// Package dashboard assembles the per-role summaries shown to commanders,
// HR, medical and training staff, and to individual members.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
)

// Role names a dashboard.
type Role string

// Dashboard roles.
const (
	RoleCommander Role = "commander"
	RoleHR        Role = "hr"
	RoleMedical   Role = "medical"
	RoleTraining  Role = "training"
	RolePersonnel Role = "personnel"
)

// ErrUnknownRole is returned for a role without a roster-wide dashboard.
var ErrUnknownRole = errors.New("unknown dashboard role")

// ErrMemberNotFound is returned when a personnel dashboard id is not in the roster.
var ErrMemberNotFound = errors.New("member not found")

// Member is the compact view of a record used in dashboard lists.
type Member struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Rank              string  `json:"rank"`
	Unit              string  `json:"unit"`
	Branch            string  `json:"branch"`
	ReadinessScore    float64 `json:"readiness_score"`
	FitnessScore      float64 `json:"fitness_score"`
	StressIndex       float64 `json:"stress_index"`
	PerformanceRating string  `json:"performance_rating"`
}

func member(r *personnel.Record) Member {
	return Member{
		ID:                r.ID,
		Name:              r.Name,
		Rank:              string(r.Rank),
		Unit:              r.Unit,
		Branch:            string(r.Branch),
		ReadinessScore:    r.ReadinessScore,
		FitnessScore:      r.FitnessScore,
		StressIndex:       r.StressIndex,
		PerformanceRating: string(r.PerformanceRating),
	}
}

func members(roster personnel.Roster) []Member {
	out := make([]Member, len(roster))
	for i := range roster {
		out[i] = member(&roster[i])
	}
	return out
}

// Builder computes dashboards with a fixed clock and overdue policy.
type Builder struct {
	overdueMonths int
	now           func() time.Time
}

// New creates a Builder with configuration options.
func New(opts ...Option) *Builder {
	b := &Builder{
		overdueMonths: defaultOverdueMonths,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OverdueMonths returns the configured medical check interval.
func (b *Builder) OverdueMonths() int { return b.overdueMonths }

// Build returns the roster-wide dashboard for role. The commander dashboard
// honours unit; the others ignore it.
func (b *Builder) Build(role Role, roster personnel.Roster, unit string) (any, error) {
	switch role {
	case RoleCommander:
		return b.Commander(roster, unit)
	case RoleHR:
		return b.HR(roster)
	case RoleMedical:
		return b.Medical(roster)
	case RoleTraining:
		return b.Training(roster)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

func byUnit(r *personnel.Record) string { return r.Unit }

func byRank(r *personnel.Record) string { return string(r.Rank) }
