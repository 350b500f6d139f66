package dashboard

import (
	"fmt"

	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/stats"
)

// Profile is a single member's own dashboard.
type Profile struct {
	Record         personnel.WireRecord `json:"record"`
	MedicalStatus  MedicalStatus        `json:"medical_status"`
	CheckupOverdue bool                 `json:"checkup_overdue"`
	NextCheckupDue string               `json:"next_checkup_due,omitempty"`
	PromotionSoon  bool                 `json:"promotion_due_soon"`
	UnitRank       int                  `json:"unit_readiness_rank"`
	UnitSize       int                  `json:"unit_size"`
}

// Personnel returns the profile of the member with id.
func (b *Builder) Personnel(roster personnel.Roster, id string) (*Profile, error) {
	r, ok := roster.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, id)
	}
	now := b.now()

	p := &Profile{
		Record:         personnel.Encode(r),
		MedicalStatus:  b.Status(&r),
		CheckupOverdue: stats.Overdue(&r, b.overdueMonths, now),
	}
	if !r.LastMedicalCheck.IsZero() {
		p.NextCheckupDue = r.LastMedicalCheck.AddDate(0, b.overdueMonths, 0).Format(personnel.DateLayout)
	}
	if !r.NextPromotionDue.IsZero() {
		p.PromotionSoon = !r.NextPromotionDue.After(now.AddDate(0, 0, defaultPromotionDays))
	}

	unit := roster.Filter(func(o *personnel.Record) bool { return o.Unit == r.Unit })
	p.UnitSize = len(unit)
	for i, o := range stats.TopN(unit, stats.Readiness, len(unit)) {
		if o.ID == r.ID {
			p.UnitRank = i + 1
			break
		}
	}
	return p, nil
}
