package roster

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/muster/internal/domain/personnel"
)

var (
	airBases = []string{
		"Hindon Air Base", "Pathankot Air Base", "Jodhpur Air Base",
		"Pune Air Base", "Kalaikunda Air Base",
	}
	squadrons = []string{
		"No. 1 Squadron", "No. 7 Squadron", "No. 17 Squadron",
		"No. 26 Squadron", "No. 32 Squadron",
	}
	firstNames = []string{
		"Rajesh", "Priya", "Amit", "Sunita", "Vikram", "Kavita", "Suresh", "Meera",
		"Ravi", "Anita", "Deepak", "Pooja", "Manoj", "Arun", "Kiran", "Nisha",
	}
	lastNames = []string{
		"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Yadav", "Verma", "Joshi",
		"Mishra", "Pandey", "Chauhan", "Saxena", "Arora", "Kapoor",
	}
	injuries = []string{
		"Knee sprain", "Back strain", "Shoulder injury", "Ankle fracture", "Wrist sprain",
	}
	// Senior ranks are left out; a squadron roster holds none.
	mockRanks = personnel.Ranks[4:]
)

type specialization struct {
	name   string
	branch personnel.Branch
	skills []string
}

var specializations = []specialization{
	{"Fighter Pilot", personnel.BranchFlying, []string{"Air Combat", "Navigation", "Formation Flying"}},
	{"Transport Pilot", personnel.BranchFlying, []string{"Navigation", "Airlift Operations", "Night Flying"}},
	{"Navigator", personnel.BranchFlying, []string{"Navigation", "Radar Operations"}},
	{"Flight Engineer", personnel.BranchTechnical, []string{"Aircraft Maintenance", "Avionics", "Radar Operations"}},
	{"Maintenance Engineer", personnel.BranchTechnical, []string{"Aircraft Maintenance", "Cyber Defense", "Avionics"}},
	{"Air Traffic Controller", personnel.BranchAdministrative, []string{"Air Traffic Control", "Communications"}},
	{"Logistics Officer", personnel.BranchAdministrative, []string{"Logistics", "Administration"}},
	{"Medical Officer", personnel.BranchMedical, []string{"Aviation Medicine", "Emergency Care"}},
}

// MockProvider generates a synthetic roster. With the default seed every
// fetch returns the same roster.
type MockProvider struct {
	size      int
	newSource func() rand.Source
	now       func() time.Time

	mu sync.Mutex
}

// NewMockProvider creates a generator with seed 42 and 500 records unless
// overridden.
func NewMockProvider(opts ...MockOption) *MockProvider {
	p := &MockProvider{
		size: DefaultMockSize,
		now:  time.Now,
	}
	WithSeed(DefaultMockSeed)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Provider.
func (p *MockProvider) Name() string { return SourceMock }

// FetchRoster implements Provider.
func (p *MockProvider) FetchRoster(ctx context.Context) (personnel.Roster, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		observe(SourceMock, start, nil, err)
		return nil, err
	}

	p.mu.Lock()
	roster := generate(p.size, rand.New(p.newSource()), p.now())
	p.mu.Unlock()

	observe(SourceMock, start, roster, nil)
	return roster, nil
}

// generate builds n records. Score distributions and the readiness blend
// follow the personnel data generator the analytics were tuned against.
func generate(n int, rng *rand.Rand, now time.Time) personnel.Roster {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make(personnel.Roster, 0, n)
	for i := range n {
		spec := specializations[rng.Intn(len(specializations))]

		yos := 1 + rng.Intn(30)
		age := 22 + yos + rng.Intn(8) - 2
		fitness := 60 + rng.Intn(41)
		stress := 10 + rng.Intn(71)
		engagement := 40 + rng.Intn(61)
		disciplinary := rng.Intn(4)

		missionSuccess := 0.8 + 0.2*rng.Float64()
		if spec.branch == personnel.BranchFlying {
			missionSuccess = 0.7 + 0.3*rng.Float64()
		}
		readiness := math.Trunc(float64(fitness)*0.3 + float64(100-stress)*0.2 +
			missionSuccess*100*0.3 + float64(engagement)*0.2)

		attrition := false
		if engagement < 60 || disciplinary > 1 || yos > 25 {
			attrition = rng.Float64() > 0.7
		}

		performance := math.Round((60+rng.Float64()*38)*10) / 10

		r := personnel.Record{
			ID:                  fmt.Sprintf("IAF%06d", i+1),
			Name:                firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Rank:                mockRanks[rng.Intn(len(mockRanks))],
			Unit:                squadrons[i%len(squadrons)],
			Branch:              spec.branch,
			Specialization:      spec.name,
			BaseLocation:        airBases[i%len(airBases)],
			Age:                 age,
			YearsOfService:      yos,
			ReadinessScore:      readiness,
			FitnessScore:        float64(fitness),
			StressIndex:         float64(stress),
			EngagementScore:     float64(engagement),
			PerformanceScore:    performance,
			LeadershipPotential: leadership(3+rng.Intn(8), 5+rng.Intn(6)),
			PerformanceRating:   rating(performance),
			AttritionRisk:       attrition,
			Skills:              sample(rng, spec.skills, 1+rng.Intn(2)),
			InjuryHistory:       sample(rng, injuries, rng.Intn(3)),
			LastMedicalCheck:    today.AddDate(0, 0, -(1 + rng.Intn(365))),
			NextPromotionDue:    today.AddDate(0, 0, 30+rng.Intn(700)),
		}
		if i%3 == 0 {
			r.AircraftAssigned = fmt.Sprintf("IAF-%d", 1000+i)
		}
		out = append(out, r)
	}
	return out
}

func leadership(score, peerReview int) personnel.LeadershipPotential {
	switch {
	case score >= 8 && peerReview >= 8:
		return personnel.LeadershipHigh
	case score >= 6:
		return personnel.LeadershipMedium
	default:
		return personnel.LeadershipLow
	}
}

func rating(performance float64) personnel.PerformanceRating {
	switch {
	case performance >= 90:
		return personnel.RatingOutstanding
	case performance >= 80:
		return personnel.RatingExcellent
	case performance >= 70:
		return personnel.RatingVeryGood
	default:
		return personnel.RatingGood
	}
}

// sample picks k distinct items from pool, keeping pool order.
func sample(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	picked := rng.Perm(len(pool))[:k]
	keep := make([]bool, len(pool))
	for _, idx := range picked {
		keep[idx] = true
	}
	out := make([]string, 0, k)
	for i, s := range pool {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}
