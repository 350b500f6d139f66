package stats

import (
	"sort"

	"github.com/okian/muster/internal/domain/personnel"
)

// KeyCount is a grouping key with its record count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// SkillStat summarizes one skill across the roster.
type SkillStat struct {
	Skill        string  `json:"skill"`
	Count        int     `json:"count"`
	AvgReadiness float64 `json:"avg_readiness"`
}

// GroupCount counts records per key, in first-seen key order. Empty keys are
// skipped.
func GroupCount(roster personnel.Roster, key func(*personnel.Record) string) []KeyCount {
	idx := make(map[string]int)
	out := make([]KeyCount, 0)
	for i := range roster {
		k := key(&roster[i])
		if k == "" {
			continue
		}
		pos, ok := idx[k]
		if !ok {
			pos = len(out)
			idx[k] = pos
			out = append(out, KeyCount{Key: k})
		}
		out[pos].Count++
	}
	return out
}

// GroupMap is GroupCount as a map.
func GroupMap(roster personnel.Roster, key func(*personnel.Record) string) map[string]int {
	out := make(map[string]int)
	for _, kc := range GroupCount(roster, key) {
		out[kc.Key] = kc.Count
	}
	return out
}

// SkillFrequency returns per-skill counts and mean readiness, most common
// first. Ties keep first-seen order.
func SkillFrequency(roster personnel.Roster) []SkillStat {
	idx := make(map[string]int)
	sums := make([]float64, 0)
	out := make([]SkillStat, 0)
	for i := range roster {
		for _, skill := range roster[i].Skills {
			pos, ok := idx[skill]
			if !ok {
				pos = len(out)
				idx[skill] = pos
				out = append(out, SkillStat{Skill: skill})
				sums = append(sums, 0)
			}
			out[pos].Count++
			sums[pos] += roster[i].ReadinessScore
		}
	}
	for i := range out {
		out[i].AvgReadiness = Round1(sums[i] / float64(out[i].Count))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
