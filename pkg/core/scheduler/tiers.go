package scheduler

import (
	"time"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// tier is one candidate-selection strategy. Tiers are tried in order; the
// first tier with a non-empty candidate pool decides the assignment.
//
// The base filter (already assigned that day, on PTO, at the weekly cap) is
// applied in every tier and is never relaxed: PTO and the weekly-day cap are
// hard constraints. Tiers only relax the soft checks they name.
type tier struct {
	name             string
	wantersOnly      bool
	checkDayOff      bool
	checkSaturdayCap bool
	// score ranks eligible candidates; nil means pick one at random.
	score func(g *generation, w *WorkingState, date time.Time, shift model.ShiftType, saturday bool) float64
}

var saturdayTiers = []tier{
	{
		name:             "saturday-wanters",
		wantersOnly:      true,
		checkDayOff:      true,
		checkSaturdayCap: true,
		score: func(g *generation, w *WorkingState, _ time.Time, shift model.ShiftType, _ bool) float64 {
			return g.saturdayWanterScore(w, shift)
		},
	},
	{
		name:             "saturday-pool",
		checkDayOff:      true,
		checkSaturdayCap: true,
		score: func(g *generation, w *WorkingState, _ time.Time, shift model.ShiftType, _ bool) float64 {
			return g.saturdayPoolScore(w, shift)
		},
	},
	{
		name: "emergency",
		score: func(g *generation, w *WorkingState, _ time.Time, shift model.ShiftType, saturday bool) float64 {
			return g.emergencyScore(w, shift, saturday)
		},
	},
	// Terminal fallback for mandatory Saturday coverage: a random pick among
	// anyone the base filter allows. Redundant today, since the emergency tier
	// above applies no soft checks of its own, but it is what fills the slot
	// if emergency ever regains one.
	{name: "last-resort"},
}

var weekdayNormalTier = tier{
	name:        "normal",
	checkDayOff: true,
	score: func(g *generation, w *WorkingState, date time.Time, shift model.ShiftType, saturday bool) float64 {
		return g.normalScore(w, date, shift, saturday)
	},
}

var weekdayEmergencyTier = tier{
	name: "emergency",
	score: func(g *generation, w *WorkingState, _ time.Time, shift model.ShiftType, saturday bool) float64 {
		return g.emergencyScore(w, shift, saturday)
	},
}

var weekdayTiers = []tier{weekdayNormalTier, weekdayEmergencyTier}

// eligible applies the tier's candidate filter for one provider on one date.
func (g *generation) eligible(w *WorkingState, date time.Time, saturday bool, t tier) bool {
	if w.AssignedOn(date.Day()) {
		return false
	}
	if w.Provider.OnPTO(date) {
		return false
	}
	if !w.UnderWeeklyCap(date) {
		return false
	}
	if t.checkDayOff && w.Provider.PrefersDayOff(date.Weekday()) {
		return false
	}
	if saturday && t.checkSaturdayCap && w.AssignedSaturdays >= w.Provider.SaturdaysPerMonth {
		return false
	}
	if t.wantersOnly && w.Provider.SaturdaysPerMonth < g.wanterThreshold {
		return false
	}
	return true
}

// countEligible counts pool members passing the tier filter.
func (g *generation) countEligible(pool []*WorkingState, date time.Time, saturday bool, t tier) int {
	n := 0
	for _, w := range pool {
		if g.eligible(w, date, saturday, t) {
			n++
		}
	}
	return n
}

// selectProvider walks the tier chain and returns the chosen provider and
// the tier that produced it, or ok=false when every tier is exhausted.
func (g *generation) selectProvider(pool []*WorkingState, date time.Time, shift model.ShiftType, saturday bool, tiers []tier) (*WorkingState, string, bool) {
	for _, t := range tiers {
		var candidates []*WorkingState
		for _, w := range pool {
			if g.eligible(w, date, saturday, t) {
				candidates = append(candidates, w)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		if t.score == nil {
			return candidates[g.rng.Intn(len(candidates))], t.name, true
		}

		best := candidates[0]
		bestScore := t.score(g, best, date, shift, saturday)
		for _, w := range candidates[1:] {
			if s := t.score(g, w, date, shift, saturday); s > bestScore {
				best, bestScore = w, s
			}
		}
		return best, t.name, true
	}
	return nil, "", false
}
