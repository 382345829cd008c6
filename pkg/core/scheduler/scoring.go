package scheduler

import (
	"math/rand"
	"time"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// preferenceBonus scores how well shift matches the provider's stated
// preference order. A provider with preferences that exclude this shift type
// scores worse than one with no preferences at all.
func preferenceBonus(rng *rand.Rand, p *model.Provider, shift model.ShiftType) float64 {
	switch rank := p.PreferenceRank(shift); {
	case rank == 0:
		return BonusFirstPreference
	case rank == 1:
		return BonusSecondPreference
	case rank == 2:
		return BonusThirdPreference
	case rank > 2:
		return BonusLaterPreference
	case len(p.ShiftPreferences) == 0:
		return BonusNoPreference
	default:
		return rng.Float64() * JitterExcludedBy
	}
}

func emergencyPreferenceBonus(rng *rand.Rand, p *model.Provider, shift model.ShiftType) float64 {
	switch rank := p.PreferenceRank(shift); {
	case rank == 0:
		return EmergencyFirstPreference
	case rank == 1:
		return EmergencySecondPreference
	case rank == 2:
		return EmergencyThirdPreference
	case rank > 2:
		return BonusLaterPreference
	case len(p.ShiftPreferences) == 0:
		return EmergencyNoPreference
	default:
		return rng.Float64() * JitterExcludedBy
	}
}

// saturdayBonus encodes the Saturday priority split: providers at or above
// the wanter threshold are pulled toward Saturdays until their quota is met,
// providers below it are pushed away once they have covered one.
func saturdayBonus(p *model.Provider, assignedSaturdays, wanterThreshold int) float64 {
	needed := p.SaturdaysPerMonth - assignedSaturdays
	switch {
	case p.SaturdaysPerMonth >= wanterThreshold:
		if needed > 0 {
			return float64(needed) * WeightSaturdayWanter
		}
		return PenaltySaturdayWanterDone
	case p.SaturdaysPerMonth >= 1:
		if needed > 0 {
			return BonusSaturdayReluctant
		}
		return PenaltySaturdayReluctantDone
	default:
		return 0
	}
}

func emergencySaturdayBonus(p *model.Provider, assignedSaturdays, wanterThreshold int) float64 {
	needed := p.SaturdaysPerMonth - assignedSaturdays
	switch {
	case p.SaturdaysPerMonth >= wanterThreshold:
		if needed > 0 {
			return float64(needed) * EmergencySaturdayWanter
		}
		return EmergencySaturdayWanterDone
	case p.SaturdaysPerMonth >= 1:
		if needed > 0 {
			return EmergencySaturdayReluctant
		}
		return EmergencySaturdayReluctantDone
	default:
		return 0
	}
}

// normalScore is the standard candidate score: reward providers behind on
// their weekly target, then less-worked providers, then preference match,
// with the Saturday split applied on Saturdays and jitter for ties.
func (g *generation) normalScore(w *WorkingState, date time.Time, shift model.ShiftType, saturday bool) float64 {
	score := 0.0

	remaining := w.Provider.DaysPerWeek - w.DaysWorkedInWeek(date)
	if remaining > 0 {
		score += float64(remaining) * WeightWeeklyNeed
	} else {
		score += PenaltyAtWeeklyCap
	}

	score += float64(10-w.AssignedDays) * WeightOverallLoad
	score += preferenceBonus(g.rng, w.Provider, shift)

	if saturday {
		score += saturdayBonus(w.Provider, w.AssignedSaturdays, g.wanterThreshold)
	}

	score += g.rng.Float64() * JitterTieBreak
	return score
}

// saturdayWanterScore ranks Saturday-wanters: the further behind on their
// Saturday quota, the sooner they get one.
func (g *generation) saturdayWanterScore(w *WorkingState, shift model.ShiftType) float64 {
	needed := w.Provider.SaturdaysPerMonth - w.AssignedSaturdays
	score := float64(needed) * WeightSaturdayWanter
	score += preferenceBonus(g.rng, w.Provider, shift)
	score += g.rng.Float64() * JitterTieBreak
	return score
}

// saturdayPoolScore ranks the normal Saturday pool once wanters are
// exhausted: lighter overall load and remaining Saturday capacity win.
func (g *generation) saturdayPoolScore(w *WorkingState, shift model.ShiftType) float64 {
	score := float64(10-w.AssignedDays) * SaturdayPoolLoadWeight

	if rank := w.Provider.PreferenceRank(shift); rank >= 0 {
		score += float64(len(w.Provider.ShiftPreferences)-rank) * SaturdayPoolPrefWeight
	} else {
		score += g.rng.Float64() * JitterExcludedBy
	}

	if w.AssignedSaturdays < w.Provider.SaturdaysPerMonth {
		score += SaturdayPoolUnderCapBonus
	}

	score += g.rng.Float64() * JitterTieBreak
	return score
}

// emergencyScore ranks the emergency pool, where day-off and Saturday-cap
// checks are already relaxed.
func (g *generation) emergencyScore(w *WorkingState, shift model.ShiftType, saturday bool) float64 {
	score := float64(10-w.AssignedDays) * WeightOverallLoad
	score += emergencyPreferenceBonus(g.rng, w.Provider, shift)

	if saturday {
		score += emergencySaturdayBonus(w.Provider, w.AssignedSaturdays, g.wanterThreshold)
	}

	score += g.rng.Float64() * JitterTieBreak
	return score
}
