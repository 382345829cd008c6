package scheduler

// Scoring weights for candidate selection. Tuned against real rosters; the
// preference ladder drops off sharply so a third choice is close to a last
// resort.
const (
	// WeightWeeklyNeed multiplies the shifts a provider still needs to reach
	// their weekly target.
	WeightWeeklyNeed = 10

	// PenaltyAtWeeklyCap applies to providers at or over their weekly target.
	// They are filtered out before scoring in every tier, so this only
	// matters if a tier definition changes.
	PenaltyAtWeeklyCap = -100

	// WeightOverallLoad multiplies (10 - assignedDays): less-worked providers
	// score higher overall.
	WeightOverallLoad = 5

	// Shift-preference ladder, by rank in the provider's stated list.
	BonusFirstPreference  = 200
	BonusSecondPreference = 100
	BonusThirdPreference  = 10
	BonusLaterPreference  = 1
	BonusNoPreference     = 25

	// Emergency-tier preference ladder (halved; coverage outranks comfort).
	EmergencyFirstPreference  = 100
	EmergencySecondPreference = 50
	EmergencyThirdPreference  = 5
	EmergencyNoPreference     = 15

	// WeightSaturdayWanter multiplies the Saturdays a wanter still needs.
	WeightSaturdayWanter = 200

	// PenaltySaturdayWanterDone applies to wanters who already reached their
	// monthly Saturday quota.
	PenaltySaturdayWanterDone = -100

	// BonusSaturdayReluctant / PenaltySaturdayReluctantDone apply to
	// providers below the wanter threshold who still have Saturday capacity,
	// or none left, respectively.
	BonusSaturdayReluctant       = 50
	PenaltySaturdayReluctantDone = -200

	// Emergency-tier Saturday weights.
	EmergencySaturdayWanter        = 100
	EmergencySaturdayWanterDone    = -50
	EmergencySaturdayReluctant     = 25
	EmergencySaturdayReluctantDone = -100

	// Normal-pool Saturday scoring (used when no wanter is available).
	SaturdayPoolLoadWeight    = 10
	SaturdayPoolPrefWeight    = 20
	SaturdayPoolUnderCapBonus = 30

	// Jitter ranges for tie-breaking. Scores are intentionally
	// non-deterministic unless the engine is seeded.
	JitterTieBreak   = 10
	JitterExcludedBy = 5
)
