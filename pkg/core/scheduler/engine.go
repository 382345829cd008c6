package scheduler

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/holidays"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
)

// ErrEmptyRoster is returned when generation is attempted with no providers
// at any home location.
var ErrEmptyRoster = errors.New("no providers to schedule")

// DefaultSaturdayWanterThreshold is the monthly Saturday quota at which a
// provider is treated as wanting Saturday work rather than merely accepting
// it. The asymmetry between 1-Saturday and threshold+ providers is an
// encoded business rule.
const DefaultSaturdayWanterThreshold = 2

// dayRanking orders weekdays by how strongly they want a third provider.
// Lower rank claims providers earlier.
var dayRanking = map[time.Weekday]int{
	time.Monday:    1,
	time.Tuesday:   2,
	time.Friday:    3,
	time.Wednesday: 4,
	time.Thursday:  5,
	time.Saturday:  6,
	time.Sunday:    7,
}

// Config tunes the assignment engine.
type Config struct {
	// SaturdayWanterThreshold overrides DefaultSaturdayWanterThreshold when
	// positive.
	SaturdayWanterThreshold int
}

// Engine generates a month schedule from a provider roster.
type Engine struct {
	cal    *holidays.Calendar
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand
}

// New creates an engine. rng drives tie-breaking; pass a seeded source for
// reproducible schedules. A nil logger logs nothing.
func New(cal *holidays.Calendar, cfg Config, logger *zap.Logger, rng *rand.Rand) *Engine {
	if cfg.SaturdayWanterThreshold <= 0 {
		cfg.SaturdayWanterThreshold = DefaultSaturdayWanterThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cal: cal, cfg: cfg, logger: logger, rng: rng}
}

// generation carries all mutable state for one run. Nothing is stored on the
// engine between runs.
type generation struct {
	store           *schedule.Store
	states          map[string]*WorkingState
	working         map[model.Location][]*WorkingState
	rng             *rand.Rand
	wanterThreshold int
	logger          *zap.Logger
}

// Generate builds the month schedule for the roster. Days fill best-effort:
// a slot every tier exhausts stays empty, except Saturdays, which always
// fall through to a last-resort pick when anyone is eligible.
func (e *Engine) Generate(roster Roster, year int, month time.Month) (*schedule.Store, error) {
	if len(roster.ByLocation) == 0 {
		return nil, ErrEmptyRoster
	}

	locations := make([]model.Location, 0, len(roster.ByLocation))
	for loc := range roster.ByLocation {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i] < locations[j] })

	g := &generation{
		store:           schedule.NewStore(year, month, locations, e.cal),
		states:          newStateArena(roster),
		working:         make(map[model.Location][]*WorkingState, len(locations)),
		rng:             e.rng,
		wanterThreshold: e.cfg.SaturdayWanterThreshold,
		logger:          e.logger,
	}

	// Each location's working list holds its home providers plus the shared
	// floating states. The float entries are the same records everywhere, so
	// a floating assignment at one location is visible at the next.
	for _, loc := range locations {
		var pool []*WorkingState
		for _, p := range roster.ByLocation[loc] {
			pool = append(pool, g.states[p.Name])
		}
		for _, p := range roster.Floating {
			pool = append(pool, g.states[p.Name])
		}
		g.working[loc] = pool
	}

	g.creditHolidays(locations, roster)

	for _, loc := range locations {
		g.fillLocation(loc)
	}

	return g.store, nil
}

// creditHolidays grants every home provider of a location one credited day
// and one credited holiday per holiday cell, before any shift assignment.
// No real slot is filled; floating providers have no home location and
// receive no per-location credit.
func (g *generation) creditHolidays(locations []model.Location, roster Roster) {
	for _, loc := range locations {
		for _, day := range g.store.Days(loc) {
			cell, _ := g.store.Cell(loc, day)
			if !cell.IsHoliday {
				continue
			}
			for _, p := range roster.ByLocation[loc] {
				w := g.states[p.Name]
				w.record(day, model.ShiftHoliday)
				w.AssignedHolidays++
			}
			cell.Shifts[model.ShiftHoliday] = []string{cell.HolidayName}
		}
	}
}

// fillLocation assigns all shifts at one location: every Saturday first, so
// Saturday-wanters get their Saturdays before weekday load consumes their
// weekly capacity, then weekdays in priority order.
func (g *generation) fillLocation(loc model.Location) {
	pool := g.working[loc]

	type pending struct {
		day  int
		cell *schedule.Cell
	}
	var saturdays, weekdays []pending

	for _, day := range g.store.Days(loc) {
		cell, _ := g.store.Cell(loc, day)
		if cell.IsHoliday {
			continue
		}
		if cell.Weekday == time.Saturday {
			saturdays = append(saturdays, pending{day, cell})
		} else {
			weekdays = append(weekdays, pending{day, cell})
		}
	}

	sort.SliceStable(weekdays, func(i, j int) bool {
		return dayRanking[weekdays[i].cell.Weekday] < dayRanking[weekdays[j].cell.Weekday]
	})

	for _, d := range saturdays {
		g.assignSaturday(loc, pool, d.cell)
	}

	for _, d := range weekdays {
		if d.cell.Weekday == time.Thursday {
			g.assignThursday(loc, pool, d.cell)
		} else {
			g.assignWeekday(loc, pool, d.cell)
		}
	}
}

// assignSaturday fills the single mandatory mid slot of a Saturday.
func (g *generation) assignSaturday(loc model.Location, pool []*WorkingState, cell *schedule.Cell) {
	w, tierName, ok := g.selectProvider(pool, cell.Date, model.ShiftMid, true, saturdayTiers)
	if !ok {
		g.logger.Warn("saturday left uncovered, all providers capped or on PTO",
			zap.String("location", string(loc)),
			zap.Int("day", cell.Date.Day()))
		return
	}

	g.assign(w, cell, model.ShiftMid)
	w.AssignedSaturdays++

	g.logger.Debug("saturday assigned",
		zap.String("location", string(loc)),
		zap.Int("day", cell.Date.Day()),
		zap.String("provider", w.Provider.Name),
		zap.String("tier", tierName),
		zap.Int("saturdays", w.AssignedSaturdays),
		zap.Int("wanted", w.Provider.SaturdaysPerMonth))
}

// assignThursday fills the mid-only Thursday: two slots ideally, one extra
// attempt if short, and an emergency pick only if the day is still empty.
func (g *generation) assignThursday(loc model.Location, pool []*WorkingState, cell *schedule.Cell) {
	assigned := 0
	for i := 0; i < 2; i++ {
		w, _, ok := g.selectProvider(pool, cell.Date, model.ShiftMid, false, []tier{weekdayNormalTier})
		if !ok {
			break
		}
		g.assign(w, cell, model.ShiftMid)
		assigned++
	}
	if assigned == 2 {
		return
	}

	if w, _, ok := g.selectProvider(pool, cell.Date, model.ShiftMid, false, []tier{weekdayNormalTier}); ok {
		g.assign(w, cell, model.ShiftMid)
		assigned++
	}

	if assigned == 0 {
		if w, _, ok := g.selectProvider(pool, cell.Date, model.ShiftMid, false, []tier{weekdayEmergencyTier}); ok {
			g.assign(w, cell, model.ShiftMid)
		} else {
			g.logger.Warn("thursday left uncovered",
				zap.String("location", string(loc)),
				zap.Int("day", cell.Date.Day()))
		}
	}
}

// assignWeekday fills a regular weekday: open, then close, then mid. The day
// is throttled to two providers when the candidate pool is thin, keeping
// capacity in reserve for upcoming Saturdays.
func (g *generation) assignWeekday(loc model.Location, pool []*WorkingState, cell *schedule.Cell) {
	available := g.countEligible(pool, cell.Date, false, weekdayNormalTier)
	maxProviders := 2
	if available >= 4 {
		maxProviders = 3
	}

	assigned := 0
	for _, shift := range []model.ShiftType{model.ShiftOpen, model.ShiftClose} {
		if w, _, ok := g.selectProvider(pool, cell.Date, shift, false, weekdayTiers); ok {
			g.assign(w, cell, shift)
			assigned++
		}
	}

	if assigned < maxProviders {
		if w, _, ok := g.selectProvider(pool, cell.Date, model.ShiftMid, false, weekdayTiers); ok {
			g.assign(w, cell, model.ShiftMid)
			assigned++
		}
	}

	if assigned == 0 {
		g.logger.Warn("weekday left uncovered",
			zap.String("location", string(loc)),
			zap.Int("day", cell.Date.Day()))
	}
}

// assign records the shift on the provider's shared working state and places
// the name in the cell.
func (g *generation) assign(w *WorkingState, cell *schedule.Cell, shift model.ShiftType) {
	w.record(cell.Date.Day(), shift)
	cell.Add(shift, w.Provider.Name)
}
