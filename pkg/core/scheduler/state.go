package scheduler

import (
	"time"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// ShiftRecord is one credited shift in a provider's working tally.
type ShiftRecord struct {
	Day  int
	Type model.ShiftType
}

// WorkingState is the per-run mutable tally for one provider. Floating
// providers get exactly one WorkingState for the whole run, shared by
// reference across every location's working list, so counters stay
// consistent across locations.
type WorkingState struct {
	Provider          *model.Provider
	AssignedDays      int
	AssignedSaturdays int
	AssignedHolidays  int
	Shifts            []ShiftRecord
}

// AssignedOn reports whether the provider already holds any shift (holiday
// credit included) on the given day of the month.
func (w *WorkingState) AssignedOn(day int) bool {
	for _, s := range w.Shifts {
		if s.Day == day {
			return true
		}
	}
	return false
}

// DaysWorkedInWeek counts the provider's shifts in the Sunday–Saturday week
// containing date. Every shift type counts, including Saturdays and holiday
// credit: daysPerWeek is a total-shifts-per-week cap.
func (w *WorkingState) DaysWorkedInWeek(date time.Time) int {
	weekStart := date.AddDate(0, 0, -int(date.Weekday()))
	worked := 0
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		if d.Month() != date.Month() {
			continue
		}
		if w.AssignedOn(d.Day()) {
			worked++
		}
	}
	return worked
}

// UnderWeeklyCap reports whether the provider can take another shift in the
// week containing date.
func (w *WorkingState) UnderWeeklyCap(date time.Time) bool {
	return w.DaysWorkedInWeek(date) < w.Provider.DaysPerWeek
}

func (w *WorkingState) record(day int, shift model.ShiftType) {
	w.AssignedDays++
	w.Shifts = append(w.Shifts, ShiftRecord{Day: day, Type: shift})
}

// Roster partitions the immutable provider list by home location, with
// floating providers held separately.
type Roster struct {
	ByLocation map[model.Location][]*model.Provider
	Floating   []*model.Provider
}

// PartitionRoster splits providers into per-location groups and the shared
// floating group.
func PartitionRoster(providers []model.Provider) Roster {
	roster := Roster{ByLocation: make(map[model.Location][]*model.Provider)}
	for i := range providers {
		p := &providers[i]
		if p.IsFloating() {
			roster.Floating = append(roster.Floating, p)
			continue
		}
		roster.ByLocation[p.Location] = append(roster.ByLocation[p.Location], p)
	}
	return roster
}

// Size returns the total provider count.
func (r Roster) Size() int {
	n := len(r.Floating)
	for _, ps := range r.ByLocation {
		n += len(ps)
	}
	return n
}

// newStateArena creates one counters record per provider, keyed by name.
// Per-location working lists index into this single arena, which is what
// keeps floating-provider totals consistent across locations.
func newStateArena(roster Roster) map[string]*WorkingState {
	arena := make(map[string]*WorkingState, roster.Size())
	for _, ps := range roster.ByLocation {
		for _, p := range ps {
			arena[p.Name] = &WorkingState{Provider: p}
		}
	}
	for _, p := range roster.Floating {
		arena[p.Name] = &WorkingState{Provider: p}
	}
	return arena
}
