package schedule

import (
	"sort"
	"time"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/holidays"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// Cell is one clinic day at one location.
//
// Shifts maps shift type to an ordered provider-name list. Display order
// matters, but set semantics hold: a name never appears twice in one list,
// and assignment/edit logic keeps a provider in at most one work shift per
// cell.
type Cell struct {
	Date        time.Time
	Weekday     time.Weekday
	IsHoliday   bool
	HolidayName string
	Shifts      map[model.ShiftType][]string
}

// Assigned returns every provider in a work shift of the cell, in shift
// priority order.
func (c *Cell) Assigned() []string {
	var out []string
	for _, shift := range []model.ShiftType{model.ShiftOpen, model.ShiftMid, model.ShiftClose} {
		out = append(out, c.Shifts[shift]...)
	}
	return out
}

// ShiftOf returns the work shift the provider occupies in this cell, if any.
func (c *Cell) ShiftOf(name string) (model.ShiftType, bool) {
	for _, shift := range []model.ShiftType{model.ShiftOpen, model.ShiftMid, model.ShiftClose} {
		for _, p := range c.Shifts[shift] {
			if p == name {
				return shift, true
			}
		}
	}
	return "", false
}

// Add appends the provider to the given shift list, ignoring duplicates.
func (c *Cell) Add(shift model.ShiftType, name string) {
	for _, p := range c.Shifts[shift] {
		if p == name {
			return
		}
	}
	c.Shifts[shift] = append(c.Shifts[shift], name)
}

// Remove deletes the provider from the given shift list.
func (c *Cell) Remove(shift model.ShiftType, name string) {
	providers := c.Shifts[shift]
	for i, p := range providers {
		if p == name {
			c.Shifts[shift] = append(providers[:i], providers[i+1:]...)
			return
		}
	}
}

// RemoveEverywhere deletes the provider from every work shift of the cell.
func (c *Cell) RemoveEverywhere(name string) {
	for _, shift := range []model.ShiftType{model.ShiftOpen, model.ShiftMid, model.ShiftClose} {
		c.Remove(shift, name)
	}
}

// Store is the generated month schedule: one cell per (location, clinic day).
// Sundays are excluded when the grid is built; the clinic is closed.
type Store struct {
	Year  int
	Month time.Month
	Cells map[model.Location]map[int]*Cell
}

// NewStore builds the empty day grid for a month, querying the holiday
// calendar once per day.
func NewStore(year int, month time.Month, locations []model.Location, cal *holidays.Calendar) *Store {
	store := &Store{
		Year:  year,
		Month: month,
		Cells: make(map[model.Location]map[int]*Cell, len(locations)),
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	for _, loc := range locations {
		grid := make(map[int]*Cell, daysInMonth)
		for day := 1; day <= daysInMonth; day++ {
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if date.Weekday() == time.Sunday {
				continue
			}
			isHoliday, name := cal.Lookup(date)
			grid[day] = &Cell{
				Date:        date,
				Weekday:     date.Weekday(),
				IsHoliday:   isHoliday,
				HolidayName: name,
				Shifts:      make(map[model.ShiftType][]string),
			}
		}
		store.Cells[loc] = grid
	}

	return store
}

// Cell returns the cell for (location, day-of-month), if it exists.
func (s *Store) Cell(loc model.Location, day int) (*Cell, bool) {
	grid, ok := s.Cells[loc]
	if !ok {
		return nil, false
	}
	cell, ok := grid[day]
	return cell, ok
}

// Days returns the clinic days at a location in calendar order.
func (s *Store) Days(loc model.Location) []int {
	grid := s.Cells[loc]
	days := make([]int, 0, len(grid))
	for day := range grid {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// Locations returns the store's locations in a stable order.
func (s *Store) Locations() []model.Location {
	locs := make([]model.Location, 0, len(s.Cells))
	for loc := range s.Cells {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	return locs
}

// Date returns the calendar date of a day-of-month in the store's month.
func (s *Store) Date(day int) time.Time {
	return time.Date(s.Year, s.Month, day, 0, 0, 0, 0, time.UTC)
}
