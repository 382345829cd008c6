package model

import (
	"strings"
	"time"
)

// ShiftType is one of the staffing slots in a clinic day.
type ShiftType string

const (
	ShiftOpen  ShiftType = "open"
	ShiftMid   ShiftType = "mid"
	ShiftClose ShiftType = "close"

	// ShiftHoliday is the synthetic shift recorded when a provider receives
	// holiday credit. It never corresponds to a worked slot.
	ShiftHoliday ShiftType = "holiday"
)

// WorkShiftTypes lists the real (non-synthetic) shift types in fill priority
// order: open and close are more critical than mid.
var WorkShiftTypes = []ShiftType{ShiftOpen, ShiftClose, ShiftMid}

func (s ShiftType) IsValid() bool {
	return s == ShiftOpen || s == ShiftMid || s == ShiftClose
}

// Location is a named clinic location, or LocationFloat for providers shared
// across all locations.
type Location string

const LocationFloat Location = "Float"

// Provider is an immutable scheduling input describing one clinician.
type Provider struct {
	Name              string
	DaysPerWeek       int
	SaturdaysPerMonth int
	PreferredDaysOff  []time.Weekday
	// ShiftPreferences is ranked best-first. Empty means indifferent.
	ShiftPreferences []ShiftType
	PTODates         []time.Time
	Location         Location
}

// IsFloating reports whether the provider competes for slots across all
// locations with a single shared quota counter.
func (p *Provider) IsFloating() bool {
	return p.Location == LocationFloat
}

// OnPTO reports whether date falls on one of the provider's PTO dates.
// Comparison ignores the time-of-day component.
func (p *Provider) OnPTO(date time.Time) bool {
	for _, pto := range p.PTODates {
		if sameDay(pto, date) {
			return true
		}
	}
	return false
}

// PrefersDayOff reports whether weekday is one of the provider's preferred
// days off.
func (p *Provider) PrefersDayOff(weekday time.Weekday) bool {
	for _, d := range p.PreferredDaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

// PreferenceRank returns the 0-based rank of shift in the provider's stated
// preferences, or -1 if the shift type is not listed.
func (p *Provider) PreferenceRank(shift ShiftType) int {
	for i, s := range p.ShiftPreferences {
		if s == shift {
			return i
		}
	}
	return -1
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseWeekday maps a weekday name or common abbreviation to a time.Weekday.
func ParseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue", "tues":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu", "thur", "thurs":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	}
	return 0, false
}

// ParseShiftType maps a shift name or common variant to a ShiftType.
func ParseShiftType(s string) (ShiftType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "opening":
		return ShiftOpen, true
	case "mid", "middle":
		return ShiftMid, true
	case "close", "closing":
		return ShiftClose, true
	}
	return "", false
}
