package holidays

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Rule describes one observed clinic holiday.
//
// Fixed rules match an exact (month, day). Floating rules resolve the Nth
// weekday of the month (Nth = -1 means the last occurrence). A rule with
// DayAfter set resolves to the named rule's date plus one day.
type Rule struct {
	Name     string
	Month    time.Month
	Day      int
	Fixed    bool
	Weekday  time.Weekday
	Nth      int
	DayAfter string
}

// Holiday is a resolved holiday occurrence within a specific year.
type Holiday struct {
	Name string
	Date time.Time
}

// Calendar resolves whether a given date is an observed clinic holiday.
// Lookup is a pure function of the rule table and the date.
type Calendar struct {
	rules []Rule
}

// NewCalendar returns a calendar with the clinic's observed holidays.
func NewCalendar() *Calendar {
	return &Calendar{rules: []Rule{
		{Name: "New Years", Month: time.January, Day: 1, Fixed: true},
		{Name: "MLK Jr Day", Month: time.January, Weekday: time.Monday, Nth: 3},
		{Name: "Presidents Day", Month: time.February, Weekday: time.Monday, Nth: 3},
		{Name: "Memorial Day", Month: time.May, Weekday: time.Monday, Nth: -1},
		{Name: "Independence Day", Month: time.July, Day: 4, Fixed: true},
		{Name: "Labor Day", Month: time.September, Weekday: time.Monday, Nth: 1},
		{Name: "Thanksgiving", Month: time.November, Weekday: time.Thursday, Nth: 4},
		{Name: "Day After Thanksgiving", Month: time.November, DayAfter: "Thanksgiving"},
		{Name: "Christmas Eve", Month: time.December, Day: 24, Fixed: true},
		{Name: "Christmas Day", Month: time.December, Day: 25, Fixed: true},
	}}
}

// NewCalendarWithRules returns a calendar using a custom rule table.
func NewCalendarWithRules(rules []Rule) *Calendar {
	return &Calendar{rules: rules}
}

// Rules returns a copy of the calendar's rule table.
func (c *Calendar) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Lookup reports whether date is a holiday and, if so, its name.
func (c *Calendar) Lookup(date time.Time) (bool, string) {
	for _, rule := range c.rules {
		resolved, ok := c.resolve(rule, date.Year())
		if !ok {
			continue
		}
		if resolved.Month() == date.Month() && resolved.Day() == date.Day() {
			return true, rule.Name
		}
	}
	return false, ""
}

// InYear resolves every rule for the given year, sorted by date.
func (c *Calendar) InYear(year int) []Holiday {
	out := make([]Holiday, 0, len(c.rules))
	for _, rule := range c.rules {
		if resolved, ok := c.resolve(rule, year); ok {
			out = append(out, Holiday{Name: rule.Name, Date: resolved})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (c *Calendar) resolve(rule Rule, year int) (time.Time, bool) {
	if rule.DayAfter != "" {
		for _, base := range c.rules {
			if base.Name == rule.DayAfter {
				resolved, ok := c.resolve(base, year)
				if !ok {
					return time.Time{}, false
				}
				return resolved.AddDate(0, 0, 1), true
			}
		}
		return time.Time{}, false
	}
	if rule.Fixed {
		return time.Date(year, rule.Month, rule.Day, 0, 0, 0, 0, time.UTC), true
	}
	return nthWeekdayOfMonth(year, rule.Month, rule.Weekday, rule.Nth)
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// nthWeekdayOfMonth resolves the nth occurrence of weekday within (year,
// month); n = -1 resolves the last occurrence. Returns false when the
// combination never occurs.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) (time.Time, bool) {
	wd := rruleWeekdays[weekday]
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.YEARLY,
		Dtstart:   time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Count:     1,
		Bymonth:   []int{int(month)},
		Byweekday: []rrule.Weekday{wd.Nth(n)},
	})
	if err != nil {
		return time.Time{}, false
	}
	dates := r.All()
	if len(dates) == 0 || dates[0].Year() != year {
		return time.Time{}, false
	}
	return dates[0], true
}
