package xlsxclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// Expected column headers in the provider roster sheet. Matching is
// case-insensitive and by substring, because the office workbook headers
// drift ("PTO Dates (MM/DD)", "Days per week", ...).
var providerFields = []string{
	"Name",
	"Location",
	"Days Per Week",
	"Saturdays Per Month",
	"Preferred",
	"Shift Preference",
	"PTO Date",
}

// RosterOptions controls how a provider sheet is interpreted.
type RosterOptions struct {
	// Sheet is the worksheet name holding the roster.
	Sheet string
	// KnownLocations is the set of valid clinic locations. Rows with an
	// unknown location fall back to DefaultLocation.
	KnownLocations []model.Location
	// DefaultLocation is used when a row's location is blank or unknown.
	DefaultLocation model.Location
}

// ListProviders reads and parses the provider roster from a workbook file.
// Rows that cannot be parsed are skipped with a warning; an empty result is
// an error.
func (c *Client) ListProviders(path string, opts RosterOptions) ([]model.Provider, error) {
	rows, err := c.GetRows(path, opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", opts.Sheet)
	}

	providers, err := c.parseProviders(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse providers: %w", err)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no valid provider rows in sheet %q", opts.Sheet)
	}
	return providers, nil
}

func (c *Client) parseProviders(raw [][]string, opts RosterOptions) ([]model.Provider, error) {
	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	for _, field := range providerFields {
		index := -1
		for i, cell := range headerRow {
			if strings.Contains(strings.ToLower(cell), strings.ToLower(field)) {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []string) string {
		index := fieldIndexes[field]
		if index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	known := make(map[model.Location]bool, len(opts.KnownLocations)+1)
	for _, loc := range opts.KnownLocations {
		known[loc] = true
	}
	known[model.LocationFloat] = true

	providers := make([]model.Provider, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := getField("Name", row)
		if name == "" {
			continue
		}

		daysPerWeek, err := strconv.Atoi(getField("Days Per Week", row))
		if err != nil || daysPerWeek < 1 || daysPerWeek > 6 {
			c.logger.Warn("Skipping provider row with invalid days per week",
				zap.Int("row", i+1),
				zap.String("name", name),
				zap.String("value", getField("Days Per Week", row)))
			continue
		}

		saturdays := 0
		if val := getField("Saturdays Per Month", row); val != "" {
			saturdays, err = strconv.Atoi(val)
			if err != nil || saturdays < 0 || saturdays > 5 {
				c.logger.Warn("Skipping provider row with invalid saturdays per month",
					zap.Int("row", i+1),
					zap.String("name", name),
					zap.String("value", val))
				continue
			}
		}

		location := model.Location(getField("Location", row))
		if !known[location] {
			c.logger.Warn("Unknown location, using default",
				zap.Int("row", i+1),
				zap.String("name", name),
				zap.String("location", string(location)),
				zap.String("default", string(opts.DefaultLocation)))
			location = opts.DefaultLocation
		}

		daysOff, bad := parseWeekdayList(getField("Preferred", row))
		if len(bad) > 0 {
			c.logger.Warn("Ignoring unrecognized preferred days off",
				zap.String("name", name),
				zap.Strings("values", bad))
		}

		prefs, badPrefs := parseShiftList(getField("Shift Preference", row))
		if len(badPrefs) > 0 {
			c.logger.Warn("Ignoring unrecognized shift preferences",
				zap.String("name", name),
				zap.Strings("values", badPrefs))
		}

		pto, badDates := parsePTODates(getField("PTO Date", row))
		if len(badDates) > 0 {
			c.logger.Warn("Ignoring unparseable PTO dates",
				zap.String("name", name),
				zap.Strings("values", badDates))
		}

		providers = append(providers, model.Provider{
			Name:              name,
			DaysPerWeek:       daysPerWeek,
			SaturdaysPerMonth: saturdays,
			PreferredDaysOff:  daysOff,
			ShiftPreferences:  prefs,
			PTODates:          pto,
			Location:          location,
		})
	}

	return providers, nil
}

func parseWeekdayList(s string) ([]time.Weekday, []string) {
	var days []time.Weekday
	var bad []string
	for _, part := range splitList(s) {
		if day, ok := model.ParseWeekday(part); ok {
			days = append(days, day)
		} else {
			bad = append(bad, part)
		}
	}
	return days, bad
}

func parseShiftList(s string) ([]model.ShiftType, []string) {
	var shifts []model.ShiftType
	var bad []string
	for _, part := range splitList(s) {
		if shift, ok := model.ParseShiftType(part); ok {
			shifts = append(shifts, shift)
		} else {
			bad = append(bad, part)
		}
	}
	return shifts, bad
}

// parsePTODates accepts a comma- or semicolon-separated list of dates. Cells
// formatted as dates in Excel arrive as serial numbers; typed-in text arrives
// as MM/DD/YYYY, MM/DD/YY or ISO strings. All are accepted.
func parsePTODates(s string) ([]time.Time, []string) {
	var dates []time.Time
	var bad []string
	for _, part := range splitList(s) {
		if date, ok := parseDateCell(part); ok {
			dates = append(dates, date)
		} else {
			bad = append(bad, part)
		}
	}
	return dates, bad
}

func parseDateCell(s string) (time.Time, bool) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		date, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range []string{"01/02/2006", "1/2/2006", "2006-01-02"} {
		if date, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return date, true
		}
	}

	// Two-digit years pivot at 30: 00-30 are 20xx, everything later 19xx.
	for _, layout := range []string{"01/02/06", "1/2/06"} {
		if date, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			year := date.Year()
			if year >= 2000 && year%100 > 30 {
				date = date.AddDate(-100, 0, 0)
			}
			return date, true
		}
	}

	return time.Time{}, false
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	normalized := strings.ReplaceAll(s, ";", ",")
	var parts []string
	for _, part := range strings.Split(normalized, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
