package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/holidays"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
)

const testLoc = model.Location("Ballard")

func fixture(t *testing.T) (*schedule.Store, []model.Provider) {
	t.Helper()
	store := schedule.NewStore(2025, time.November, []model.Location{testLoc}, holidays.NewCalendar())
	providers := []model.Provider{
		{Name: "Anna", DaysPerWeek: 4, SaturdaysPerMonth: 2, Location: testLoc},
		{Name: "Ben", DaysPerWeek: 2, SaturdaysPerMonth: 1, Location: testLoc,
			PreferredDaysOff: []time.Weekday{time.Monday},
			ShiftPreferences: []model.ShiftType{model.ShiftOpen}},
	}
	return store, providers
}

func put(t *testing.T, store *schedule.Store, day int, shift model.ShiftType, name string) {
	t.Helper()
	cell, ok := store.Cell(testLoc, day)
	require.True(t, ok)
	cell.Add(shift, name)
}

func TestAnalyzeCleanSchedule(t *testing.T) {
	store, providers := fixture(t)
	// Nov 4 2025 is a Tuesday; two providers means no understaffing.
	put(t, store, 4, model.ShiftOpen, "Ben")
	put(t, store, 4, model.ShiftClose, "Anna")

	report := Analyze(store, providers)

	assert.Zero(t, report.UnderstaffedDays)
	assert.Zero(t, report.PTOConflicts)
	assert.Zero(t, report.PreferenceViolations)
	assert.Zero(t, report.OverworkedProviders)
	assert.Equal(t, report.TotalIssues, len(report.Issues))
}

func TestAnalyzeUnderstaffedWeekday(t *testing.T) {
	store, providers := fixture(t)
	put(t, store, 4, model.ShiftOpen, "Anna")

	report := Analyze(store, providers)

	assert.Equal(t, 1, report.UnderstaffedDays)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, IssueUnderstaffing, report.Issues[0].Type)
	assert.Equal(t, SeverityError, report.Issues[0].Severity)
	assert.Equal(t, 4, report.Issues[0].Day)
}

func TestAnalyzeSaturdaySingleCoverageIsNormal(t *testing.T) {
	store, providers := fixture(t)
	// Nov 1 2025 is a Saturday: one mid provider is the expected staffing.
	put(t, store, 1, model.ShiftMid, "Anna")

	report := Analyze(store, providers)

	assert.Zero(t, report.UnderstaffedDays)
}

func TestAnalyzePTOConflict(t *testing.T) {
	store, providers := fixture(t)
	providers[0].PTODates = []time.Time{time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)}
	put(t, store, 4, model.ShiftOpen, "Anna")
	put(t, store, 4, model.ShiftClose, "Ben")

	report := Analyze(store, providers)

	assert.Equal(t, 1, report.PTOConflicts)
}

func TestAnalyzePreferenceViolations(t *testing.T) {
	store, providers := fixture(t)
	// Nov 3 2025 is a Monday: Ben prefers Mondays off, and close is not in
	// his shift preferences. Both count.
	put(t, store, 3, model.ShiftClose, "Ben")
	put(t, store, 3, model.ShiftOpen, "Anna")

	report := Analyze(store, providers)

	assert.Equal(t, 2, report.PreferenceViolations)

	var benRow *WorkloadRow
	for i := range report.Workload {
		if report.Workload[i].Name == "Ben" {
			benRow = &report.Workload[i]
		}
	}
	require.NotNil(t, benRow)
	assert.Equal(t, 2, benRow.PreferenceViolations)
}

func TestAnalyzeOverworked(t *testing.T) {
	store, providers := fixture(t)
	// Ben targets 8 days a month (2 per week); 11 assignments exceeds the
	// slack of 2.
	days := []int{3, 4, 5, 6, 7, 10, 11, 12, 13, 14, 17}
	for _, day := range days {
		put(t, store, day, model.ShiftMid, "Ben")
	}

	report := Analyze(store, providers)

	assert.Equal(t, 1, report.OverworkedProviders)

	for _, row := range report.Workload {
		if row.Name == "Ben" {
			assert.Equal(t, "overworked", row.Status)
			assert.Equal(t, 11, row.AssignedDays)
			assert.Equal(t, 8, row.TargetDays)
		}
		if row.Name == "Anna" {
			assert.Equal(t, "underworked", row.Status)
		}
	}
}

func TestAnalyzeCountsSaturdays(t *testing.T) {
	store, providers := fixture(t)
	put(t, store, 1, model.ShiftMid, "Anna")
	put(t, store, 8, model.ShiftMid, "Anna")

	report := Analyze(store, providers)

	for _, row := range report.Workload {
		if row.Name == "Anna" {
			assert.Equal(t, 2, row.AssignedSaturdays)
			assert.Equal(t, 2, row.SaturdayTarget)
		}
	}
}
