package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
)

// Severity classifies how urgently an issue needs operator attention.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue types.
const (
	IssueUnderstaffing = "understaffing"
	IssueOverworked    = "overworked"
	IssuePreference    = "preference"
	IssuePTOConflict   = "pto"
)

// Issue is one reportable problem found in a generated schedule.
type Issue struct {
	Type     string
	Severity Severity
	Message  string
	Location model.Location
	Day      int
	Provider string
}

// WorkloadRow summarizes one provider's month against their targets.
type WorkloadRow struct {
	Name                 string
	Location             model.Location
	AssignedDays         int
	TargetDays           int
	AssignedSaturdays    int
	SaturdayTarget       int
	Status               string
	PreferenceViolations int
}

// Report is the derived, read-only analysis of a schedule. It never mutates
// the store; constraint exhaustion shows up here, not as engine errors.
type Report struct {
	TotalIssues          int
	UnderstaffedDays     int
	OverworkedProviders  int
	PreferenceViolations int
	PTOConflicts         int
	Issues               []Issue
	Workload             []WorkloadRow
}

// workloadSlack is how far assigned days may drift from the monthly target
// (daysPerWeek * 4) before a provider counts as over- or underworked.
const workloadSlack = 2

// Analyze inspects a generated schedule for understaffed days, overworked
// providers, preference violations and PTO conflicts.
func Analyze(store *schedule.Store, providers []model.Provider) *Report {
	report := &Report{}

	byName := make(map[string]*model.Provider, len(providers))
	for i := range providers {
		byName[providers[i].Name] = &providers[i]
	}

	for _, loc := range store.Locations() {
		analyzeLocation(report, store, loc, providers, byName)
	}

	report.TotalIssues = len(report.Issues)
	return report
}

type providerStats struct {
	assignedDays         int
	assignedSaturdays    int
	preferenceViolations int
}

func analyzeLocation(report *Report, store *schedule.Store, loc model.Location, providers []model.Provider, byName map[string]*model.Provider) {
	// Floating providers compete at every location, so they are part of each
	// location's provider set for analysis purposes.
	var local []*model.Provider
	for i := range providers {
		if providers[i].Location == loc || providers[i].IsFloating() {
			local = append(local, &providers[i])
		}
	}

	stats := make(map[string]*providerStats, len(local))
	for _, p := range local {
		stats[p.Name] = &providerStats{}
	}

	for _, day := range store.Days(loc) {
		cell, _ := store.Cell(loc, day)

		if !cell.IsHoliday && cell.Weekday != time.Saturday {
			if len(cell.Assigned()) == 1 {
				report.UnderstaffedDays++
				report.Issues = append(report.Issues, Issue{
					Type:     IssueUnderstaffing,
					Severity: SeverityError,
					Message:  fmt.Sprintf("%s: day %d understaffed (only 1 provider on weekday)", loc, day),
					Location: loc,
					Day:      day,
				})
			}
		}

		for _, shift := range model.WorkShiftTypes {
			for _, name := range cell.Shifts[shift] {
				st, tracked := stats[name]
				if !tracked {
					continue
				}
				st.assignedDays++
				if cell.Weekday == time.Saturday {
					st.assignedSaturdays++
				}

				p := byName[name]
				if p == nil {
					continue
				}
				if p.OnPTO(cell.Date) {
					report.PTOConflicts++
					report.Issues = append(report.Issues, Issue{
						Type:     IssuePTOConflict,
						Severity: SeverityError,
						Message:  fmt.Sprintf("%s: day %d - %s assigned while on PTO", loc, day, name),
						Location: loc,
						Day:      day,
						Provider: name,
					})
				}
				if p.PrefersDayOff(cell.Weekday) {
					st.preferenceViolations++
					report.PreferenceViolations++
					report.Issues = append(report.Issues, Issue{
						Type:     IssuePreference,
						Severity: SeverityWarning,
						Message:  fmt.Sprintf("%s: day %d - %s working on preferred day off (%s)", loc, day, name, cell.Weekday),
						Location: loc,
						Day:      day,
						Provider: name,
					})
				}
				if len(p.ShiftPreferences) > 0 && p.PreferenceRank(shift) == -1 {
					st.preferenceViolations++
					report.PreferenceViolations++
					report.Issues = append(report.Issues, Issue{
						Type:     IssuePreference,
						Severity: SeverityWarning,
						Message:  fmt.Sprintf("%s: day %d - %s assigned %s shift (not preferred)", loc, day, name, shift),
						Location: loc,
						Day:      day,
						Provider: name,
					})
				}
			}
		}
	}

	names := make([]string, 0, len(local))
	for _, p := range local {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := byName[name]
		st := stats[name]
		targetDays := p.DaysPerWeek * 4

		status := "balanced"
		switch {
		case st.assignedDays > targetDays+workloadSlack:
			status = "overworked"
			report.OverworkedProviders++
			report.Issues = append(report.Issues, Issue{
				Type:     IssueOverworked,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s is overworked (%d days vs %d target)", name, st.assignedDays, targetDays),
				Location: loc,
				Provider: name,
			})
		case st.assignedDays < targetDays-workloadSlack:
			status = "underworked"
		}

		report.Workload = append(report.Workload, WorkloadRow{
			Name:                 name,
			Location:             loc,
			AssignedDays:         st.assignedDays,
			TargetDays:           targetDays,
			AssignedSaturdays:    st.assignedSaturdays,
			SaturdayTarget:       p.SaturdaysPerMonth,
			Status:               status,
			PreferenceViolations: st.preferenceViolations,
		})
	}
}
