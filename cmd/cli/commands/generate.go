package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/analysis"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <YYYY-MM>",
		Short: "Generate a month schedule from a provider roster workbook",
		Long:  "Assign providers to shifts for the given month, honoring PTO, weekly caps, Saturday quotas and shift preferences, and report any staffing issues.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, _ := cmd.Flags().GetString("roster")
			out, _ := cmd.Flags().GetString("out")
			seed, _ := cmd.Flags().GetInt64("seed")

			app.Logger.Debug("generate command",
				zap.String("month", args[0]),
				zap.String("roster", roster),
				zap.String("out", out),
				zap.Int64("seed", seed))

			result, err := services.GenerateSchedule(app.Xlsx, app.Xlsx, app.Cfg, app.Logger, services.GenerateOptions{
				Month:      args[0],
				RosterPath: roster,
				OutPath:    out,
				Seed:       seed,
			})
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Printf("\nSchedule for %s %d\n", result.Month, result.Year)
			fmt.Printf("Run ID: %s\n", result.RunID)
			fmt.Printf("Seed:   %d\n\n", result.Seed)

			for _, loc := range result.Store.Locations() {
				printLocation(result.Store, loc)
			}

			printReport(result.Report)

			if out != "" {
				fmt.Printf("Workbook written to %s\n\n", out)
			} else {
				fmt.Println("Use --out to write the schedule to a workbook.")
			}

			return nil
		},
	}

	cmd.Flags().String("roster", "providers.xlsx", "Provider roster workbook")
	cmd.Flags().String("out", "", "Output workbook path")
	cmd.Flags().Int64("seed", 0, "Seed for tie-breaking (0 seeds from the clock)")

	return cmd
}

func printLocation(store *schedule.Store, loc model.Location) {
	fmt.Printf("%s\n%s\n", loc, strings.Repeat("-", len(loc)))
	fmt.Printf("%-12s %-4s %-22s %-22s %-22s\n", "Date", "Day", "Open", "Mid", "Close")

	for _, day := range store.Days(loc) {
		cell, _ := store.Cell(loc, day)
		date := fmt.Sprintf("%s %d", cell.Date.Month(), day)

		var open, mid, clos string
		switch {
		case cell.IsHoliday:
			open, mid, clos = cell.HolidayName, cell.HolidayName, cell.HolidayName
		case cell.Weekday == time.Saturday || cell.Weekday == time.Thursday:
			open, clos = "-", "-"
			mid = strings.Join(cell.Shifts[model.ShiftMid], ", ")
		default:
			open = strings.Join(cell.Shifts[model.ShiftOpen], ", ")
			mid = strings.Join(cell.Shifts[model.ShiftMid], ", ")
			clos = strings.Join(cell.Shifts[model.ShiftClose], ", ")
		}

		fmt.Printf("%-12s %-4s %-22s %-22s %-22s\n", date, cell.Weekday.String()[:3], open, mid, clos)
	}
	fmt.Println()
}

func printReport(report *analysis.Report) {
	if report.TotalIssues == 0 {
		fmt.Println("No staffing issues found.")
	} else {
		fmt.Printf("Staffing issues (%d):\n", report.TotalIssues)
		for _, issue := range report.Issues {
			marker := "!"
			if issue.Severity == analysis.SeverityWarning {
				marker = "~"
			}
			fmt.Printf("  %s %s\n", marker, issue.Message)
		}
	}
	fmt.Println()

	fmt.Printf("Workload:\n")
	fmt.Printf("  %-20s %-10s %-12s %-12s %s\n", "Provider", "Location", "Days", "Saturdays", "Status")
	for _, row := range report.Workload {
		fmt.Printf("  %-20s %-10s %-12s %-12s %s\n",
			row.Name,
			row.Location,
			fmt.Sprintf("%d/%d", row.AssignedDays, row.TargetDays),
			fmt.Sprintf("%d/%d", row.AssignedSaturdays, row.SaturdayTarget),
			row.Status)
	}
	fmt.Println()
}
