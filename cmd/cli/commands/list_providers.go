package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/services"
)

// ListProvidersCmd creates the listProviders command
func ListProvidersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listProviders <roster.xlsx>",
		Short: "List the providers parsed from a roster workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, err := services.ListProviders(app.Xlsx, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d providers:\n\n", len(providers))
			for _, p := range providers {
				fmt.Printf("- %s (%s) - %d days/week, %d Saturdays/month%s%s%s\n",
					p.Name,
					p.Location,
					p.DaysPerWeek,
					p.SaturdaysPerMonth,
					formatDaysOff(p.PreferredDaysOff),
					formatShiftPrefs(p.ShiftPreferences),
					formatPTO(p.PTODates),
				)
			}

			return nil
		},
	}
}

func formatDaysOff(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return fmt.Sprintf(" [off: %s]", strings.Join(names, ", "))
}

func formatShiftPrefs(prefs []model.ShiftType) string {
	if len(prefs) == 0 {
		return ""
	}
	names := make([]string, len(prefs))
	for i, s := range prefs {
		names[i] = string(s)
	}
	return fmt.Sprintf(" [prefers: %s]", strings.Join(names, " > "))
}

func formatPTO(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%d PTO days]", len(dates))
}
