package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/holidays"
)

// HolidaysCmd creates the holidays command
func HolidaysCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays <year>",
		Short: "List the observed clinic holidays for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}

			cal := holidays.NewCalendar()
			fmt.Printf("\nObserved holidays in %d:\n\n", year)
			for _, h := range cal.InYear(year) {
				fmt.Printf("  %s  %s\n", h.Date.Format("Mon Jan 02"), h.Name)
			}
			fmt.Println()

			return nil
		},
	}
}
