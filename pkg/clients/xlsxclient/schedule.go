package xlsxclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
)

var scheduleHeader = []interface{}{"Date", "Day", "Open", "Mid", "Close", "PTO Today"}

// WriteSchedule writes the generated month to an xlsx workbook, one sheet per
// location. Saturdays and Thursdays run a single mid-anchored shift, so their
// open and close columns carry a dash; holiday rows repeat the holiday name
// across all three shift columns.
func (c *Client) WriteSchedule(path string, store *schedule.Store, providers []model.Provider) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, loc := range store.Locations() {
		sheet := string(loc)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
			}
		}

		if err := c.writeLocationSheet(f, sheet, store, loc, providers); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	c.logger.Info("Schedule workbook written",
		zap.String("path", path),
		zap.Int("sheets", len(store.Locations())))
	return nil
}

func (c *Client) writeLocationSheet(f *excelize.File, sheet string, store *schedule.Store, loc model.Location, providers []model.Provider) error {
	if err := f.SetSheetRow(sheet, "A1", &scheduleHeader); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}

	rowNum := 2
	for _, day := range store.Days(loc) {
		cell, _ := store.Cell(loc, day)
		row := buildScheduleRow(cell, loc, providers)

		anchor, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, anchor, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", rowNum, sheet, err)
		}
		rowNum++
	}
	return nil
}

func buildScheduleRow(cell *schedule.Cell, loc model.Location, providers []model.Provider) []interface{} {
	date := fmt.Sprintf("%s %d", cell.Date.Month(), cell.Date.Day())
	day := cell.Weekday.String()[:3]

	var open, mid, clos string
	switch {
	case cell.IsHoliday:
		open, mid, clos = cell.HolidayName, cell.HolidayName, cell.HolidayName
	case cell.Weekday == time.Saturday || cell.Weekday == time.Thursday:
		open = "-"
		clos = "-"
		mid = strings.Join(cell.Shifts[model.ShiftMid], ", ")
	default:
		open = strings.Join(cell.Shifts[model.ShiftOpen], ", ")
		mid = strings.Join(cell.Shifts[model.ShiftMid], ", ")
		clos = strings.Join(cell.Shifts[model.ShiftClose], ", ")
	}

	var onPTO []string
	for i := range providers {
		p := &providers[i]
		if p.Location != loc && !p.IsFloating() {
			continue
		}
		if p.OnPTO(cell.Date) {
			onPTO = append(onPTO, p.Name)
		}
	}

	return []interface{}{date, day, open, mid, clos, strings.Join(onPTO, ", ")}
}
