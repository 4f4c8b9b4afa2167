package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/xuri/excelize/v2"
)

const (
	ScheduleSheet   = "Schedule"
	IndividualSheet = "Individual"
	OverallSheet    = "Overall"
)

// OutputName builds a date-stamped file name such as schedule_2024-04-12.xlsx
func OutputName(prefix string, day time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, day.Format("2006-01-02"))
}

// ScheduleHeader returns the schedule columns for the given slot count
func ScheduleHeader(slots int) []string {
	header := []string{"Date", "Timeslot", "Location"}
	for i := 0; i < slots; i++ {
		header = append(header, fmt.Sprintf("Student %d", i+1))
	}
	return append(header, "Students", "Available Students")
}

func scheduleRecord(e models.ScheduleEntry) []string {
	rec := []string{e.Shift.Date, e.Shift.TimeRange, e.Shift.Location}
	rec = append(rec, e.Slots...)
	return append(rec, e.Students(), e.AvailableList())
}

// WriteScheduleCSV writes the schedule with one row per shift
func WriteScheduleCSV(w io.Writer, schedule models.Schedule, slots int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleHeader(slots)); err != nil {
		return err
	}
	for _, e := range schedule {
		if err := cw.Write(scheduleRecord(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWorkbook writes the schedule and both statistics tables as an Excel workbook
func WriteWorkbook(w io.Writer, res *scheduler.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return err
	}
	rows := [][]any{toRow(ScheduleHeader(res.Options.Slots))}
	for _, e := range res.Schedule {
		rows = append(rows, toRow(scheduleRecord(e)))
	}
	if err := writeRows(f, ScheduleSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Student", "Applied", "Assigned", "Rate (%)"}}
	for _, s := range res.Individual {
		rows = append(rows, []any{s.Student, s.Applied, s.Assigned, s.Rate})
	}
	if _, err := f.NewSheet(IndividualSheet); err != nil {
		return err
	}
	if err := writeRows(f, IndividualSheet, rows); err != nil {
		return err
	}

	rows = [][]any{
		{"Mean Assigned", "Variance Assigned", "Std Dev Assigned", "Seed"},
		{res.Overall.Mean, res.Overall.Variance, res.Overall.StdDev, strconv.FormatInt(res.Seed, 10)},
	}
	if _, err := f.NewSheet(OverallSheet); err != nil {
		return err
	}
	if err := writeRows(f, OverallSheet, rows); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func toRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
