package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const availabilityCSV = "\ufeffShift,Aki,Ben,Chika\n" +
	"4/12 (土) 10:00 - 12:00 (Main Hall),○,,○\n" +
	"4/12 (土) 13:00 - 15:00 (Annex),×,○\n" +
	"4/13 (日) 10:00 - 12:00 (Main Hall), ○ ,○,○\n"

func TestReadAvailability(t *testing.T) {
	table, err := ReadAvailability(strings.NewReader(availabilityCSV))
	require.NoError(t, err)

	assert.Equal(t, "Shift", table.Header)
	assert.Equal(t, []string{"Aki", "Ben", "Chika"}, table.Students)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"×", "○", ""}, table.Rows[1].Cells)
	assert.Equal(t, []string{"○", "○", "○"}, table.Rows[2].Cells)

	applied := scheduler.CountAppliedShifts(table, scheduler.DefaultPresenceMarker)
	assert.Equal(t, map[string]int{"Aki": 2, "Ben": 2, "Chika": 2}, applied)
}

func TestReadAvailability_UnnamedColumns(t *testing.T) {
	table, err := ReadAvailability(strings.NewReader(
		"Shift,Aki,,Ben,\n" +
			"4/12 (土) 10:00 - 12:00 (Main Hall),○,○,○,○\n" +
			"4/13 (日) 10:00 - 12:00 (Main Hall),,,○\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Aki", "Ben"}, table.Students)
	assert.Equal(t, []string{"○", "○"}, table.Rows[0].Cells)
	assert.Equal(t, []string{"", "○"}, table.Rows[1].Cells)
	assert.NoError(t, scheduler.CheckStudents(table.Students))
}

func TestReadAvailability_Empty(t *testing.T) {
	_, err := ReadAvailability(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func TestReadRoster(t *testing.T) {
	in := "Nickname,IsNewbie,Language\nAki,1,ja\nBen,,en\nChika,0.0,\n,1,en\n"

	roster, err := ReadRoster(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, models.Roster{
		"Aki":   {Nickname: "Aki", IsNewbie: true, Language: "ja"},
		"Ben":   {Nickname: "Ben", IsNewbie: false, Language: "en"},
		"Chika": {Nickname: "Chika", IsNewbie: false},
	}, roster)
}

func TestReadRoster_Errors(t *testing.T) {
	_, err := ReadRoster(strings.NewReader("Name,Language\nAki,ja\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ReadRoster(strings.NewReader("Nickname,IsNewbie\nAki,yes\n"))
	assert.Error(t, err)

	_, err = ReadRoster(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func sampleResult(t *testing.T) *scheduler.Result {
	t.Helper()
	table, err := ReadAvailability(strings.NewReader(availabilityCSV))
	require.NoError(t, err)
	opts := scheduler.DefaultOptions()
	opts.Seed = 3
	opts.MaxPct = 1
	res, err := scheduler.Run(table, nil, opts, nil)
	require.NoError(t, err)
	return res
}

func TestWriteScheduleCSV(t *testing.T) {
	schedule := models.Schedule{{
		Shift:     models.ShiftKey{Date: "4/12", TimeRange: "10:00 - 12:00", Location: "Main Hall"},
		Slots:     []string{"Aki", ""},
		Available: []string{"Aki", "Chika"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, schedule, 2))

	assert.Equal(t,
		"Date,Timeslot,Location,Student 1,Student 2,Students,Available Students\n"+
			"4/12,10:00 - 12:00,Main Hall,Aki,,Aki,\"Aki, Chika\"\n",
		buf.String())
}

func TestWriteWorkbook(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ScheduleSheet, IndividualSheet, OverallSheet}, f.GetSheetList())

	rows, err := f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(res.Schedule)+1)
	assert.Equal(t, ScheduleHeader(2), rows[0])
	assert.Equal(t, "4/12", rows[1][0])
	assert.Equal(t, "Main Hall", rows[1][2])

	rows, err = f.GetRows(IndividualSheet)
	require.NoError(t, err)
	assert.Len(t, rows, len(res.Individual)+1)

	seed, err := f.GetCellValue(OverallSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "3", seed)
}

func TestOutputName(t *testing.T) {
	day := time.Date(2024, 4, 12, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "schedule_2024-04-12.xlsx", OutputName("schedule", day))
}
