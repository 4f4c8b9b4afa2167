package scheduler

import (
	"fmt"
	"regexp"

	"github.com/arnavshah/student-rota/pkg/models"
)

// shiftLabel matches labels such as "4/12 (土) 10:00 - 12:00 (Main Hall)"
var shiftLabel = regexp.MustCompile(`(\d{1,2}/\d{1,2})\s\(.\)\s(\d{2}:\d{2} - \d{2}:\d{2})\s\((.+)\)`)

// WarningKind classifies a non-fatal problem found while building a rota
type WarningKind string

const (
	MalformedShiftLabel WarningKind = "malformed_shift_label"
	DuplicateShift      WarningKind = "duplicate_shift"
	MissingRosterEntry  WarningKind = "missing_roster_entry"
)

// Warning is a recoverable problem. The offending input is skipped or treated leniently.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row,omitempty"`
	Label   string      `json:"label,omitempty"`
	Student string      `json:"student,omitempty"`
}

func (w Warning) String() string {
	switch w.Kind {
	case MalformedShiftLabel:
		return fmt.Sprintf("row %d: no shift found in label %q", w.Row, w.Label)
	case DuplicateShift:
		return fmt.Sprintf("row %d: shift %q repeated, later row wins", w.Row, w.Label)
	case MissingRosterEntry:
		return fmt.Sprintf("student %q is not on the roster, treated as unconstrained", w.Student)
	}
	return string(w.Kind)
}

// ParseShiftLabel extracts the shift key from a sheet label
func ParseShiftLabel(label string) (models.ShiftKey, bool) {
	m := shiftLabel.FindStringSubmatch(label)
	if m == nil {
		return models.ShiftKey{}, false
	}
	return models.ShiftKey{Date: m[1], TimeRange: m[2], Location: m[3]}, true
}

// ExtractShifts turns sheet rows into shifts with their available students, in row order.
// Rows whose label does not parse are skipped and reported.
func ExtractShifts(table *models.AvailabilityTable, marker string) ([]models.ShiftAvailability, []Warning) {
	var (
		shifts   []models.ShiftAvailability
		warnings []Warning
	)
	index := make(map[models.ShiftKey]int)

	for i, row := range table.Rows {
		key, ok := ParseShiftLabel(row.Label)
		if !ok {
			warnings = append(warnings, Warning{Kind: MalformedShiftLabel, Row: i + 1, Label: row.Label})
			continue
		}

		var students []string
		for j, cell := range row.Cells {
			if j < len(table.Students) && cell == marker {
				students = append(students, table.Students[j])
			}
		}

		if pos, seen := index[key]; seen {
			warnings = append(warnings, Warning{Kind: DuplicateShift, Row: i + 1, Label: row.Label})
			shifts[pos].Students = students
			continue
		}
		index[key] = len(shifts)
		shifts = append(shifts, models.ShiftAvailability{Shift: key, Students: students})
	}
	return shifts, warnings
}
