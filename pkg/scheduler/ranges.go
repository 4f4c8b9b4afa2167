package scheduler

import "github.com/arnavshah/student-rota/pkg/models"

// CountAppliedShifts counts, per student, the cells equal to marker across every row
func CountAppliedShifts(table *models.AvailabilityTable, marker string) map[string]int {
	applied := make(map[string]int, len(table.Students))
	for _, student := range table.Students {
		applied[student] = 0
	}
	for _, row := range table.Rows {
		for i, cell := range row.Cells {
			if i < len(table.Students) && cell == marker {
				applied[table.Students[i]]++
			}
		}
	}
	return applied
}

// CalculateRanges derives each student's [min, max] target from the applied count.
// The percentages are validated by the caller.
func CalculateRanges(applied map[string]int, minPct, maxPct float64) map[string]models.AssignmentRange {
	ranges := make(map[string]models.AssignmentRange, len(applied))
	for student, n := range applied {
		ranges[student] = models.AssignmentRange{
			Applied: n,
			Min:     int(minPct * float64(n)),
			Max:     int(maxPct * float64(n)),
		}
	}
	return ranges
}
