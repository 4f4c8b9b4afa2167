package scheduler

import (
	"math"
	"sort"

	"github.com/arnavshah/student-rota/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// AssignedCounts tallies how many slots each student fills across the schedule.
// Students that were never placed are absent.
func AssignedCounts(schedule models.Schedule) map[string]int {
	counts := make(map[string]int)
	for _, entry := range schedule {
		for _, student := range entry.Slots {
			if student != "" {
				counts[student]++
			}
		}
	}
	return counts
}

// CalculateStatistics returns the per-student fulfillment table, highest rate first,
// and the population mean, variance and standard deviation of the assigned load.
//
// The overall figures only cover students placed at least once, while the individual
// table also lists applicants with nothing assigned.
func CalculateStatistics(schedule models.Schedule, applied map[string]int) ([]models.IndividualStat, models.OverallStats) {
	assigned := AssignedCounts(schedule)

	students := make(map[string]struct{}, len(applied)+len(assigned))
	for s, n := range applied {
		if n > 0 {
			students[s] = struct{}{}
		}
	}
	for s := range assigned {
		students[s] = struct{}{}
	}

	individual := make([]models.IndividualStat, 0, len(students))
	for s := range students {
		is := models.IndividualStat{Student: s, Applied: applied[s], Assigned: assigned[s]}
		if is.Applied > 0 {
			pct := float64(is.Assigned) / float64(is.Applied) * 100
			is.Rate = math.RoundToEven(pct*10) / 10
		}
		individual = append(individual, is)
	}
	sort.Slice(individual, func(i, j int) bool {
		if individual[i].Rate != individual[j].Rate {
			return individual[i].Rate > individual[j].Rate
		}
		return individual[i].Student < individual[j].Student
	})

	names := make([]string, 0, len(assigned))
	for s := range assigned {
		names = append(names, s)
	}
	sort.Strings(names)
	loads := make([]float64, len(names))
	for i, s := range names {
		loads[i] = float64(assigned[s])
	}

	var overall models.OverallStats
	if len(loads) > 0 {
		overall.Mean, overall.Variance = stat.PopMeanVariance(loads, nil)
		overall.StdDev = math.Sqrt(overall.Variance)
	}
	return individual, overall
}
