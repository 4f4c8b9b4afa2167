package scheduler

import (
	"testing"

	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatistics(t *testing.T) {
	schedule := models.Schedule{entry("A", "B"), entry("A", ""), entry("", "")}
	// C applied but was never placed; D never applied at all.
	applied := map[string]int{"A": 2, "B": 2, "C": 1, "D": 0}

	individual, overall := CalculateStatistics(schedule, applied)

	assert.Equal(t, []models.IndividualStat{
		{Student: "A", Applied: 2, Assigned: 2, Rate: 100},
		{Student: "B", Applied: 2, Assigned: 1, Rate: 50},
		{Student: "C", Applied: 1, Assigned: 0, Rate: 0},
	}, individual)

	// C is listed above at 0 but left out of the aggregate: only A (2) and B (1) count.
	assert.InDelta(t, 1.5, overall.Mean, 1e-9)
	assert.InDelta(t, 0.25, overall.Variance, 1e-9)
	assert.InDelta(t, 0.5, overall.StdDev, 1e-9)
}

func TestCalculateStatistics_RateRounding(t *testing.T) {
	schedule := models.Schedule{entry("A", "B")}
	individual, _ := CalculateStatistics(schedule, map[string]int{"A": 3, "B": 16})

	require.Len(t, individual, 2)
	assert.Equal(t, 33.3, individual[0].Rate)
	// 6.25 rounds half to even.
	assert.Equal(t, 6.2, individual[1].Rate)
}

func TestCalculateStatistics_AssignedWithoutApplication(t *testing.T) {
	individual, _ := CalculateStatistics(models.Schedule{entry("X", "")}, map[string]int{})

	require.Len(t, individual, 1)
	assert.Equal(t, models.IndividualStat{Student: "X", Applied: 0, Assigned: 1, Rate: 0}, individual[0])
}

func TestCalculateStatistics_Empty(t *testing.T) {
	individual, overall := CalculateStatistics(nil, map[string]int{"A": 0})

	assert.Empty(t, individual)
	assert.Equal(t, models.OverallStats{}, overall)
}

func TestCalculateStatistics_Idempotent(t *testing.T) {
	schedule := models.Schedule{entry("A", "B"), entry("C", "A"), entry("B", "")}
	applied := map[string]int{"A": 4, "B": 3, "C": 2}

	i1, o1 := CalculateStatistics(schedule, applied)
	i2, o2 := CalculateStatistics(schedule, applied)

	assert.Equal(t, i1, i2)
	assert.Equal(t, o1, o2)
}
