package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shift(date, location string, students ...string) models.ShiftAvailability {
	return models.ShiftAvailability{
		Shift:    models.ShiftKey{Date: date, TimeRange: "10:00 - 12:00", Location: location},
		Students: students,
	}
}

func unbounded(students ...string) map[string]models.AssignmentRange {
	ranges := make(map[string]models.AssignmentRange, len(students))
	for _, s := range students {
		ranges[s] = models.AssignmentRange{Applied: 10, Min: 0, Max: 10}
	}
	return ranges
}

func TestAllocate_TwoStudentsOneShift(t *testing.T) {
	ranges := map[string]models.AssignmentRange{
		"A": {Applied: 1, Min: 0, Max: 1},
		"B": {Applied: 1, Min: 0, Max: 1},
	}

	for seed := int64(1); seed <= 10; seed++ {
		al := NewAllocator(ranges, 2, rand.New(rand.NewSource(seed))).
			Allocate([]models.ShiftAvailability{shift("4/1", "Hall", "A", "B")})

		require.Len(t, al.Schedule, 1)
		assert.ElementsMatch(t, []string{"A", "B"}, al.Schedule[0].Slots)
		assert.Zero(t, al.Schedule[0].Unfilled())
		assert.Empty(t, al.UnderFilled)
		assert.Equal(t, []string{"A", "B"}, al.Schedule[0].Available)
	}
}

func TestAllocate_MoreCandidatesThanSlots(t *testing.T) {
	ranges := unbounded("A", "B", "C")
	al := NewAllocator(ranges, 2, rand.New(rand.NewSource(7))).
		Allocate([]models.ShiftAvailability{shift("4/1", "Hall", "A", "B", "C")})

	row := al.Schedule[0]
	require.Len(t, row.Slots, 2)
	assert.NotEqual(t, row.Slots[0], row.Slots[1])
	assert.Zero(t, row.Unfilled())

	total := 0
	for s, n := range al.ShiftCounts {
		assert.LessOrEqual(t, n, ranges[s].Max)
		total += n
	}
	assert.Equal(t, 2, total)
}

func TestAllocate_SameDayDifferentLocation(t *testing.T) {
	shifts := []models.ShiftAvailability{
		shift("4/1", "L1", "A"),
		{Shift: models.ShiftKey{Date: "4/1", TimeRange: "13:00 - 15:00", Location: "L2"}, Students: []string{"A"}},
	}

	al := NewAllocator(unbounded("A"), 2, rand.New(rand.NewSource(3))).Allocate(shifts)

	assert.Equal(t, []string{"A", ""}, al.Schedule[0].Slots)
	assert.Equal(t, []string{"", ""}, al.Schedule[1].Slots)
	assert.Equal(t, 1, al.ShiftCounts["A"])
	loc, ok := al.DailyLocation("A", "4/1")
	require.True(t, ok)
	assert.Equal(t, "L1", loc)
}

func TestAllocate_SameDaySameLocation(t *testing.T) {
	shifts := []models.ShiftAvailability{
		shift("4/1", "L1", "A"),
		{Shift: models.ShiftKey{Date: "4/1", TimeRange: "13:00 - 15:00", Location: "L1"}, Students: []string{"A"}},
		shift("4/2", "L2", "A"),
	}

	al := NewAllocator(unbounded("A"), 1, rand.New(rand.NewSource(3))).Allocate(shifts)

	assert.Equal(t, 3, al.ShiftCounts["A"])
	assert.Len(t, al.History["A"], 3)
}

func TestAllocate_EmptyShift(t *testing.T) {
	al := NewAllocator(nil, 3, rand.New(rand.NewSource(1))).
		Allocate([]models.ShiftAvailability{shift("4/1", "Hall")})

	require.Len(t, al.Schedule, 1)
	assert.Equal(t, []string{"", "", ""}, al.Schedule[0].Slots)
	assert.Equal(t, "", al.Schedule[0].Students())
	assert.Equal(t, []models.ShiftKey{al.Schedule[0].Shift}, al.UnderFilled)
}

func TestAllocate_MissingRangeIsUnbounded(t *testing.T) {
	var shifts []models.ShiftAvailability
	for d := 1; d <= 5; d++ {
		shifts = append(shifts, shift(fmt.Sprintf("4/%d", d), "Hall", "ghost"))
	}

	al := NewAllocator(map[string]models.AssignmentRange{}, 1, rand.New(rand.NewSource(1))).Allocate(shifts)

	assert.Equal(t, 5, al.ShiftCounts["ghost"])
}

func TestAllocate_MaxCeiling(t *testing.T) {
	ranges := map[string]models.AssignmentRange{"A": {Applied: 3, Min: 1, Max: 1}}
	shifts := []models.ShiftAvailability{
		shift("4/1", "Hall", "A"),
		shift("4/2", "Hall", "A"),
		shift("4/3", "Hall", "A"),
	}

	al := NewAllocator(ranges, 1, rand.New(rand.NewSource(1))).Allocate(shifts)

	assert.Equal(t, 1, al.ShiftCounts["A"])
	assert.Len(t, al.UnderFilled, 2)
}

// Minimum targets are a reported outcome, not a constraint: one student ends below its minimum.
func TestAllocate_MinimumNotEnforced(t *testing.T) {
	ranges := map[string]models.AssignmentRange{
		"A": {Applied: 1, Min: 1, Max: 1},
		"B": {Applied: 1, Min: 1, Max: 1},
	}

	al := NewAllocator(ranges, 1, rand.New(rand.NewSource(1))).
		Allocate([]models.ShiftAvailability{shift("4/1", "Hall", "A", "B")})

	below := 0
	for s, n := range al.ShiftCounts {
		if n < ranges[s].Min {
			below++
		}
	}
	assert.Equal(t, 1, below)
	assert.Zero(t, al.Schedule[0].Unfilled())
}

func TestAllocate_FewestAssignedFirst(t *testing.T) {
	shifts := []models.ShiftAvailability{
		shift("4/1", "Hall", "A"),
		shift("4/2", "Hall", "A"),
		shift("4/3", "Hall", "A", "B", "C"),
	}

	for seed := int64(1); seed <= 20; seed++ {
		al := NewAllocator(unbounded("A", "B", "C"), 2, rand.New(rand.NewSource(seed))).Allocate(shifts)
		assert.ElementsMatch(t, []string{"B", "C"}, al.Schedule[2].Slots, "seed %d", seed)
	}
}

func TestAllocate_SameSeedSameSchedule(t *testing.T) {
	shifts := randomShifts(rand.New(rand.NewSource(99)), 30, 12)
	ranges := unbounded(studentNames(12)...)

	a := NewAllocator(ranges, 2, rand.New(rand.NewSource(5))).Allocate(shifts)
	b := NewAllocator(ranges, 2, rand.New(rand.NewSource(5))).Allocate(shifts)

	assert.Equal(t, a.Schedule, b.Schedule)
}

func TestAllocate_Invariants(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		gen := rand.New(rand.NewSource(seed))
		students := studentNames(10)
		shifts := randomShifts(gen, 25, len(students))
		// every candidate listed twice
		for i := range shifts {
			shifts[i].Students = append(shifts[i].Students, shifts[i].Students...)
		}
		ranges := make(map[string]models.AssignmentRange)
		for _, s := range students {
			ranges[s] = models.AssignmentRange{Applied: 6, Min: 0, Max: gen.Intn(5)}
		}

		al := NewAllocator(ranges, 2, rand.New(rand.NewSource(seed))).Allocate(shifts)

		for s, n := range al.ShiftCounts {
			assert.LessOrEqual(t, n, ranges[s].Max, "seed %d student %s", seed, s)
		}
		short := 0
		for _, row := range al.Schedule {
			if row.Unfilled() > 0 {
				short++
			}
		}
		assert.Len(t, al.UnderFilled, short, "seed %d", seed)
		for _, row := range al.Schedule {
			require.Len(t, row.Slots, 2)
			seen := map[string]bool{}
			for _, s := range row.Slots {
				if s == "" {
					continue
				}
				assert.False(t, seen[s], "seed %d: %s twice in %v", seed, s, row.Shift)
				seen[s] = true
				assert.Contains(t, row.Available, s)
			}
		}
		for s, history := range al.History {
			locations := map[string]string{}
			for _, k := range history {
				if prev, ok := locations[k.Date]; ok {
					assert.Equal(t, prev, k.Location, "seed %d student %s date %s", seed, s, k.Date)
				}
				locations[k.Date] = k.Location
			}
		}
	}
}

func studentNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("s%02d", i)
	}
	return names
}

func TestAllocate_RepeatedCandidate(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		al := NewAllocator(unbounded("A", "B"), 2, rand.New(rand.NewSource(seed))).
			Allocate([]models.ShiftAvailability{shift("4/1", "Hall", "A", "A")})

		assert.ElementsMatch(t, []string{"A", ""}, al.Schedule[0].Slots)
		assert.Equal(t, 1, al.ShiftCounts["A"])
		assert.Len(t, al.UnderFilled, 1)
	}
}

func TestAllocate_BlankCandidate(t *testing.T) {
	al := NewAllocator(unbounded("B"), 2, rand.New(rand.NewSource(3))).
		Allocate([]models.ShiftAvailability{shift("4/1", "Hall", "", "B")})

	assert.ElementsMatch(t, []string{"B", ""}, al.Schedule[0].Slots)
	assert.Equal(t, 1, al.Schedule[0].Unfilled())
	assert.Len(t, al.UnderFilled, 1)
	assert.NotContains(t, al.ShiftCounts, "")
}

func randomShifts(gen *rand.Rand, n, students int) []models.ShiftAvailability {
	names := studentNames(students)
	locations := []string{"North", "South", "East"}
	shifts := make([]models.ShiftAvailability, 0, n)
	for i := 0; i < n; i++ {
		var avail []string
		for _, s := range names {
			if gen.Intn(3) == 0 {
				avail = append(avail, s)
			}
		}
		shifts = append(shifts, models.ShiftAvailability{
			Shift: models.ShiftKey{
				Date:      fmt.Sprintf("5/%d", 1+i/5),
				TimeRange: fmt.Sprintf("%02d:00 - %02d:00", 9+i%5, 10+i%5),
				Location:  locations[gen.Intn(len(locations))],
			},
			Students: avail,
		})
	}
	return shifts
}
