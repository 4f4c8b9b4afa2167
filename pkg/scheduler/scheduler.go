package scheduler

import (
	"math"
	"math/rand"
	"sort"

	"github.com/arnavshah/student-rota/pkg/models"
	"go.uber.org/zap"
)

// Allocator handles the logic of assigning students to shifts
type Allocator struct {
	Ranges map[string]models.AssignmentRange
	Slots  int

	rng    *rand.Rand
	logger *zap.Logger
}

// NewAllocator creates a new allocator drawing tie-breaks from rng
func NewAllocator(ranges map[string]models.AssignmentRange, slots int, rng *rand.Rand) *Allocator {
	return &Allocator{
		Ranges: ranges,
		Slots:  slots,
		rng:    rng,
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used to report under-filled shifts
func (a *Allocator) WithLogger(l *zap.Logger) *Allocator {
	if l != nil {
		a.logger = l
	}
	return a
}

// MaxShifts returns the ceiling for a student. Students without a range are unconstrained.
func (a *Allocator) MaxShifts(student string) int {
	if r, ok := a.Ranges[student]; ok {
		return r.Max
	}
	return math.MaxInt
}

type dayKey struct {
	student string
	date    string
}

// allocationState is owned by a single Allocate call
type allocationState struct {
	counts  map[string]int
	daily   map[dayKey]string
	history map[string][]models.ShiftKey
}

func newAllocationState(ranges map[string]models.AssignmentRange) *allocationState {
	counts := make(map[string]int, len(ranges))
	for student := range ranges {
		counts[student] = 0
	}
	return &allocationState{
		counts:  counts,
		daily:   make(map[dayKey]string),
		history: make(map[string][]models.ShiftKey),
	}
}

// fitsDay checks the same-day-location lock
func (s *allocationState) fitsDay(student string, shift models.ShiftKey) bool {
	loc, ok := s.daily[dayKey{student, shift.Date}]
	return !ok || loc == shift.Location
}

func (s *allocationState) assign(student string, shift models.ShiftKey) {
	s.counts[student]++
	s.history[student] = append(s.history[student], shift)
	k := dayKey{student, shift.Date}
	if _, ok := s.daily[k]; !ok {
		s.daily[k] = shift.Location
	}
}

// Allocation is the outcome of one allocator run
type Allocation struct {
	Schedule    models.Schedule
	ShiftCounts map[string]int
	History     map[string][]models.ShiftKey
	UnderFilled []models.ShiftKey

	daily map[dayKey]string
}

// DailyLocation returns the location a student was locked to on a date
func (al *Allocation) DailyLocation(student, date string) (string, bool) {
	loc, ok := al.daily[dayKey{student, date}]
	return loc, ok
}

// Allocate fills every shift in order, fewest-assigned students first.
// Minimum targets are not enforced; only the max ceiling and the daily location lock are.
func (a *Allocator) Allocate(shifts []models.ShiftAvailability) *Allocation {
	state := newAllocationState(a.Ranges)
	schedule := make(models.Schedule, 0, len(shifts))
	var underFilled []models.ShiftKey

	for _, sh := range shifts {
		candidates := append([]string(nil), sh.Students...)
		a.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			return state.counts[candidates[i]] < state.counts[candidates[j]]
		})

		slots := make([]string, 0, a.Slots)
		placed := make(map[string]bool, a.Slots)
		for _, student := range candidates {
			if len(slots) >= a.Slots {
				break
			}
			// "" marks an unfilled slot and can never be a candidate
			if student == "" || placed[student] {
				continue
			}
			if state.counts[student] >= a.MaxShifts(student) {
				continue
			}
			if !state.fitsDay(student, sh.Shift) {
				continue
			}
			slots = append(slots, student)
			placed[student] = true
			state.assign(student, sh.Shift)
		}

		if missing := a.Slots - len(slots); missing > 0 {
			underFilled = append(underFilled, sh.Shift)
			a.logger.Debug("shift under-filled",
				zap.Stringer("shift", sh.Shift),
				zap.Int("available", len(sh.Students)),
				zap.Int("unfilled", missing))
			for i := 0; i < missing; i++ {
				slots = append(slots, "")
			}
		}

		schedule = append(schedule, models.ScheduleEntry{
			Shift:     sh.Shift,
			Slots:     slots,
			Available: append([]string(nil), sh.Students...),
		})
	}

	return &Allocation{
		Schedule:    schedule,
		ShiftCounts: state.counts,
		History:     state.history,
		UnderFilled: underFilled,
		daily:       state.daily,
	}
}
