package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/arnavshah/student-rota/pkg/models"
	"go.uber.org/zap"
)

// DefaultPresenceMarker is the cell value meaning "available" on the sign-up sheet
const DefaultPresenceMarker = "○"

var (
	// ErrInvalidOptions is returned when the range bounds or slot count are out of range
	ErrInvalidOptions = errors.New("invalid rota options")
	// ErrInvalidStudents is returned when the sheet header has a blank or repeated student name
	ErrInvalidStudents = errors.New("invalid student columns")
)

// Options configures one rota run
type Options struct {
	MinPct float64 `json:"min_pct"`
	MaxPct float64 `json:"max_pct"`
	Slots  int     `json:"slots"`
	Marker string  `json:"marker"`
	// Seed drives every random choice. Zero picks a time-based seed.
	Seed int64 `json:"seed,string"`
}

// DefaultOptions returns the bounds used when nothing is configured
func DefaultOptions() Options {
	return Options{MinPct: 0.4, MaxPct: 0.6, Slots: 2, Marker: DefaultPresenceMarker}
}

// Validate checks 0 <= MinPct <= MaxPct <= 1 and Slots >= 1
func (o Options) Validate() error {
	if o.MinPct < 0 || o.MaxPct > 1 || o.MinPct > o.MaxPct {
		return fmt.Errorf("%w: need 0 <= min_pct (%g) <= max_pct (%g) <= 1", ErrInvalidOptions, o.MinPct, o.MaxPct)
	}
	if o.Slots < 1 {
		return fmt.Errorf("%w: slots must be at least 1, got %d", ErrInvalidOptions, o.Slots)
	}
	if o.Marker == "" {
		return fmt.Errorf("%w: presence marker is empty", ErrInvalidOptions)
	}
	return nil
}

// Result carries everything a rota run produced
type Result struct {
	Seed       int64
	Options    Options
	Applied    map[string]int
	Ranges     map[string]models.AssignmentRange
	Allocation *Allocation
	Schedule   models.Schedule
	Individual []models.IndividualStat
	Overall    models.OverallStats
	Warnings   []Warning
}

// FilledSlots counts assigned slots across the schedule
func (r *Result) FilledSlots() int {
	n := 0
	for _, e := range r.Schedule {
		n += len(e.Slots) - e.Unfilled()
	}
	return n
}

// UnfilledSlots counts empty slots across the schedule
func (r *Result) UnfilledSlots() int {
	n := 0
	for _, e := range r.Schedule {
		n += e.Unfilled()
	}
	return n
}

// FillRatio is the share of slots that were filled, 1 for an empty schedule
func (r *Result) FillRatio() float64 {
	total := len(r.Schedule) * r.Options.Slots
	if total == 0 {
		return 1
	}
	return float64(r.FilledSlots()) / float64(total)
}

// WarningMessages renders the warnings for display
func (r *Result) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.String()
	}
	return out
}

// Run counts applications, extracts shifts, allocates, normalizes seat positions and
// computes statistics. A nil roster skips roster checks.
func Run(table *models.AvailabilityTable, roster models.Roster, opts Options, logger *zap.Logger) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := CheckStudents(table.Students); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	applied := CountAppliedShifts(table, opts.Marker)
	ranges := CalculateRanges(applied, opts.MinPct, opts.MaxPct)
	shifts, warnings := ExtractShifts(table, opts.Marker)
	if roster != nil {
		warnings = append(warnings, checkRoster(table.Students, roster)...)
	}
	for _, w := range warnings {
		logger.Warn("rota input warning", zap.String("kind", string(w.Kind)), zap.String("detail", w.String()))
	}

	allocation := NewAllocator(ranges, opts.Slots, rng).WithLogger(logger).Allocate(shifts)
	NewPositionNormalizer(rng).Normalize(allocation.Schedule)
	individual, overall := CalculateStatistics(allocation.Schedule, applied)

	res := &Result{
		Seed:       opts.Seed,
		Options:    opts,
		Applied:    applied,
		Ranges:     ranges,
		Allocation: allocation,
		Schedule:   allocation.Schedule,
		Individual: individual,
		Overall:    overall,
		Warnings:   warnings,
	}
	logger.Info("rota built",
		zap.Int64("seed", res.Seed),
		zap.Int("shifts", len(res.Schedule)),
		zap.Int("filled", res.FilledSlots()),
		zap.Int("unfilled", res.UnfilledSlots()),
		zap.Float64("mean_assigned", overall.Mean))
	return res, nil
}

// CheckStudents rejects blank and repeated nicknames. A blank name would be
// indistinguishable from an unfilled slot.
func CheckStudents(students []string) error {
	seen := make(map[string]bool, len(students))
	for i, s := range students {
		if s == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidStudents, i+1)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate student %q", ErrInvalidStudents, s)
		}
		seen[s] = true
	}
	return nil
}

func checkRoster(students []string, roster models.Roster) []Warning {
	var missing []string
	for _, s := range students {
		if _, ok := roster[s]; !ok {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	warnings := make([]Warning, len(missing))
	for i, s := range missing {
		warnings[i] = Warning{Kind: MissingRosterEntry, Student: s}
	}
	return warnings
}
