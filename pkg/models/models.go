package models

import (
	"fmt"
	"strings"
)

// Student represents a roster member who can sign up for shifts
type Student struct {
	Nickname string `json:"nickname"`
	IsNewbie bool   `json:"is_newbie"`
	Language string `json:"language,omitempty"`
}

// Roster maps a nickname to the student's roster entry
type Roster map[string]Student

// ShiftKey identifies one shift slot on the sign-up sheet
type ShiftKey struct {
	Date      string `json:"date"`
	TimeRange string `json:"timeslot"`
	Location  string `json:"location"`
}

func (k ShiftKey) String() string {
	return fmt.Sprintf("%s %s (%s)", k.Date, k.TimeRange, k.Location)
}

// ShiftAvailability pairs a shift with the students who marked it available
type ShiftAvailability struct {
	Shift    ShiftKey `json:"shift"`
	Students []string `json:"students"`
}

// AvailabilityRow is one raw line of the sign-up sheet
type AvailabilityRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// AvailabilityTable is the raw sign-up sheet: one row per shift, one column per student
type AvailabilityTable struct {
	Header   string            `json:"header"`
	Students []string          `json:"students"`
	Rows     []AvailabilityRow `json:"rows"`
}

// AssignmentRange holds a student's target number of assigned shifts
type AssignmentRange struct {
	Applied int `json:"applied"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// ScheduleEntry is one filled shift. An empty slot is unfilled.
type ScheduleEntry struct {
	Shift     ShiftKey `json:"shift"`
	Slots     []string `json:"slots"`
	Available []string `json:"available"`
}

// Students joins the filled slots
func (e ScheduleEntry) Students() string {
	filled := make([]string, 0, len(e.Slots))
	for _, s := range e.Slots {
		if s != "" {
			filled = append(filled, s)
		}
	}
	return strings.Join(filled, ", ")
}

// AvailableList joins the students that were available for the shift
func (e ScheduleEntry) AvailableList() string {
	return strings.Join(e.Available, ", ")
}

// Unfilled counts the empty slots of the entry
func (e ScheduleEntry) Unfilled() int {
	n := 0
	for _, s := range e.Slots {
		if s == "" {
			n++
		}
	}
	return n
}

// Schedule is the ordered list of filled shifts
type Schedule []ScheduleEntry

// IndividualStat reports one student's fulfillment
type IndividualStat struct {
	Student  string  `json:"student"`
	Applied  int     `json:"applied"`
	Assigned int     `json:"assigned"`
	Rate     float64 `json:"rate"`
}

// OverallStats summarises the assigned load across students
type OverallStats struct {
	Mean     float64 `json:"mean_assigned"`
	Variance float64 `json:"variance_assigned"`
	StdDev   float64 `json:"std_dev_assigned"`
}

// AssignResponse is the data structure returned by the assign endpoint
type AssignResponse struct {
	RunID      string           `json:"run_id"`
	Seed       int64            `json:"seed,string"`
	Schedule   Schedule         `json:"schedule"`
	Individual []IndividualStat `json:"individual"`
	Overall    OverallStats     `json:"overall"`
	Unfilled   []ShiftKey       `json:"unfilled_shifts"`
	Warnings   []string         `json:"warnings,omitempty"`
}
