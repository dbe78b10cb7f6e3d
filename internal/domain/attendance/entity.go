package attendance

import (
	"time"
)

// DayStatus is the derived attendance status for one calendar day.
type DayStatus string

const (
	StatusPresent DayStatus = "present"
	StatusHalfDay DayStatus = "half_day"
	StatusLeave   DayStatus = "leave"
	StatusAbsent  DayStatus = "absent"
	StatusHoliday DayStatus = "holiday"
	// StatusOpen marks a day with a clock-in but no clock-out yet.
	StatusOpen DayStatus = "open"
)

type BreakType string

const (
	BreakLunch    BreakType = "lunch"
	BreakExternal BreakType = "external"
)

// Break belongs to exactly one AttendanceDay. End is nil while the break
// is still open. Invariant: at most one open break per type per day.
type Break struct {
	ID              string
	AttendanceDayID string
	Type            BreakType
	Start           time.Time
	End             *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the break has not been ended yet.
func (b Break) Open() bool {
	return b.End == nil
}

// AttendanceDay is the single attendance record for one employee on one
// UTC calendar date. The derived metric columns are recomputed after
// every mutation, never edited directly.
type AttendanceDay struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Date       time.Time

	ClockIn  *time.Time
	ClockOut *time.Time
	Breaks   []Break

	NetMinutes           int
	LateMinutes          int
	EarlyLeaveMinutes    int
	OvertimeMinutes      int
	ExternalBreakMinutes int
	LunchExcessMinutes   int
	Status               DayStatus

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// OpenBreak returns the most recently started open break of the given
// type, or nil if none is open.
func (d *AttendanceDay) OpenBreak(t BreakType) *Break {
	var open *Break
	for i := range d.Breaks {
		b := &d.Breaks[i]
		if b.Type != t || !b.Open() {
			continue
		}
		if open == nil || b.Start.After(open.Start) {
			open = b
		}
	}
	return open
}

// ExternalBreak returns the first external break of the day, or nil.
// Corrections of kind BREAK target this break.
func (d *AttendanceDay) ExternalBreak() *Break {
	for i := range d.Breaks {
		if d.Breaks[i].Type == BreakExternal {
			return &d.Breaks[i]
		}
	}
	return nil
}

// Metrics is the output of the time-metric engine. Final is false while
// the day is still open (clock-in without clock-out): the minute counts
// then reflect work so far and Status is provisional.
type Metrics struct {
	NetMinutes           int       `json:"net_minutes"`
	LateMinutes          int       `json:"late_minutes"`
	EarlyLeaveMinutes    int       `json:"early_leave_minutes"`
	OvertimeMinutes      int       `json:"overtime_minutes"`
	ExternalBreakMinutes int       `json:"external_break_minutes"`
	LunchExcessMinutes   int       `json:"lunch_excess_minutes"`
	Status               DayStatus `json:"status"`
	Final                bool      `json:"final"`
}
