package attendance

import (
	"time"

	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK EVENT DTOs
// ========================================

type ClockAction string

const (
	ActionClockIn  ClockAction = "clock-in"
	ActionClockOut ClockAction = "clock-out"
	ActionBreakIn  ClockAction = "break-in"
	ActionBreakOut ClockAction = "break-out"
)

// ClockEventRequest records one clock or break event for the calling
// employee. At is optional; when empty the server clock is used.
type ClockEventRequest struct {
	Action    ClockAction `json:"action"`
	BreakType string      `json:"break_type,omitempty"`
	At        string      `json:"at,omitempty"` // RFC3339
}

func (r *ClockEventRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Action {
	case ActionClockIn, ActionClockOut:
		if r.BreakType != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "break_type",
				Message: "break_type is only valid for break actions",
			})
		}
	case ActionBreakIn, ActionBreakOut:
		if r.BreakType != string(BreakLunch) && r.BreakType != string(BreakExternal) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_type",
				Message: "break_type must be 'lunch' or 'external'",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of clock-in, clock-out, break-in, break-out",
		})
	}

	if r.At != "" {
		if _, ok := validator.IsValidDateTime(r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EventMoment resolves the effective instant of the event in UTC.
func (r *ClockEventRequest) EventMoment(now time.Time) time.Time {
	if r.At == "" {
		return now.UTC()
	}
	t, ok := validator.IsValidDateTime(r.At)
	if !ok {
		return now.UTC()
	}
	return t.UTC()
}

// ========================================
// RESPONSE DTOs
// ========================================

type BreakResponse struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type AttendanceDayResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	EmployeeName         *string         `json:"employee_name,omitempty"`
	Date                 string          `json:"date"`
	ClockIn              *string         `json:"clock_in,omitempty"`
	ClockOut             *string         `json:"clock_out,omitempty"`
	Breaks               []BreakResponse `json:"breaks"`
	NetMinutes           int             `json:"net_minutes"`
	LateMinutes          int             `json:"late_minutes"`
	EarlyLeaveMinutes    int             `json:"early_leave_minutes"`
	OvertimeMinutes      int             `json:"overtime_minutes"`
	ExternalBreakMinutes int             `json:"external_break_minutes"`
	LunchExcessMinutes   int             `json:"lunch_excess_minutes"`
	Status               string          `json:"status"`
}

type ListAttendanceResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
	Days       []AttendanceDayResponse `json:"days"`
}

// ========================================
// FILTER DTOs
// ========================================

type DayFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

func (f *DayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be YYYY-MM-DD",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be YYYY-MM-DD",
			})
		}
	}

	if f.Status != nil && *f.Status != "" {
		statuses := []string{
			string(StatusPresent), string(StatusHalfDay), string(StatusLeave),
			string(StatusAbsent), string(StatusHoliday), string(StatusOpen),
		}
		if !validator.IsInSlice(*f.Status, statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be a known attendance status",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
