package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity. DefaultAnnualQuota nil means unlimited.
type LeaveType struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string

	DefaultAnnualQuota *decimal.Decimal
	AllowHalfDay       bool
	IsActive           bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// Terminal reports whether no further transitions are permitted.
func (s LeaveRequestStatus) Terminal() bool {
	return s == LeaveRequestStatusApproved ||
		s == LeaveRequestStatusRejected ||
		s == LeaveRequestStatusCancelled
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	IsHalfDay bool

	Reason *string

	Status          LeaveRequestStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
}

// Days returns the number of leave days this request consumes: 0.5 for
// a half day regardless of span, otherwise the inclusive calendar day
// count with a minimum of 1.
func (r LeaveRequest) Days() decimal.Decimal {
	return LeaveDays(r.StartDate, r.EndDate, r.IsHalfDay)
}

// LeaveDays implements the day-count rule shared by requests and the
// quota engine.
func LeaveDays(start, end time.Time, isHalfDay bool) decimal.Decimal {
	if isHalfDay {
		return decimal.NewFromFloat(0.5)
	}
	s := start.UTC().Truncate(24 * time.Hour)
	e := end.UTC().Truncate(24 * time.Hour)
	days := int64(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return decimal.NewFromInt(days)
}

// OverlapsYear reports whether the [start,end] interval touches the
// given calendar year.
func (r LeaveRequest) OverlapsYear(year int) bool {
	return r.StartDate.UTC().Year() <= year && r.EndDate.UTC().Year() >= year
}

// LeaveBalance is keyed by (company, employee, leave type, year).
// Used is recomputed from approved requests on every approval, never
// incremented, so replays and concurrent approvals cannot drift it.
type LeaveBalance struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	Balance decimal.Decimal
	Used    decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
