package attendance

import (
	"context"
	"time"
)

// AttendanceDayRepository defines data access for attendance day records.
// All methods take companyID to prevent cross-tenant access.
type AttendanceDayRepository interface {
	// Create inserts a new day record. The (company, employee, date) key
	// is unique; a concurrent insert surfaces as ErrDayConflict.
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// GetByID retrieves a day with its breaks.
	GetByID(ctx context.Context, id string, companyID string) (AttendanceDay, error)

	// GetByEmployeeAndDate retrieves the day record with its breaks, or
	// nil when no record exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*AttendanceDay, error)

	// LockByEmployeeAndDate is GetByEmployeeAndDate with a row lock; it
	// must run inside a transaction. Concurrent mutations of the same
	// day serialize on this lock.
	LockByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*AttendanceDay, error)

	// Update persists clock fields, derived metrics and status.
	Update(ctx context.Context, day AttendanceDay) error

	// SetStatus overwrites the derived status, used by leave approval to
	// stamp covered days as leave.
	SetStatus(ctx context.Context, employeeID string, date time.Time, companyID string, status DayStatus) error

	// List retrieves day records with filters and pagination.
	List(ctx context.Context, filter DayFilter, companyID string) ([]AttendanceDay, int64, error)
}

// BreakRepository defines data access for breaks belonging to a day.
type BreakRepository interface {
	Create(ctx context.Context, b Break) (Break, error)
	Update(ctx context.Context, b Break) error
	ListByDay(ctx context.Context, attendanceDayID string) ([]Break, error)
}
