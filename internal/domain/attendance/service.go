package attendance

import (
	"context"
)

// AttendanceService defines business logic for clock events and metric
// reads. Tenant and actor identity come from JWT claims in ctx.
type AttendanceService interface {
	// RecordClockEvent applies one clock/break event for the calling
	// employee and returns the refreshed day record.
	RecordClockEvent(ctx context.Context, req ClockEventRequest) (AttendanceDayResponse, error)

	// GetMetrics recomputes metrics for one day; live when still open.
	GetMetrics(ctx context.Context, employeeID string, date string) (Metrics, error)

	// GetMyAttendance retrieves day records for the authenticated employee.
	GetMyAttendance(ctx context.Context, filter DayFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves day records tenant-wide (manager/admin).
	ListAttendance(ctx context.Context, filter DayFilter) (ListAttendanceResponse, error)
}
