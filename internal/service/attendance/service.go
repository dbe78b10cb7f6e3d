package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/events"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceDayRepository
	attendance.BreakRepository
	policyStore policy.Store
	hub         *events.Hub
}

func NewAttendanceService(
	db *database.DB,
	dayRepo attendance.AttendanceDayRepository,
	breakRepo attendance.BreakRepository,
	policyStore policy.Store,
	hub *events.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                      db,
		AttendanceDayRepository: dayRepo,
		BreakRepository:         breakRepo,
		policyStore:             policyStore,
		hub:                     hub,
	}
}

// RecordClockEvent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordClockEvent(ctx context.Context, req attendance.ClockEventRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	now := time.Now().UTC()
	at := req.EventMoment(now)
	date := utcDate(at)

	pol, err := a.policyStore.GetPolicy(ctx, companyID)
	if err != nil {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}

	isHoliday, err := a.policyStore.IsHoliday(ctx, companyID, date)
	if err != nil {
		return attendance.AttendanceDayResponse{}, fmt.Errorf("failed to check holiday: %w", err)
	}

	var saved attendance.AttendanceDay
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		// Row lock serializes concurrent events for the same day.
		day, err := a.AttendanceDayRepository.LockByEmployeeAndDate(txCtx, employeeID, date, companyID)
		if err != nil {
			return err
		}

		switch req.Action {
		case attendance.ActionClockIn:
			day, err = a.applyClockIn(txCtx, day, companyID, employeeID, date, at)
		case attendance.ActionClockOut:
			day, err = a.applyClockOut(day, at)
		case attendance.ActionBreakIn:
			day, err = a.applyBreakIn(txCtx, day, pol, attendance.BreakType(req.BreakType), at)
		case attendance.ActionBreakOut:
			day, err = a.applyBreakOut(txCtx, day, attendance.BreakType(req.BreakType), at)
		}
		if err != nil {
			return err
		}

		saved, err = a.saveWithMetrics(txCtx, *day, pol, now, isHoliday)
		return err
	})
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	a.hub.Publish(companyID, events.Event{
		CompanyID: companyID,
		Event:     events.EventClockRecorded,
		Data:      map[string]string{"employee_id": employeeID, "date": date.Format("2006-01-02"), "action": string(req.Action)},
	})

	return toDayResponse(saved), nil
}

func (a *AttendanceServiceImpl) applyClockIn(ctx context.Context, day *attendance.AttendanceDay, companyID, employeeID string, date, at time.Time) (*attendance.AttendanceDay, error) {
	if day != nil && day.ClockIn != nil {
		return nil, attendance.ErrAlreadyClockedIn
	}
	if day == nil {
		created, err := a.AttendanceDayRepository.Create(ctx, attendance.AttendanceDay{
			CompanyID:  companyID,
			EmployeeID: employeeID,
			Date:       date,
			ClockIn:    &at,
			Status:     attendance.StatusOpen,
		})
		if err != nil {
			return nil, err
		}
		return &created, nil
	}
	day.ClockIn = &at
	return day, nil
}

func (a *AttendanceServiceImpl) applyClockOut(day *attendance.AttendanceDay, at time.Time) (*attendance.AttendanceDay, error) {
	if day == nil || day.ClockIn == nil {
		return nil, attendance.ErrClockInRequired
	}
	if day.ClockOut != nil {
		return nil, attendance.ErrAlreadyClockedOut
	}
	// An open break is allowed here; its accrual is capped at the
	// clock-out instant by the metric computation.
	day.ClockOut = &at
	return day, nil
}

func (a *AttendanceServiceImpl) applyBreakIn(ctx context.Context, day *attendance.AttendanceDay, pol policy.Policy, breakType attendance.BreakType, at time.Time) (*attendance.AttendanceDay, error) {
	if day == nil || day.ClockIn == nil {
		return nil, attendance.ErrClockInRequired
	}
	if day.ClockOut != nil {
		return nil, attendance.ErrAlreadyClockedOut
	}
	if breakType == attendance.BreakExternal && !pol.AllowExternalBreaks {
		return nil, attendance.ErrExternalBreaksDisabled
	}
	if day.OpenBreak(breakType) != nil {
		return nil, attendance.ErrBreakAlreadyOpen
	}

	created, err := a.BreakRepository.Create(ctx, attendance.Break{
		AttendanceDayID: day.ID,
		Type:            breakType,
		Start:           at,
	})
	if err != nil {
		return nil, err
	}
	day.Breaks = append(day.Breaks, created)
	return day, nil
}

func (a *AttendanceServiceImpl) applyBreakOut(ctx context.Context, day *attendance.AttendanceDay, breakType attendance.BreakType, at time.Time) (*attendance.AttendanceDay, error) {
	if day == nil || day.ClockIn == nil {
		return nil, attendance.ErrClockInRequired
	}
	open := day.OpenBreak(breakType)
	if open == nil {
		return nil, attendance.ErrNoActiveBreak
	}
	open.End = &at
	if err := a.BreakRepository.Update(ctx, *open); err != nil {
		return nil, err
	}
	return day, nil
}

// saveWithMetrics is the single persistence funnel: every mutation goes
// through it so the stored metrics can never diverge from the stored
// clock state. A leave stamp wins over the computed status.
func (a *AttendanceServiceImpl) saveWithMetrics(ctx context.Context, day attendance.AttendanceDay, pol policy.Policy, now time.Time, isHoliday bool) (attendance.AttendanceDay, error) {
	m := ComputeMetrics(day, pol, now, isHoliday)

	day.NetMinutes = m.NetMinutes
	day.LateMinutes = m.LateMinutes
	day.EarlyLeaveMinutes = m.EarlyLeaveMinutes
	day.OvertimeMinutes = m.OvertimeMinutes
	day.ExternalBreakMinutes = m.ExternalBreakMinutes
	day.LunchExcessMinutes = m.LunchExcessMinutes
	if day.Status != attendance.StatusLeave {
		day.Status = m.Status
	}

	if err := a.AttendanceDayRepository.Update(ctx, day); err != nil {
		return attendance.AttendanceDay{}, err
	}

	return day, nil
}

// GetMetrics implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMetrics(ctx context.Context, employeeID string, date string) (attendance.Metrics, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.Metrics{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return attendance.Metrics{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	if employeeID == "" {
		employeeID, ok = claims["employee_id"].(string)
		if !ok || employeeID == "" {
			return attendance.Metrics{}, fmt.Errorf("employee_id claim is missing or invalid")
		}
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return attendance.Metrics{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	day = utcDate(day)

	pol, err := a.policyStore.GetPolicy(ctx, companyID)
	if err != nil {
		return attendance.Metrics{}, fmt.Errorf("failed to load policy: %w", err)
	}

	isHoliday, err := a.policyStore.IsHoliday(ctx, companyID, day)
	if err != nil {
		return attendance.Metrics{}, fmt.Errorf("failed to check holiday: %w", err)
	}

	record, err := a.AttendanceDayRepository.GetByEmployeeAndDate(ctx, employeeID, day, companyID)
	if err != nil {
		return attendance.Metrics{}, err
	}
	if record == nil {
		record = &attendance.AttendanceDay{CompanyID: companyID, EmployeeID: employeeID, Date: day}
	}

	m := ComputeMetrics(*record, pol, time.Now().UTC(), isHoliday)
	if record.Status == attendance.StatusLeave {
		m.Status = attendance.StatusLeave
	}

	return m, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.DayFilter) (attendance.ListAttendanceResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	filter.EmployeeID = &employeeID
	return a.list(ctx, filter, companyID)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.DayFilter) (attendance.ListAttendanceResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	return a.list(ctx, filter, companyID)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.DayFilter, companyID string) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	days, total, err := a.AttendanceDayRepository.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Days:       make([]attendance.AttendanceDayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, toDayResponse(d))
	}

	return resp, nil
}

// utcDate truncates an instant to its UTC calendar date.
func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func toDayResponse(day attendance.AttendanceDay) attendance.AttendanceDayResponse {
	breaks := make([]attendance.BreakResponse, 0, len(day.Breaks))
	for _, b := range day.Breaks {
		breaks = append(breaks, attendance.BreakResponse{
			ID:    b.ID,
			Type:  string(b.Type),
			Start: b.Start.UTC().Format(time.RFC3339),
			End:   timePtrToString(b.End),
		})
	}

	return attendance.AttendanceDayResponse{
		ID:                   day.ID,
		EmployeeID:           day.EmployeeID,
		EmployeeName:         day.EmployeeName,
		Date:                 day.Date.Format("2006-01-02"),
		ClockIn:              timePtrToString(day.ClockIn),
		ClockOut:             timePtrToString(day.ClockOut),
		Breaks:               breaks,
		NetMinutes:           day.NetMinutes,
		LateMinutes:          day.LateMinutes,
		EarlyLeaveMinutes:    day.EarlyLeaveMinutes,
		OvertimeMinutes:      day.OvertimeMinutes,
		ExternalBreakMinutes: day.ExternalBreakMinutes,
		LunchExcessMinutes:   day.LunchExcessMinutes,
		Status:               string(day.Status),
	}
}
