package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/correction"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/employee"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/user"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/events"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
	attendanceservice "github.com/punchcard-hq/punchcard-backend-go/internal/service/attendance"
)

type CorrectionServiceImpl struct {
	db *database.DB
	correction.CorrectionRepository
	attendance.AttendanceDayRepository
	attendance.BreakRepository
	employee.EmployeeRepository
	policyStore policy.Store
	hub         *events.Hub
}

func NewCorrectionService(
	db *database.DB,
	correctionRepo correction.CorrectionRepository,
	dayRepo attendance.AttendanceDayRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.EmployeeRepository,
	policyStore policy.Store,
	hub *events.Hub,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		db:                      db,
		CorrectionRepository:    correctionRepo,
		AttendanceDayRepository: dayRepo,
		BreakRepository:         breakRepo,
		EmployeeRepository:      employeeRepo,
		policyStore:             policyStore,
		hub:                     hub,
	}
}

type actor struct {
	companyID  string
	employeeID string
	role       user.Role
}

func actorFromContext(ctx context.Context) (actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return actor{}, fmt.Errorf("company_id claim is missing or invalid")
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actor{}, fmt.Errorf("employee_id claim is missing or invalid")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return actor{}, fmt.Errorf("role claim is missing or invalid")
	}

	return actor{companyID: companyID, employeeID: employeeID, role: user.Role(role)}, nil
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.CreateCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	workDate, _ := validator.IsValidDate(req.WorkDate)

	created, err := s.CorrectionRepository.Create(ctx, correction.CorrectionRequest{
		CompanyID:          act.companyID,
		EmployeeID:         act.employeeID,
		WorkDate:           workDate.UTC(),
		Kind:               correction.CorrectionKind(req.Kind),
		ProposedClockIn:    parseTimePtr(req.ProposedClockIn),
		ProposedClockOut:   parseTimePtr(req.ProposedClockOut),
		ProposedBreakStart: parseTimePtr(req.ProposedBreakStart),
		ProposedBreakEnd:   parseTimePtr(req.ProposedBreakEnd),
		Note:               req.Note,
		Status:             correction.StatusPending,
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.hub.Publish(act.companyID, events.Event{
		CompanyID: act.companyID,
		Event:     events.EventCorrectionSubmitted,
		Data:      map[string]string{"correction_id": created.ID, "employee_id": act.employeeID},
	})

	return toCorrectionResponse(created), nil
}

// Decide implements correction.CorrectionService. The state transition
// and, for a final approval, the application to the attendance day
// commit in one transaction.
func (s *CorrectionServiceImpl) Decide(ctx context.Context, req correction.DecideCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	now := time.Now().UTC()

	var decided correction.CorrectionRequest
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		c, err := s.CorrectionRepository.LockByID(txCtx, req.ID, act.companyID)
		if err != nil {
			return err
		}
		if c.Status.Terminal() {
			return correction.ErrCorrectionAlreadyDecided
		}

		next, err := s.transition(txCtx, c, act, req.Decision)
		if err != nil {
			return err
		}

		c.Status = next
		c.DecidedAt = &now
		if act.role.IsAdmin() {
			adminID := act.employeeID
			c.AdminID = &adminID
		} else {
			managerID := act.employeeID
			c.ManagerID = &managerID
		}

		if err := s.CorrectionRepository.UpdateStatus(txCtx, c); err != nil {
			return err
		}

		if c.Status == correction.StatusAdminApproved {
			if err := s.apply(txCtx, c, now); err != nil {
				return err
			}
		}

		decided = c
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.hub.Publish(act.companyID, events.Event{
		CompanyID: act.companyID,
		Event:     events.EventCorrectionDecided,
		Data:      map[string]string{"correction_id": decided.ID, "status": string(decided.Status)},
	})

	return toCorrectionResponse(decided), nil
}

// transition resolves the next state for one decision by one actor.
func (s *CorrectionServiceImpl) transition(ctx context.Context, c correction.CorrectionRequest, act actor, decision correction.Decision) (correction.CorrectionStatus, error) {
	if act.role.IsAdmin() {
		// Admin authority decides terminally from any live state.
		if decision == correction.DecisionApprove {
			return correction.StatusAdminApproved, nil
		}
		return correction.StatusRejected, nil
	}

	if act.role != user.RoleManager {
		return "", user.ErrManagerAccessRequired
	}
	if c.Status == correction.StatusManagerApproved {
		return "", correction.ErrAdminRatificationRequired
	}

	manages, err := employee.CanManage(ctx, s.EmployeeRepository, act.employeeID, c.EmployeeID, act.companyID)
	if err != nil {
		return "", err
	}
	if !manages {
		return "", correction.ErrNotRequestersManager
	}

	if decision == correction.DecisionApprove {
		return correction.StatusManagerApproved, nil
	}
	return correction.StatusRejected, nil
}

// apply writes the proposed values onto the attendance day and
// recomputes its metrics. Running it again for the same correction
// converges to the same day state, which is what Reapply relies on.
func (s *CorrectionServiceImpl) apply(ctx context.Context, c correction.CorrectionRequest, now time.Time) error {
	day, err := s.AttendanceDayRepository.LockByEmployeeAndDate(ctx, c.EmployeeID, c.WorkDate, c.CompanyID)
	if err != nil {
		return err
	}
	if day == nil {
		created, err := s.AttendanceDayRepository.Create(ctx, attendance.AttendanceDay{
			CompanyID:  c.CompanyID,
			EmployeeID: c.EmployeeID,
			Date:       c.WorkDate,
			Status:     attendance.StatusAbsent,
		})
		if err != nil {
			return err
		}
		day = &created
	}

	switch c.Kind {
	case correction.KindClock:
		if c.ProposedClockIn == nil && c.ProposedClockOut == nil {
			return correction.ErrNothingProposed
		}
		if c.ProposedClockIn != nil {
			day.ClockIn = c.ProposedClockIn
		}
		if c.ProposedClockOut != nil {
			day.ClockOut = c.ProposedClockOut
		}

	case correction.KindBreak:
		if c.ProposedBreakStart == nil && c.ProposedBreakEnd == nil {
			return correction.ErrNothingProposed
		}
		if err := s.applyBreak(ctx, day, c); err != nil {
			return err
		}
	}

	pol, err := s.policyStore.GetPolicy(ctx, c.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	isHoliday, err := s.policyStore.IsHoliday(ctx, c.CompanyID, c.WorkDate)
	if err != nil {
		return fmt.Errorf("failed to check holiday: %w", err)
	}

	m := attendanceservice.ComputeMetrics(*day, pol, now, isHoliday)
	day.NetMinutes = m.NetMinutes
	day.LateMinutes = m.LateMinutes
	day.EarlyLeaveMinutes = m.EarlyLeaveMinutes
	day.OvertimeMinutes = m.OvertimeMinutes
	day.ExternalBreakMinutes = m.ExternalBreakMinutes
	day.LunchExcessMinutes = m.LunchExcessMinutes
	if day.Status != attendance.StatusLeave {
		day.Status = m.Status
	}

	return s.AttendanceDayRepository.Update(ctx, *day)
}

// applyBreak edits the day's external break, creating one only when the
// day has none. Lunch breaks are never the target of a correction.
func (s *CorrectionServiceImpl) applyBreak(ctx context.Context, day *attendance.AttendanceDay, c correction.CorrectionRequest) error {
	b := day.ExternalBreak()
	if b == nil {
		start := c.WorkDate
		if c.ProposedBreakStart != nil {
			start = *c.ProposedBreakStart
		} else if c.ProposedBreakEnd != nil {
			start = *c.ProposedBreakEnd
		}
		created, err := s.BreakRepository.Create(ctx, attendance.Break{
			AttendanceDayID: day.ID,
			Type:            attendance.BreakExternal,
			Start:           start,
			End:             c.ProposedBreakEnd,
		})
		if err != nil {
			return err
		}
		day.Breaks = append(day.Breaks, created)
		return nil
	}

	if c.ProposedBreakStart != nil {
		b.Start = *c.ProposedBreakStart
	}
	if c.ProposedBreakEnd != nil {
		b.End = c.ProposedBreakEnd
	}
	return s.BreakRepository.Update(ctx, *b)
}

// Reapply implements correction.CorrectionService. Crash recovery for
// an approval whose metric recompute did not land.
func (s *CorrectionServiceImpl) Reapply(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	if !validator.IsValidUUID(id) {
		return correction.CorrectionResponse{}, validator.ValidationErrors{
			{Field: "id", Message: "correction id must be a valid UUID"},
		}
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if !act.role.IsAdmin() {
		return correction.CorrectionResponse{}, user.ErrOwnerAccessRequired
	}

	now := time.Now().UTC()

	var c correction.CorrectionRequest
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		c, err = s.CorrectionRepository.LockByID(txCtx, id, act.companyID)
		if err != nil {
			return err
		}
		if c.Status != correction.StatusAdminApproved {
			return correction.ErrCorrectionNotApproved
		}
		return s.apply(txCtx, c, now)
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return toCorrectionResponse(c), nil
}

// List implements correction.CorrectionService.
func (s *CorrectionServiceImpl) List(ctx context.Context, filter correction.CorrectionFilter) (correction.ListCorrectionsResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return correction.ListCorrectionsResponse{}, err
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	// Employees only see their own requests.
	if act.role == user.RoleEmployee {
		employeeID := act.employeeID
		filter.EmployeeID = &employeeID
	}

	corrections, total, err := s.CorrectionRepository.List(ctx, filter, act.companyID)
	if err != nil {
		return correction.ListCorrectionsResponse{}, err
	}

	resp := correction.ListCorrectionsResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Corrections: make([]correction.CorrectionResponse, 0, len(corrections)),
	}
	for _, c := range corrections {
		resp.Corrections = append(resp.Corrections, toCorrectionResponse(c))
	}

	return resp, nil
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil
	}
	u := t.UTC()
	return &u
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func toCorrectionResponse(c correction.CorrectionRequest) correction.CorrectionResponse {
	return correction.CorrectionResponse{
		ID:                 c.ID,
		EmployeeID:         c.EmployeeID,
		EmployeeName:       c.EmployeeName,
		WorkDate:           c.WorkDate.Format("2006-01-02"),
		Kind:               string(c.Kind),
		ProposedClockIn:    formatTimePtr(c.ProposedClockIn),
		ProposedClockOut:   formatTimePtr(c.ProposedClockOut),
		ProposedBreakStart: formatTimePtr(c.ProposedBreakStart),
		ProposedBreakEnd:   formatTimePtr(c.ProposedBreakEnd),
		Note:               c.Note,
		Status:             string(c.Status),
		ManagerID:          c.ManagerID,
		AdminID:            c.AdminID,
		DecidedAt:          formatTimePtr(c.DecidedAt),
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
