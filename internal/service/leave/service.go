package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/user"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/events"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	attendanceDays attendance.AttendanceDayRepository
	hub            *events.Hub
}

func NewLeaveService(
	db *database.DB,
	typeRepo leave.LeaveTypeRepository,
	requestRepo leave.LeaveRequestRepository,
	balanceRepo leave.LeaveBalanceRepository,
	dayRepo attendance.AttendanceDayRepository,
	hub *events.Hub,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                     db,
		LeaveTypeRepository:    typeRepo,
		LeaveRequestRepository: requestRepo,
		LeaveBalanceRepository: balanceRepo,
		attendanceDays:         dayRepo,
		hub:                    hub,
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

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, act.companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}
	if req.IsHalfDay && !leaveType.AllowHalfDay {
		return leave.LeaveRequestResponse{}, leave.ErrHalfDayNotAllowed
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		CompanyID:   act.companyID,
		EmployeeID:  act.employeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start.UTC(),
		EndDate:     end.UTC(),
		IsHalfDay:   req.IsHalfDay,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	created.LeaveTypeName = &leaveType.Name

	s.hub.Publish(act.companyID, events.Event{
		CompanyID: act.companyID,
		Event:     events.EventLeaveRequestSubmitted,
		Data:      map[string]string{"leave_request_id": created.ID, "employee_id": act.employeeID},
	})

	return toLeaveRequestResponse(created), nil
}

// Decide implements leave.LeaveService. An approval re-derives the used
// count from all approved requests of the year while holding an
// advisory lock, so two concurrent approvals cannot both pass the
// quota check or leave a stale counter behind.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if act.role == user.RoleEmployee {
		return leave.LeaveRequestResponse{}, user.ErrManagerAccessRequired
	}

	now := time.Now().UTC()

	var decided leave.LeaveRequest
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.LockByID(txCtx, req.ID, act.companyID)
		if err != nil {
			return err
		}
		if request.Status.Terminal() {
			return leave.ErrLeaveAlreadyProcessed
		}

		deciderID := act.employeeID
		request.DecidedBy = &deciderID
		request.DecidedAt = &now

		if req.Decision == leave.LeaveDecisionReject {
			request.Status = leave.LeaveRequestStatusRejected
			request.RejectionReason = req.RejectionReason
			decided = request
			return s.LeaveRequestRepository.UpdateStatus(txCtx, request)
		}

		if err := s.approve(txCtx, &request); err != nil {
			return err
		}
		decided = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.hub.Publish(act.companyID, events.Event{
		CompanyID: act.companyID,
		Event:     events.EventLeaveRequestDecided,
		Data:      map[string]string{"leave_request_id": decided.ID, "status": string(decided.Status)},
	})

	return toLeaveRequestResponse(decided), nil
}

func (s *LeaveServiceImpl) approve(ctx context.Context, request *leave.LeaveRequest) error {
	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID, request.CompanyID)
	if err != nil {
		return err
	}

	year := request.StartDate.UTC().Year()

	if err := s.LeaveBalanceRepository.AcquireQuotaLock(ctx, request.EmployeeID, request.LeaveTypeID, year); err != nil {
		return err
	}

	quota, err := s.quotaFor(ctx, request.EmployeeID, leaveType, year, request.CompanyID)
	if err != nil {
		return err
	}

	requestDays := request.Days()

	if quota != nil {
		approved, err := s.LeaveRequestRepository.ListOverlappingYear(
			ctx, request.EmployeeID, request.LeaveTypeID, year,
			[]leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved},
			request.CompanyID,
		)
		if err != nil {
			return err
		}

		consumed := consumedDays(approved, year, request.ID)
		if consumed.Add(requestDays).GreaterThan(*quota) {
			return &leave.QuotaExceededError{
				Requested: requestDays,
				Consumed:  consumed,
				Quota:     *quota,
			}
		}

		if _, err := s.LeaveBalanceRepository.Upsert(ctx, leave.LeaveBalance{
			CompanyID:   request.CompanyID,
			EmployeeID:  request.EmployeeID,
			LeaveTypeID: request.LeaveTypeID,
			Year:        year,
			Balance:     *quota,
			Used:        consumed.Add(requestDays),
		}); err != nil {
			return err
		}
	}

	request.Status = leave.LeaveRequestStatusApproved
	if err := s.LeaveRequestRepository.UpdateStatus(ctx, *request); err != nil {
		return err
	}

	// Leave wins over whatever the metric engine would derive for the
	// covered dates.
	for d := utcDate(request.StartDate); !d.After(utcDate(request.EndDate)); d = d.AddDate(0, 0, 1) {
		if err := s.attendanceDays.SetStatus(ctx, request.EmployeeID, d, request.CompanyID, attendance.StatusLeave); err != nil {
			return err
		}
	}

	return nil
}

// Cancel implements leave.LeaveService. Only the requesting employee
// may cancel, and only while the request is still pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{
			{Field: "id", Message: "leave request id must be a valid UUID"},
		}
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()

	var cancelled leave.LeaveRequest
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.LockByID(txCtx, id, act.companyID)
		if err != nil {
			return err
		}
		if request.EmployeeID != act.employeeID {
			return leave.ErrNotRequestOwner
		}
		if request.Status.Terminal() {
			return leave.ErrLeaveAlreadyProcessed
		}

		request.Status = leave.LeaveRequestStatusCancelled
		deciderID := act.employeeID
		request.DecidedBy = &deciderID
		request.DecidedAt = &now

		cancelled = request
		return s.LeaveRequestRepository.UpdateStatus(txCtx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toLeaveRequestResponse(cancelled), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestsResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, err
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

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter, act.companyID)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, err
	}

	resp := leave.ListLeaveRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Requests:   make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, toLeaveRequestResponse(r))
	}

	return resp, nil
}

// CreateLeaveType implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if !act.role.IsAdmin() {
		return leave.LeaveTypeResponse{}, user.ErrOwnerAccessRequired
	}

	var quota *decimal.Decimal
	if req.DefaultAnnualQuota != nil {
		q := decimal.NewFromFloat(*req.DefaultAnnualQuota)
		quota = &q
	}

	created, err := s.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		CompanyID:          act.companyID,
		Name:               req.Name,
		Code:               req.Code,
		DefaultAnnualQuota: quota,
		AllowHalfDay:       req.AllowHalfDay,
		IsActive:           true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	return toLeaveTypeResponse(created), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.LeaveTypeRepository.ListByCompanyID(ctx, act.companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, toLeaveTypeResponse(lt))
	}

	return responses, nil
}

// SetBalance implements leave.LeaveService. Manual quota adjustment;
// the used count is preserved, not reset.
func (s *LeaveServiceImpl) SetBalance(ctx context.Context, req leave.SetBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if !act.role.IsAdmin() {
		return leave.BalanceResponse{}, user.ErrOwnerAccessRequired
	}

	used := decimal.Zero
	existing, err := s.LeaveBalanceRepository.Get(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, act.companyID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if existing != nil {
		used = existing.Used
	}

	balance, err := s.LeaveBalanceRepository.Upsert(ctx, leave.LeaveBalance{
		CompanyID:   act.companyID,
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        req.Year,
		Balance:     decimal.NewFromFloat(req.Balance),
		Used:        used,
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	return toBalanceResponse(balance.EmployeeID, balance.LeaveTypeID, balance.Year, &balance.Balance, balance.Used), nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.BalanceResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	if employeeID == "" {
		employeeID = act.employeeID
	}
	if employeeID != act.employeeID && act.role == user.RoleEmployee {
		return leave.BalanceResponse{}, user.ErrManagerAccessRequired
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID, act.companyID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	quota, err := s.quotaFor(ctx, employeeID, leaveType, year, act.companyID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	approved, err := s.LeaveRequestRepository.ListOverlappingYear(
		ctx, employeeID, leaveTypeID, year,
		[]leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved},
		act.companyID,
	)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	used := consumedDays(approved, year, "")

	return toBalanceResponse(employeeID, leaveTypeID, year, quota, used), nil
}

func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func toLeaveRequestResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveTypeID:     r.LeaveTypeID,
		LeaveTypeName:   r.LeaveTypeName,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		IsHalfDay:       r.IsHalfDay,
		Days:            r.Days().String(),
		Reason:          r.Reason,
		Status:          string(r.Status),
		DecidedBy:       r.DecidedBy,
		DecidedAt:       formatTimePtr(r.DecidedAt),
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toLeaveTypeResponse(lt leave.LeaveType) leave.LeaveTypeResponse {
	var quota *string
	if lt.DefaultAnnualQuota != nil {
		q := lt.DefaultAnnualQuota.String()
		quota = &q
	}
	return leave.LeaveTypeResponse{
		ID:                 lt.ID,
		Name:               lt.Name,
		Code:               lt.Code,
		DefaultAnnualQuota: quota,
		AllowHalfDay:       lt.AllowHalfDay,
		IsActive:           lt.IsActive,
	}
}

func toBalanceResponse(employeeID, leaveTypeID string, year int, quota *decimal.Decimal, used decimal.Decimal) leave.BalanceResponse {
	resp := leave.BalanceResponse{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Used:        used.String(),
	}
	if quota != nil {
		balance := quota.String()
		resp.Balance = &balance
		remaining := quota.Sub(used)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		remainingStr := remaining.String()
		resp.Remaining = &remainingStr
	}
	return resp
}
