package leave

import (
	"context"
)

// LeaveTypeRepository - interface for the leave_types table.
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]LeaveType, error)
}

// LeaveRequestRepository - interface for the leave_requests table.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	// LockByID is GetByID with a row lock, run inside a transaction.
	LockByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	UpdateStatus(ctx context.Context, request LeaveRequest) error
	List(ctx context.Context, filter LeaveRequestFilter, companyID string) ([]LeaveRequest, int64, error)

	// ListOverlappingYear returns all requests of one employee and leave
	// type whose [start,end] interval touches the given year, with the
	// given statuses. The quota engine recomputes consumption from this.
	ListOverlappingYear(ctx context.Context, employeeID, leaveTypeID string, year int, statuses []LeaveRequestStatus, companyID string) ([]LeaveRequest, error)
}

// LeaveBalanceRepository - interface for the leave_balances table.
type LeaveBalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string, year int, companyID string) (*LeaveBalance, error)
	Upsert(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	// AcquireQuotaLock takes a transaction-scoped advisory lock for the
	// (employee, leave type, year) key so concurrent approvals cannot
	// both pass the quota check.
	AcquireQuotaLock(ctx context.Context, employeeID, leaveTypeID string, year int) error
}

// LeaveService defines the leave workflow surface.
type LeaveService interface {
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestsResponse, error)

	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	SetBalance(ctx context.Context, req SetBalanceRequest) (BalanceResponse, error)
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (BalanceResponse, error)
}
