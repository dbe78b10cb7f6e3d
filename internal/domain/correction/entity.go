package correction

import (
	"time"
)

// CorrectionStatus is the approval lifecycle state of a request.
// admin_approved and rejected are terminal.
type CorrectionStatus string

const (
	StatusPending         CorrectionStatus = "pending"
	StatusManagerApproved CorrectionStatus = "manager_approved"
	StatusAdminApproved   CorrectionStatus = "admin_approved"
	StatusRejected        CorrectionStatus = "rejected"
)

// Terminal reports whether no further transitions are permitted.
func (s CorrectionStatus) Terminal() bool {
	return s == StatusAdminApproved || s == StatusRejected
}

type CorrectionKind string

const (
	KindClock CorrectionKind = "clock"
	KindBreak CorrectionKind = "break"
)

// CorrectionRequest is a user-submitted edit to historical clock or
// break times for one work date, subject to two-stage approval.
type CorrectionRequest struct {
	ID         string
	CompanyID  string
	EmployeeID string
	WorkDate   time.Time
	Kind       CorrectionKind

	ProposedClockIn    *time.Time
	ProposedClockOut   *time.Time
	ProposedBreakStart *time.Time
	ProposedBreakEnd   *time.Time
	Note               *string

	Status    CorrectionStatus
	ManagerID *string
	AdminID   *string
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}
