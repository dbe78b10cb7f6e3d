package response

import (
	"errors"
	"net/http"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/correction"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/employee"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/user"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Quota failures carry the numbers the client needs to render an
	// actionable message.
	var quotaErr *leave.QuotaExceededError
	if errors.As(err, &quotaErr) {
		UnprocessableEntity(w, "Insufficient leave quota", map[string]string{
			"requested": quotaErr.Requested.String(),
			"consumed":  quotaErr.Consumed.String(),
			"quota":     quotaErr.Quota.String(),
			"remaining": quotaErr.Remaining().String(),
		})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in for this day")
	case errors.Is(err, attendance.ErrClockInRequired):
		Conflict(w, "Clock in first")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out for this day")
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break of this type is already open")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		Conflict(w, "No open break of this type")
	case errors.Is(err, attendance.ErrExternalBreaksDisabled):
		Forbidden(w, "External breaks are disabled by company policy")
	case errors.Is(err, attendance.ErrDayConflict):
		Conflict(w, "Attendance day was created concurrently, retry")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance day not found")

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrCorrectionAlreadyDecided):
		Conflict(w, "Correction request already decided")
	case errors.Is(err, correction.ErrCorrectionNotApproved):
		Conflict(w, "Correction request is not approved")
	case errors.Is(err, correction.ErrNothingProposed):
		BadRequest(w, "Correction proposes no fields", nil)
	case errors.Is(err, correction.ErrNotRequestersManager):
		Forbidden(w, "Not the requester's manager")
	case errors.Is(err, correction.ErrAdminRatificationRequired):
		Forbidden(w, "Admin ratification required")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is not active", nil)
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrHalfDayNotAllowed):
		BadRequest(w, "Half-day leave is not allowed for this leave type", nil)
	case errors.Is(err, leave.ErrQuotaExceeded):
		UnprocessableEntity(w, "Insufficient leave quota", nil)
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting employee may cancel this request")

	// Policy domain errors
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Policy not found")
	case errors.Is(err, policy.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")

	// Employee / authorization errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrMissingClaim):
		Unauthorized(w, "Token is missing a required claim")
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermission):
		Forbidden(w, "Insufficient permission")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
