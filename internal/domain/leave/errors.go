package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveTypeInactive     = errors.New("leave type is not active")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrHalfDayNotAllowed     = errors.New("half-day leave is not allowed for this leave type")
	ErrQuotaExceeded         = errors.New("insufficient leave quota")
	ErrNotRequestOwner       = errors.New("only the requesting employee may cancel this request")
)

// QuotaExceededError carries the numbers the caller needs to render an
// actionable rejection message. Unwraps to ErrQuotaExceeded.
type QuotaExceededError struct {
	Requested decimal.Decimal
	Consumed  decimal.Decimal
	Quota     decimal.Decimal
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("insufficient leave quota: requested %s, %s of %s already used (%s remaining)",
		e.Requested, e.Consumed, e.Quota, e.Remaining())
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// Remaining returns quota minus consumed, floored at zero.
func (e *QuotaExceededError) Remaining() decimal.Decimal {
	r := e.Quota.Sub(e.Consumed)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
