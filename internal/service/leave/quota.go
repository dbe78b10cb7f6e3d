package leave

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
)

// quotaFor resolves the annual quota for one (employee, leave type,
// year): an explicit balance row wins, otherwise the leave type's
// default. nil means unlimited.
func (s *LeaveServiceImpl) quotaFor(ctx context.Context, employeeID string, leaveType leave.LeaveType, year int, companyID string) (*decimal.Decimal, error) {
	balance, err := s.LeaveBalanceRepository.Get(ctx, employeeID, leaveType.ID, year, companyID)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		quota := balance.Balance
		return &quota, nil
	}
	return leaveType.DefaultAnnualQuota, nil
}

// consumedDays recomputes consumption for one year from the ground
// truth: the sum of day counts of the given requests, excluding
// excludeID. Never read from a stored counter.
func consumedDays(requests []leave.LeaveRequest, year int, excludeID string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range requests {
		if r.ID == excludeID || !r.OverlapsYear(year) {
			continue
		}
		total = total.Add(r.Days())
	}
	return total
}
