package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestConsumedDays(t *testing.T) {
	// 5 days + 3 days + a half day.
	requests := []leave.LeaveRequest{
		{ID: "a", StartDate: day(2026, 2, 2), EndDate: day(2026, 2, 6)},
		{ID: "b", StartDate: day(2026, 5, 11), EndDate: day(2026, 5, 13)},
		{ID: "c", StartDate: day(2026, 8, 3), EndDate: day(2026, 8, 3), IsHalfDay: true},
	}

	got := consumedDays(requests, 2026, "")
	assert.True(t, got.Equal(decimal.RequireFromString("8.5")), "got %s", got)
}

func TestConsumedDays_ExcludesRequestUnderDecision(t *testing.T) {
	requests := []leave.LeaveRequest{
		{ID: "a", StartDate: day(2026, 2, 2), EndDate: day(2026, 2, 6)},
		{ID: "b", StartDate: day(2026, 5, 11), EndDate: day(2026, 5, 13)},
	}

	got := consumedDays(requests, 2026, "b")
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "got %s", got)
}

func TestConsumedDays_SkipsOtherYears(t *testing.T) {
	requests := []leave.LeaveRequest{
		{ID: "a", StartDate: day(2025, 12, 29), EndDate: day(2025, 12, 31)},
		// "b" touches both years and counts fully for each.
		{ID: "b", StartDate: day(2025, 12, 30), EndDate: day(2026, 1, 2)},
		{ID: "c", StartDate: day(2026, 3, 2), EndDate: day(2026, 3, 2)},
	}

	got := consumedDays(requests, 2026, "")
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "got %s", got)
}

func TestConsumedDays_Empty(t *testing.T) {
	assert.True(t, consumedDays(nil, 2026, "").IsZero())
}
