package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveDays(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		isHalfDay bool
		want      string
	}{
		{"single day", date(2026, 6, 1), date(2026, 6, 1), false, "1"},
		{"inclusive span", date(2026, 6, 1), date(2026, 6, 5), false, "5"},
		{"half day", date(2026, 6, 1), date(2026, 6, 1), true, "0.5"},
		{"half day ignores span", date(2026, 6, 1), date(2026, 6, 3), true, "0.5"},
		{"end before start floors at one", date(2026, 6, 5), date(2026, 6, 1), false, "1"},
		{"across month boundary", date(2026, 6, 29), date(2026, 7, 2), false, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LeaveDays(tt.start, tt.end, tt.isHalfDay)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestLeaveRequestOverlapsYear(t *testing.T) {
	r := LeaveRequest{
		StartDate: date(2025, 12, 30),
		EndDate:   date(2026, 1, 2),
	}

	assert.True(t, r.OverlapsYear(2025))
	assert.True(t, r.OverlapsYear(2026))
	assert.False(t, r.OverlapsYear(2024))
	assert.False(t, r.OverlapsYear(2027))
}

func TestLeaveRequestStatusTerminal(t *testing.T) {
	assert.False(t, LeaveRequestStatusPending.Terminal())
	assert.True(t, LeaveRequestStatusApproved.Terminal())
	assert.True(t, LeaveRequestStatusRejected.Terminal())
	assert.True(t, LeaveRequestStatusCancelled.Terminal())
}

func TestQuotaExceededError(t *testing.T) {
	err := &QuotaExceededError{
		Requested: decimal.RequireFromString("0.5"),
		Consumed:  decimal.NewFromInt(12),
		Quota:     decimal.NewFromInt(12),
	}

	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.True(t, err.Remaining().IsZero())
	assert.Contains(t, err.Error(), "insufficient leave quota")
}

func TestQuotaExceededErrorRemainingFloorsAtZero(t *testing.T) {
	err := &QuotaExceededError{
		Requested: decimal.NewFromInt(3),
		Consumed:  decimal.NewFromInt(14),
		Quota:     decimal.NewFromInt(12),
	}

	assert.True(t, err.Remaining().IsZero())
}
