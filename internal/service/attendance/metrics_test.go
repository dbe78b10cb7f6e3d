package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
)

var metricsTestDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func metricsTestPolicy() policy.Policy {
	return policy.Policy{
		CompanyID:               "11111111-1111-1111-1111-111111111111",
		WorkdayStartMinutes:     9 * 60,
		WorkdayEndMinutes:       18 * 60,
		RequiredDailyMinutes:    8 * 60,
		HalfDayThresholdMinutes: 4 * 60,
		PaidLunchMinutes:        60,
		LunchWindowStartMinutes: 12 * 60,
		LunchWindowEndMinutes:   14 * 60,
		AllowExternalBreaks:     true,
		GraceLateMinutes:        10,
		GraceEarlyMinutes:       0,
		Timezone:                "UTC",
	}
}

func at(hour, minute int) time.Time {
	return metricsTestDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func atPtr(hour, minute int) *time.Time {
	t := at(hour, minute)
	return &t
}

func TestComputeMetrics_FullDayWithLunch(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 5),
		ClockOut: atPtr(18, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakLunch, Start: at(12, 0), End: atPtr(13, 0)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 475, m.NetMinutes)
	assert.Equal(t, 0, m.LateMinutes, "9:05 arrival is inside the 10 minute grace")
	assert.Equal(t, 0, m.EarlyLeaveMinutes)
	assert.Equal(t, 0, m.OvertimeMinutes)
	assert.Equal(t, 0, m.ExternalBreakMinutes)
	assert.Equal(t, 0, m.LunchExcessMinutes)
	assert.Equal(t, attendance.StatusHalfDay, m.Status, "475 net is below the 480 required minutes")
	assert.True(t, m.Final)
}

func TestComputeMetrics_OpenDayCountsElapsedWork(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:    metricsTestDate,
		ClockIn: atPtr(9, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakExternal, Start: at(10, 30)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(11, 0), false)

	assert.Equal(t, 90, m.NetMinutes, "120 elapsed minus the 30 minute open external break")
	assert.Equal(t, 30, m.ExternalBreakMinutes)
	assert.Equal(t, attendance.StatusOpen, m.Status)
	assert.False(t, m.Final)
}

func TestComputeMetrics_OpenBreakCappedAtClockOut(t *testing.T) {
	// A break the employee forgot to close stops accruing at clock-out.
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 0),
		ClockOut: atPtr(17, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakExternal, Start: at(16, 30)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(23, 0), false)

	assert.Equal(t, 30, m.ExternalBreakMinutes)
	assert.Equal(t, 450, m.NetMinutes)
	assert.True(t, m.Final)
}

func TestComputeMetrics_LateBeyondGrace(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 25),
		ClockOut: atPtr(18, 0),
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 15, m.LateMinutes)
	assert.Equal(t, 515, m.NetMinutes)
	assert.Equal(t, attendance.StatusPresent, m.Status)
}

func TestComputeMetrics_EarlyLeave(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 0),
		ClockOut: atPtr(16, 0),
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 120, m.EarlyLeaveMinutes)
	assert.Equal(t, 420, m.NetMinutes)
	assert.Equal(t, attendance.StatusHalfDay, m.Status)
}

func TestComputeMetrics_Overtime(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(8, 0),
		ClockOut: atPtr(19, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakLunch, Start: at(12, 0), End: atPtr(12, 45)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 615, m.NetMinutes)
	assert.Equal(t, 135, m.OvertimeMinutes)
	assert.Equal(t, attendance.StatusPresent, m.Status)
}

func TestComputeMetrics_LunchExcess(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 0),
		ClockOut: atPtr(18, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakLunch, Start: at(12, 0), End: atPtr(13, 30)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 30, m.LunchExcessMinutes)
	assert.Equal(t, 450, m.NetMinutes, "the whole lunch span is off the clock")
}

func TestComputeMetrics_MultipleExternalBreaks(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 0),
		ClockOut: atPtr(18, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakExternal, Start: at(10, 0), End: atPtr(10, 15)},
			{Type: attendance.BreakExternal, Start: at(15, 0), End: atPtr(15, 20)},
		},
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 35, m.ExternalBreakMinutes)
	assert.Equal(t, 505, m.NetMinutes)
}

func TestComputeMetrics_NoClockIn(t *testing.T) {
	day := attendance.AttendanceDay{Date: metricsTestDate}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, attendance.StatusAbsent, m.Status)
	assert.Equal(t, 0, m.NetMinutes)
	assert.True(t, m.Final)
}

func TestComputeMetrics_HolidayWithoutClockIn(t *testing.T) {
	day := attendance.AttendanceDay{Date: metricsTestDate}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), true)

	assert.Equal(t, attendance.StatusHoliday, m.Status)
	assert.True(t, m.Final)
}

func TestComputeMetrics_HolidayWithClockIn(t *testing.T) {
	// Working on a holiday is still counted as work.
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 0),
		ClockOut: atPtr(18, 0),
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), true)

	assert.Equal(t, attendance.StatusPresent, m.Status)
	assert.Equal(t, 540, m.NetMinutes)
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(9, 5),
		ClockOut: atPtr(18, 0),
		Breaks: []attendance.Break{
			{Type: attendance.BreakLunch, Start: at(12, 0), End: atPtr(13, 0)},
			{Type: attendance.BreakExternal, Start: at(15, 0), End: atPtr(15, 30)},
		},
	}

	pol := metricsTestPolicy()
	first := ComputeMetrics(day, pol, at(20, 0), false)
	second := ComputeMetrics(day, pol, at(23, 59), false)

	assert.Equal(t, first, second, "a closed day is independent of the evaluation instant")
}

func TestComputeMetrics_PolicyTimezone(t *testing.T) {
	pol := metricsTestPolicy()
	pol.Timezone = "Asia/Jakarta" // UTC+7

	// 02:05 UTC is 09:05 local.
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(2, 5),
		ClockOut: atPtr(11, 0),
	}

	m := ComputeMetrics(day, pol, at(20, 0), false)

	assert.Equal(t, 0, m.LateMinutes)
	assert.Equal(t, 0, m.EarlyLeaveMinutes)
	assert.Equal(t, attendance.StatusPresent, m.Status)
}

func TestComputeMetrics_ClockOutBeforeClockInYieldsZero(t *testing.T) {
	day := attendance.AttendanceDay{
		Date:     metricsTestDate,
		ClockIn:  atPtr(18, 0),
		ClockOut: atPtr(9, 0),
	}

	m := ComputeMetrics(day, metricsTestPolicy(), at(20, 0), false)

	assert.Equal(t, 0, m.NetMinutes)
	assert.Equal(t, attendance.StatusAbsent, m.Status)
}
