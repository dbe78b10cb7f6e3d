package attendance

import (
	"time"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
)

// ComputeMetrics derives all attendance metrics for one day from its
// clock events, the company policy and the evaluation instant. It is a
// pure function: same inputs, same output, no I/O.
//
// For a day that is still open (clock-in without clock-out) the counts
// reflect work done up to now, Status is StatusOpen and Final is false.
func ComputeMetrics(day attendance.AttendanceDay, pol policy.Policy, now time.Time, isHoliday bool) attendance.Metrics {
	var m attendance.Metrics

	if day.ClockIn == nil {
		if isHoliday {
			m.Status = attendance.StatusHoliday
		} else {
			m.Status = attendance.StatusAbsent
		}
		m.Final = true
		return m
	}

	clockIn := day.ClockIn.UTC()
	open := day.ClockOut == nil

	// Reference instant for open spans: now, capped at clock-out when
	// one exists so a forgotten open break cannot accrue past it.
	ref := now.UTC()
	if day.ClockOut != nil {
		ref = day.ClockOut.UTC()
	}

	gross := wholeMinutes(clockIn, ref)

	var externalMinutes, lunchMinutes int
	for _, b := range day.Breaks {
		end := ref
		if b.End != nil {
			end = b.End.UTC()
		}
		d := wholeMinutes(b.Start.UTC(), end)
		switch b.Type {
		case attendance.BreakExternal:
			externalMinutes += d
		case attendance.BreakLunch:
			lunchMinutes += d
		}
	}

	m.ExternalBreakMinutes = externalMinutes
	if lunchMinutes > pol.PaidLunchMinutes {
		m.LunchExcessMinutes = lunchMinutes - pol.PaidLunchMinutes
	}

	// The full lunch span is off the clock; the paid allowance only
	// bounds the separately reported excess.
	m.NetMinutes = gross - externalMinutes - lunchMinutes
	if m.NetMinutes < 0 {
		m.NetMinutes = 0
	}

	loc := pol.Location()

	inMinutes := minutesOfDay(clockIn.In(loc))
	if late := inMinutes - pol.WorkdayStartMinutes - pol.GraceLateMinutes; late > 0 {
		m.LateMinutes = late
	}

	if day.ClockOut != nil {
		outMinutes := minutesOfDay(day.ClockOut.In(loc))
		if early := pol.WorkdayEndMinutes - outMinutes - pol.GraceEarlyMinutes; early > 0 {
			m.EarlyLeaveMinutes = early
		}
	}

	if over := m.NetMinutes - pol.RequiredDailyMinutes; over > 0 {
		m.OvertimeMinutes = over
	}

	switch {
	case open:
		m.Status = attendance.StatusOpen
	case m.NetMinutes >= pol.RequiredDailyMinutes:
		m.Status = attendance.StatusPresent
	case m.NetMinutes >= pol.HalfDayThresholdMinutes:
		m.Status = attendance.StatusHalfDay
	default:
		m.Status = attendance.StatusAbsent
	}
	m.Final = !open

	return m
}

// wholeMinutes returns the elapsed whole minutes between two instants,
// never negative.
func wholeMinutes(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / time.Minute)
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
