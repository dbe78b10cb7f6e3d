package attendance

import "errors"

// Attendance domain errors
var (
	// Clock event errors
	ErrAlreadyClockedIn       = errors.New("you have already clocked in today")
	ErrClockInRequired        = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut      = errors.New("you have already clocked out today")
	ErrBreakAlreadyOpen       = errors.New("a break of this type is already open")
	ErrNoActiveBreak          = errors.New("no active break of this type")
	ErrExternalBreaksDisabled = errors.New("external breaks are not permitted by company policy")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDayConflict        = errors.New("attendance day was modified concurrently")
)
