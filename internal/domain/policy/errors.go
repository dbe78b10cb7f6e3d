package policy

import "errors"

var (
	ErrPolicyNotFound  = errors.New("attendance policy not found")
	ErrHolidayNotFound = errors.New("holiday not found")
)
