package policy

import (
	"time"
)

// Policy is the per-company attendance configuration. It is an immutable
// value during a computation; admin updates replace the whole row and
// invalidate the cache.
type Policy struct {
	CompanyID string

	WorkdayStartMinutes     int // minutes since local midnight
	WorkdayEndMinutes       int
	RequiredDailyMinutes    int
	HalfDayThresholdMinutes int
	PaidLunchMinutes        int
	LunchWindowStartMinutes int
	LunchWindowEndMinutes   int
	AllowExternalBreaks     bool
	GraceLateMinutes        int
	GraceEarlyMinutes       int
	Timezone                string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the policy timezone, falling back to UTC.
func (p Policy) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Default returns the policy seeded for a company that has not
// configured one yet: 9:00-18:00, 8h required, 4h half day, one paid
// lunch hour, 10 minutes late grace.
func Default(companyID string) Policy {
	return Policy{
		CompanyID:               companyID,
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

// Holiday is one tenant-configured non-working date.
type Holiday struct {
	ID        string
	CompanyID string
	Date      time.Time
	Name      string

	CreatedAt time.Time
}
