package policy

import (
	"time"

	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
)

type UpdatePolicyRequest struct {
	WorkdayStartMinutes     *int    `json:"workday_start_minutes"`
	WorkdayEndMinutes       *int    `json:"workday_end_minutes"`
	RequiredDailyMinutes    *int    `json:"required_daily_minutes"`
	HalfDayThresholdMinutes *int    `json:"half_day_threshold_minutes"`
	PaidLunchMinutes        *int    `json:"paid_lunch_minutes"`
	LunchWindowStartMinutes *int    `json:"lunch_window_start_minutes"`
	LunchWindowEndMinutes   *int    `json:"lunch_window_end_minutes"`
	AllowExternalBreaks     *bool   `json:"allow_external_breaks"`
	GraceLateMinutes        *int    `json:"grace_late_minutes"`
	GraceEarlyMinutes       *int    `json:"grace_early_minutes"`
	Timezone                *string `json:"timezone"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	checkMinutesOfDay := func(field string, v *int) {
		if v != nil && (*v < 0 || *v > 24*60) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be between 0 and 1440",
			})
		}
	}
	checkMinutesOfDay("workday_start_minutes", r.WorkdayStartMinutes)
	checkMinutesOfDay("workday_end_minutes", r.WorkdayEndMinutes)
	checkMinutesOfDay("lunch_window_start_minutes", r.LunchWindowStartMinutes)
	checkMinutesOfDay("lunch_window_end_minutes", r.LunchWindowEndMinutes)

	checkNonNegative := func(field string, v *int) {
		if v != nil && *v < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}
	checkNonNegative("required_daily_minutes", r.RequiredDailyMinutes)
	checkNonNegative("half_day_threshold_minutes", r.HalfDayThresholdMinutes)
	checkNonNegative("paid_lunch_minutes", r.PaidLunchMinutes)
	checkNonNegative("grace_late_minutes", r.GraceLateMinutes)
	checkNonNegative("grace_early_minutes", r.GraceEarlyMinutes)

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA location name",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply overlays the provided fields onto p.
func (r *UpdatePolicyRequest) Apply(p Policy) Policy {
	if r.WorkdayStartMinutes != nil {
		p.WorkdayStartMinutes = *r.WorkdayStartMinutes
	}
	if r.WorkdayEndMinutes != nil {
		p.WorkdayEndMinutes = *r.WorkdayEndMinutes
	}
	if r.RequiredDailyMinutes != nil {
		p.RequiredDailyMinutes = *r.RequiredDailyMinutes
	}
	if r.HalfDayThresholdMinutes != nil {
		p.HalfDayThresholdMinutes = *r.HalfDayThresholdMinutes
	}
	if r.PaidLunchMinutes != nil {
		p.PaidLunchMinutes = *r.PaidLunchMinutes
	}
	if r.LunchWindowStartMinutes != nil {
		p.LunchWindowStartMinutes = *r.LunchWindowStartMinutes
	}
	if r.LunchWindowEndMinutes != nil {
		p.LunchWindowEndMinutes = *r.LunchWindowEndMinutes
	}
	if r.AllowExternalBreaks != nil {
		p.AllowExternalBreaks = *r.AllowExternalBreaks
	}
	if r.GraceLateMinutes != nil {
		p.GraceLateMinutes = *r.GraceLateMinutes
	}
	if r.GraceEarlyMinutes != nil {
		p.GraceEarlyMinutes = *r.GraceEarlyMinutes
	}
	if r.Timezone != nil {
		p.Timezone = *r.Timezone
	}
	return p
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PolicyResponse struct {
	WorkdayStartMinutes     int    `json:"workday_start_minutes"`
	WorkdayEndMinutes       int    `json:"workday_end_minutes"`
	RequiredDailyMinutes    int    `json:"required_daily_minutes"`
	HalfDayThresholdMinutes int    `json:"half_day_threshold_minutes"`
	PaidLunchMinutes        int    `json:"paid_lunch_minutes"`
	LunchWindowStartMinutes int    `json:"lunch_window_start_minutes"`
	LunchWindowEndMinutes   int    `json:"lunch_window_end_minutes"`
	AllowExternalBreaks     bool   `json:"allow_external_breaks"`
	GraceLateMinutes        int    `json:"grace_late_minutes"`
	GraceEarlyMinutes       int    `json:"grace_early_minutes"`
	Timezone                string `json:"timezone"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}
