package correction

import (
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/validator"
)

// ========================================
// CORRECTION DTOs
// ========================================

type CreateCorrectionRequest struct {
	WorkDate           string  `json:"work_date"`
	Kind               string  `json:"kind"`
	ProposedClockIn    *string `json:"proposed_clock_in,omitempty"`
	ProposedClockOut   *string `json:"proposed_clock_out,omitempty"`
	ProposedBreakStart *string `json:"proposed_break_start,omitempty"`
	ProposedBreakEnd   *string `json:"proposed_break_end,omitempty"`
	Note               *string `json:"note,omitempty"`
}

func (r *CreateCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be YYYY-MM-DD",
		})
	}

	checkTimestamp := func(field string, v *string) {
		if v == nil || *v == "" {
			return
		}
		if _, ok := validator.IsValidDateTime(*v); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be an RFC3339 timestamp",
			})
		}
	}

	switch CorrectionKind(r.Kind) {
	case KindClock:
		if r.ProposedClockIn == nil && r.ProposedClockOut == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "proposed_clock_in",
				Message: "a clock correction must propose clock-in or clock-out",
			})
		}
		checkTimestamp("proposed_clock_in", r.ProposedClockIn)
		checkTimestamp("proposed_clock_out", r.ProposedClockOut)
	case KindBreak:
		if r.ProposedBreakStart == nil && r.ProposedBreakEnd == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "proposed_break_start",
				Message: "a break correction must propose a start or end",
			})
		}
		checkTimestamp("proposed_break_start", r.ProposedBreakStart)
		checkTimestamp("proposed_break_end", r.ProposedBreakEnd)
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be 'clock' or 'break'",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideCorrectionRequest struct {
	ID       string   `json:"-"`
	Decision Decision `json:"decision"`
}

func (r *DecideCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "correction id must be a valid UUID",
		})
	}
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be 'approve' or 'reject'",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectionResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	WorkDate           string  `json:"work_date"`
	Kind               string  `json:"kind"`
	ProposedClockIn    *string `json:"proposed_clock_in,omitempty"`
	ProposedClockOut   *string `json:"proposed_clock_out,omitempty"`
	ProposedBreakStart *string `json:"proposed_break_start,omitempty"`
	ProposedBreakEnd   *string `json:"proposed_break_end,omitempty"`
	Note               *string `json:"note,omitempty"`
	Status             string  `json:"status"`
	ManagerID          *string `json:"manager_id,omitempty"`
	AdminID            *string `json:"admin_id,omitempty"`
	DecidedAt          *string `json:"decided_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

type CorrectionFilter struct {
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

type ListCorrectionsResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Corrections []CorrectionResponse `json:"corrections"`
}
