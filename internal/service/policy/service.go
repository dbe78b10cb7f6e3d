package policy

import (
	"context"
	"errors"
	"time"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
)

type PolicyServiceImpl struct {
	policy.PolicyRepository
	policy.HolidayRepository
	store policy.Store
}

func NewPolicyService(
	policyRepo policy.PolicyRepository,
	holidayRepo policy.HolidayRepository,
	store policy.Store,
) policy.Service {
	return &PolicyServiceImpl{
		PolicyRepository:  policyRepo,
		HolidayRepository: holidayRepo,
		store:             store,
	}
}

// GetPolicy implements policy.Service.
func (s *PolicyServiceImpl) GetPolicy(ctx context.Context, companyID string) (policy.PolicyResponse, error) {
	p, err := s.PolicyRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			p = policy.Default(companyID)
		} else {
			return policy.PolicyResponse{}, err
		}
	}
	return toPolicyResponse(p), nil
}

// UpdatePolicy implements policy.Service. The updated row replaces the
// cached policy on the next read.
func (s *PolicyServiceImpl) UpdatePolicy(ctx context.Context, companyID string, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.PolicyResponse{}, err
	}

	current, err := s.PolicyRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			current = policy.Default(companyID)
		} else {
			return policy.PolicyResponse{}, err
		}
	}

	updated, err := s.PolicyRepository.Upsert(ctx, req.Apply(current))
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	s.store.Invalidate(companyID)

	return toPolicyResponse(updated), nil
}

// AddHoliday implements policy.Service.
func (s *PolicyServiceImpl) AddHoliday(ctx context.Context, companyID string, req policy.CreateHolidayRequest) (policy.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	h, err := s.HolidayRepository.Create(ctx, policy.Holiday{
		CompanyID: companyID,
		Date:      date,
		Name:      req.Name,
	})
	if err != nil {
		return policy.HolidayResponse{}, err
	}

	return toHolidayResponse(h), nil
}

// RemoveHoliday implements policy.Service.
func (s *PolicyServiceImpl) RemoveHoliday(ctx context.Context, companyID string, id string) error {
	return s.HolidayRepository.Delete(ctx, id, companyID)
}

// ListHolidays implements policy.Service.
func (s *PolicyServiceImpl) ListHolidays(ctx context.Context, companyID string) ([]policy.HolidayResponse, error) {
	holidays, err := s.HolidayRepository.ListByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]policy.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, toHolidayResponse(h))
	}

	return responses, nil
}

func toPolicyResponse(p policy.Policy) policy.PolicyResponse {
	return policy.PolicyResponse{
		WorkdayStartMinutes:     p.WorkdayStartMinutes,
		WorkdayEndMinutes:       p.WorkdayEndMinutes,
		RequiredDailyMinutes:    p.RequiredDailyMinutes,
		HalfDayThresholdMinutes: p.HalfDayThresholdMinutes,
		PaidLunchMinutes:        p.PaidLunchMinutes,
		LunchWindowStartMinutes: p.LunchWindowStartMinutes,
		LunchWindowEndMinutes:   p.LunchWindowEndMinutes,
		AllowExternalBreaks:     p.AllowExternalBreaks,
		GraceLateMinutes:        p.GraceLateMinutes,
		GraceEarlyMinutes:       p.GraceEarlyMinutes,
		Timezone:                p.Timezone,
	}
}

func toHolidayResponse(h policy.Holiday) policy.HolidayResponse {
	return policy.HolidayResponse{
		ID:   h.ID,
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
