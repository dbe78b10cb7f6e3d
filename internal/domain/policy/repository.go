package policy

import (
	"context"
	"time"
)

// PolicyRepository - interface for the policies table (one row per company).
type PolicyRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Policy, error)
	Upsert(ctx context.Context, p Policy) (Policy, error)
}

// HolidayRepository - interface for the holidays table.
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string, companyID string) error
	ListByCompanyID(ctx context.Context, companyID string) ([]Holiday, error)
	Exists(ctx context.Context, companyID string, date time.Time) (bool, error)
}

// Store is the read side consumed by the metric engine and state
// machines: cached policy values plus holiday lookups.
type Store interface {
	GetPolicy(ctx context.Context, companyID string) (Policy, error)
	IsHoliday(ctx context.Context, companyID string, date time.Time) (bool, error)

	// Invalidate drops the cached policy for a company after an admin
	// settings update.
	Invalidate(companyID string)
}

// Service is the admin-facing settings surface.
type Service interface {
	GetPolicy(ctx context.Context, companyID string) (PolicyResponse, error)
	UpdatePolicy(ctx context.Context, companyID string, req UpdatePolicyRequest) (PolicyResponse, error)
	AddHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	RemoveHoliday(ctx context.Context, companyID string, id string) error
	ListHolidays(ctx context.Context, companyID string) ([]HolidayResponse, error)
}
