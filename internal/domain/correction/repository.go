package correction

import (
	"context"
)

// CorrectionRepository defines data access for correction requests.
type CorrectionRepository interface {
	Create(ctx context.Context, c CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (CorrectionRequest, error)

	// LockByID is GetByID with a row lock; it must run inside a
	// transaction so concurrent decisions on one request serialize.
	LockByID(ctx context.Context, id string, companyID string) (CorrectionRequest, error)

	UpdateStatus(ctx context.Context, c CorrectionRequest) error
	List(ctx context.Context, filter CorrectionFilter, companyID string) ([]CorrectionRequest, int64, error)
}

// CorrectionService defines the approval workflow surface.
type CorrectionService interface {
	// Submit files a correction for the calling employee.
	Submit(ctx context.Context, req CreateCorrectionRequest) (CorrectionResponse, error)

	// Decide advances the approval state machine as the calling actor
	// (manager or admin). Approval by an admin applies the correction to
	// the attendance day in the same transaction.
	Decide(ctx context.Context, req DecideCorrectionRequest) (CorrectionResponse, error)

	// Reapply re-runs the application step of an already-approved
	// correction. Idempotent; used to recover from a failed metric
	// recompute.
	Reapply(ctx context.Context, id string) (CorrectionResponse, error)

	List(ctx context.Context, filter CorrectionFilter) (ListCorrectionsResponse, error)
}
