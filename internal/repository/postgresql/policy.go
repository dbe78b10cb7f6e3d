package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type policyRepositoryImpl struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepositoryImpl{db: db}
}

// GetByCompanyID implements policy.PolicyRepository.
func (r *policyRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (policy.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, workday_start_minutes, workday_end_minutes,
			   required_daily_minutes, half_day_threshold_minutes, paid_lunch_minutes,
			   lunch_window_start_minutes, lunch_window_end_minutes,
			   allow_external_breaks, grace_late_minutes, grace_early_minutes, timezone,
			   created_at, updated_at
		FROM policies
		WHERE company_id = $1
	`

	var p policy.Policy
	err := q.QueryRow(ctx, query, companyID).Scan(
		&p.CompanyID, &p.WorkdayStartMinutes, &p.WorkdayEndMinutes,
		&p.RequiredDailyMinutes, &p.HalfDayThresholdMinutes, &p.PaidLunchMinutes,
		&p.LunchWindowStartMinutes, &p.LunchWindowEndMinutes,
		&p.AllowExternalBreaks, &p.GraceLateMinutes, &p.GraceEarlyMinutes, &p.Timezone,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return policy.Policy{}, policy.ErrPolicyNotFound
		}
		return policy.Policy{}, fmt.Errorf("failed to get policy: %w", err)
	}

	return p, nil
}

// Upsert implements policy.PolicyRepository.
func (r *policyRepositoryImpl) Upsert(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO policies (
			company_id, workday_start_minutes, workday_end_minutes,
			required_daily_minutes, half_day_threshold_minutes, paid_lunch_minutes,
			lunch_window_start_minutes, lunch_window_end_minutes,
			allow_external_breaks, grace_late_minutes, grace_early_minutes, timezone
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (company_id)
		DO UPDATE SET
			workday_start_minutes = EXCLUDED.workday_start_minutes,
			workday_end_minutes = EXCLUDED.workday_end_minutes,
			required_daily_minutes = EXCLUDED.required_daily_minutes,
			half_day_threshold_minutes = EXCLUDED.half_day_threshold_minutes,
			paid_lunch_minutes = EXCLUDED.paid_lunch_minutes,
			lunch_window_start_minutes = EXCLUDED.lunch_window_start_minutes,
			lunch_window_end_minutes = EXCLUDED.lunch_window_end_minutes,
			allow_external_breaks = EXCLUDED.allow_external_breaks,
			grace_late_minutes = EXCLUDED.grace_late_minutes,
			grace_early_minutes = EXCLUDED.grace_early_minutes,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.CompanyID,
		p.WorkdayStartMinutes,
		p.WorkdayEndMinutes,
		p.RequiredDailyMinutes,
		p.HalfDayThresholdMinutes,
		p.PaidLunchMinutes,
		p.LunchWindowStartMinutes,
		p.LunchWindowEndMinutes,
		p.AllowExternalBreaks,
		p.GraceLateMinutes,
		p.GraceEarlyMinutes,
		p.Timezone,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to upsert policy: %w", err)
	}

	return p, nil
}
