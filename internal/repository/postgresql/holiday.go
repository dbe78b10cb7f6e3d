package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/policy"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) policy.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (company_id, date, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, date) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, h.CompanyID, h.Date, h.Name).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return policy.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return h, nil
}

// Delete implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM holidays WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return policy.ErrHolidayNotFound
	}

	return nil
}

// ListByCompanyID implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) ListByCompanyID(ctx context.Context, companyID string) ([]policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, date, name, created_at
		FROM holidays
		WHERE company_id = $1
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]policy.Holiday, 0)
	for rows.Next() {
		var h policy.Holiday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, nil
}

// Exists implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) Exists(ctx context.Context, companyID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM holidays WHERE company_id = $1 AND date = $2)",
		companyID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return exists, nil
}
