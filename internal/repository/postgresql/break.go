package postgresql

import (
	"context"
	"fmt"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO breaks (attendance_day_id, type, start_at, end_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.AttendanceDayID,
		b.Type,
		b.Start,
		b.End,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return attendance.Break{}, fmt.Errorf("failed to create break: %w", err)
	}

	return b, nil
}

// Update implements attendance.BreakRepository.
func (r *breakRepository) Update(ctx context.Context, b attendance.Break) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE breaks
		SET start_at = $1, end_at = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, b.Start, b.End, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoActiveBreak
	}

	return nil
}

// ListByDay implements attendance.BreakRepository.
func (r *breakRepository) ListByDay(ctx context.Context, attendanceDayID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_day_id, type, start_at, end_at, created_at, updated_at
		FROM breaks
		WHERE attendance_day_id = $1
		ORDER BY start_at
	`

	rows, err := q.Query(ctx, query, attendanceDayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	breaks := make([]attendance.Break, 0)
	for rows.Next() {
		var b attendance.Break
		if err := rows.Scan(
			&b.ID, &b.AttendanceDayID, &b.Type, &b.Start, &b.End,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}

	return breaks, nil
}
