package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/correction"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	id, company_id, employee_id, work_date, kind,
	proposed_clock_in, proposed_clock_out, proposed_break_start, proposed_break_end,
	note, status, manager_id, admin_id, decided_at,
	created_at, updated_at
`

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var c correction.CorrectionRequest
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.EmployeeID, &c.WorkDate, &c.Kind,
		&c.ProposedClockIn, &c.ProposedClockOut, &c.ProposedBreakStart, &c.ProposedBreakEnd,
		&c.Note, &c.Status, &c.ManagerID, &c.AdminID, &c.DecidedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO correction_requests (
			company_id, employee_id, work_date, kind,
			proposed_clock_in, proposed_clock_out, proposed_break_start, proposed_break_end,
			note, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		c.CompanyID,
		c.EmployeeID,
		c.WorkDate,
		c.Kind,
		c.ProposedClockIn,
		c.ProposedClockOut,
		c.ProposedBreakStart,
		c.ProposedBreakEnd,
		c.Note,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return c, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string, companyID string) (correction.CorrectionRequest, error) {
	return r.getByID(ctx, id, companyID, false)
}

// LockByID implements correction.CorrectionRepository.
func (r *correctionRepository) LockByID(ctx context.Context, id string, companyID string) (correction.CorrectionRequest, error) {
	return r.getByID(ctx, id, companyID, true)
}

func (r *correctionRepository) getByID(ctx context.Context, id string, companyID string, forUpdate bool) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE id = $1 AND company_id = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	c, err := scanCorrection(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}

	return c, nil
}

// UpdateStatus implements correction.CorrectionRepository.
func (r *correctionRepository) UpdateStatus(ctx context.Context, c correction.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $1, manager_id = $2, admin_id = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6
	`

	tag, err := q.Exec(ctx, query, c.Status, c.ManagerID, c.AdminID, c.DecidedAt, c.ID, c.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update correction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionNotFound
	}

	return nil
}

// List implements correction.CorrectionRepository.
func (r *correctionRepository) List(ctx context.Context, filter correction.CorrectionFilter, companyID string) ([]correction.CorrectionRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM correction_requests cr
		INNER JOIN employees e ON cr.employee_id = e.id
		WHERE cr.company_id = $1
	`

	args := []interface{}{companyID}
	argIdx := 2

	whereClauses := []string{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("cr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("cr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if len(whereClauses) > 0 {
		baseQuery += " AND " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction requests: %w", err)
	}

	selectQuery := `
		SELECT
			cr.id, cr.company_id, cr.employee_id, cr.work_date, cr.kind,
			cr.proposed_clock_in, cr.proposed_clock_out, cr.proposed_break_start, cr.proposed_break_end,
			cr.note, cr.status, cr.manager_id, cr.admin_id, cr.decided_at,
			cr.created_at, cr.updated_at,
			e.full_name AS employee_name
	` + baseQuery + `
		ORDER BY cr.created_at DESC
	`

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	corrections := make([]correction.CorrectionRequest, 0)
	for rows.Next() {
		var c correction.CorrectionRequest
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.EmployeeID, &c.WorkDate, &c.Kind,
			&c.ProposedClockIn, &c.ProposedClockOut, &c.ProposedBreakStart, &c.ProposedBreakEnd,
			&c.Note, &c.Status, &c.ManagerID, &c.AdminID, &c.DecidedAt,
			&c.CreatedAt, &c.UpdatedAt,
			&c.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		corrections = append(corrections, c)
	}

	return corrections, total, nil
}
