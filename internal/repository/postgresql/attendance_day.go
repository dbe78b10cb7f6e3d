package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type attendanceDayRepository struct {
	db     *database.DB
	breaks attendance.BreakRepository
}

func NewAttendanceDayRepository(db *database.DB, breaks attendance.BreakRepository) attendance.AttendanceDayRepository {
	return &attendanceDayRepository{db: db, breaks: breaks}
}

const attendanceDayColumns = `
	id, company_id, employee_id, date, clock_in, clock_out,
	net_minutes, late_minutes, early_leave_minutes, overtime_minutes,
	external_break_minutes, lunch_excess_minutes, status,
	created_at, updated_at
`

func scanAttendanceDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.CompanyID, &day.EmployeeID, &day.Date, &day.ClockIn, &day.ClockOut,
		&day.NetMinutes, &day.LateMinutes, &day.EarlyLeaveMinutes, &day.OvertimeMinutes,
		&day.ExternalBreakMinutes, &day.LunchExcessMinutes, &day.Status,
		&day.CreatedAt, &day.UpdatedAt,
	)
	return day, err
}

// Create implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (
			company_id, employee_id, date, clock_in, clock_out,
			net_minutes, late_minutes, early_leave_minutes, overtime_minutes,
			external_break_minutes, lunch_excess_minutes, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CompanyID,
		day.EmployeeID,
		day.Date,
		day.ClockIn,
		day.ClockOut,
		day.NetMinutes,
		day.LateMinutes,
		day.EarlyLeaveMinutes,
		day.OvertimeMinutes,
		day.ExternalBreakMinutes,
		day.LunchExcessMinutes,
		day.Status,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (company, employee, date)
			return attendance.AttendanceDay{}, attendance.ErrDayConflict
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	return day, nil
}

// GetByID implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE id = $1 AND company_id = $2
	`

	day, err := scanAttendanceDay(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	day.Breaks, err = r.breaks.ListByDay(ctx, day.ID)
	if err != nil {
		return attendance.AttendanceDay{}, err
	}

	return day, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.AttendanceDay, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, companyID, false)
}

// LockByEmployeeAndDate implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) LockByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.AttendanceDay, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, companyID, true)
}

func (r *attendanceDayRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string, forUpdate bool) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date = $2 AND company_id = $3
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	day, err := scanAttendanceDay(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance day by employee and date: %w", err)
	}

	day.Breaks, err = r.breaks.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	return &day, nil
}

// Update implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) Update(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET clock_in = $1, clock_out = $2,
			net_minutes = $3, late_minutes = $4, early_leave_minutes = $5,
			overtime_minutes = $6, external_break_minutes = $7, lunch_excess_minutes = $8,
			status = $9, updated_at = NOW()
		WHERE id = $10 AND company_id = $11
	`

	tag, err := q.Exec(ctx, query,
		day.ClockIn,
		day.ClockOut,
		day.NetMinutes,
		day.LateMinutes,
		day.EarlyLeaveMinutes,
		day.OvertimeMinutes,
		day.ExternalBreakMinutes,
		day.LunchExcessMinutes,
		day.Status,
		day.ID,
		day.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// SetStatus implements attendance.AttendanceDayRepository. The row is
// created when the employee has no record for the date yet.
func (r *attendanceDayRepository) SetStatus(ctx context.Context, employeeID string, date time.Time, companyID string, status attendance.DayStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (company_id, employee_id, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, employee_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, companyID, employeeID, date, status); err != nil {
		return fmt.Errorf("failed to set attendance day status: %w", err)
	}

	return nil
}

// List implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) List(ctx context.Context, filter attendance.DayFilter, companyID string) ([]attendance.AttendanceDay, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM attendance_days ad
		INNER JOIN employees e ON ad.employee_id = e.id
		WHERE ad.company_id = $1
	`

	args := []interface{}{companyID}
	argIdx := 2

	whereClauses := []string{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("ad.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("ad.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("ad.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("ad.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if len(whereClauses) > 0 {
		baseQuery += " AND " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance days: %w", err)
	}

	selectQuery := `
		SELECT
			ad.id, ad.company_id, ad.employee_id, ad.date, ad.clock_in, ad.clock_out,
			ad.net_minutes, ad.late_minutes, ad.early_leave_minutes, ad.overtime_minutes,
			ad.external_break_minutes, ad.lunch_excess_minutes, ad.status,
			ad.created_at, ad.updated_at,
			e.full_name AS employee_name
	` + baseQuery

	orderBy := "ad.date"
	switch filter.SortBy {
	case "employee_name":
		orderBy = "e.full_name"
	case "status":
		orderBy = "ad.status"
	case "net_minutes":
		orderBy = "ad.net_minutes"
	}

	if strings.ToLower(filter.SortOrder) == "asc" {
		orderBy += " ASC"
	} else {
		orderBy += " DESC"
	}

	selectQuery += " ORDER BY " + orderBy

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
		return nil, 0, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	days := make([]attendance.AttendanceDay, 0)
	for rows.Next() {
		var day attendance.AttendanceDay
		if err := rows.Scan(
			&day.ID, &day.CompanyID, &day.EmployeeID, &day.Date, &day.ClockIn, &day.ClockOut,
			&day.NetMinutes, &day.LateMinutes, &day.EarlyLeaveMinutes, &day.OvertimeMinutes,
			&day.ExternalBreakMinutes, &day.LunchExcessMinutes, &day.Status,
			&day.CreatedAt, &day.UpdatedAt,
			&day.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		days = append(days, day)
	}

	for i := range days {
		days[i].Breaks, err = r.breaks.ListByDay(ctx, days[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}

	return days, total, nil
}
