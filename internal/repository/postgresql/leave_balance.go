package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int, companyID string) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, leave_type_id, year, balance, used,
			   created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3 AND company_id = $4
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year, companyID).Scan(
		&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Balance, &b.Used,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No balance row yet for this key
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return &b, nil
}

// Upsert implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (company_id, employee_id, leave_type_id, year, balance, used)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, employee_id, leave_type_id, year)
		DO UPDATE SET balance = EXCLUDED.balance, used = EXCLUDED.used, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.CompanyID,
		balance.EmployeeID,
		balance.LeaveTypeID,
		balance.Year,
		balance.Balance,
		balance.Used,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}

	return balance, nil
}

// AcquireQuotaLock implements leave.LeaveBalanceRepository. The lock is
// transaction-scoped and released automatically on commit or rollback,
// so it must be called with a transaction context.
func (r *leaveBalanceRepositoryImpl) AcquireQuotaLock(ctx context.Context, employeeID, leaveTypeID string, year int) error {
	q := GetQuerier(ctx, r.db)

	key := fmt.Sprintf("leave_quota:%s:%s:%d", employeeID, leaveTypeID, year)
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("failed to acquire quota lock: %w", err)
	}

	return nil
}
