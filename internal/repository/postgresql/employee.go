package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/employee"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, user_id, full_name, email, manager_id, hire_date,
			   created_at, updated_at
		FROM employees
		WHERE id = $1 AND company_id = $2
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.UserID, &emp.FullName, &emp.Email, &emp.ManagerID, &emp.HireDate,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// IsDirectManager implements employee.EmployeeRepository.
func (r *employeeRepository) IsDirectManager(ctx context.Context, managerID, employeeID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var isManager bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE id = $1 AND manager_id = $2 AND company_id = $3
		)
	`, employeeID, managerID, companyID).Scan(&isManager)
	if err != nil {
		return false, fmt.Errorf("failed to check direct manager: %w", err)
	}

	return isManager, nil
}

// IsTeamManager implements employee.EmployeeRepository.
func (r *employeeRepository) IsTeamManager(ctx context.Context, managerID, employeeID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var isManager bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM team_members tm
			INNER JOIN teams t ON tm.team_id = t.id
			WHERE tm.employee_id = $1 AND t.manager_id = $2 AND t.company_id = $3
		)
	`, employeeID, managerID, companyID).Scan(&isManager)
	if err != nil {
		return false, fmt.Errorf("failed to check team manager: %w", err)
	}

	return isManager, nil
}
