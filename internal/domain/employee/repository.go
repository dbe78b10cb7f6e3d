package employee

import (
	"context"
)

// EmployeeRepository defines data access for employees and teams.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// IsDirectManager reports whether managerID is the manager of record
	// for employeeID.
	IsDirectManager(ctx context.Context, managerID, employeeID string, companyID string) (bool, error)

	// IsTeamManager reports whether managerID manages any team that
	// employeeID belongs to.
	IsTeamManager(ctx context.Context, managerID, employeeID string, companyID string) (bool, error)
}

// CanManage is the correction-approval guard: a manager may decide a
// request when they are the requester's direct manager or manage one of
// the requester's teams. Two independent predicates, no graph walk.
func CanManage(ctx context.Context, repo EmployeeRepository, managerID, employeeID, companyID string) (bool, error) {
	direct, err := repo.IsDirectManager(ctx, managerID, employeeID, companyID)
	if err != nil {
		return false, err
	}
	if direct {
		return true, nil
	}
	return repo.IsTeamManager(ctx, managerID, employeeID, companyID)
}
