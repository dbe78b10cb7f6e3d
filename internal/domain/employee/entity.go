package employee

import (
	"time"
)

// Employee is the tenant-scoped worker record. ManagerID is the direct
// manager of record; team membership is tracked separately.
type Employee struct {
	ID        string
	CompanyID string
	UserID    *string
	FullName  string
	Email     *string
	ManagerID *string
	HireDate  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team groups employees under a managing employee.
type Team struct {
	ID        string
	CompanyID string
	Name      string
	ManagerID string

	CreatedAt time.Time
}
