package leave

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/leave"
	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/user"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/events"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
)

var (
	leaveTestDB   *database.DB
	leaveTestOnce sync.Once
)

func leaveTestInit(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	leaveTestOnce.Do(func() {
		db, err := database.NewPostgreSQLDB(dsn, 10, 2)
		if err != nil {
			panic("failed to connect to test database: " + err.Error())
		}

		schema, err := os.ReadFile("../../../migrations/0001_init.sql")
		if err != nil {
			panic("failed to read schema: " + err.Error())
		}
		if _, err := db.Exec(context.Background(), string(schema)); err != nil {
			panic("failed to apply schema: " + err.Error())
		}

		leaveTestDB = db
	})

	return leaveTestDB
}

func truncateLeaveTables(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()

	tables := []string{"leave_balances", "leave_requests", "leave_types", "breaks", "attendance_days", "employees"}
	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			continue
		}
	}
}

func createLeaveTestEmployee(t *testing.T, ctx context.Context, db *database.DB) (companyID, employeeID string) {
	t.Helper()

	err := db.QueryRow(ctx, `
		INSERT INTO employees (company_id, full_name)
		VALUES (gen_random_uuid(), 'Test Employee')
		RETURNING company_id, id
	`).Scan(&companyID, &employeeID)
	require.NoError(t, err)
	return companyID, employeeID
}

func createLeaveTestType(t *testing.T, ctx context.Context, db *database.DB, companyID string, quota *float64, allowHalfDay bool) string {
	t.Helper()

	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO leave_types (company_id, name, default_annual_quota, allow_half_day, is_active)
		VALUES ($1, 'Annual Leave', $2, $3, true)
		RETURNING id
	`, companyID, quota, allowHalfDay).Scan(&id)
	require.NoError(t, err)
	return id
}

func leaveClaimsContext(t *testing.T, ctx context.Context, companyID, employeeID string, role user.Role) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     employeeID,
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(ctx, token, nil)
}

func newLeaveTestService(db *database.DB) leave.LeaveService {
	breakRepo := postgresql.NewBreakRepository(db)
	dayRepo := postgresql.NewAttendanceDayRepository(db, breakRepo)
	return NewLeaveService(
		db,
		postgresql.NewLeaveTypeRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		postgresql.NewLeaveBalanceRepository(db),
		dayRepo,
		events.NewHub(),
	)
}

func floatPtr(f float64) *float64 { return &f }

func TestLeaveService_ApproveStampsLeaveDays(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, approverID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, floatPtr(12), false)
	svc := newLeaveTestService(db)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	created, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   "2026-04-06",
		EndDate:     "2026-04-07",
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), created.Status)
	assert.Equal(t, "2", created.Days)

	ownerCtx := leaveClaimsContext(t, ctx, companyID, approverID, user.RoleOwner)
	decided, err := svc.Decide(ownerCtx, leave.DecideLeaveRequest{
		ID:       created.ID,
		Decision: leave.LeaveDecisionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), decided.Status)

	// Both covered dates carry the leave stamp.
	var stamped int
	err = db.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_days
		WHERE employee_id = $1 AND status = 'leave'
		  AND date BETWEEN '2026-04-06' AND '2026-04-07'
	`, employeeID).Scan(&stamped)
	require.NoError(t, err)
	assert.Equal(t, 2, stamped)

	var used decimal.Decimal
	err = db.QueryRow(ctx, `
		SELECT used FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = 2026
	`, employeeID, typeID).Scan(&used)
	require.NoError(t, err)
	assert.True(t, used.Equal(decimal.NewFromInt(2)), "used = %s", used)
}

func TestLeaveService_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, approverID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, floatPtr(8), true)
	svc := newLeaveTestService(db)

	// An already approved request consumes the whole quota.
	_, err := db.Exec(ctx, `
		INSERT INTO leave_requests (company_id, employee_id, leave_type_id, start_date, end_date, status)
		VALUES ($1, $2, $3, '2026-02-02', '2026-02-09', 'approved')
	`, companyID, employeeID, typeID)
	require.NoError(t, err)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	created, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-01",
		IsHalfDay:   true,
	})
	require.NoError(t, err)

	ownerCtx := leaveClaimsContext(t, ctx, companyID, approverID, user.RoleOwner)
	_, err = svc.Decide(ownerCtx, leave.DecideLeaveRequest{
		ID:       created.ID,
		Decision: leave.LeaveDecisionApprove,
	})
	require.ErrorIs(t, err, leave.ErrQuotaExceeded)

	var quotaErr *leave.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.True(t, quotaErr.Requested.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, quotaErr.Consumed.Equal(decimal.NewFromInt(8)))
	assert.True(t, quotaErr.Quota.Equal(decimal.NewFromInt(8)))

	// The failed approval leaves the request pending.
	var status string
	err = db.QueryRow(ctx, `SELECT status FROM leave_requests WHERE id = $1`, created.ID).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}

func TestLeaveService_ConcurrentApprovalsRespectQuota(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, approverID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, floatPtr(5), false)
	svc := newLeaveTestService(db)

	// Two pending requests of 3 days each against a 5 day quota: only
	// one may be approved.
	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	first, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID, StartDate: "2026-03-02", EndDate: "2026-03-04",
	})
	require.NoError(t, err)
	second, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID, StartDate: "2026-05-04", EndDate: "2026-05-06",
	})
	require.NoError(t, err)

	ownerCtx := leaveClaimsContext(t, ctx, companyID, approverID, user.RoleOwner)
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Decide(ownerCtx, leave.DecideLeaveRequest{
				ID:       id,
				Decision: leave.LeaveDecisionApprove,
			})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var approved, refused int
	for err := range errs {
		if err == nil {
			approved++
		} else {
			assert.ErrorIs(t, err, leave.ErrQuotaExceeded)
			refused++
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, refused)

	var used decimal.Decimal
	err = db.QueryRow(ctx, `
		SELECT used FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = 2026
	`, employeeID, typeID).Scan(&used)
	require.NoError(t, err)
	assert.True(t, used.Equal(decimal.NewFromInt(3)), "used = %s", used)
}

func TestLeaveService_RejectRequiresReasonAndSkipsQuota(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, approverID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, floatPtr(1), false)
	svc := newLeaveTestService(db)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	created, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID, StartDate: "2026-03-02", EndDate: "2026-03-06",
	})
	require.NoError(t, err)

	ownerCtx := leaveClaimsContext(t, ctx, companyID, approverID, user.RoleOwner)
	reason := "headcount is too thin that week"
	decided, err := svc.Decide(ownerCtx, leave.DecideLeaveRequest{
		ID:              created.ID,
		Decision:        leave.LeaveDecisionReject,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusRejected), decided.Status)
	require.NotNil(t, decided.RejectionReason)
	assert.Equal(t, reason, *decided.RejectionReason)

	// A decided request cannot be decided again.
	_, err = svc.Decide(ownerCtx, leave.DecideLeaveRequest{
		ID:       created.ID,
		Decision: leave.LeaveDecisionApprove,
	})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestLeaveService_CancelOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, otherID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, nil, false)
	svc := newLeaveTestService(db)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	created, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID, StartDate: "2026-03-02", EndDate: "2026-03-02",
	})
	require.NoError(t, err)

	otherCtx := leaveClaimsContext(t, ctx, companyID, otherID, user.RoleEmployee)
	_, err = svc.Cancel(otherCtx, created.ID)
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	cancelled, err := svc.Cancel(empCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusCancelled), cancelled.Status)
}

func TestLeaveService_UnlimitedQuotaSkipsBalance(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	_, approverID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, nil, false)
	svc := newLeaveTestService(db)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	created, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID, StartDate: "2026-03-02", EndDate: "2026-03-31",
	})
	require.NoError(t, err)

	ownerCtx := leaveClaimsContext(t, ctx, companyID, approverID, user.RoleOwner)
	decided, err := svc.Decide(ownerCtx, leave.DecideLeaveRequest{
		ID:       created.ID,
		Decision: leave.LeaveDecisionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), decided.Status)

	var count int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM leave_balances WHERE employee_id = $1`, employeeID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "an unlimited type keeps no balance row")
}

func TestLeaveService_HalfDayRequiresTypeSupport(t *testing.T) {
	ctx := context.Background()
	db := leaveTestInit(t)
	truncateLeaveTables(t, ctx, db)

	companyID, employeeID := createLeaveTestEmployee(t, ctx, db)
	typeID := createLeaveTestType(t, ctx, db, companyID, floatPtr(12), false)
	svc := newLeaveTestService(db)

	empCtx := leaveClaimsContext(t, ctx, companyID, employeeID, user.RoleEmployee)
	_, err := svc.CreateRequest(empCtx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-02",
		IsHalfDay:   true,
	})
	assert.ErrorIs(t, err, leave.ErrHalfDayNotAllowed)
}
