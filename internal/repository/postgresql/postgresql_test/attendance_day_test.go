package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchcard-hq/punchcard-backend-go/internal/domain/attendance"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
)

func TestAttendanceDayRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	breakRepo := postgresql.NewBreakRepository(db)
	repo := postgresql.NewAttendanceDayRepository(db, breakRepo)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	clockIn := date.Add(9 * time.Hour)

	created, err := repo.Create(ctx, attendance.AttendanceDay{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       date,
		ClockIn:    &clockIn,
		Status:     attendance.StatusOpen,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.ClockIn)
	assert.True(t, got.ClockIn.Equal(clockIn))
	assert.Equal(t, attendance.StatusOpen, got.Status)
}

func TestAttendanceDayRepository_GetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	repo := postgresql.NewAttendanceDayRepository(db, postgresql.NewBreakRepository(db))

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), companyID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceDayRepository_DuplicateDateConflicts(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	repo := postgresql.NewAttendanceDayRepository(db, postgresql.NewBreakRepository(db))

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day := attendance.AttendanceDay{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusAbsent,
	}

	_, err := repo.Create(ctx, day)
	require.NoError(t, err)

	_, err = repo.Create(ctx, day)
	assert.ErrorIs(t, err, attendance.ErrDayConflict)
}

func TestAttendanceDayRepository_SetStatusUpserts(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	repo := postgresql.NewAttendanceDayRepository(db, postgresql.NewBreakRepository(db))

	date := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	// No day record yet: SetStatus creates one.
	err := repo.SetStatus(ctx, employeeID, date, companyID, attendance.StatusLeave)
	require.NoError(t, err)

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusLeave, got.Status)

	// Existing record: SetStatus overwrites the status only.
	err = repo.SetStatus(ctx, employeeID, date, companyID, attendance.StatusHoliday)
	require.NoError(t, err)

	got, err = repo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, got.Status)
}

func TestAttendanceDayRepository_UpdateMissingDay(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	repo := postgresql.NewAttendanceDayRepository(db, postgresql.NewBreakRepository(db))

	err := repo.Update(ctx, attendance.AttendanceDay{
		ID:         "11111111-1111-7111-8111-111111111111",
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceDayRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	otherCompanyID, otherEmployeeID := seedEmployee(t, ctx, db)
	repo := postgresql.NewAttendanceDayRepository(db, postgresql.NewBreakRepository(db))

	for day := 2; day <= 6; day++ {
		date := time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
		status := attendance.StatusPresent
		if day%2 == 0 {
			status = attendance.StatusAbsent
		}
		_, err := repo.Create(ctx, attendance.AttendanceDay{
			CompanyID:  companyID,
			EmployeeID: employeeID,
			Date:       date,
			Status:     status,
		})
		require.NoError(t, err)
	}
	// A record in another tenant must never leak into the listing.
	_, err := repo.Create(ctx, attendance.AttendanceDay{
		CompanyID:  otherCompanyID,
		EmployeeID: otherEmployeeID,
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	days, total, err := repo.List(ctx, attendance.DayFilter{Page: 1, Limit: 10}, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, days, 5)

	status := "absent"
	days, total, err = repo.List(ctx, attendance.DayFilter{Status: &status, Page: 1, Limit: 10}, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, d := range days {
		assert.Equal(t, attendance.StatusAbsent, d.Status)
	}

	start := "2026-03-04"
	end := "2026-03-05"
	_, total, err = repo.List(ctx, attendance.DayFilter{StartDate: &start, EndDate: &end, Page: 1, Limit: 10}, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	days, _, err = repo.List(ctx, attendance.DayFilter{Page: 1, Limit: 2}, companyID)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestBreakRepository_CreateUpdateList(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	truncateTables(t, ctx, db, "breaks", "attendance_days", "employees")

	companyID, employeeID := seedEmployee(t, ctx, db)
	breakRepo := postgresql.NewBreakRepository(db)
	dayRepo := postgresql.NewAttendanceDayRepository(db, breakRepo)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day, err := dayRepo.Create(ctx, attendance.AttendanceDay{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusOpen,
	})
	require.NoError(t, err)

	created, err := breakRepo.Create(ctx, attendance.Break{
		AttendanceDayID: day.ID,
		Type:            attendance.BreakExternal,
		Start:           date.Add(10 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, created.Open())

	end := date.Add(10*time.Hour + 30*time.Minute)
	created.End = &end
	require.NoError(t, breakRepo.Update(ctx, created))

	breaks, err := breakRepo.ListByDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.False(t, breaks[0].Open())
	assert.True(t, breaks[0].End.Equal(end))
}
