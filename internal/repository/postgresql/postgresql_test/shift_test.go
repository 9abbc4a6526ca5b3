package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/payroll"
	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/crewcall/crewcall-backend-go/internal/repository/postgresql"
)

func createTestShift(t *testing.T, ctx context.Context, db *database.DB, employeeID string, day time.Time) shift.ShiftRecord {
	t.Helper()

	repo := postgresql.NewShiftRepository(db)
	in := time.Date(day.Year(), day.Month(), day.Day(), 15, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, shift.ShiftRecord{
		EmployeeID:  employeeID,
		ShiftDate:   day,
		ShiftType:   shift.TypeEvent,
		TimeIn:      in,
		TimeOut:     in.Add(5 * time.Hour),
		HoursWorked: decimal.NewFromInt(5),
		PayRate:     decimal.RequireFromString("21.50"),
	})
	require.NoError(t, err)
	return created
}

// ===== SHIFT REPOSITORY TESTS =====

func TestShiftRepository_Create_DefaultsToUnpaid(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	created := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Paid)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestShiftRepository_GetByID_JoinsEmployeeNames(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewShiftRepository(db)

	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	created := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))

	fetched, err := repo.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, empID, fetched.EmployeeID)
	require.NotNil(t, fetched.EmployeeName)
	assert.Equal(t, "Crew worker@crew.test", *fetched.EmployeeName)
	assert.Nil(t, fetched.PaidByName)
	assert.True(t, fetched.HoursWorked.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "2025-07-04", fetched.ShiftDate.Format("2006-01-02"))
}

func TestShiftRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewShiftRepository(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")

	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestShiftRepository_List_FiltersByDateWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewShiftRepository(db)

	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	createTestShift(t, ctx, db, empID, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	inWindow := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC))

	from := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	records, total, err := repo.List(ctx, shift.ShiftFilter{
		From:  &from,
		To:    &to,
		Page:  1,
		Limit: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, inWindow.ID, records[0].ID)
}

// ===== PAYROLL REPOSITORY TESTS =====

func TestPayrollRepository_BatchUpdatePayState_SkipsAlreadySettled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)

	adminID := createTestEmployee(t, ctx, db, "boss@crew.test", employee.RoleAdmin)
	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	first := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	second := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC))

	state := shift.PaidState(adminID, time.Now().UTC())
	settled, err := repo.BatchUpdatePayState(ctx, []string{first.ID, second.ID}, state)

	require.NoError(t, err)
	require.Len(t, settled, 2)
	for _, rec := range settled {
		assert.True(t, rec.Paid)
		require.NotNil(t, rec.PaidAt)
		require.NotNil(t, rec.PaidBy)
		assert.Equal(t, adminID, *rec.PaidBy)
	}

	// Re-settling the same selection touches no rows.
	again, err := repo.BatchUpdatePayState(ctx, []string{first.ID, second.ID}, state)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPayrollRepository_UpdatePayState_UndoClearsStamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	payRepo := postgresql.NewPayrollRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)

	adminID := createTestEmployee(t, ctx, db, "boss@crew.test", employee.RoleAdmin)
	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	rec := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))

	require.NoError(t, payRepo.UpdatePayState(ctx, rec.ID, shift.PaidState(adminID, time.Now().UTC())))
	require.NoError(t, payRepo.UpdatePayState(ctx, rec.ID, shift.UnpaidState()))

	fetched, err := shiftRepo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Paid)
	assert.Nil(t, fetched.PaidAt)
	assert.Nil(t, fetched.PaidBy)
}

func TestPayrollRepository_UpdatePayState_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewPayrollRepository(db)

	err := repo.UpdatePayState(context.Background(), "00000000-0000-0000-0000-000000000000", shift.UnpaidState())

	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestPayrollRepository_ListByEmployeeAndPaid_SplitsByFlag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)

	adminID := createTestEmployee(t, ctx, db, "boss@crew.test", employee.RoleAdmin)
	empID := createTestEmployee(t, ctx, db, "worker@crew.test", employee.RoleEmployee)
	open := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	settled := createTestShift(t, ctx, db, empID, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.UpdatePayState(ctx, settled.ID, shift.PaidState(adminID, time.Now().UTC())))

	unpaid, err := repo.ListByEmployeeAndPaid(ctx, empID, false)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, open.ID, unpaid[0].ID)

	paid, err := repo.ListByEmployeeAndPaid(ctx, empID, true)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, settled.ID, paid[0].ID)
}

func TestPayrollRepository_ListInWindow_OrdersByEmployee(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(db)

	zed := createTestEmployee(t, ctx, db, "zed@crew.test", employee.RoleEmployee)
	amy := createTestEmployee(t, ctx, db, "amy@crew.test", employee.RoleEmployee)
	createTestShift(t, ctx, db, zed, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	createTestShift(t, ctx, db, amy, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))

	records, err := repo.ListInWindow(ctx, payroll.SummaryFilter{})

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].EmployeeName)
	assert.Equal(t, "Crew amy@crew.test", *records[0].EmployeeName)
	assert.Equal(t, "Crew zed@crew.test", *records[1].EmployeeName)
}
