package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func TestLeaveRequestRepository_DecideOnce(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()

	employee := createTestUser(t, db, "EMP010", user.RoleEmployee)
	hr := createTestUser(t, db, "HR010", user.RoleHR)

	req, err := repo.Create(ctx, leave.LeaveRequest{
		UserID:    employee.ID,
		LeaveType: leave.TypePaid,
		StartDate: date("2025-03-10"),
		EndDate:   date("2025-03-12"),
		TotalDays: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, req.Status)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		processed int
	)
	for _, status := range []leave.Status{leave.StatusApproved, leave.StatusRejected, leave.StatusApproved} {
		wg.Add(1)
		go func(status leave.Status) {
			defer wg.Done()
			_, err := repo.Decide(ctx, req.ID, leave.Decision{
				Status:    status,
				DecidedBy: hr.ID,
				DecidedAt: time.Now().UTC(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
				processed++
			}
		}(status)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, processed)

	_, err = repo.Decide(ctx, "00000000-0000-0000-0000-000000000000", leave.Decision{Status: leave.StatusApproved, DecidedBy: hr.ID})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	assert.ErrorIs(t, repo.DeletePending(ctx, req.ID), leave.ErrOnlyPendingCancellable)
}

func TestLeaveRequestRepository_ListAndApproved(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()

	employee := createTestUser(t, db, "EMP020", user.RoleEmployee)
	hr := createTestUser(t, db, "HR020", user.RoleHR)

	for _, start := range []string{"2024-12-30", "2025-02-03", "2025-06-02"} {
		req, err := repo.Create(ctx, leave.LeaveRequest{
			UserID: employee.ID, LeaveType: leave.TypeSick,
			StartDate: date(start), EndDate: date(start).AddDate(0, 0, 1), TotalDays: 2,
		})
		require.NoError(t, err)
		_, err = repo.Decide(ctx, req.ID, leave.Decision{Status: leave.StatusApproved, DecidedBy: hr.ID, DecidedAt: time.Now().UTC()})
		require.NoError(t, err)
	}
	pending, err := repo.Create(ctx, leave.LeaveRequest{
		UserID: employee.ID, LeaveType: leave.TypePaid,
		StartDate: date("2025-07-01"), EndDate: date("2025-07-01"), TotalDays: 1,
	})
	require.NoError(t, err)

	approved, err := repo.ListApproved(ctx, employee.ID, date("2025-01-01"), date("2026-01-01"))
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	cascadeErr := "write failed"
	require.NoError(t, repo.UpdateCascade(ctx, approved[0].ID, leave.CascadeFailed, &cascadeErr))
	require.NoError(t, repo.UpdateCascade(ctx, approved[1].ID, leave.CascadePending, nil))

	stalled, err := repo.ListStalledCascades(ctx, time.Now().UTC().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stalled, 1)
	assert.Equal(t, approved[0].ID, stalled[0].ID)
	assert.Equal(t, cascadeErr, *stalled[0].CascadeError)

	stalled, err = repo.ListStalledCascades(ctx, time.Now().UTC().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, stalled, 2)

	status := string(leave.StatusPending)
	list, total, err := repo.List(ctx, leave.LeaveRequestFilter{UserID: &employee.ID, Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)

	require.NoError(t, repo.DeletePending(ctx, pending.ID))
	_, err = repo.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
