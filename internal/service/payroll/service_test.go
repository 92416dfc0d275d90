package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollRepository struct {
	payrolls map[string]payroll.Payroll
	users    map[string]bool
	seq      int
}

func newFakePayrollRepository(userIDs ...string) *fakePayrollRepository {
	f := &fakePayrollRepository{payrolls: make(map[string]payroll.Payroll), users: make(map[string]bool)}
	for _, id := range userIDs {
		f.users[id] = true
	}
	return f
}

func (f *fakePayrollRepository) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	if !f.users[p.UserID] {
		return payroll.Payroll{}, payroll.ErrUserNotFound
	}
	for _, existing := range f.payrolls {
		if existing.UserID == p.UserID {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
	}
	f.seq++
	p.ID = fmt.Sprintf("pay-%d", f.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.payrolls[p.ID] = p
	return p, nil
}

func (f *fakePayrollRepository) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	p, ok := f.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (f *fakePayrollRepository) GetByUserID(_ context.Context, userID string) (payroll.Payroll, error) {
	for _, p := range f.payrolls {
		if p.UserID == userID {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (f *fakePayrollRepository) List(_ context.Context, _ pagination.Params) ([]payroll.Payroll, int64, error) {
	out := make([]payroll.Payroll, 0, len(f.payrolls))
	for _, p := range f.payrolls {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepository) Update(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	if _, ok := f.payrolls[p.ID]; !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	f.payrolls[p.ID] = p
	return p, nil
}

func (f *fakePayrollRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.payrolls[id]; !ok {
		return payroll.ErrPayrollNotFound
	}
	delete(f.payrolls, id)
	return nil
}

var (
	employee = user.Principal{UserID: "emp-1", Role: user.RoleEmployee}
	other    = user.Principal{UserID: "emp-2", Role: user.RoleEmployee}
	hr       = user.Principal{UserID: "hr-1", Role: user.RoleHR}
	admin    = user.Principal{UserID: "admin-1", Role: user.RoleAdmin}
)

func newTestService(repo *fakePayrollRepository, now time.Time) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		PayrollRepository: repo,
		loc:               time.UTC,
		now:               func() time.Time { return now },
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createRequest(userID string) payroll.CreatePayrollRequest {
	basic := dec("50000")
	return payroll.CreatePayrollRequest{
		UserID:      userID,
		BasicSalary: &basic,
		HRA:         dec("20000"),
		PFDeduction: dec("6000"),
	}
}

func TestCreatePayroll(t *testing.T) {
	ctx := context.Background()
	repo := newFakePayrollRepository("emp-1")
	svc := newTestService(repo, time.Now())

	_, err := svc.CreatePayroll(ctx, employee, createRequest("emp-1"))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	assert.Empty(t, repo.payrolls)

	created, err := svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	require.NoError(t, err)
	assert.True(t, dec("70000").Equal(created.GrossSalary))
	assert.True(t, dec("64000").Equal(created.NetSalary))
	assert.Equal(t, payroll.DefaultPayFrequency, created.PayFrequency)

	_, err = svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)

	_, err = svc.CreatePayroll(ctx, hr, createRequest("ghost"))
	assert.ErrorIs(t, err, payroll.ErrUserNotFound)

	bad := createRequest("emp-1")
	bad.TaxDeduction = dec("-1")
	_, err = svc.CreatePayroll(ctx, hr, bad)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestUpdatePayroll_RecomputesTotals(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePayrollRepository("emp-1"), time.Now())
	created, err := svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	require.NoError(t, err)

	tax := dec("4000")
	updated, err := svc.UpdatePayroll(ctx, hr, payroll.UpdatePayrollRequest{ID: created.ID, TaxDeduction: &tax})
	require.NoError(t, err)
	assert.True(t, dec("70000").Equal(updated.GrossSalary))
	assert.True(t, dec("60000").Equal(updated.NetSalary))

	_, err = svc.UpdatePayroll(ctx, hr, payroll.UpdatePayrollRequest{ID: "missing", TaxDeduction: &tax})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestGetPayroll(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePayrollRepository("emp-1"), time.Now())
	_, err := svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	require.NoError(t, err)

	mine, err := svc.GetMyPayroll(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", mine.UserID)

	_, err = svc.GetMyPayroll(ctx, other)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)

	_, err = svc.GetPayrollByUser(ctx, employee, "emp-1")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	byUser, err := svc.GetPayrollByUser(ctx, hr, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, mine.ID, byUser.ID)

	list, err := svc.ListPayrolls(ctx, hr, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, list.Payrolls, 1)
	assert.Equal(t, pagination.DefaultLimit, list.Pagination.Limit)
}

func TestGeneratePayslip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePayrollRepository("emp-1"), time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	created, err := svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	require.NoError(t, err)

	slip, err := svc.GeneratePayslip(ctx, employee, payroll.PayslipRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, 7, slip.Month)
	assert.Equal(t, 2025, slip.Year)
	assert.True(t, dec("6000").Equal(slip.TotalDeductions))

	slip, err = svc.GeneratePayslip(ctx, hr, payroll.PayslipRequest{ID: created.ID, Month: 2, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, slip.Month)
	assert.Equal(t, 2024, slip.Year)

	_, err = svc.GeneratePayslip(ctx, other, payroll.PayslipRequest{ID: created.ID})
	assert.ErrorIs(t, err, payroll.ErrAccessDenied)

	_, err = svc.GeneratePayslip(ctx, employee, payroll.PayslipRequest{ID: created.ID, Month: 13})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDeletePayroll(t *testing.T) {
	ctx := context.Background()
	repo := newFakePayrollRepository("emp-1")
	svc := newTestService(repo, time.Now())
	created, err := svc.CreatePayroll(ctx, hr, createRequest("emp-1"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePayroll(ctx, hr, created.ID), user.ErrInsufficientPermissions)
	require.NoError(t, svc.DeletePayroll(ctx, admin, created.ID))
	assert.Empty(t, repo.payrolls)
	assert.ErrorIs(t, svc.DeletePayroll(ctx, admin, created.ID), payroll.ErrPayrollNotFound)
}
