package payroll

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

type PayrollService interface {
	CreatePayroll(ctx context.Context, principal user.Principal, req CreatePayrollRequest) (PayrollResponse, error)
	UpdatePayroll(ctx context.Context, principal user.Principal, req UpdatePayrollRequest) (PayrollResponse, error)
	GetMyPayroll(ctx context.Context, principal user.Principal) (PayrollResponse, error)
	GetPayrollByUser(ctx context.Context, principal user.Principal, userID string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, principal user.Principal, params pagination.Params) (ListPayrollResponse, error)
	GeneratePayslip(ctx context.Context, principal user.Principal, req PayslipRequest) (PayslipResponse, error)
	DeletePayroll(ctx context.Context, principal user.Principal, id string) error
}
