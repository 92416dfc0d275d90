package payroll

import (
	"context"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByUserID(ctx context.Context, userID string) (Payroll, error)
	List(ctx context.Context, params pagination.Params) ([]Payroll, int64, error)
	Update(ctx context.Context, p Payroll) (Payroll, error)
	Delete(ctx context.Context, id string) error
}
