package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewPayrollService(repo payroll.PayrollRepository, loc *time.Location, logger *slog.Logger) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		PayrollRepository: repo,
		loc:               loc,
		now:               time.Now,
		logger:            logger.With("component", "payroll"),
	}
}

// CreatePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayroll(ctx context.Context, principal user.Principal, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := principal.Require(user.PermissionPayrollManage); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	created, err := s.PayrollRepository.Create(ctx, req.ToPayroll())
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollAlreadyExists) || errors.Is(err, payroll.ErrUserNotFound) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	s.logger.InfoContext(ctx, "payroll created", "payroll_id", created.ID, "user_id", created.UserID, "created_by", principal.UserID)
	return payroll.NewPayrollResponse(created), nil
}

// UpdatePayroll implements payroll.PayrollService. Gross and net are
// recomputed from the merged components.
func (s *PayrollServiceImpl) UpdatePayroll(ctx context.Context, principal user.Principal, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := principal.Require(user.PermissionPayrollManage); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	existing, err := s.PayrollRepository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	req.ApplyTo(&existing)

	updated, err := s.PayrollRepository.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll: %w", err)
	}

	s.logger.InfoContext(ctx, "payroll updated", "payroll_id", updated.ID, "updated_by", principal.UserID)
	return payroll.NewPayrollResponse(updated), nil
}

// GetMyPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMyPayroll(ctx context.Context, principal user.Principal) (payroll.PayrollResponse, error) {
	if err := principal.Require(user.PermissionPayrollViewOwn); err != nil {
		return payroll.PayrollResponse{}, err
	}
	p, err := s.PayrollRepository.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(p), nil
}

// GetPayrollByUser implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollByUser(ctx context.Context, principal user.Principal, userID string) (payroll.PayrollResponse, error) {
	if err := principal.Require(user.PermissionPayrollManage); err != nil {
		return payroll.PayrollResponse{}, err
	}
	p, err := s.PayrollRepository.GetByUserID(ctx, userID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.NewPayrollResponse(p), nil
}

// ListPayrolls implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, principal user.Principal, params pagination.Params) (payroll.ListPayrollResponse, error) {
	if err := principal.Require(user.PermissionPayrollManage); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	params.Normalize()

	payrolls, total, err := s.PayrollRepository.List(ctx, params)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	resp := payroll.ListPayrollResponse{
		Payrolls:   make([]payroll.PayrollResponse, 0, len(payrolls)),
		Pagination: pagination.NewMeta(params, total),
	}
	for _, p := range payrolls {
		resp.Payrolls = append(resp.Payrolls, payroll.NewPayrollResponse(p))
	}
	return resp, nil
}

// GeneratePayslip implements payroll.PayrollService. Month and year default to
// the current period.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, principal user.Principal, req payroll.PayslipRequest) (payroll.PayslipResponse, error) {
	if err := principal.Require(user.PermissionPayrollViewOwn); err != nil {
		return payroll.PayslipResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	p, err := s.PayrollRepository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	if !principal.Owns(p.UserID) && !principal.Can(user.PermissionPayrollManage) {
		return payroll.PayslipResponse{}, payroll.ErrAccessDenied
	}

	now := s.now().In(s.loc)
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	return payroll.PayslipResponse{
		Payroll:         payroll.NewPayrollResponse(p),
		Month:           req.Month,
		Year:            req.Year,
		TotalDeductions: p.TotalDeductions(),
	}, nil
}

// DeletePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayroll(ctx context.Context, principal user.Principal, id string) error {
	if err := principal.Require(user.PermissionPayrollDelete); err != nil {
		return err
	}
	if err := s.PayrollRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "payroll deleted", "payroll_id", id, "deleted_by", principal.UserID)
	return nil
}
