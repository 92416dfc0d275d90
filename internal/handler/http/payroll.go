package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/middleware"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	GetByUser(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// Create implements PayrollHandler.
func (p *PayrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := p.payrollService.CreatePayroll(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll created successfully", created)
}

// Update implements PayrollHandler.
func (p *PayrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := p.payrollService.UpdatePayroll(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll updated successfully", updated)
}

// GetMine implements PayrollHandler.
func (p *PayrollHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	mine, err := p.payrollService.GetMyPayroll(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, mine)
}

// GetByUser implements PayrollHandler.
func (p *PayrollHandlerImpl) GetByUser(w http.ResponseWriter, r *http.Request) {
	found, err := p.payrollService.GetPayrollByUser(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// List implements PayrollHandler.
func (p *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	result, err := p.payrollService.ListPayrolls(r.Context(), middleware.PrincipalFromContext(r.Context()), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithPagination(w, result.Payrolls, result.Pagination)
}

// Payslip implements PayrollHandler. The body is optional.
func (p *PayrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayslipRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Payslip decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	slip, err := p.payrollService.GeneratePayslip(r.Context(), middleware.PrincipalFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, slip)
}

// Delete implements PayrollHandler.
func (p *PayrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := p.payrollService.DeletePayroll(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll deleted successfully", nil)
}
