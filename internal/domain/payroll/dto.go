package payroll

import (
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayrollRequest struct {
	UserID             string           `json:"user_id" validate:"required"`
	BasicSalary        *decimal.Decimal `json:"basic_salary"`
	HRA                decimal.Decimal  `json:"hra"`
	TransportAllowance decimal.Decimal  `json:"transport_allowance"`
	MedicalAllowance   decimal.Decimal  `json:"medical_allowance"`
	SpecialAllowance   decimal.Decimal  `json:"special_allowance"`
	PFDeduction        decimal.Decimal  `json:"pf_deduction"`
	TaxDeduction       decimal.Decimal  `json:"tax_deduction"`
	OtherDeductions    decimal.Decimal  `json:"other_deductions"`
	PayFrequency       string           `json:"pay_frequency" validate:"omitempty,oneof=MONTHLY BIWEEKLY WEEKLY"`
	BankName           *string          `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	AccountNumber      *string          `json:"account_number,omitempty" validate:"omitempty,max=34"`
	IFSCCode           *string          `json:"ifsc_code,omitempty" validate:"omitempty,max=20"`
}

func (r *CreatePayrollRequest) Validate() error {
	errs := validator.Struct(r)
	if r.BasicSalary == nil {
		errs.Add("basic_salary", "is required")
	}
	amounts := map[string]decimal.Decimal{
		"hra":                 r.HRA,
		"transport_allowance": r.TransportAllowance,
		"medical_allowance":   r.MedicalAllowance,
		"special_allowance":   r.SpecialAllowance,
		"pf_deduction":        r.PFDeduction,
		"tax_deduction":       r.TaxDeduction,
		"other_deductions":    r.OtherDeductions,
	}
	if r.BasicSalary != nil {
		amounts["basic_salary"] = *r.BasicSalary
	}
	checkNonNegative(&errs, amounts)
	if r.PayFrequency == "" {
		r.PayFrequency = DefaultPayFrequency
	}
	return errs.OrNil()
}

// ToPayroll builds the entity with derived totals.
func (r CreatePayrollRequest) ToPayroll() Payroll {
	p := Payroll{
		UserID:             r.UserID,
		HRA:                r.HRA,
		TransportAllowance: r.TransportAllowance,
		MedicalAllowance:   r.MedicalAllowance,
		SpecialAllowance:   r.SpecialAllowance,
		PFDeduction:        r.PFDeduction,
		TaxDeduction:       r.TaxDeduction,
		OtherDeductions:    r.OtherDeductions,
		PayFrequency:       r.PayFrequency,
		BankName:           r.BankName,
		AccountNumber:      r.AccountNumber,
		IFSCCode:           r.IFSCCode,
	}
	if r.BasicSalary != nil {
		p.BasicSalary = *r.BasicSalary
	}
	p.Recalculate()
	return p
}

// UpdatePayrollRequest only touches the fields present in the body.
type UpdatePayrollRequest struct {
	ID                 string           `json:"-" validate:"required"`
	BasicSalary        *decimal.Decimal `json:"basic_salary,omitempty"`
	HRA                *decimal.Decimal `json:"hra,omitempty"`
	TransportAllowance *decimal.Decimal `json:"transport_allowance,omitempty"`
	MedicalAllowance   *decimal.Decimal `json:"medical_allowance,omitempty"`
	SpecialAllowance   *decimal.Decimal `json:"special_allowance,omitempty"`
	PFDeduction        *decimal.Decimal `json:"pf_deduction,omitempty"`
	TaxDeduction       *decimal.Decimal `json:"tax_deduction,omitempty"`
	OtherDeductions    *decimal.Decimal `json:"other_deductions,omitempty"`
	PayFrequency       *string          `json:"pay_frequency,omitempty" validate:"omitempty,oneof=MONTHLY BIWEEKLY WEEKLY"`
	BankName           *string          `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	AccountNumber      *string          `json:"account_number,omitempty" validate:"omitempty,max=34"`
	IFSCCode           *string          `json:"ifsc_code,omitempty" validate:"omitempty,max=20"`
}

func (r *UpdatePayrollRequest) Validate() error {
	errs := validator.Struct(r)
	amounts := map[string]decimal.Decimal{}
	for field, v := range map[string]*decimal.Decimal{
		"basic_salary":        r.BasicSalary,
		"hra":                 r.HRA,
		"transport_allowance": r.TransportAllowance,
		"medical_allowance":   r.MedicalAllowance,
		"special_allowance":   r.SpecialAllowance,
		"pf_deduction":        r.PFDeduction,
		"tax_deduction":       r.TaxDeduction,
		"other_deductions":    r.OtherDeductions,
	} {
		if v != nil {
			amounts[field] = *v
		}
	}
	checkNonNegative(&errs, amounts)
	return errs.OrNil()
}

// ApplyTo merges the request into p and recomputes the totals.
func (r UpdatePayrollRequest) ApplyTo(p *Payroll) {
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.BasicSalary, r.BasicSalary)
	set(&p.HRA, r.HRA)
	set(&p.TransportAllowance, r.TransportAllowance)
	set(&p.MedicalAllowance, r.MedicalAllowance)
	set(&p.SpecialAllowance, r.SpecialAllowance)
	set(&p.PFDeduction, r.PFDeduction)
	set(&p.TaxDeduction, r.TaxDeduction)
	set(&p.OtherDeductions, r.OtherDeductions)
	if r.PayFrequency != nil {
		p.PayFrequency = *r.PayFrequency
	}
	if r.BankName != nil {
		p.BankName = r.BankName
	}
	if r.AccountNumber != nil {
		p.AccountNumber = r.AccountNumber
	}
	if r.IFSCCode != nil {
		p.IFSCCode = r.IFSCCode
	}
	p.Recalculate()
}

func checkNonNegative(errs *validator.ValidationErrors, amounts map[string]decimal.Decimal) {
	for field, v := range amounts {
		if v.IsNegative() {
			errs.Add(field, "must be greater than or equal to 0")
		}
	}
}

type PayslipRequest struct {
	ID    string `json:"-"`
	Month int    `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	Year  int    `json:"year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
}

func (r *PayslipRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type PayrollResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	EmployeeID         *string         `json:"employee_id,omitempty"`
	Email              *string         `json:"email,omitempty"`
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	HRA                decimal.Decimal `json:"hra"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	MedicalAllowance   decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance   decimal.Decimal `json:"special_allowance"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	PFDeduction        decimal.Decimal `json:"pf_deduction"`
	TaxDeduction       decimal.Decimal `json:"tax_deduction"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	PayFrequency       string          `json:"pay_frequency"`
	BankName           *string         `json:"bank_name,omitempty"`
	AccountNumber      *string         `json:"account_number,omitempty"`
	IFSCCode           *string         `json:"ifsc_code,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		EmployeeID:         p.EmployeeID,
		Email:              p.Email,
		BasicSalary:        p.BasicSalary,
		HRA:                p.HRA,
		TransportAllowance: p.TransportAllowance,
		MedicalAllowance:   p.MedicalAllowance,
		SpecialAllowance:   p.SpecialAllowance,
		GrossSalary:        p.GrossSalary,
		PFDeduction:        p.PFDeduction,
		TaxDeduction:       p.TaxDeduction,
		OtherDeductions:    p.OtherDeductions,
		NetSalary:          p.NetSalary,
		PayFrequency:       p.PayFrequency,
		BankName:           p.BankName,
		AccountNumber:      p.AccountNumber,
		IFSCCode:           p.IFSCCode,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

type ListPayrollResponse struct {
	Payrolls   []PayrollResponse `json:"payrolls"`
	Pagination pagination.Meta   `json:"-"`
}

type PayslipResponse struct {
	Payroll         PayrollResponse `json:"payroll"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
}
