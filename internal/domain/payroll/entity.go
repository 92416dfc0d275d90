package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPayFrequency = "MONTHLY"

// Payroll is the salary structure of one user. Gross and net are always derived.
type Payroll struct {
	ID                 string
	UserID             string
	BasicSalary        decimal.Decimal
	HRA                decimal.Decimal
	TransportAllowance decimal.Decimal
	MedicalAllowance   decimal.Decimal
	SpecialAllowance   decimal.Decimal
	GrossSalary        decimal.Decimal
	PFDeduction        decimal.Decimal
	TaxDeduction       decimal.Decimal
	OtherDeductions    decimal.Decimal
	NetSalary          decimal.Decimal
	PayFrequency       string
	BankName           *string
	AccountNumber      *string
	IFSCCode           *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeID *string
	Email      *string
}

// Recalculate derives gross and net salary from the components.
func (p *Payroll) Recalculate() {
	p.GrossSalary = decimal.Sum(p.BasicSalary, p.HRA, p.TransportAllowance, p.MedicalAllowance, p.SpecialAllowance)
	p.NetSalary = p.GrossSalary.Sub(p.TotalDeductions())
}

func (p Payroll) TotalDeductions() decimal.Decimal {
	return decimal.Sum(p.PFDeduction, p.TaxDeduction, p.OtherDeductions)
}
