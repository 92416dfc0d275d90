package payroll

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPayroll_Recalculate(t *testing.T) {
	p := Payroll{
		BasicSalary:        dec("50000"),
		HRA:                dec("20000"),
		TransportAllowance: dec("1600.50"),
		MedicalAllowance:   dec("1250"),
		SpecialAllowance:   dec("0.25"),
		PFDeduction:        dec("6000"),
		TaxDeduction:       dec("4500.75"),
		OtherDeductions:    dec("200"),
	}
	p.Recalculate()

	assert.True(t, dec("72850.75").Equal(p.GrossSalary), "gross = %s", p.GrossSalary)
	assert.True(t, dec("62150").Equal(p.NetSalary), "net = %s", p.NetSalary)
	assert.True(t, dec("10700.75").Equal(p.TotalDeductions()))
}

func TestCreatePayrollRequest_Validate(t *testing.T) {
	var req CreatePayrollRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":"u1","basic_salary":30000,"hra":"5000"}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultPayFrequency, req.PayFrequency)

	p := req.ToPayroll()
	assert.True(t, dec("35000").Equal(p.GrossSalary))
	assert.True(t, dec("35000").Equal(p.NetSalary))

	missing := CreatePayrollRequest{UserID: "u1"}
	assert.Error(t, missing.Validate())

	negative := CreatePayrollRequest{UserID: "u1", BasicSalary: ptr(dec("100")), TaxDeduction: dec("-1")}
	assert.Error(t, negative.Validate())
}

func TestUpdatePayrollRequest_ApplyTo(t *testing.T) {
	p := Payroll{BasicSalary: dec("1000"), HRA: dec("200"), PFDeduction: dec("100")}
	p.Recalculate()

	hra := dec("300")
	UpdatePayrollRequest{HRA: &hra}.ApplyTo(&p)

	assert.True(t, dec("1000").Equal(p.BasicSalary))
	assert.True(t, dec("1300").Equal(p.GrossSalary))
	assert.True(t, dec("1200").Equal(p.NetSalary))
}

func ptr[T any](v T) *T { return &v }
