package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const payrollSelect = `
	SELECT p.id, p.user_id, p.basic_salary, p.hra, p.transport_allowance, p.medical_allowance,
		   p.special_allowance, p.gross_salary, p.pf_deduction, p.tax_deduction, p.other_deductions,
		   p.net_salary, p.pay_frequency, p.bank_name, p.account_number, p.ifsc_code,
		   p.created_at, p.updated_at, u.employee_id, u.email
	FROM payrolls p
	LEFT JOIN users u ON u.id = p.user_id
`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.UserID, &p.BasicSalary, &p.HRA, &p.TransportAllowance, &p.MedicalAllowance,
		&p.SpecialAllowance, &p.GrossSalary, &p.PFDeduction, &p.TaxDeduction, &p.OtherDeductions,
		&p.NetSalary, &p.PayFrequency, &p.BankName, &p.AccountNumber, &p.IFSCCode,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeID, &p.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, err
	}
	return p, nil
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, user_id, basic_salary, hra, transport_allowance, medical_allowance, special_allowance,
			gross_salary, pf_deduction, tax_deduction, other_deductions, net_salary,
			pay_frequency, bank_name, account_number, ifsc_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newID(), p.UserID, p.BasicSalary, p.HRA, p.TransportAllowance, p.MedicalAllowance, p.SpecialAllowance,
		p.GrossSalary, p.PFDeduction, p.TaxDeduction, p.OtherDeductions, p.NetSalary,
		p.PayFrequency, p.BankName, p.AccountNumber, p.IFSCCode,
	).Scan(&id)
	if err != nil {
		switch {
		case isUniqueViolation(err, ""):
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		case isForeignKeyViolation(err), isInvalidID(err):
			return payroll.Payroll{}, payroll.ErrUserNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)
	return scanPayroll(q.QueryRow(ctx, payrollSelect+" WHERE p.id = $1", id))
}

func (r *payrollRepository) GetByUserID(ctx context.Context, userID string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)
	return scanPayroll(q.QueryRow(ctx, payrollSelect+" WHERE p.user_id = $1", userID))
}

func (r *payrollRepository) List(ctx context.Context, params pagination.Params) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	params.Normalize()
	rows, err := q.Query(ctx, payrollSelect+" ORDER BY p.created_at DESC LIMIT $1 OFFSET $2", params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	payrolls := make([]payroll.Payroll, 0)
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, err
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return payrolls, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			basic_salary = $2, hra = $3, transport_allowance = $4, medical_allowance = $5,
			special_allowance = $6, gross_salary = $7, pf_deduction = $8, tax_deduction = $9,
			other_deductions = $10, net_salary = $11, pay_frequency = $12,
			bank_name = $13, account_number = $14, ifsc_code = $15, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query,
		p.ID, p.BasicSalary, p.HRA, p.TransportAllowance, p.MedicalAllowance,
		p.SpecialAllowance, p.GrossSalary, p.PFDeduction, p.TaxDeduction,
		p.OtherDeductions, p.NetSalary, p.PayFrequency,
		p.BankName, p.AccountNumber, p.IFSCCode,
	)
	if err != nil {
		if isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	commandTag, err := q.Exec(ctx, "DELETE FROM payrolls WHERE id = $1", id)
	if err != nil {
		if isInvalidID(err) {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}
