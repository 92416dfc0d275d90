package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/payroll"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Money is stored as Decimal128 so no precision is lost in either direction.
type payrollDocument struct {
	ID                 bson.ObjectID   `bson:"_id,omitempty"`
	UserID             bson.ObjectID   `bson:"user_id"`
	BasicSalary        bson.Decimal128 `bson:"basic_salary"`
	HRA                bson.Decimal128 `bson:"hra"`
	TransportAllowance bson.Decimal128 `bson:"transport_allowance"`
	MedicalAllowance   bson.Decimal128 `bson:"medical_allowance"`
	SpecialAllowance   bson.Decimal128 `bson:"special_allowance"`
	GrossSalary        bson.Decimal128 `bson:"gross_salary"`
	PFDeduction        bson.Decimal128 `bson:"pf_deduction"`
	TaxDeduction       bson.Decimal128 `bson:"tax_deduction"`
	OtherDeductions    bson.Decimal128 `bson:"other_deductions"`
	NetSalary          bson.Decimal128 `bson:"net_salary"`
	PayFrequency       string          `bson:"pay_frequency"`
	BankName           *string         `bson:"bank_name,omitempty"`
	AccountNumber      *string         `bson:"account_number,omitempty"`
	IFSCCode           *string         `bson:"ifsc_code,omitempty"`
	CreatedAt          time.Time       `bson:"created_at"`
	UpdatedAt          time.Time       `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	return bson.ParseDecimal128(d.String())
}

func fromDecimal128(d bson.Decimal128) decimal.Decimal {
	v, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return v
}

func newPayrollDocument(p payroll.Payroll) (payrollDocument, error) {
	userID, err := objectID(p.UserID)
	if err != nil {
		return payrollDocument{}, payroll.ErrUserNotFound
	}
	doc := payrollDocument{
		UserID:        userID,
		PayFrequency:  p.PayFrequency,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
		IFSCCode:      p.IFSCCode,
	}

	amounts := []struct {
		dst *bson.Decimal128
		src decimal.Decimal
	}{
		{&doc.BasicSalary, p.BasicSalary},
		{&doc.HRA, p.HRA},
		{&doc.TransportAllowance, p.TransportAllowance},
		{&doc.MedicalAllowance, p.MedicalAllowance},
		{&doc.SpecialAllowance, p.SpecialAllowance},
		{&doc.GrossSalary, p.GrossSalary},
		{&doc.PFDeduction, p.PFDeduction},
		{&doc.TaxDeduction, p.TaxDeduction},
		{&doc.OtherDeductions, p.OtherDeductions},
		{&doc.NetSalary, p.NetSalary},
	}
	for _, a := range amounts {
		v, err := toDecimal128(a.src)
		if err != nil {
			return payrollDocument{}, fmt.Errorf("convert amount %s: %w", a.src, err)
		}
		*a.dst = v
	}
	return doc, nil
}

func (d payrollDocument) toDomain() payroll.Payroll {
	return payroll.Payroll{
		ID:                 d.ID.Hex(),
		UserID:             d.UserID.Hex(),
		BasicSalary:        fromDecimal128(d.BasicSalary),
		HRA:                fromDecimal128(d.HRA),
		TransportAllowance: fromDecimal128(d.TransportAllowance),
		MedicalAllowance:   fromDecimal128(d.MedicalAllowance),
		SpecialAllowance:   fromDecimal128(d.SpecialAllowance),
		GrossSalary:        fromDecimal128(d.GrossSalary),
		PFDeduction:        fromDecimal128(d.PFDeduction),
		TaxDeduction:       fromDecimal128(d.TaxDeduction),
		OtherDeductions:    fromDecimal128(d.OtherDeductions),
		NetSalary:          fromDecimal128(d.NetSalary),
		PayFrequency:       d.PayFrequency,
		BankName:           d.BankName,
		AccountNumber:      d.AccountNumber,
		IFSCCode:           d.IFSCCode,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type payrollRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

func NewPayrollRepository(db *mongo.Database) payroll.PayrollRepository {
	return &payrollRepository{
		collection: db.Collection(payrollsCollection),
		users:      db.Collection(usersCollection),
	}
}

// attachUsers fills the joined employee fields.
func (r *payrollRepository) attachUsers(ctx context.Context, payrolls []payroll.Payroll) error {
	if len(payrolls) == 0 {
		return nil
	}
	ids := make([]bson.ObjectID, 0, len(payrolls))
	for _, p := range payrolls {
		if oid, err := objectID(p.UserID); err == nil {
			ids = append(ids, oid)
		}
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("find payroll users: %w", err)
	}
	var users []userDocument
	if err := cursor.All(ctx, &users); err != nil {
		return fmt.Errorf("decode payroll users: %w", err)
	}

	byID := make(map[string]userDocument, len(users))
	for _, u := range users {
		byID[u.ID.Hex()] = u
	}
	for i := range payrolls {
		if u, ok := byID[payrolls[i].UserID]; ok {
			employeeID, email := u.EmployeeID, u.Email
			payrolls[i].EmployeeID = &employeeID
			payrolls[i].Email = &email
		}
	}
	return nil
}

func (r *payrollRepository) findOne(ctx context.Context, filter bson.M) (payroll.Payroll, error) {
	var doc payrollDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, err
	}
	found := []payroll.Payroll{doc.toDomain()}
	if err := r.attachUsers(ctx, found); err != nil {
		return payroll.Payroll{}, err
	}
	return found[0], nil
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	doc, err := newPayrollDocument(p)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if err := r.users.FindOne(ctx, bson.M{"_id": doc.UserID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return payroll.Payroll{}, payroll.ErrUserNotFound
		}
		return payroll.Payroll{}, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return r.findOne(ctx, bson.M{"_id": doc.ID})
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	oid, err := objectID(id)
	if err != nil {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *payrollRepository) GetByUserID(ctx context.Context, userID string) (payroll.Payroll, error) {
	oid, err := objectID(userID)
	if err != nil {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.findOne(ctx, bson.M{"user_id": oid})
}

func (r *payrollRepository) List(ctx context.Context, params pagination.Params) ([]payroll.Payroll, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(params, "created_at"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	var docs []payrollDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode payrolls: %w", err)
	}

	payrolls := make([]payroll.Payroll, 0, len(docs))
	for _, d := range docs {
		payrolls = append(payrolls, d.toDomain())
	}
	if err := r.attachUsers(ctx, payrolls); err != nil {
		return nil, 0, err
	}
	return payrolls, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	oid, err := objectID(p.ID)
	if err != nil {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	doc, err := newPayrollDocument(p)
	if err != nil {
		return payroll.Payroll{}, err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"basic_salary":        doc.BasicSalary,
		"hra":                 doc.HRA,
		"transport_allowance": doc.TransportAllowance,
		"medical_allowance":   doc.MedicalAllowance,
		"special_allowance":   doc.SpecialAllowance,
		"gross_salary":        doc.GrossSalary,
		"pf_deduction":        doc.PFDeduction,
		"tax_deduction":       doc.TaxDeduction,
		"other_deductions":    doc.OtherDeductions,
		"net_salary":          doc.NetSalary,
		"pay_frequency":       doc.PayFrequency,
		"bank_name":           doc.BankName,
		"account_number":      doc.AccountNumber,
		"ifsc_code":           doc.IFSCCode,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	if res.MatchedCount == 0 {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return payroll.ErrPayrollNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if res.DeletedCount == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}
