package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/payment/domain"
	paymentrepo "github.com/smallbiznis/facture/internal/payment/repository"
	paymentservice "github.com/smallbiznis/facture/internal/payment/service"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE quotations (
			id TEXT PRIMARY KEY,
			quotation_no TEXT NOT NULL,
			number TEXT NOT NULL,
			client TEXT NOT NULL,
			quote_date TIMESTAMP NOT NULL,
			expire_date TIMESTAMP NOT NULL,
			sub_total REAL NOT NULL DEFAULT 0,
			tax REAL NOT NULL DEFAULT 0,
			total REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'Draft',
			year INTEGER NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			quotation_id TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			amount REAL NOT NULL DEFAULT 0,
			pay_date TIMESTAMP NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			gateway_order_id TEXT NOT NULL DEFAULT '',
			gateway_payment_id TEXT NOT NULL DEFAULT '',
			auto_issued BOOLEAN NOT NULL DEFAULT FALSE,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_payments_auto_issued ON payments(quotation_id) WHERE auto_issued`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			token_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newService(t *testing.T, db *gorm.DB) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	return paymentservice.New(paymentrepo.New(db), node, zap.NewNop(), nil)
}

func insertQuotation(t *testing.T, db *gorm.DB, id, client string, total float64) {
	t.Helper()
	now := time.Now().UTC()
	err := db.Exec(`INSERT INTO quotations (
		id, quotation_no, number, client, quote_date, expire_date,
		sub_total, tax, total, status, year, currency, note,
		created_by, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, 'Sent', 2024, 'INR', '', '', ?, ?)`,
		id, "WI"+id, "Q-"+id, client, now, now.AddDate(0, 1, 0),
		total, total, now, now,
	).Error
	require.NoError(t, err)
}

func insertUser(t *testing.T, db *gorm.DB, id, name, email string) {
	t.Helper()
	now := time.Now().UTC()
	err := db.Exec(
		"INSERT INTO users (id, name, email, token_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, email, "hash-"+id, now, now,
	).Error
	require.NoError(t, err)
}

func saveRequest(quotationID string, amount float64) domain.SaveRequest {
	return domain.SaveRequest{
		QuotationID: quotationID,
		Amount:      amount,
		PayDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
	}
}

func TestCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	req := saveRequest("", 10)
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingField)

	req = saveRequest("0001", -5)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = saveRequest("0001", 10)
	req.PayDate = time.Time{}
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	req = saveRequest("0001", 10)
	req.Status = "Refunded"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	req = saveRequest("missing", 10)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuotation)
}

func TestCreateDenormalizesCustomerName(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	p, err := svc.Create(ctx, saveRequest("0001", 118))
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", p.CustomerName)
	assert.False(t, p.AutoIssued)
}

func TestGetEnrichesQuotationAndCreator(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)
	insertUser(t, db, "u1", "Jordan", "jordan@example.com")

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, db.Exec(`INSERT INTO payments (
		id, quotation_id, customer_name, amount, pay_date, status,
		gateway_order_id, gateway_payment_id, auto_issued,
		created_by, created_at, updated_at
	) VALUES (?, '0001', 'Acme Corp', 118, ?, 'Pending', '', '', FALSE, 'u1', ?, ?)`,
		node.Generate().String(), now, now, now,
	).Error)

	svc := newService(t, db)
	list, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	p := list[0]
	require.NotNil(t, p.Quotation)
	assert.Equal(t, "Acme Corp", p.Quotation.Client)
	assert.Equal(t, "Q-0001", p.Quotation.Number)
	assert.EqualValues(t, 118, p.Quotation.Total)
	require.NotNil(t, p.Creator)
	assert.Equal(t, "Jordan", p.Creator.Name)
	assert.Equal(t, "jordan@example.com", p.Creator.Email)
}

func TestUpdateOverwritesFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	p, err := svc.Create(ctx, saveRequest("0001", 118))
	require.NoError(t, err)

	req := saveRequest("0001", 118)
	req.Status = domain.StatusCompleted
	req.GatewayOrderID = "order_123"
	req.GatewayPaymentID = "pay_456"
	updated, err := svc.Update(ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "order_123", updated.GatewayOrderID)
	assert.Equal(t, "pay_456", updated.GatewayPaymentID)
}

func TestUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	_, err := svc.Update(context.Background(), "missing", saveRequest("0001", 10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	p, err := svc.Create(ctx, saveRequest("0001", 118))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestEnsureForAcceptedQuotationIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	require.NoError(t, svc.EnsureForAcceptedQuotation(ctx, "0001", "Acme Corp", 118, "u1"))
	require.NoError(t, svc.EnsureForAcceptedQuotation(ctx, "0001", "Acme Corp", 118, "u1"))
	require.NoError(t, svc.EnsureForAcceptedQuotation(ctx, "0001", "Acme Corp", 118, "u1"))

	var n int64
	require.NoError(t, db.Table("payments").Where("quotation_id = ?", "0001").Count(&n).Error)
	assert.EqualValues(t, 1, n, "repeated issuing must keep exactly one payment")
}

func TestEnsureSkipsWhenManualPaymentExists(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	_, err := svc.Create(ctx, saveRequest("0001", 118))
	require.NoError(t, err)

	require.NoError(t, svc.EnsureForAcceptedQuotation(ctx, "0001", "Acme Corp", 118, "u1"))

	var n int64
	require.NoError(t, db.Table("payments").Where("quotation_id = ?", "0001").Count(&n).Error)
	assert.EqualValues(t, 1, n, "an existing manual payment suppresses auto issue")
}

func TestManualCreatesAreNotDeduplicated(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)

	_, err := svc.Create(ctx, saveRequest("0001", 50))
	require.NoError(t, err)
	_, err = svc.Create(ctx, saveRequest("0001", 68))
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Table("payments").Where("quotation_id = ?", "0001").Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestListByCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)
	insertQuotation(t, db, "0002", "Globex", 200)

	_, err := svc.Create(ctx, saveRequest("0001", 118))
	require.NoError(t, err)
	_, err = svc.Create(ctx, saveRequest("0002", 200))
	require.NoError(t, err)

	list, err := svc.ListByCustomer(ctx, "Acme Corp")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "0001", list[0].QuotationID)
}

func TestDistinctCustomers(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)
	insertQuotation(t, db, "0002", "Acme Corp", 50)
	insertQuotation(t, db, "0003", "Globex", 200)

	customers, err := svc.DistinctCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Globex"}, customers)
}

func TestQuotationsByCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	insertQuotation(t, db, "0001", "Acme Corp", 118)
	insertQuotation(t, db, "0003", "Globex", 200)

	refs, err := svc.QuotationsByCustomer(ctx, "Globex")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "0003", refs[0].ID)
	assert.EqualValues(t, 200, refs[0].Total)
}
