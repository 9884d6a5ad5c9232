package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingField     = errors.New("missing_required_field")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidQuotation = errors.New("invalid_quotation")
	ErrNotFound         = errors.New("payment_not_found")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Payment is a ledger row. CustomerName is denormalized from the
// quotation at write time; quotation and creator details are joined at
// read time, never stored.
type Payment struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	QuotationID      string    `gorm:"column:quotation_id" json:"quotation_id"`
	CustomerName     string    `gorm:"column:customer_name" json:"customer_name"`
	Amount           float64   `gorm:"column:amount" json:"amount"`
	PayDate          time.Time `gorm:"column:pay_date" json:"pay_date"`
	Status           Status    `gorm:"column:status" json:"status"`
	GatewayOrderID   string    `gorm:"column:gateway_order_id" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `gorm:"column:gateway_payment_id" json:"gateway_payment_id,omitempty"`
	AutoIssued       bool      `gorm:"column:auto_issued" json:"auto_issued"`
	CreatedBy        string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// QuotationInfo is the read-time enrichment from the quotation header.
type QuotationInfo struct {
	QuotationNo string  `json:"quotation_no"`
	Number      string  `json:"number"`
	Client      string  `json:"client"`
	Total       float64 `json:"total"`
}

// UserInfo is the read-time enrichment from the creating user.
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Enriched is a payment joined with its quotation and creator.
type Enriched struct {
	Payment
	Quotation *QuotationInfo `json:"quotation,omitempty"`
	Creator   *UserInfo      `json:"created_by_user,omitempty"`
}

// QuotationRef is the projection served by the quotations-by-customer
// lookup.
type QuotationRef struct {
	ID          string  `json:"id"`
	QuotationNo string  `json:"quotation_no"`
	Number      string  `json:"number"`
	Client      string  `json:"client"`
	Total       float64 `json:"total"`
}

type SaveRequest struct {
	QuotationID      string    `json:"quotation_id"`
	Amount           float64   `json:"amount"`
	PayDate          time.Time `json:"pay_date"`
	Status           Status    `json:"status"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	// InsertAutoIssued inserts iff no auto-issued payment exists for the
	// quotation; reports whether a row was written.
	InsertAutoIssued(ctx context.Context, p *Payment) (bool, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Enriched, error)
	Find(ctx context.Context, filter ListFilter) ([]Enriched, error)
	FindByQuotationIDs(ctx context.Context, ids []string) ([]Enriched, error)
	FindByCustomer(ctx context.Context, client string) ([]Enriched, error)
	ExistsForQuotation(ctx context.Context, quotationID string) (bool, error)
	QuotationExists(ctx context.Context, quotationID string) (bool, error)
	QuotationClient(ctx context.Context, quotationID string) (string, error)
	DistinctCustomers(ctx context.Context) ([]string, error)
	QuotationRefsByCustomer(ctx context.Context, client string) ([]QuotationRef, error)
}

type Service interface {
	Create(ctx context.Context, req SaveRequest) (*Enriched, error)
	Update(ctx context.Context, id string, req SaveRequest) (*Enriched, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Enriched, error)
	List(ctx context.Context, filter ListFilter) ([]Enriched, error)
	ListByQuotationIDs(ctx context.Context, ids []string) ([]Enriched, error)
	ListByCustomer(ctx context.Context, client string) ([]Enriched, error)
	DistinctCustomers(ctx context.Context) ([]string, error)
	QuotationsByCustomer(ctx context.Context, client string) ([]QuotationRef, error)

	// EnsureForAcceptedQuotation issues the automatic Pending payment for
	// an accepted quotation. Idempotent under retries and races.
	EnsureForAcceptedQuotation(ctx context.Context, quotationID, customerName string, amount float64, createdBy string) error
}
