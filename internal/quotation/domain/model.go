package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrMissingField   = errors.New("missing_required_field")
	ErrEmptyItems     = errors.New("empty_item_list")
	ErrInvalidItem    = errors.New("invalid_item_shape")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrNotFound       = errors.New("quotation_not_found")
	ErrNumberConflict = errors.New("quotation_number_conflict")
)

type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Quotation is the header row. QuotationNo is allocator-assigned and
// immutable; Number is the caller's own reference and carries no
// uniqueness guarantee.
type Quotation struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	QuotationNo string    `gorm:"column:quotation_no" json:"quotation_no"`
	Number      string    `gorm:"column:number" json:"number"`
	Client      string    `gorm:"column:client" json:"client"`
	QuoteDate   time.Time `gorm:"column:quote_date" json:"quote_date"`
	ExpireDate  time.Time `gorm:"column:expire_date" json:"expire_date"`
	SubTotal    float64   `gorm:"column:sub_total" json:"sub_total"`
	Tax         float64   `gorm:"column:tax" json:"tax"`
	Total       float64   `gorm:"column:total" json:"total"`
	Status      Status    `gorm:"column:status" json:"status"`
	Year        int       `gorm:"column:year" json:"year"`
	Currency    string    `gorm:"column:currency" json:"currency"`
	Note        string    `gorm:"column:note" json:"note,omitempty"`
	CreatedBy   string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	Items []Item `gorm:"-" json:"items"`
}

func (Quotation) TableName() string { return "quotations" }

// Item is a quotation line. Position preserves the submitted order.
type Item struct {
	ID          string  `gorm:"column:id;primaryKey" json:"id"`
	QuotationID string  `gorm:"column:quotation_id" json:"quotation_id"`
	Position    int     `gorm:"column:position" json:"position"`
	Item        string  `gorm:"column:item" json:"item"`
	HsnSac      string  `gorm:"column:hsn_sac" json:"hsn_sac,omitempty"`
	Quantity    float64 `gorm:"column:quantity" json:"quantity"`
	UnitPrice   float64 `gorm:"column:unit_price" json:"unit_price"`
	Sgst        float64 `gorm:"column:sgst" json:"sgst"`
	Igst        float64 `gorm:"column:igst" json:"igst"`
	LineTotal   float64 `gorm:"column:line_total" json:"line_total"`
}

func (Item) TableName() string { return "quotation_items" }

type ItemInput struct {
	Item      string  `json:"item"`
	HsnSac    string  `json:"hsn_sac"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Sgst      float64 `json:"sgst"`
	Igst      float64 `json:"igst"`
	LineTotal float64 `json:"line_total"`
}

type SaveRequest struct {
	Number     string      `json:"number"`
	Client     string      `json:"client"`
	QuoteDate  time.Time   `json:"quote_date"`
	ExpireDate time.Time   `json:"expire_date"`
	SubTotal   float64     `json:"sub_total"`
	Tax        float64     `json:"tax"`
	Total      float64     `json:"total"`
	Status     Status      `json:"status"`
	Year       int         `json:"year"`
	Currency   string      `json:"currency"`
	Note       string      `json:"note"`
	Items      []ItemInput `json:"items"`
}

type ListFilter struct {
	Status Status
	Client string
	Limit  int
	Offset int
}

// QuotationRef is the lightweight projection used by payment enrichment.
type QuotationRef struct {
	ID          string  `json:"id"`
	QuotationNo string  `json:"quotation_no"`
	Number      string  `json:"number"`
	Client      string  `json:"client"`
	Total       float64 `json:"total"`
}

type Repository interface {
	// Latest returns the most recently created quotation, or ErrNotFound
	// when the table is empty.
	Latest(ctx context.Context, tx *gorm.DB) (*Quotation, error)
	Insert(ctx context.Context, tx *gorm.DB, q *Quotation, items []Item) error
	Update(ctx context.Context, tx *gorm.DB, q *Quotation, items []Item) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	FindByID(ctx context.Context, id string) (*Quotation, error)
	Find(ctx context.Context, filter ListFilter) ([]Quotation, error)
	FindRefsByClient(ctx context.Context, client string) ([]QuotationRef, error)
	DistinctClients(ctx context.Context) ([]string, error)
}

type Service interface {
	Create(ctx context.Context, req SaveRequest) (*Quotation, error)
	Update(ctx context.Context, id string, req SaveRequest) (*Quotation, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, filter ListFilter) ([]Quotation, error)
}
