package domain

import (
	"context"
	"errors"
	"time"
)

var ErrEntryNotFound = errors.New("queue_entry_not_found")

type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
	StatusDead    Status = "Dead"
)

const (
	// MaxRetries is the attempt budget before an entry is abandoned.
	MaxRetries = 5
	// BaseBackoff is the first retry delay; it doubles per attempt.
	BaseBackoff = time.Minute
)

// Entry records an auto-payment issuance that failed at quotation save
// time, so the drainer can retry it instead of losing it.
type Entry struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	QuotationID  string    `gorm:"column:quotation_id" json:"quotation_id"`
	CustomerName string    `gorm:"column:customer_name" json:"customer_name"`
	Amount       float64   `gorm:"column:amount" json:"amount"`
	CreatedBy    string    `gorm:"column:created_by" json:"created_by"`
	Status       Status    `gorm:"column:status" json:"status"`
	RetryCount   int       `gorm:"column:retry_count" json:"retry_count"`
	LastError    string    `gorm:"column:last_error" json:"last_error"`
	NextRetryAt  time.Time `gorm:"column:next_retry_at" json:"next_retry_at"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Entry) TableName() string { return "payment_issue_queue" }

// Backoff returns the delay before the given attempt is retried.
func Backoff(retryCount int) time.Duration {
	return BaseBackoff << retryCount
}

// Issuer is the idempotent auto-payment creator the drainer retries
// against.
type Issuer interface {
	EnsureForAcceptedQuotation(ctx context.Context, quotationID, customerName string, amount float64, createdBy string) error
}

type Repository interface {
	// Upsert inserts the entry or, when one already exists for the
	// quotation, refreshes its error and resets it to Pending.
	Upsert(ctx context.Context, e *Entry) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]Entry, error)
	Update(ctx context.Context, e *Entry) error
	FindByQuotationID(ctx context.Context, quotationID string) (*Entry, error)
}

type Service interface {
	Enqueue(ctx context.Context, quotationID, customerName string, amount float64, createdBy, reason string) error
	// Drain retries every due entry once and reschedules or retires it.
	// Returns the number of entries settled as Done.
	Drain(ctx context.Context, now time.Time) (int, error)
}
