package domain

import "context"

// Issuer creates the automatic payment for an accepted quotation. The
// implementation must be idempotent: calling it repeatedly for the same
// quotation yields at most one payment.
type Issuer interface {
	EnsureForAcceptedQuotation(ctx context.Context, quotationID, customerName string, amount float64, createdBy string) error
}

// IssueQueue records auto-payment issuance that failed at accept time so
// a background drain can retry it.
type IssueQueue interface {
	Enqueue(ctx context.Context, quotationID, customerName string, amount float64, createdBy, reason string) error
}
