package domain

import (
	"context"
	"errors"
)

var (
	ErrOrderCreate     = errors.New("gateway_order_create_failed")
	ErrUnknownProvider = errors.New("unknown_gateway_provider")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrMissingReceipt  = errors.New("missing_receipt_id")
)

// Order is the provider's view of a created order. Amount is in the
// provider's minor units.
type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Provider creates orders on an external payment gateway.
type Provider interface {
	Name() string
	// CreateOrder registers an order for the given major-unit amount,
	// tagged with the receipt id for later correlation.
	CreateOrder(ctx context.Context, amount float64, receiptID string) (*Order, error)
}
