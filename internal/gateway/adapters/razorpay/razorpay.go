// Package razorpay implements order creation against the Razorpay
// Orders API. Amounts are converted to minor units (paise) on the wire.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/facture/internal/gateway/adapters"
	"github.com/smallbiznis/facture/internal/gateway/domain"
)

const defaultBaseURL = "https://api.razorpay.com"

func init() {
	adapters.Register("razorpay", func(settings map[string]string) (domain.Provider, error) {
		keyID := settings["key_id"]
		secret := settings["key_secret"]
		if keyID == "" || secret == "" {
			return nil, fmt.Errorf("razorpay: key_id and key_secret are required")
		}
		baseURL := settings["base_url"]
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		currency := settings["currency"]
		if currency == "" {
			currency = "INR"
		}
		timeout := 10 * time.Second
		if v := settings["timeout"]; v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				timeout = d
			}
		}
		return &client{
			baseURL:  strings.TrimRight(baseURL, "/"),
			keyID:    keyID,
			secret:   secret,
			currency: currency,
			http:     &http.Client{Timeout: timeout},
		}, nil
	})
}

type client struct {
	baseURL  string
	keyID    string
	secret   string
	currency string
	http     *http.Client
}

func (c *client) Name() string { return "razorpay" }

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *client) CreateOrder(ctx context.Context, amount float64, receiptID string) (*domain.Order, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %f", domain.ErrInvalidAmount, amount)
	}
	if strings.TrimSpace(receiptID) == "" {
		return nil, domain.ErrMissingReceipt
	}

	body, err := json.Marshal(orderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: c.currency,
		Receipt:  "receipt_" + receiptID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderCreate, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrOrderCreate, res.StatusCode, msg)
	}

	var out orderResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrOrderCreate, err)
	}

	return &domain.Order{
		OrderID:  out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
	}, nil
}
