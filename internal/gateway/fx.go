package gateway

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/gateway/adapters"
	_ "github.com/smallbiznis/facture/internal/gateway/adapters/razorpay"
	"github.com/smallbiznis/facture/internal/gateway/domain"
)

var Module = fx.Module("gateway",
	fx.Provide(NewProvider),
)

// NewProvider builds the configured gateway adapter. An unknown
// provider name fails app startup.
func NewProvider(cfg config.Config) (domain.Provider, error) {
	return adapters.Build(cfg.Gateway.Provider, map[string]string{
		"key_id":     cfg.Gateway.KeyID,
		"key_secret": cfg.Gateway.Secret,
		"base_url":   cfg.Gateway.BaseURL,
		"currency":   cfg.Gateway.Currency,
		"timeout":    cfg.Gateway.Timeout.String(),
	})
}
