package payment

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/payment/repository"
	"github.com/smallbiznis/facture/internal/payment/service"
)

var Module = fx.Module("payment",
	fx.Provide(
		repository.New,
		service.New,
	),
)
