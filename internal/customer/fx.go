package customer

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/customer/repository"
	"github.com/smallbiznis/facture/internal/customer/service"
)

var Module = fx.Module("customer",
	fx.Provide(
		repository.New,
		service.New,
	),
)
