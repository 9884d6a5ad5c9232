package reconcile

import (
	"go.uber.org/fx"

	paymentdomain "github.com/smallbiznis/facture/internal/payment/domain"
	"github.com/smallbiznis/facture/internal/reconcile/domain"
	"github.com/smallbiznis/facture/internal/reconcile/repository"
	"github.com/smallbiznis/facture/internal/reconcile/service"
)

var Module = fx.Module("reconcile",
	fx.Provide(
		repository.New,
		service.New,
		func(s paymentdomain.Service) domain.Issuer { return s },
	),
)
