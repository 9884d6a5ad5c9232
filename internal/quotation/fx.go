package quotation

import (
	"go.uber.org/fx"

	paymentdomain "github.com/smallbiznis/facture/internal/payment/domain"
	"github.com/smallbiznis/facture/internal/quotation/domain"
	"github.com/smallbiznis/facture/internal/quotation/repository"
	"github.com/smallbiznis/facture/internal/quotation/service"
	reconciledomain "github.com/smallbiznis/facture/internal/reconcile/domain"
)

var Module = fx.Module("quotation",
	fx.Provide(
		repository.New,
		service.New,
		func(s paymentdomain.Service) domain.Issuer { return s },
		func(s reconciledomain.Service) domain.IssueQueue { return s },
	),
)
