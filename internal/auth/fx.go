package auth

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/auth/repository"
	"github.com/smallbiznis/facture/internal/auth/service"
)

var Module = fx.Module("auth",
	fx.Provide(
		repository.New,
		service.New,
	),
)
