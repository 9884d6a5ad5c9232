package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		// golang-migrate runs against postgres only; other drivers
		// (sqlite in local setups) get their schema from the tests or
		// an external tool.
		if cfg.DB.Driver == "postgres" || cfg.DB.Driver == "" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			log.Warn("skipping migrations for non-postgres driver",
				zap.String("driver", cfg.DB.Driver),
			)
		}

		if cfg.Seed.UserToken != "" {
			return seed.EnsureDefaultUser(conn, cfg.Seed)
		}
		return nil
	}),
)
