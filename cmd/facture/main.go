package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/server"
	"github.com/smallbiznis/facture/pkg/db"
	"github.com/smallbiznis/facture/pkg/log"
)

func main() {
	app := fx.New(
		fx.Provide(config.Load),
		fx.Provide(provideLogger),
		fx.Provide(provideDBConfig),
		fx.Provide(RegisterSnowflake),
		fx.Provide(clock.New),
		log.Module,
		db.Module,
		server.Module,
	)
	app.Run()
}

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	return log.NewLogger(cfg.Debug)
}

func provideDBConfig(cfg config.Config) db.Config {
	return cfg.DB
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
