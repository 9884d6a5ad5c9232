package scheduler

import (
	"context"

	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/config"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(run),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{Interval: cfg.Scheduler.Interval}
}

func run(lc fx.Lifecycle, sched *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
			return nil
		},
	})
}
