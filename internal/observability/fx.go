package observability

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/observability/metrics"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
	),
)

func provideMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ExporterProtocol: cfg.Telemetry.Exporter,
		ExporterEndpoint: cfg.Telemetry.Endpoint,
		ServiceName:      cfg.AppName,
	}
}
