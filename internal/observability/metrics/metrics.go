package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	ExporterProtocol string // "grpc", "http" or "" for noop
	ExporterEndpoint string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotationsCreated  metric.Int64Counter
	paymentsAutoIssued metric.Int64Counter
	issueFailures      metric.Int64Counter
	reconcileRetries   metric.Int64Counter
	reconcileDead      metric.Int64Counter
	gatewayOrders      metric.Int64Counter
}

// NewProvider configures and registers the meter provider. An empty
// protocol yields a noop provider so instrumented code needs no guards.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if cfg.ExporterProtocol == "" {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := cfg.ServiceName
	if name == "" {
		name = "facture"
	}
	meter := provider.Meter(name)

	quotationsCreated, err := meter.Int64Counter("facture_quotations_created_total")
	if err != nil {
		return nil, err
	}
	paymentsAutoIssued, err := meter.Int64Counter("facture_payments_auto_issued_total")
	if err != nil {
		return nil, err
	}
	issueFailures, err := meter.Int64Counter("facture_payment_issue_failures_total")
	if err != nil {
		return nil, err
	}
	reconcileRetries, err := meter.Int64Counter("facture_reconcile_retries_total")
	if err != nil {
		return nil, err
	}
	reconcileDead, err := meter.Int64Counter("facture_reconcile_dead_total")
	if err != nil {
		return nil, err
	}
	gatewayOrders, err := meter.Int64Counter("facture_gateway_orders_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotationsCreated:  quotationsCreated,
		paymentsAutoIssued: paymentsAutoIssued,
		issueFailures:      issueFailures,
		reconcileRetries:   reconcileRetries,
		reconcileDead:      reconcileDead,
		gatewayOrders:      gatewayOrders,
	}, nil
}

// RecordQuotationCreated increments created-quotation counts.
func (m *Metrics) RecordQuotationCreated(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.quotationsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordPaymentAutoIssued increments auto-issued payment counts.
func (m *Metrics) RecordPaymentAutoIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.paymentsAutoIssued.Add(ctx, 1)
}

// RecordIssueFailure counts auto-issue attempts that went to the queue.
func (m *Metrics) RecordIssueFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.issueFailures.Add(ctx, 1)
}

// RecordReconcileRetry counts queue entries retried by the drainer.
func (m *Metrics) RecordReconcileRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.reconcileRetries.Add(ctx, 1)
}

// RecordReconcileDead counts queue entries abandoned after max retries.
func (m *Metrics) RecordReconcileDead(ctx context.Context) {
	if m == nil {
		return
	}
	m.reconcileDead.Add(ctx, 1)
}

// RecordGatewayOrder counts outbound order-create calls by outcome.
func (m *Metrics) RecordGatewayOrder(ctx context.Context, provider string, ok bool) {
	if m == nil {
		return
	}
	m.gatewayOrders.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("success", ok),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch protocol {
	case "grpc":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter protocol %q", protocol)
	}
}
