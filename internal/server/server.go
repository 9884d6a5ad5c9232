package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/auth"
	authdomain "github.com/smallbiznis/facture/internal/auth/domain"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/customer"
	customerdomain "github.com/smallbiznis/facture/internal/customer/domain"
	"github.com/smallbiznis/facture/internal/gateway"
	gatewaydomain "github.com/smallbiznis/facture/internal/gateway/domain"
	"github.com/smallbiznis/facture/internal/migration"
	"github.com/smallbiznis/facture/internal/observability"
	obsmetrics "github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/payment"
	paymentdomain "github.com/smallbiznis/facture/internal/payment/domain"
	"github.com/smallbiznis/facture/internal/quotation"
	quotationdomain "github.com/smallbiznis/facture/internal/quotation/domain"
	"github.com/smallbiznis/facture/internal/reconcile"
	"github.com/smallbiznis/facture/internal/scheduler"
)

var Module = fx.Module("http.server",
	observability.Module,
	auth.Module,
	customer.Module,
	quotation.Module,
	payment.Module,
	gateway.Module,
	reconcile.Module,
	scheduler.Module,
	migration.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config) *gin.Engine {
	return NewEngine(cfg.Debug)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	authSvc      authdomain.Service
	customerSvc  customerdomain.Service
	quotationSvc quotationdomain.Service
	paymentSvc   paymentdomain.Service
	gatewaySvc   gatewaydomain.Provider
	obsMetrics   *obsmetrics.Metrics
	log          *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	AuthSvc      authdomain.Service
	CustomerSvc  customerdomain.Service
	QuotationSvc quotationdomain.Service
	PaymentSvc   paymentdomain.Service
	GatewaySvc   gatewaydomain.Provider
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
	Log          *zap.Logger
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		authSvc:      p.AuthSvc,
		customerSvc:  p.CustomerSvc,
		quotationSvc: p.QuotationSvc,
		paymentSvc:   p.PaymentSvc,
		gatewaySvc:   p.GatewaySvc,
		obsMetrics:   p.ObsMetrics,
		log:          p.Log.Named("server"),
	}
}

func RegisterRoutes(s *Server) {
	v1 := s.engine.Group("/v1", s.AuthRequired())

	v1.GET("/quotations", s.ListQuotations)
	v1.POST("/quotations", s.CreateQuotation)
	v1.GET("/quotations/:id", s.GetQuotation)
	v1.PUT("/quotations/:id", s.UpdateQuotation)
	v1.DELETE("/quotations/:id", s.DeleteQuotation)

	v1.GET("/payments", s.ListPayments)
	v1.POST("/payments", s.CreatePayment)
	// Static segments must precede the :id match.
	v1.GET("/payments/customers", s.ListPaymentCustomers)
	v1.GET("/payments/customer/:name", s.ListPaymentsByCustomer)
	v1.GET("/payments/quotations/:name", s.ListQuotationsByCustomer)
	v1.GET("/payments/:id", s.GetPayment)
	v1.PUT("/payments/:id", s.UpdatePayment)
	v1.DELETE("/payments/:id", s.DeletePayment)

	v1.GET("/customers", s.ListCustomers)
	v1.POST("/customers", s.CreateCustomer)

	v1.POST("/orders", s.CreateOrder)
}
