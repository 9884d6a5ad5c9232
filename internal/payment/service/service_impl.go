package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/payment/domain"
	"github.com/smallbiznis/facture/internal/usercontext"
)

type paymentService struct {
	repo    domain.Repository
	node    *snowflake.Node
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(repo domain.Repository, node *snowflake.Node, logger *zap.Logger, m *metrics.Metrics) domain.Service {
	return &paymentService{
		repo:    repo,
		node:    node,
		logger:  logger.Named("payment.service"),
		metrics: m,
	}
}

func (s *paymentService) Create(ctx context.Context, req domain.SaveRequest) (*domain.Enriched, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	client, err := s.repo.QuotationClient(ctx, req.QuotationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		ID:               s.node.Generate().String(),
		QuotationID:      req.QuotationID,
		CustomerName:     client,
		Amount:           req.Amount,
		PayDate:          req.PayDate,
		Status:           req.Status,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		AutoIssued:       false,
		CreatedBy:        actingUser(ctx),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("payment_id", p.ID),
		zap.String("quotation_id", p.QuotationID),
	)
	return s.repo.FindByID(ctx, p.ID)
}

func (s *paymentService) Update(ctx context.Context, id string, req domain.SaveRequest) (*domain.Enriched, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	prior, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.QuotationClient(ctx, req.QuotationID)
	if err != nil {
		return nil, err
	}

	p := prior.Payment
	p.QuotationID = req.QuotationID
	p.CustomerName = client
	p.Amount = req.Amount
	p.PayDate = req.PayDate
	p.Status = req.Status
	p.GatewayOrderID = req.GatewayOrderID
	p.GatewayPaymentID = req.GatewayPaymentID
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *paymentService) Get(ctx context.Context, id string) (*domain.Enriched, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Enriched, error) {
	return s.repo.Find(ctx, filter)
}

func (s *paymentService) ListByQuotationIDs(ctx context.Context, ids []string) ([]domain.Enriched, error) {
	return s.repo.FindByQuotationIDs(ctx, ids)
}

func (s *paymentService) ListByCustomer(ctx context.Context, client string) ([]domain.Enriched, error) {
	return s.repo.FindByCustomer(ctx, client)
}

func (s *paymentService) DistinctCustomers(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCustomers(ctx)
}

func (s *paymentService) QuotationsByCustomer(ctx context.Context, client string) ([]domain.QuotationRef, error) {
	return s.repo.QuotationRefsByCustomer(ctx, client)
}

// EnsureForAcceptedQuotation is a no-op when any payment already
// references the quotation. The insert itself carries the uniqueness
// guard, so two concurrent callers still produce exactly one row.
func (s *paymentService) EnsureForAcceptedQuotation(ctx context.Context, quotationID, customerName string, amount float64, createdBy string) error {
	exists, err := s.repo.ExistsForQuotation(ctx, quotationID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		ID:           s.node.Generate().String(),
		QuotationID:  quotationID,
		CustomerName: customerName,
		Amount:       amount,
		PayDate:      now,
		Status:       domain.StatusPending,
		AutoIssued:   true,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inserted, err := s.repo.InsertAutoIssued(ctx, p)
	if err != nil {
		return err
	}
	if !inserted {
		// Lost the race to a concurrent issuer; the payment exists.
		return nil
	}

	s.metrics.RecordPaymentAutoIssued(ctx)
	s.logger.Info("auto payment issued",
		zap.String("payment_id", p.ID),
		zap.String("quotation_id", quotationID),
		zap.Float64("amount", amount),
	)
	return nil
}

func (s *paymentService) validate(ctx context.Context, req *domain.SaveRequest) error {
	if strings.TrimSpace(req.QuotationID) == "" {
		return fmt.Errorf("%w: quotation_id", domain.ErrMissingField)
	}
	if req.PayDate.IsZero() {
		return fmt.Errorf("%w: pay_date", domain.ErrInvalidDate)
	}
	if req.Amount < 0 {
		return fmt.Errorf("%w: %f", domain.ErrInvalidAmount, req.Amount)
	}
	if req.Status == "" {
		return fmt.Errorf("%w: status", domain.ErrMissingField)
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidStatus, req.Status)
	}
	exists, err := s.repo.QuotationExists(ctx, req.QuotationID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrInvalidQuotation, req.QuotationID)
	}
	return nil
}

func actingUser(ctx context.Context) string {
	if u, ok := usercontext.From(ctx); ok {
		return u.ID
	}
	return ""
}
