package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/reconcile/domain"
)

type queueService struct {
	repo    domain.Repository
	issuer  domain.Issuer
	node    *snowflake.Node
	logger  *zap.Logger
	metrics *metrics.Metrics
	batch   int
}

func New(repo domain.Repository, issuer domain.Issuer, node *snowflake.Node, logger *zap.Logger, m *metrics.Metrics) domain.Service {
	return &queueService{
		repo:    repo,
		issuer:  issuer,
		node:    node,
		logger:  logger.Named("reconcile.service"),
		metrics: m,
		batch:   20,
	}
}

func (s *queueService) Enqueue(ctx context.Context, quotationID, customerName string, amount float64, createdBy, reason string) error {
	now := time.Now().UTC()
	e := &domain.Entry{
		ID:           s.node.Generate().String(),
		QuotationID:  quotationID,
		CustomerName: customerName,
		Amount:       amount,
		CreatedBy:    createdBy,
		Status:       domain.StatusPending,
		RetryCount:   0,
		LastError:    reason,
		NextRetryAt:  now.Add(domain.Backoff(0)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return err
	}
	s.logger.Warn("payment issue queued",
		zap.String("quotation_id", quotationID),
		zap.String("reason", reason),
	)
	return nil
}

func (s *queueService) Drain(ctx context.Context, now time.Time) (int, error) {
	entries, err := s.repo.FindDue(ctx, now, s.batch)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range entries {
		e := &entries[i]
		s.metrics.RecordReconcileRetry(ctx)

		issueErr := s.issuer.EnsureForAcceptedQuotation(ctx, e.QuotationID, e.CustomerName, e.Amount, e.CreatedBy)
		e.UpdatedAt = now
		if issueErr == nil {
			e.Status = domain.StatusDone
			e.LastError = ""
			done++
		} else {
			e.RetryCount++
			e.LastError = issueErr.Error()
			if e.RetryCount >= domain.MaxRetries {
				e.Status = domain.StatusDead
				s.metrics.RecordReconcileDead(ctx)
				s.logger.Error("payment issue abandoned after max retries",
					zap.String("quotation_id", e.QuotationID),
					zap.Int("retry_count", e.RetryCount),
					zap.Error(issueErr),
				)
			} else {
				e.NextRetryAt = now.Add(domain.Backoff(e.RetryCount))
			}
		}

		if err := s.repo.Update(ctx, e); err != nil {
			s.logger.Error("queue entry update failed",
				zap.String("entry_id", e.ID),
				zap.Error(err),
			)
		}
	}
	return done, nil
}
