package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/quotation/domain"
	"github.com/smallbiznis/facture/internal/quotation/numbering"
	"github.com/smallbiznis/facture/internal/usercontext"
	"github.com/smallbiznis/facture/pkg/db"
)

type quotationService struct {
	db      *gorm.DB
	repo    domain.Repository
	issuer  domain.Issuer
	queue   domain.IssueQueue
	node    *snowflake.Node
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(
	gdb *gorm.DB,
	repo domain.Repository,
	issuer domain.Issuer,
	queue domain.IssueQueue,
	node *snowflake.Node,
	logger *zap.Logger,
	m *metrics.Metrics,
) domain.Service {
	return &quotationService{
		db:      gdb,
		repo:    repo,
		issuer:  issuer,
		queue:   queue,
		node:    node,
		logger:  logger.Named("quotation.service"),
		metrics: m,
	}
}

func (s *quotationService) Create(ctx context.Context, req domain.SaveRequest) (*domain.Quotation, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q := &domain.Quotation{
		ID:         s.node.Generate().String(),
		Number:     req.Number,
		Client:     req.Client,
		QuoteDate:  req.QuoteDate,
		ExpireDate: req.ExpireDate,
		SubTotal:   req.SubTotal,
		Tax:        req.Tax,
		Total:      req.Total,
		Status:     req.Status,
		Year:       req.Year,
		Currency:   req.Currency,
		Note:       req.Note,
		CreatedBy:  actingUser(ctx),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if q.Year == 0 {
		q.Year = req.QuoteDate.Year()
	}

	// The unique index on quotation_no arbitrates concurrent allocations:
	// the loser's insert fails and the allocation is retried once on a
	// fresh read. A second collision is reported, not absorbed.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			no, err := s.nextNumber(ctx, tx)
			if err != nil {
				return err
			}
			q.QuotationNo = no
			return s.repo.Insert(ctx, tx, q, buildItems(s.node, q.ID, req.Items))
		})
		if err == nil {
			lastErr = nil
			break
		}
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNumberConflict, q.QuotationNo)
	}

	s.metrics.RecordQuotationCreated(ctx, string(q.Status))
	s.logger.Info("quotation created",
		zap.String("quotation_id", q.ID),
		zap.String("quotation_no", q.QuotationNo),
		zap.String("status", string(q.Status)),
	)

	if q.Status == domain.StatusAccepted {
		s.issuePayment(ctx, q)
	}

	return s.repo.FindByID(ctx, q.ID)
}

func (s *quotationService) Update(ctx context.Context, id string, req domain.SaveRequest) (*domain.Quotation, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	prior, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasAccepted := prior.Status == domain.StatusAccepted

	q := &domain.Quotation{
		ID:          prior.ID,
		QuotationNo: prior.QuotationNo, // never reassigned
		Number:      req.Number,
		Client:      req.Client,
		QuoteDate:   req.QuoteDate,
		ExpireDate:  req.ExpireDate,
		SubTotal:    req.SubTotal,
		Tax:         req.Tax,
		Total:       req.Total,
		Status:      req.Status,
		Year:        req.Year,
		Currency:    req.Currency,
		Note:        req.Note,
		CreatedBy:   prior.CreatedBy,
		CreatedAt:   prior.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	if q.Year == 0 {
		q.Year = req.QuoteDate.Year()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, q, buildItems(s.node, q.ID, req.Items))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation updated",
		zap.String("quotation_id", q.ID),
		zap.String("status", string(q.Status)),
	)

	// Issue only on the transition into Accepted. An update that stays
	// Accepted must not re-trigger; the issuer is idempotent anyway.
	if !wasAccepted && q.Status == domain.StatusAccepted {
		s.issuePayment(ctx, q)
	}

	return s.repo.FindByID(ctx, q.ID)
}

func (s *quotationService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("quotation deleted", zap.String("quotation_id", id))
	return nil
}

func (s *quotationService) Get(ctx context.Context, id string) (*domain.Quotation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *quotationService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Quotation, error) {
	return s.repo.Find(ctx, filter)
}

// nextNumber reads the latest quotation inside the transaction and
// derives its successor; an empty table starts the sequence. A stored
// number that fails to parse aborts the save.
func (s *quotationService) nextNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	latest, err := s.repo.Latest(ctx, tx)
	if err == domain.ErrNotFound {
		return numbering.Seed(), nil
	}
	if err != nil {
		return "", err
	}
	return numbering.Next(latest.QuotationNo)
}

// issuePayment runs the auto-issuer outside the save transaction. A
// failure never rolls back the quotation; it is queued for the
// background drainer and counted.
func (s *quotationService) issuePayment(ctx context.Context, q *domain.Quotation) {
	err := s.issuer.EnsureForAcceptedQuotation(ctx, q.ID, q.Client, q.Total, q.CreatedBy)
	if err == nil {
		return
	}

	s.metrics.RecordIssueFailure(ctx)
	s.logger.Error("auto payment issue failed, queueing for retry",
		zap.String("quotation_id", q.ID),
		zap.Error(err),
	)
	if qerr := s.queue.Enqueue(ctx, q.ID, q.Client, q.Total, q.CreatedBy, err.Error()); qerr != nil {
		s.logger.Error("issue queue enqueue failed",
			zap.String("quotation_id", q.ID),
			zap.Error(qerr),
		)
	}
}

func validate(req *domain.SaveRequest) error {
	if strings.TrimSpace(req.Number) == "" {
		return fmt.Errorf("%w: number", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.Client) == "" {
		return fmt.Errorf("%w: client", domain.ErrMissingField)
	}
	if req.QuoteDate.IsZero() {
		return fmt.Errorf("%w: quote_date", domain.ErrMissingField)
	}
	if req.ExpireDate.IsZero() {
		return fmt.Errorf("%w: expire_date", domain.ErrMissingField)
	}
	if req.Status == "" {
		req.Status = domain.StatusDraft
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidStatus, req.Status)
	}
	if len(req.Items) == 0 {
		return domain.ErrEmptyItems
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Item) == "" {
			return fmt.Errorf("%w: items[%d].item", domain.ErrInvalidItem, i)
		}
		if item.Quantity < 0 || item.UnitPrice < 0 || item.LineTotal < 0 {
			return fmt.Errorf("%w: items[%d] has negative values", domain.ErrInvalidItem, i)
		}
	}
	if req.SubTotal < 0 || req.Tax < 0 || req.Total < 0 {
		return fmt.Errorf("%w: totals must not be negative", domain.ErrInvalidItem)
	}
	return nil
}

func buildItems(node *snowflake.Node, quotationID string, inputs []domain.ItemInput) []domain.Item {
	items := make([]domain.Item, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, domain.Item{
			ID:          node.Generate().String(),
			QuotationID: quotationID,
			Position:    i,
			Item:        in.Item,
			HsnSac:      in.HsnSac,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Sgst:        in.Sgst,
			Igst:        in.Igst,
			LineTotal:   in.LineTotal,
		})
	}
	return items
}

func actingUser(ctx context.Context) string {
	if u, ok := usercontext.From(ctx); ok {
		return u.ID
	}
	return ""
}
