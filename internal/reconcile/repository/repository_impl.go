package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/reconcile/domain"
)

type queueRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Upsert(ctx context.Context, e *domain.Entry) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO payment_issue_queue (
			id, quotation_id, customer_name, amount, created_by,
			status, retry_count, last_error, next_retry_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (quotation_id) DO UPDATE SET
			status = ?,
			last_error = ?,
			next_retry_at = ?,
			updated_at = ?`,
		e.ID, e.QuotationID, e.CustomerName, e.Amount, e.CreatedBy,
		e.Status, e.RetryCount, e.LastError, e.NextRetryAt,
		e.CreatedAt, e.UpdatedAt,
		domain.StatusPending, e.LastError, e.NextRetryAt, e.UpdatedAt,
	).Error
}

func (r *queueRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", domain.StatusPending, now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *queueRepository) Update(ctx context.Context, e *domain.Entry) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"status":        e.Status,
			"retry_count":   e.RetryCount,
			"last_error":    e.LastError,
			"next_retry_at": e.NextRetryAt,
			"updated_at":    e.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *queueRepository) FindByQuotationID(ctx context.Context, quotationID string) (*domain.Entry, error) {
	var e domain.Entry
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
