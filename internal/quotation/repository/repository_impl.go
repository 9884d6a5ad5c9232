package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/quotation/domain"
	"github.com/smallbiznis/facture/pkg/db/pagination"
)

type quotationRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Latest(ctx context.Context, tx *gorm.DB) (*domain.Quotation, error) {
	if tx == nil {
		tx = r.db
	}
	var q domain.Quotation
	err := tx.WithContext(ctx).
		Order("created_at DESC, id DESC").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) Insert(ctx context.Context, tx *gorm.DB, q *domain.Quotation, items []domain.Item) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *quotationRepository) Update(ctx context.Context, tx *gorm.DB, q *domain.Quotation, items []domain.Item) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", q.ID).
		Updates(map[string]interface{}{
			"number":      q.Number,
			"client":      q.Client,
			"quote_date":  q.QuoteDate,
			"expire_date": q.ExpireDate,
			"sub_total":   q.SubTotal,
			"tax":         q.Tax,
			"total":       q.Total,
			"status":      q.Status,
			"year":        q.Year,
			"currency":    q.Currency,
			"note":        q.Note,
			"updated_at":  q.UpdatedAt,
		}).Error; err != nil {
		return err
	}

	// Items are replaced wholesale; position keeps the submitted order.
	if err := tx.WithContext(ctx).
		Exec("DELETE FROM quotation_items WHERE quotation_id = ?", q.ID).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the quotation together with every row that references
// it: payments, pending issue-queue entries, then items and the header.
func (r *quotationRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).
		Exec("DELETE FROM payments WHERE quotation_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).
		Exec("DELETE FROM payment_issue_queue WHERE quotation_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).
		Exec("DELETE FROM quotation_items WHERE quotation_id = ?", id).Error; err != nil {
		return err
	}
	res := tx.WithContext(ctx).Exec("DELETE FROM quotations WHERE id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *quotationRepository) FindByID(ctx context.Context, id string) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Quotation, error) {
	q := r.db.WithContext(ctx).Model(&domain.Quotation{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Client != "" {
		q = q.Where("client = ?", filter.Client)
	}

	page := pagination.Normalize(filter.Limit, filter.Offset)
	var quotations []domain.Quotation
	if err := page.Apply(q).Order("created_at DESC").Find(&quotations).Error; err != nil {
		return nil, err
	}
	for i := range quotations {
		if err := r.loadItems(ctx, &quotations[i]); err != nil {
			return nil, err
		}
	}
	return quotations, nil
}

func (r *quotationRepository) FindRefsByClient(ctx context.Context, client string) ([]domain.QuotationRef, error) {
	var refs []domain.QuotationRef
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, quotation_no, number, client, total
		     FROM quotations
		     WHERE client = ?
		     ORDER BY created_at DESC`, client).
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *quotationRepository) DistinctClients(ctx context.Context) ([]string, error) {
	var clients []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT client FROM quotations ORDER BY client`).
		Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *quotationRepository) loadItems(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).
		Where("quotation_id = ?", q.ID).
		Order("position ASC").
		Find(&q.Items).Error
}
