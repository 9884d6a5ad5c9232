package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/payment/domain"
	"github.com/smallbiznis/facture/pkg/db/pagination"
)

type paymentRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &paymentRepository{db: db}
}

// enrichedRow is the flat scan target for the payment/quotation/user join.
type enrichedRow struct {
	ID               string    `gorm:"column:id"`
	QuotationID      string    `gorm:"column:quotation_id"`
	CustomerName     string    `gorm:"column:customer_name"`
	Amount           float64   `gorm:"column:amount"`
	PayDate          time.Time `gorm:"column:pay_date"`
	Status           string    `gorm:"column:status"`
	GatewayOrderID   string    `gorm:"column:gateway_order_id"`
	GatewayPaymentID string    `gorm:"column:gateway_payment_id"`
	AutoIssued       bool      `gorm:"column:auto_issued"`
	CreatedBy        string    `gorm:"column:created_by"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`

	QuotationNo     *string  `gorm:"column:q_quotation_no"`
	QuotationNumber *string  `gorm:"column:q_number"`
	QuotationClient *string  `gorm:"column:q_client"`
	QuotationTotal  *float64 `gorm:"column:q_total"`

	UserName  *string `gorm:"column:u_name"`
	UserEmail *string `gorm:"column:u_email"`
}

const enrichedSelect = `
	SELECT p.id, p.quotation_id, p.customer_name, p.amount, p.pay_date,
	       p.status, p.gateway_order_id, p.gateway_payment_id,
	       p.auto_issued, p.created_by, p.created_at, p.updated_at,
	       q.quotation_no AS q_quotation_no, q.number AS q_number,
	       q.client AS q_client, q.total AS q_total,
	       u.name AS u_name, u.email AS u_email
	FROM payments p
	LEFT JOIN quotations q ON q.id = p.quotation_id
	LEFT JOIN users u ON u.id = p.created_by`

func (row enrichedRow) toEnriched() domain.Enriched {
	e := domain.Enriched{
		Payment: domain.Payment{
			ID:               row.ID,
			QuotationID:      row.QuotationID,
			CustomerName:     row.CustomerName,
			Amount:           row.Amount,
			PayDate:          row.PayDate,
			Status:           domain.Status(row.Status),
			GatewayOrderID:   row.GatewayOrderID,
			GatewayPaymentID: row.GatewayPaymentID,
			AutoIssued:       row.AutoIssued,
			CreatedBy:        row.CreatedBy,
			CreatedAt:        row.CreatedAt,
			UpdatedAt:        row.UpdatedAt,
		},
	}
	if row.QuotationClient != nil {
		info := domain.QuotationInfo{Client: *row.QuotationClient}
		if row.QuotationNo != nil {
			info.QuotationNo = *row.QuotationNo
		}
		if row.QuotationNumber != nil {
			info.Number = *row.QuotationNumber
		}
		if row.QuotationTotal != nil {
			info.Total = *row.QuotationTotal
		}
		e.Quotation = &info
	}
	if row.UserName != nil || row.UserEmail != nil {
		info := domain.UserInfo{}
		if row.UserName != nil {
			info.Name = *row.UserName
		}
		if row.UserEmail != nil {
			info.Email = *row.UserEmail
		}
		e.Creator = &info
	}
	return e
}

func toEnrichedList(rows []enrichedRow) []domain.Enriched {
	out := make([]domain.Enriched, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEnriched())
	}
	return out
}

func (r *paymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// InsertAutoIssued relies on the partial unique index over
// payments(quotation_id) WHERE auto_issued: a concurrent duplicate makes
// the insert a no-op instead of a second row.
func (r *paymentRepository) InsertAutoIssued(ctx context.Context, p *domain.Payment) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO payments (
			id, quotation_id, customer_name, amount, pay_date, status,
			gateway_order_id, gateway_payment_id, auto_issued,
			created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (quotation_id) WHERE auto_issued DO NOTHING`,
		p.ID, p.QuotationID, p.CustomerName, p.Amount, p.PayDate, p.Status,
		p.GatewayOrderID, p.GatewayPaymentID, true,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"quotation_id":       p.QuotationID,
			"customer_name":      p.CustomerName,
			"amount":             p.Amount,
			"pay_date":           p.PayDate,
			"status":             p.Status,
			"gateway_order_id":   p.GatewayOrderID,
			"gateway_payment_id": p.GatewayPaymentID,
			"updated_at":         p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Exec("DELETE FROM payments WHERE id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*domain.Enriched, error) {
	var rows []enrichedRow
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+" WHERE p.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	e := rows[0].toEnriched()
	return &e, nil
}

func (r *paymentRepository) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Enriched, error) {
	query := enrichedSelect
	args := []interface{}{}
	if filter.Status != "" {
		query += " WHERE p.status = ?"
		args = append(args, filter.Status)
	}
	page := pagination.Normalize(filter.Limit, filter.Offset)
	query += " ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	var rows []enrichedRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toEnrichedList(rows), nil
}

func (r *paymentRepository) FindByQuotationIDs(ctx context.Context, ids []string) ([]domain.Enriched, error) {
	if len(ids) == 0 {
		return []domain.Enriched{}, nil
	}
	var rows []enrichedRow
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+" WHERE p.quotation_id IN ? ORDER BY p.created_at DESC", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEnrichedList(rows), nil
}

func (r *paymentRepository) FindByCustomer(ctx context.Context, client string) ([]domain.Enriched, error) {
	var rows []enrichedRow
	err := r.db.WithContext(ctx).
		Raw(enrichedSelect+` WHERE p.quotation_id IN (
			SELECT id FROM quotations WHERE client = ?
		) ORDER BY p.created_at DESC`, client).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEnrichedList(rows), nil
}

func (r *paymentRepository) ExistsForQuotation(ctx context.Context, quotationID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("quotation_id = ?", quotationID).
		Count(&n).Error
	return n > 0, err
}

func (r *paymentRepository) QuotationExists(ctx context.Context, quotationID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(1) FROM quotations WHERE id = ?", quotationID).
		Scan(&n).Error
	return n > 0, err
}

func (r *paymentRepository) QuotationClient(ctx context.Context, quotationID string) (string, error) {
	var client string
	err := r.db.WithContext(ctx).
		Raw("SELECT client FROM quotations WHERE id = ?", quotationID).
		Scan(&client).Error
	return client, err
}

func (r *paymentRepository) DistinctCustomers(ctx context.Context) ([]string, error) {
	var clients []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT client FROM quotations ORDER BY client").
		Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *paymentRepository) QuotationRefsByCustomer(ctx context.Context, client string) ([]domain.QuotationRef, error) {
	var refs []domain.QuotationRef
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, quotation_no, number, client, total
		     FROM quotations WHERE client = ?
		     ORDER BY created_at DESC`, client).
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}
