package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/customer/domain"
	"github.com/smallbiznis/facture/pkg/db/pagination"
)

type customerRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, error) {
	q := r.db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	page := pagination.Normalize(filter.Limit, filter.Offset)
	var customers []domain.Customer
	if err := page.Apply(q).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
