package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrMissingField     = errors.New("missing_required_field")
	ErrInvalidType      = errors.New("invalid_customer_type")
	ErrCustomerNotFound = errors.New("customer_not_found")
)

type CustomerType string

const (
	TypePeople  CustomerType = "People"
	TypeCompany CustomerType = "Company"
)

func (t CustomerType) Valid() bool {
	return t == TypePeople || t == TypeCompany
}

type Customer struct {
	ID        string            `gorm:"column:id;primaryKey" json:"id"`
	Type      CustomerType      `gorm:"column:type" json:"type"`
	Name      string            `gorm:"column:name" json:"name"`
	Address   string            `gorm:"column:address" json:"address"`
	Email     string            `gorm:"column:email" json:"email"`
	Phone     string            `gorm:"column:phone" json:"phone"`
	Country   string            `gorm:"column:country" json:"country"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

type CreateRequest struct {
	Type     CustomerType      `json:"type"`
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Country  string            `json:"country"`
	Metadata datatypes.JSONMap `json:"metadata,omitempty"`
}

type ListFilter struct {
	Type   CustomerType
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	Find(ctx context.Context, filter ListFilter) ([]Customer, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]Customer, error)
}
