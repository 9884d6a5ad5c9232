package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/customer/domain"
)

type customerService struct {
	repo   domain.Repository
	node   *snowflake.Node
	logger *zap.Logger
}

func New(repo domain.Repository, node *snowflake.Node, logger *zap.Logger) domain.Service {
	return &customerService{
		repo:   repo,
		node:   node,
		logger: logger.Named("customer.service"),
	}
}

func (s *customerService) Create(ctx context.Context, req domain.CreateRequest) (*domain.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	if req.Type == "" {
		req.Type = domain.TypePeople
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidType, req.Type)
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        s.node.Generate().String(),
		Type:      req.Type,
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID),
		zap.String("type", string(customer.Type)),
	)
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, error) {
	return s.repo.Find(ctx, filter)
}
