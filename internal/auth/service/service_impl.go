package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/auth/domain"
)

type authService struct {
	repo   domain.Repository
	node   *snowflake.Node
	logger *zap.Logger
}

func New(repo domain.Repository, node *snowflake.Node, logger *zap.Logger) domain.Service {
	return &authService{
		repo:   repo,
		node:   node,
		logger: logger.Named("auth.service"),
	}
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByTokenHash(ctx, HashToken(token))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, name, email, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidToken
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        s.node.Generate().String(),
		Name:      name,
		Email:     email,
		TokenHash: HashToken(token),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// HashToken derives the storage form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
