// Package seed bootstraps a first API user for local and self-hosted
// setups, so a fresh install can authenticate without manual SQL.
package seed

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authdomain "github.com/smallbiznis/facture/internal/auth/domain"
	authservice "github.com/smallbiznis/facture/internal/auth/service"
	"github.com/smallbiznis/facture/internal/config"
)

// EnsureDefaultUser creates the configured bootstrap user when the
// users table is empty. Idempotent across restarts.
func EnsureDefaultUser(conn *gorm.DB, cfg config.SeedConfig) error {
	var n int64
	if err := conn.Model(&authdomain.User{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	user := authdomain.User{
		ID:        uuid.NewString(),
		Name:      cfg.UserName,
		Email:     cfg.UserEmail,
		TokenHash: authservice.HashToken(cfg.UserToken),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return conn.Create(&user).Error
}
