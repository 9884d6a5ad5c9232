package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smallbiznis/facture/internal/auth/domain"
	authrepo "github.com/smallbiznis/facture/internal/auth/repository"
	authservice "github.com/smallbiznis/facture/internal/auth/service"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		token_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX idx_users_token_hash ON users(token_hash)`).Error)
	return db
}

func newService(t *testing.T, db *gorm.DB) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	return authservice.New(authrepo.New(db), node, zap.NewNop())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jordan", "jordan@example.com", "secret-token")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	resolved, err := svc.Authenticate(ctx, "secret-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "jordan@example.com", resolved.Email)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jordan", "jordan@example.com", "secret-token")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "wrong-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenStoredHashedOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(t, db)

	_, err := svc.Register(context.Background(), "Jordan", "jordan@example.com", "secret-token")
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.Raw("SELECT token_hash FROM users").Scan(&stored).Error)
	assert.NotEqual(t, "secret-token", stored)
	assert.Equal(t, authservice.HashToken("secret-token"), stored)
}
