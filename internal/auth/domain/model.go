package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user_not_found")
	ErrInvalidToken = errors.New("invalid_token")
)

// User is an API principal. Tokens are stored as sha256 hex digests,
// never in the clear.
type User struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email" json:"email"`
	TokenHash string    `gorm:"column:token_hash" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	FindByTokenHash(ctx context.Context, hash string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Count(ctx context.Context) (int64, error)
}

type Service interface {
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*User, error)
	// Register creates a user for the given plaintext token.
	Register(ctx context.Context, name, email, token string) (*User, error)
}
