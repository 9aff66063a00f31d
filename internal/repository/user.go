package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"identity-api/internal/domain"
)

// ErrNotFound is returned by write operations that target a missing record.
// Reads signal absence with a nil result instead.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	ListAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
