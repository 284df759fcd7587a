package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*domain.Credentials, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User, passwordHash string) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	// Delete removes the user; lists and tasks cascade in the schema.
	Delete(ctx context.Context, id string) error
}
