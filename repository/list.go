package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

type ListRepository interface {
	GetByID(ctx context.Context, id string) (*domain.List, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error)
	Create(ctx context.Context, list *domain.List) error
	Update(ctx context.Context, list *domain.List) error
	// Delete removes the list; tasks cascade in the schema.
	Delete(ctx context.Context, id string) error
}
