package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByList orders by due date ascending, tasks without a due date last.
	ListByList(ctx context.Context, listID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	// ToggleCompleted flips is_completed in a single statement and returns the new row.
	ToggleCompleted(ctx context.Context, id string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
