package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase/ownership"
)

const deletedMessage = "Task deleted successfully"

type UseCase struct {
	tasks  repository.TaskRepository
	guard  *ownership.Guard
	tx     repository.Transactor
	logger *zap.Logger
}

func New(lists repository.ListRepository, tasks repository.TaskRepository, tx repository.Transactor, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		guard:  ownership.NewGuard(lists, tasks),
		tx:     tx,
		logger: logger,
	}
}

// Create adds a task under a list the requester owns.
func (uc *UseCase) Create(ctx context.Context, requesterID, listID string, input domain.TaskInput) (*domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, domain.BadRequest("title is required")
	}

	var created *domain.Task
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		list, err := uc.guard.List(ctx, requesterID, listID)
		if err != nil {
			return err
		}
		task, err := input.NewTask(list.ID)
		if err != nil {
			return err
		}
		if err := uc.tasks.Create(ctx, task); err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("task_id", created.ID), zap.String("list_id", listID))
	return created, nil
}

// ListByList returns the list's tasks ordered by due date, undated last.
func (uc *UseCase) ListByList(ctx context.Context, requesterID, listID string) ([]domain.Task, error) {
	if _, err := uc.guard.List(ctx, requesterID, listID); err != nil {
		return nil, err
	}
	return uc.tasks.ListByList(ctx, listID)
}

func (uc *UseCase) Get(ctx context.Context, requesterID, taskID string) (*domain.Task, error) {
	return uc.guard.Task(ctx, requesterID, taskID)
}

func (uc *UseCase) Update(ctx context.Context, requesterID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		task, err := uc.guard.Task(ctx, requesterID, taskID)
		if err != nil {
			return err
		}
		if err := patch.Apply(task); err != nil {
			return err
		}
		task.Title = strings.TrimSpace(task.Title)
		if task.Title == "" {
			return domain.BadRequest("title is required")
		}
		if err := uc.tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Toggle flips the completion flag. Applying it twice restores the original state.
func (uc *UseCase) Toggle(ctx context.Context, requesterID, taskID string) (*domain.Task, error) {
	var toggled *domain.Task
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.guard.Task(ctx, requesterID, taskID); err != nil {
			return err
		}
		task, err := uc.tasks.ToggleCompleted(ctx, taskID)
		if err != nil {
			return err
		}
		toggled = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (uc *UseCase) Delete(ctx context.Context, requesterID, taskID string) (*domain.DeletionResult, error) {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.guard.Task(ctx, requesterID, taskID); err != nil {
			return err
		}
		return uc.tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", taskID))
	return &domain.DeletionResult{Message: deletedMessage}, nil
}
