package list

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase/ownership"
)

const deletedMessage = "List deleted successfully"

type UseCase struct {
	lists  repository.ListRepository
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
		lists:  lists,
		tasks:  tasks,
		guard:  ownership.NewGuard(lists, tasks),
		tx:     tx,
		logger: logger,
	}
}

func (uc *UseCase) Create(ctx context.Context, ownerID string, input domain.ListInput) (*domain.List, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.BadRequest("name is required")
	}
	list := &domain.List{
		OwnerID:     ownerID,
		Name:        name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := uc.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	uc.logger.Debug("list created", zap.String("list_id", list.ID), zap.String("owner_id", ownerID))
	return list, nil
}

// ListByOwner returns the owner's lists, newest first.
func (uc *UseCase) ListByOwner(ctx context.Context, ownerID string) ([]domain.List, error) {
	return uc.lists.ListByOwner(ctx, ownerID)
}

// Get returns the list with its tasks.
func (uc *UseCase) Get(ctx context.Context, requesterID, listID string) (*domain.List, error) {
	list, err := uc.guard.List(ctx, requesterID, listID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.ListByList(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	list.Tasks = tasks
	return list, nil
}

func (uc *UseCase) Update(ctx context.Context, requesterID, listID string, patch domain.ListPatch) (*domain.List, error) {
	var updated *domain.List
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		list, err := uc.guard.List(ctx, requesterID, listID)
		if err != nil {
			return err
		}
		if err := patch.Apply(list); err != nil {
			return err
		}
		list.Name = strings.TrimSpace(list.Name)
		if list.Name == "" {
			return domain.BadRequest("name is required")
		}
		if err := uc.lists.Update(ctx, list); err != nil {
			return err
		}
		updated = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the list and, through the schema, its tasks.
func (uc *UseCase) Delete(ctx context.Context, requesterID, listID string) (*domain.DeletionResult, error) {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.guard.List(ctx, requesterID, listID); err != nil {
			return err
		}
		return uc.lists.Delete(ctx, listID)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("list deleted", zap.String("list_id", listID))
	return &domain.DeletionResult{Message: deletedMessage}, nil
}
