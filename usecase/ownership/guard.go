// Package ownership decides whether a requester may touch a list or task.
// Existence is checked before ownership: a missing resource is NotFound,
// someone else's resource is Forbidden.
package ownership

import (
	"context"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type Guard struct {
	lists repository.ListRepository
	tasks repository.TaskRepository
}

func NewGuard(lists repository.ListRepository, tasks repository.TaskRepository) *Guard {
	return &Guard{lists: lists, tasks: tasks}
}

// CheckList is the pure ownership rule.
func CheckList(list *domain.List, requesterID string) error {
	if list == nil {
		return domain.ErrListNotFound
	}
	if requesterID == "" || !list.OwnedBy(requesterID) {
		return domain.ErrListForbidden
	}
	return nil
}

// List loads the list and verifies the requester owns it.
func (g *Guard) List(ctx context.Context, requesterID, listID string) (*domain.List, error) {
	list, err := g.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := CheckList(list, requesterID); err != nil {
		return nil, err
	}
	return list, nil
}

// Task loads the task and its parent list, then verifies the requester owns the list.
// Row locks are taken list first, then task, the same order list mutations and their
// cascades use.
func (g *Guard) Task(ctx context.Context, requesterID, taskID string) (*domain.Task, error) {
	peek, err := g.tasks.GetByID(repository.Unlocked(ctx), taskID)
	if err != nil {
		return nil, err
	}
	list, err := g.lists.GetByID(ctx, peek.ListID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	if err := CheckList(list, requesterID); err != nil {
		return nil, domain.ErrTaskForbidden
	}
	return g.tasks.GetByID(ctx, taskID)
}
