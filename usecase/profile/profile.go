package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase"
)

const deletedMessage = "User deleted successfully"

type UseCase struct {
	users  repository.UserRepository
	tx     repository.Transactor
	hasher usecase.PasswordHasher
	logger *zap.Logger
}

func New(users repository.UserRepository, tx repository.Transactor, hasher usecase.PasswordHasher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tx:     tx,
		hasher: hasher,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update. A new password is re-hashed; a new email must be unused.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	var newHash string
	if plain, ok := patch.Password.Get(); ok {
		if len(plain) < domain.MinPasswordLength {
			return nil, domain.BadRequest("password must be at least 6 characters")
		}
		hash, err := uc.hasher.Hash(plain)
		if err != nil {
			return nil, err
		}
		newHash = hash
	}

	var updated *domain.User
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		previousEmail := user.Email

		if err := patch.Apply(user); err != nil {
			return err
		}
		user.Username = strings.TrimSpace(user.Username)
		user.Email = domain.NormalizeEmail(user.Email)
		if user.Username == "" {
			return domain.BadRequest("username is required")
		}
		if user.Email == "" {
			return domain.BadRequest("email is required")
		}

		if user.Email != previousEmail {
			taken, err := uc.users.EmailExists(ctx, user.Email)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrEmailTaken
			}
		}

		if err := uc.users.Update(ctx, user); err != nil {
			return err
		}
		if newHash != "" {
			if err := uc.users.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
				return err
			}
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAccount removes the user; lists and tasks cascade in the schema.
func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) (*domain.DeletionResult, error) {
	if err := uc.users.Delete(ctx, userID); err != nil {
		return nil, err
	}
	uc.logger.Info("user deleted", zap.String("user_id", userID))
	return &domain.DeletionResult{Message: deletedMessage}, nil
}
