package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/password"
	"github.com/fastygo/todo/pkg/token"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UseCase struct {
	users       repository.UserRepository
	tx          repository.Transactor
	issuer      usecase.TokenIssuer
	hasher      usecase.PasswordHasher
	revocations usecase.RevocationStore
	logger      *zap.Logger
}

func New(
	users repository.UserRepository,
	tx repository.Transactor,
	issuer usecase.TokenIssuer,
	hasher usecase.PasswordHasher,
	revocations usecase.RevocationStore,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:       users,
		tx:          tx,
		issuer:      issuer,
		hasher:      hasher,
		revocations: revocations,
		logger:      logger,
	}
}

// Register creates an account and signs the user in.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.AuthToken, error) {
	username := strings.TrimSpace(in.Username)
	email := domain.NormalizeEmail(in.Email)
	switch {
	case username == "":
		return nil, domain.BadRequest("username is required")
	case email == "":
		return nil, domain.BadRequest("email is required")
	case len(in.Password) < domain.MinPasswordLength:
		return nil, domain.BadRequest("password must be at least 6 characters")
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Username: username, Email: email}
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := uc.users.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
		return uc.users.Create(ctx, user, hash)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return uc.issueFor(user)
}

// Login exchanges credentials for a token. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, plain string) (*domain.AuthToken, error) {
	creds, err := uc.users.GetCredentialsByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.hasher.CompareDummy(plain)
			return nil, domain.ErrInvalidLogin
		}
		return nil, err
	}

	if err := uc.hasher.Compare(creds.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			uc.logger.Error("stored password hash unusable", zap.String("user_id", creds.User.ID), zap.Error(err))
		}
		return nil, domain.ErrInvalidLogin
	}

	return uc.issueFor(&creds.User)
}

// Authenticate resolves a bearer token to the identity of a live account.
func (uc *UseCase) Authenticate(ctx context.Context, raw string) (*domain.Identity, error) {
	identity, _, err := uc.authenticate(ctx, raw)
	return identity, err
}

// Validate re-issues a token for a valid one. Any failure yields nil.
func (uc *UseCase) Validate(ctx context.Context, raw string) *domain.AuthToken {
	_, user, err := uc.authenticate(ctx, raw)
	if err != nil {
		uc.logger.Debug("token validation failed", zap.Error(err))
		return nil
	}
	auth, err := uc.issueFor(user)
	if err != nil {
		uc.logger.Warn("token re-issue failed", zap.Error(err))
		return nil
	}
	return auth
}

// Logout revokes the presented token until it expires.
func (uc *UseCase) Logout(ctx context.Context, identity *domain.Identity) error {
	if identity == nil || identity.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	err := uc.revocations.Revoke(ctx, &domain.Revocation{
		TokenID:   identity.TokenID,
		UserID:    identity.UserID,
		ExpiresAt: identity.ExpiresAt,
	})
	if err != nil {
		return err
	}
	uc.logger.Info("user logged out", zap.String("user_id", identity.UserID))
	return nil
}

func (uc *UseCase) authenticate(ctx context.Context, raw string) (*domain.Identity, *domain.User, error) {
	claims, err := uc.issuer.Verify(raw)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrCodeUnauthenticated, "invalid or expired token", err)
	}

	revoked, err := uc.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, domain.NewError(domain.ErrCodeUnauthenticated, "token has been revoked")
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, err
	}

	identity := &domain.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Avatar:    user.Avatar,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, user, nil
}

func (uc *UseCase) issueFor(user *domain.User) (*domain.AuthToken, error) {
	issued, err := uc.issuer.Issue(token.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Avatar: user.Avatar,
	})
	if err != nil {
		return nil, err
	}
	return &domain.AuthToken{
		Token:     issued.Value,
		ExpiresAt: issued.ExpiresAt,
		User:      *user,
	}, nil
}
