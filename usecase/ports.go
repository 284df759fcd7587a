package usecase

import (
	"context"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/token"
)

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(sub token.Subject) (*token.Issued, error)
	Verify(raw string) (*token.Claims, error)
}

// PasswordHasher hides the hashing algorithm from the auth flows.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
	CompareDummy(plain string)
}

// RevocationStore records logged-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, revocation *domain.Revocation) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
