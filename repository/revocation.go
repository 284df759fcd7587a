package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

type RevocationRepository interface {
	Save(ctx context.Context, revocation *domain.Revocation) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
