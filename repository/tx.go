package repository

import "context"

// Transactor runs fn inside a single database transaction. Repositories called with the
// context passed to fn join that transaction. Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type unlockedKey struct{}

// Unlocked marks reads made with the returned context as plain reads even inside a transaction.
func Unlocked(ctx context.Context) context.Context {
	return context.WithValue(ctx, unlockedKey{}, true)
}

// IsUnlocked reports whether ctx was marked by Unlocked.
func IsUnlocked(ctx context.Context) bool {
	v, _ := ctx.Value(unlockedKey{}).(bool)
	return v
}
