// Package testkit wires the real SQLite repositories for use case tests.
package testkit

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	sqlitedb "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/pkg/password"
	"github.com/fastygo/todo/pkg/token"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/sqlite"
)

const (
	Secret = "testkit-secret"
	Issuer = "todo-test"
	TTL    = 24 * time.Hour
)

// Env bundles a migrated database with the collaborators the use cases need.
type Env struct {
	DB          *sql.DB
	Users       repository.UserRepository
	Lists       repository.ListRepository
	Tasks       repository.TaskRepository
	Tx          repository.Transactor
	Clock       *Clock
	Issuer      *token.Issuer
	Hasher      *password.Hasher
	Revocations *Revocations
}

func New(t testing.TB) *Env {
	t.Helper()

	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "todo.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := NewClock(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	issuer, err := token.NewIssuer(token.Config{Secret: Secret, Issuer: Issuer, TTL: TTL, Now: clock.Now})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	hasher, err := password.NewHasher(password.MinCost)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	return &Env{
		DB:          db,
		Users:       sqlite.NewUserRepository(db),
		Lists:       sqlite.NewListRepository(db),
		Tasks:       sqlite.NewTaskRepository(db),
		Tx:          sqlite.NewTransactor(db),
		Clock:       clock,
		Issuer:      issuer,
		Hasher:      hasher,
		Revocations: NewRevocations(clock.Now),
	}
}

// SeedUser inserts a user directly, bypassing password hashing.
func (e *Env) SeedUser(t testing.TB, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: email}
	if err := e.Users.Create(context.Background(), user, "unused-hash"); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Revocations is an in-memory revocation store.
type Revocations struct {
	mu  sync.Mutex
	now func() time.Time
	ids map[string]time.Time
}

func NewRevocations(now func() time.Time) *Revocations {
	return &Revocations{now: now, ids: make(map[string]time.Time)}
}

func (r *Revocations) Revoke(_ context.Context, revocation *domain.Revocation) error {
	if revocation == nil || revocation.TokenID == "" {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[revocation.TokenID] = revocation.ExpiresAt
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.ids[tokenID]
	return ok && r.now().Before(exp), nil
}
