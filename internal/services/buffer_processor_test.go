package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/infrastructure/buffer"
)

type fakeHealth struct {
	online bool
}

func (f *fakeHealth) IsOnline() bool { return f.online }

type fakeRevocations struct {
	mu      sync.Mutex
	saved   map[string]domain.Revocation
	saveErr error
	readErr error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{saved: make(map[string]domain.Revocation)}
}

func (f *fakeRevocations) Save(_ context.Context, r *domain.Revocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[r.TokenID] = *r
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	_, ok := f.saved[tokenID]
	return ok, nil
}

func newTestProcessor(t *testing.T, health *fakeHealth, repo *fakeRevocations, now func() time.Time) (*BufferProcessor, *buffer.Store) {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	if err != nil {
		t.Fatalf("open buffer: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bp, err := NewBufferProcessor(store, health, repo, nil, ProcessorConfig{Now: now})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	return bp, store
}

func TestRevokeWritesThroughWhenOnline(t *testing.T) {
	repo := newFakeRevocations()
	bp, store := newTestProcessor(t, &fakeHealth{online: true}, repo, time.Now)
	ctx := context.Background()

	rev := &domain.Revocation{TokenID: "jti-1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := bp.Revoke(ctx, rev); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, ok := repo.saved["jti-1"]; !ok {
		t.Fatal("revocation not written to repository")
	}
	if size, _ := store.Size(); size != 0 {
		t.Fatalf("buffer size = %d, want 0", size)
	}

	revoked, err := bp.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("is revoked = %v, %v", revoked, err)
	}
}

func TestRevokeBuffersWhileOfflineAndDrains(t *testing.T) {
	health := &fakeHealth{online: false}
	repo := newFakeRevocations()
	bp, store := newTestProcessor(t, health, repo, time.Now)
	ctx := context.Background()

	rev := &domain.Revocation{TokenID: "jti-2", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := bp.Revoke(ctx, rev); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatal("offline revoke reached the repository")
	}

	revoked, err := bp.IsRevoked(ctx, "jti-2")
	if err != nil || !revoked {
		t.Fatalf("buffered token not reported revoked: %v, %v", revoked, err)
	}

	health.online = true
	if err := bp.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if _, ok := repo.saved["jti-2"]; !ok {
		t.Fatal("drain did not replay the revocation")
	}
	if size, _ := store.Size(); size != 0 {
		t.Fatalf("buffer size after drain = %d, want 0", size)
	}
}

func TestRevokeFallsBackWhenWriteFails(t *testing.T) {
	repo := newFakeRevocations()
	repo.saveErr = errors.New("redis: connection refused")
	bp, store := newTestProcessor(t, &fakeHealth{online: true}, repo, time.Now)

	rev := &domain.Revocation{TokenID: "jti-3", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := bp.Revoke(context.Background(), rev); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if found, _ := store.Has("jti-3"); !found {
		t.Fatal("failed write was not buffered")
	}

	// The item survives a failed drain.
	if err := bp.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	batch, _ := store.GetBatch(10)
	if len(batch) != 1 || batch[0].Retries != 1 {
		t.Fatalf("unexpected buffer after failed drain: %+v", batch)
	}
}

func TestIsRevokedFailsOpenOnLookupError(t *testing.T) {
	repo := newFakeRevocations()
	repo.readErr = errors.New("redis: timeout")
	bp, _ := newTestProcessor(t, &fakeHealth{online: true}, repo, time.Now)

	revoked, err := bp.IsRevoked(context.Background(), "jti-4")
	if err != nil || revoked {
		t.Fatalf("is revoked = %v, %v; want false, nil", revoked, err)
	}
}

func TestIsRevokedKeepsLocalRevocationsWhenLookupFails(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	repo := newFakeRevocations()
	bp, store := newTestProcessor(t, &fakeHealth{online: true}, repo, clock)
	ctx := context.Background()

	rev := &domain.Revocation{TokenID: "jti-5", UserID: "u1", ExpiresAt: now.Add(time.Hour)}
	if err := bp.Revoke(ctx, rev); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if found, _ := store.Has("jti-5"); found {
		t.Fatal("written revocation should not be buffered")
	}

	repo.readErr = errors.New("redis: timeout")
	if revoked, err := bp.IsRevoked(ctx, "jti-5"); err != nil || !revoked {
		t.Fatalf("is revoked = %v, %v; want true, nil", revoked, err)
	}
	if revoked, _ := bp.IsRevoked(ctx, "jti-other"); revoked {
		t.Fatal("unknown token reported revoked")
	}

	now = now.Add(time.Hour)
	if revoked, _ := bp.IsRevoked(ctx, "jti-5"); revoked {
		t.Fatal("expired revocation still reported")
	}
}

func TestPurgeDropsExpiredRevocations(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	bp, store := newTestProcessor(t, &fakeHealth{online: false}, newFakeRevocations(), clock)
	ctx := context.Background()

	for _, rev := range []*domain.Revocation{
		{TokenID: "short", ExpiresAt: now.Add(time.Minute)},
		{TokenID: "long", ExpiresAt: now.Add(time.Hour)},
	} {
		if err := bp.Revoke(ctx, rev); err != nil {
			t.Fatalf("revoke %s: %v", rev.TokenID, err)
		}
	}

	now = now.Add(10 * time.Minute)
	removed, err := bp.Purge()
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if found, _ := store.Has("long"); !found {
		t.Fatal("live revocation purged")
	}
}

func TestInvalidPurgeScheduleRejected(t *testing.T) {
	_, err := NewBufferProcessor(nil, nil, nil, nil, ProcessorConfig{PurgeSchedule: "every now and then"})
	if err == nil {
		t.Fatal("expected error for invalid purge schedule")
	}
}
