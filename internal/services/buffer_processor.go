package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/infrastructure/buffer"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how often the buffer is drained and purged.
type ProcessorConfig struct {
	Interval      time.Duration
	PurgeSchedule string
	BatchSize     int
	MaxRetries    int
	Now           func() time.Time
}

// BufferProcessor keeps token revocations durable while Redis is unavailable.
// Revocations go to Redis when it answers and to the BoltDB buffer otherwise;
// a cron job replays the buffer and another drops entries for expired tokens.
type BufferProcessor struct {
	store       *buffer.Store
	monitor     ConnectionHealth
	revocations repository.RevocationRepository
	logger      *zap.Logger
	cron        *cron.Cron
	cfg         ProcessorConfig

	// recent holds token ids revoked through this instance, by expiry, so a Redis read
	// failure cannot resurrect them.
	mu     sync.Mutex
	recent map[string]time.Time
}

var _ usecase.RevocationStore = (*BufferProcessor)(nil)

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	revocations repository.RevocationRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) (*BufferProcessor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.PurgeSchedule == "" {
		cfg.PurgeSchedule = "@every 1h"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:       store,
		monitor:     monitor,
		revocations: revocations,
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
		recent:      make(map[string]time.Time),
	}

	drainSchedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	if _, err := bp.cron.AddFunc(drainSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule buffer drain: %w", err)
	}

	if _, err := bp.cron.AddFunc(cfg.PurgeSchedule, func() {
		if _, err := bp.Purge(); err != nil {
			bp.logger.Error("buffer purge failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule buffer purge %q: %w", cfg.PurgeSchedule, err)
	}

	return bp, nil
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Revoke writes the revocation to Redis, or buffers it when Redis is unavailable.
func (bp *BufferProcessor) Revoke(ctx context.Context, revocation *domain.Revocation) error {
	if revocation == nil || revocation.TokenID == "" {
		return domain.ErrInvalidPayload
	}
	if revocation.IsExpired(bp.cfg.Now()) {
		return nil
	}

	if bp.online() && bp.revocations != nil {
		err := bp.revocations.Save(ctx, revocation)
		if err == nil {
			bp.remember(revocation.TokenID, revocation.ExpiresAt)
			return nil
		}
		bp.logger.Warn("revocation write failed, buffering", zap.Error(err))
	}

	if bp.store == nil {
		return errors.New("revocation buffer not configured")
	}
	return bp.store.Enqueue(buffer.Item{
		TokenID:   revocation.TokenID,
		UserID:    revocation.UserID,
		ExpiresAt: revocation.ExpiresAt,
		Timestamp: bp.cfg.Now().UTC(),
	})
}

// IsRevoked consults revocations made through this instance and the local buffer first,
// then Redis. A Redis failure is logged and treated as not revoked.
func (bp *BufferProcessor) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	if bp.remembered(tokenID) {
		return true, nil
	}
	if bp.store != nil {
		found, err := bp.store.Has(tokenID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	if bp.revocations == nil || !bp.online() {
		return false, nil
	}

	revoked, err := bp.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		bp.logger.Warn("revocation lookup failed, accepting token", zap.String("token_id", tokenID), zap.Error(err))
		return false, nil
	}
	return revoked, nil
}

// Drain replays buffered revocations into Redis.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil || bp.revocations == nil {
		return nil
	}
	if !bp.online() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	now := bp.cfg.Now()
	for _, item := range items {
		if item.Expired(now) {
			if err := bp.store.Remove(item.TokenID); err != nil {
				bp.logger.Warn("failed to remove expired buffer item", zap.Error(err))
			}
			continue
		}

		err := bp.revocations.Save(ctx, &domain.Revocation{
			TokenID:   item.TokenID,
			UserID:    item.UserID,
			ExpiresAt: item.ExpiresAt,
			CreatedAt: item.Timestamp,
		})
		if err != nil {
			item.Retries++
			fields := []zap.Field{
				zap.String("token_id", item.TokenID),
				zap.Int("retries", item.Retries),
				zap.Error(err),
			}
			// Unsynced items stay buffered: they still revoke locally until the token expires.
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Error("revocation still unsynced", fields...)
			} else {
				bp.logger.Warn("failed to sync revocation", fields...)
			}
			if err := bp.store.Enqueue(item); err != nil {
				bp.logger.Error("failed to requeue buffer item", zap.Error(err))
			}
			continue
		}

		bp.remember(item.TokenID, item.ExpiresAt)
		if err := bp.store.Remove(item.TokenID); err != nil {
			bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
		}
	}
	return nil
}

// Purge drops buffered revocations whose tokens have expired.
func (bp *BufferProcessor) Purge() (int, error) {
	if bp == nil || bp.store == nil {
		return 0, nil
	}
	bp.forgetExpired()
	removed, err := bp.store.PurgeExpired(bp.cfg.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		bp.logger.Info("purged expired revocations", zap.Int("count", removed))
	}
	return removed, nil
}

func (bp *BufferProcessor) remember(tokenID string, expiresAt time.Time) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.recent[tokenID] = expiresAt
}

func (bp *BufferProcessor) remembered(tokenID string) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	expiresAt, ok := bp.recent[tokenID]
	if !ok {
		return false
	}
	if !bp.cfg.Now().Before(expiresAt) {
		delete(bp.recent, tokenID)
		return false
	}
	return true
}

func (bp *BufferProcessor) forgetExpired() {
	now := bp.cfg.Now()
	bp.mu.Lock()
	defer bp.mu.Unlock()
	for id, expiresAt := range bp.recent {
		if !now.Before(expiresAt) {
			delete(bp.recent, id)
		}
	}
}

func (bp *BufferProcessor) online() bool {
	return bp.monitor == nil || bp.monitor.IsOnline()
}
