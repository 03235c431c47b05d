// Package service содержит планировщик чистки кеша.
package service

import (
	"fmt"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/model"
	"fonoteka/internal/storage/repository"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Janitor удаляет просроченные записи кеша метаданных по расписанию
type Janitor struct {
	tracks    model.TrackCacheRepository
	albums    model.AlbumCacheRepository
	playlists model.PlaylistCacheRepository
	ttl       time.Duration
	schedule  string
	cron      *cron.Cron
	entryID   cron.EntryID
	metrics   metrics.Interface
	logger    *zap.Logger
	mu        sync.RWMutex
	running   bool
}

// NewJanitor создает новый чистильщик кеша
func NewJanitor(db *bun.DB, ttl time.Duration, schedule string, metricsCollector metrics.Interface, logger *zap.Logger) *Janitor {
	return &Janitor{
		tracks:    repository.NewTrackRepository(db, logger),
		albums:    repository.NewAlbumRepository(db, logger),
		playlists: repository.NewPlaylistRepository(db, logger),
		ttl:       ttl,
		schedule:  schedule,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		metrics:   metricsCollector,
		logger:    logger,
	}
}

// Start запускает чистку по расписанию
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return fmt.Errorf("janitor is already running")
	}

	entryID, err := j.cron.AddFunc(j.schedule, func() {
		j.Sweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache eviction: %w", err)
	}
	j.entryID = entryID

	j.cron.Start()
	j.running = true
	j.metrics.SetNextEviction(j.cron.Entry(entryID).Next)

	j.logger.Info("Janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("ttl", j.ttl))

	return nil
}

// Stop останавливает чистку
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}

	j.logger.Info("Stopping janitor")

	j.cron.Stop()
	j.running = false

	j.logger.Info("Janitor stopped")
}

// Sweep удаляет просроченные записи из всех кешей и возвращает их число.
// Вызывается и планировщиком, и вручную при старте приложения.
func (j *Janitor) Sweep() int {
	total := 0

	evicted, err := j.tracks.EvictExpired(j.ttl)
	if err != nil {
		j.logger.Error("Failed to evict expired track cache entries", zap.Error(err))
	} else {
		total += evicted
	}

	evicted, err = j.albums.EvictExpired(j.ttl)
	if err != nil {
		j.logger.Error("Failed to evict expired album cache entries", zap.Error(err))
	} else {
		total += evicted
	}

	evicted, err = j.playlists.EvictExpired(j.ttl)
	if err != nil {
		j.logger.Error("Failed to evict expired playlist cache entries", zap.Error(err))
	} else {
		total += evicted
	}

	j.metrics.RecordEviction(total)
	j.logger.Info("Cache sweep finished", zap.Int("evicted", total))

	j.mu.RLock()
	if j.running {
		j.metrics.SetNextEviction(j.cron.Entry(j.entryID).Next)
	}
	j.mu.RUnlock()

	return total
}

// GetStatus возвращает статус чистильщика
func (j *Janitor) GetStatus() map[string]interface{} {
	j.mu.RLock()
	defer j.mu.RUnlock()

	status := map[string]interface{}{
		"running":  j.running,
		"schedule": j.schedule,
	}

	if entry := j.cron.Entry(j.entryID); entry.Valid() {
		status["next_run"] = entry.Next
	}

	return status
}
