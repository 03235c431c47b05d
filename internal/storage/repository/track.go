// Package repository содержит репозитории кеша метаданных.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"fonoteka/internal/model"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TrackRepository реализует кеш метаданных треков
type TrackRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTrackRepository создает новый репозиторий кеша треков
func NewTrackRepository(db *bun.DB, logger *zap.Logger) *TrackRepository {
	return &TrackRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает кешированный трек; записи старше ttl считаются промахом
func (r *TrackRepository) Get(providerID string, trackID model.TrackID, ttl time.Duration) (*model.Track, bool, error) {
	ctx := context.Background()
	entry := new(model.TrackCacheEntry)

	err := r.db.NewSelect().
		Model(entry).
		Where("provider_id = ? AND entity_id = ?", providerID, string(trackID)).
		Scan(ctx)

	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query track cache: %w", err)
	}

	if time.Since(entry.FetchedAt) > ttl {
		return nil, false, nil
	}

	var track model.Track
	if err := json.Unmarshal(entry.Payload, &track); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached track: %w", err)
	}

	return &track, true, nil
}

// Put сохраняет трек в кеш, обновляя существующую запись
func (r *TrackRepository) Put(providerID string, track model.Track) error {
	ctx := context.Background()

	payload, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to encode track for cache: %w", err)
	}

	entry := &model.TrackCacheEntry{
		ProviderID: providerID,
		EntityID:   string(track.ID),
		Payload:    payload,
		FetchedAt:  time.Now(),
	}

	_, err = r.db.NewInsert().
		Model(entry).
		On("CONFLICT (provider_id, entity_id) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("fetched_at = EXCLUDED.fetched_at").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert track cache entry: %w", err)
	}

	return nil
}

// EvictExpired удаляет записи старше ttl и возвращает их количество
func (r *TrackRepository) EvictExpired(ttl time.Duration) (int, error) {
	ctx := context.Background()
	cutoff := time.Now().Add(-ttl)

	res, err := r.db.NewDelete().
		Model((*model.TrackCacheEntry)(nil)).
		Where("fetched_at < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to evict expired track cache entries: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted track cache entries: %w", err)
	}

	return int(affected), nil
}

// GetTotalCount возвращает количество записей в кеше треков
func (r *TrackRepository) GetTotalCount() (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.TrackCacheEntry)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count track cache entries: %w", err)
	}

	return count, nil
}
