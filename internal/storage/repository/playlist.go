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

// PlaylistRepository реализует кеш метаданных плейлистов
type PlaylistRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPlaylistRepository создает новый репозиторий кеша плейлистов
func NewPlaylistRepository(db *bun.DB, logger *zap.Logger) *PlaylistRepository {
	return &PlaylistRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает кешированный плейлист; записи старше ttl считаются промахом
func (r *PlaylistRepository) Get(providerID string, playlistID model.PlaylistID, ttl time.Duration) (*model.Playlist, bool, error) {
	ctx := context.Background()
	entry := new(model.PlaylistCacheEntry)

	err := r.db.NewSelect().
		Model(entry).
		Where("provider_id = ? AND entity_id = ?", providerID, string(playlistID)).
		Scan(ctx)

	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query playlist cache: %w", err)
	}

	if time.Since(entry.FetchedAt) > ttl {
		return nil, false, nil
	}

	var playlist model.Playlist
	if err := json.Unmarshal(entry.Payload, &playlist); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached playlist: %w", err)
	}

	return &playlist, true, nil
}

// Put сохраняет плейлист в кеш, обновляя существующую запись
func (r *PlaylistRepository) Put(providerID string, playlist model.Playlist) error {
	ctx := context.Background()

	payload, err := json.Marshal(playlist)
	if err != nil {
		return fmt.Errorf("failed to encode playlist for cache: %w", err)
	}

	entry := &model.PlaylistCacheEntry{
		ProviderID: providerID,
		EntityID:   string(playlist.ID),
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
		return fmt.Errorf("failed to upsert playlist cache entry: %w", err)
	}

	return nil
}

// EvictExpired удаляет записи старше ttl и возвращает их количество
func (r *PlaylistRepository) EvictExpired(ttl time.Duration) (int, error) {
	ctx := context.Background()
	cutoff := time.Now().Add(-ttl)

	res, err := r.db.NewDelete().
		Model((*model.PlaylistCacheEntry)(nil)).
		Where("fetched_at < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to evict expired playlist cache entries: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted playlist cache entries: %w", err)
	}

	return int(affected), nil
}

// GetTotalCount возвращает количество записей в кеше плейлистов
func (r *PlaylistRepository) GetTotalCount() (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.PlaylistCacheEntry)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count playlist cache entries: %w", err)
	}

	return count, nil
}
