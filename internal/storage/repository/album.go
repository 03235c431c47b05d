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

// AlbumRepository реализует кеш метаданных альбомов
type AlbumRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAlbumRepository создает новый репозиторий кеша альбомов
func NewAlbumRepository(db *bun.DB, logger *zap.Logger) *AlbumRepository {
	return &AlbumRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает кешированный альбом; записи старше ttl считаются промахом
func (r *AlbumRepository) Get(providerID string, albumID model.AlbumID, ttl time.Duration) (*model.Album, bool, error) {
	ctx := context.Background()
	entry := new(model.AlbumCacheEntry)

	err := r.db.NewSelect().
		Model(entry).
		Where("provider_id = ? AND entity_id = ?", providerID, string(albumID)).
		Scan(ctx)

	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query album cache: %w", err)
	}

	if time.Since(entry.FetchedAt) > ttl {
		return nil, false, nil
	}

	var album model.Album
	if err := json.Unmarshal(entry.Payload, &album); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached album: %w", err)
	}

	return &album, true, nil
}

// Put сохраняет альбом в кеш, обновляя существующую запись
func (r *AlbumRepository) Put(providerID string, album model.Album) error {
	ctx := context.Background()

	payload, err := json.Marshal(album)
	if err != nil {
		return fmt.Errorf("failed to encode album for cache: %w", err)
	}

	entry := &model.AlbumCacheEntry{
		ProviderID: providerID,
		EntityID:   string(album.ID),
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
		return fmt.Errorf("failed to upsert album cache entry: %w", err)
	}

	return nil
}

// EvictExpired удаляет записи старше ttl и возвращает их количество
func (r *AlbumRepository) EvictExpired(ttl time.Duration) (int, error) {
	ctx := context.Background()
	cutoff := time.Now().Add(-ttl)

	res, err := r.db.NewDelete().
		Model((*model.AlbumCacheEntry)(nil)).
		Where("fetched_at < ?", cutoff).
		Exec(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to evict expired album cache entries: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted album cache entries: %w", err)
	}

	return int(affected), nil
}

// GetTotalCount возвращает количество записей в кеше альбомов
func (r *AlbumRepository) GetTotalCount() (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.AlbumCacheEntry)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count album cache entries: %w", err)
	}

	return count, nil
}
