// Package model содержит модели данных музыкального каталога.
//
// Группа: CACHE - Кеш метаданных
// Содержит: TrackCacheEntry, AlbumCacheEntry, PlaylistCacheEntry и интерфейсы их репозиториев
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// TrackCacheEntry представляет строку кеша метаданных трека.
// Payload хранит трек в его проводном JSON-представлении: кеш переживает
// добавление полей в Track без миграции схемы.
type TrackCacheEntry struct {
	bun.BaseModel `bun:"table:track_cache"`

	ProviderID string    `bun:"provider_id,pk" json:"provider_id"`
	EntityID   string    `bun:"entity_id,pk" json:"entity_id"`
	Payload    []byte    `bun:"payload,notnull" json:"payload"`
	FetchedAt  time.Time `bun:"fetched_at,notnull" json:"fetched_at"`
}

// AlbumCacheEntry представляет строку кеша метаданных альбома
type AlbumCacheEntry struct {
	bun.BaseModel `bun:"table:album_cache"`

	ProviderID string    `bun:"provider_id,pk" json:"provider_id"`
	EntityID   string    `bun:"entity_id,pk" json:"entity_id"`
	Payload    []byte    `bun:"payload,notnull" json:"payload"`
	FetchedAt  time.Time `bun:"fetched_at,notnull" json:"fetched_at"`
}

// PlaylistCacheEntry представляет строку кеша метаданных плейлиста
type PlaylistCacheEntry struct {
	bun.BaseModel `bun:"table:playlist_cache"`

	ProviderID string    `bun:"provider_id,pk" json:"provider_id"`
	EntityID   string    `bun:"entity_id,pk" json:"entity_id"`
	Payload    []byte    `bun:"payload,notnull" json:"payload"`
	FetchedAt  time.Time `bun:"fetched_at,notnull" json:"fetched_at"`
}

// TrackCacheRepository определяет интерфейс кеша треков.
// Get считает записи старше ttl промахами; протухшие строки удаляет EvictExpired.
type TrackCacheRepository interface {
	Get(providerID string, trackID TrackID, ttl time.Duration) (*Track, bool, error)
	Put(providerID string, track Track) error
	EvictExpired(ttl time.Duration) (int, error)
	GetTotalCount() (int, error)
}

// AlbumCacheRepository определяет интерфейс кеша альбомов
type AlbumCacheRepository interface {
	Get(providerID string, albumID AlbumID, ttl time.Duration) (*Album, bool, error)
	Put(providerID string, album Album) error
	EvictExpired(ttl time.Duration) (int, error)
	GetTotalCount() (int, error)
}

// PlaylistCacheRepository определяет интерфейс кеша плейлистов
type PlaylistCacheRepository interface {
	Get(providerID string, playlistID PlaylistID, ttl time.Duration) (*Playlist, bool, error)
	Put(providerID string, playlist Playlist) error
	EvictExpired(ttl time.Duration) (int, error)
	GetTotalCount() (int, error)
}
