// Package provider определяет контракт источника музыкальных метаданных.
//
// Группа: CONTRACT - Контракт провайдера
// Содержит: Provider, Capabilities, TrackSearchFilters, NoLyrics
package provider

import (
	"fonoteka/internal/model"
)

// Capabilities представляет флаги опциональных возможностей провайдера
type Capabilities struct {
	Playlists       bool `json:"playlists"`
	Lyrics          bool `json:"lyrics"`
	Artwork         bool `json:"artwork"`
	Favorites       bool `json:"favorites"`
	RecentlyPlayed  bool `json:"recently_played"`
	OfflineDownload bool `json:"offline_download"`
}

// SupportsPlaylists проверяет поддержку плейлистов
func (c Capabilities) SupportsPlaylists() bool {
	return c.Playlists
}

// SupportsLyrics проверяет поддержку текстов песен
func (c Capabilities) SupportsLyrics() bool {
	return c.Lyrics
}

// SupportsOfflineDownload проверяет поддержку офлайн-загрузки
func (c Capabilities) SupportsOfflineDownload() bool {
	return c.OfflineDownload
}

// TrackSearchFilters представляет опциональные фильтры поиска треков
type TrackSearchFilters struct {
	Artist *string `json:"artist"`
	Album  *string `json:"album"`
	Year   *uint32 `json:"year"`
}

// IsEmpty проверяет, что ни один фильтр не задан
func (f TrackSearchFilters) IsEmpty() bool {
	return f.Artist == nil && f.Album == nil && f.Year == nil
}

// Provider определяет интерфейс источника музыкальных метаданных.
//
// Провайдеры возвращают только URL потоков; воспроизведением занимается ядро
// плеера. Реализация обязана быть безопасной для конкурентного использования:
// вызовы приходят из фоновых воркеров, пока интерфейс продолжает отрисовку.
// Блокирующие вызовы не принимают дедлайнов — ожидание ограничивает вызывающая
// сторона.
type Provider interface {
	// ID возвращает стабильный идентификатор провайдера (например, "demo" или "melodee")
	ID() string

	// Name возвращает человекочитаемое имя провайдера
	Name() string

	// Capabilities возвращает заявленные возможности провайдера
	Capabilities() Capabilities

	// SearchTracks ищет треки по запросу с опциональными фильтрами
	SearchTracks(query string, filters TrackSearchFilters, paging model.PageRequest) (model.Page[model.Track], error)

	// Browse возвращает страницу элементов каталога выбранного раздела
	Browse(kind BrowseKind, paging model.PageRequest) (model.Page[CollectionItem], error)

	// ListPlaylists возвращает страницу плейлистов
	ListPlaylists(paging model.PageRequest) (model.Page[model.Playlist], error)

	// SearchPlaylists ищет плейлисты по запросу
	SearchPlaylists(query string, paging model.PageRequest) (model.Page[model.Playlist], error)

	// GetPlaylist возвращает плейлист по идентификатору
	GetPlaylist(playlistID model.PlaylistID) (model.Playlist, error)

	// ListPlaylistTracks возвращает страницу треков плейлиста
	ListPlaylistTracks(playlistID model.PlaylistID, paging model.PageRequest) (model.Page[model.Track], error)

	// GetAlbum возвращает альбом по идентификатору
	GetAlbum(albumID model.AlbumID) (model.Album, error)

	// ListAlbumTracks возвращает страницу треков альбома
	ListAlbumTracks(albumID model.AlbumID, paging model.PageRequest) (model.Page[model.Track], error)

	// GetTrack возвращает трек по идентификатору
	GetTrack(trackID model.TrackID) (model.Track, error)

	// GetStreamURL возвращает воспроизводимый URL потока для трека
	GetStreamURL(trackID model.TrackID) (model.StreamURL, error)

	// GetLyrics возвращает текст песни. Провайдеры без поддержки текстов
	// встраивают NoLyrics и получают канонический отказ NotSupported.
	GetLyrics(trackID model.TrackID) (string, error)
}

// NoLyrics реализует GetLyrics по умолчанию для провайдеров без текстов песен
type NoLyrics struct{}

// GetLyrics всегда возвращает NotSupported
func (NoLyrics) GetLyrics(model.TrackID) (string, error) {
	return "", NewNotSupportedError("get_lyrics")
}
