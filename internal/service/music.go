// Package service содержит бизнес-логику приложения.
package service

import (
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/model"
	"fonoteka/internal/storage/repository"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MusicService оборачивает провайдера сквозным кешем метаданных.
// Точечные выборки (трек, альбом, плейлист) идут через кеш; поиск, просмотр
// и списки всегда уходят к провайдеру — их результаты изменчивы.
type MusicService struct {
	provider  provider.Provider
	tracks    model.TrackCacheRepository
	albums    model.AlbumCacheRepository
	playlists model.PlaylistCacheRepository
	ttl       time.Duration
	metrics   metrics.Interface
	logger    *zap.Logger
}

// NewMusicService создает новый музыкальный сервис
func NewMusicService(p provider.Provider, db *bun.DB, ttl time.Duration, metricsCollector metrics.Interface, logger *zap.Logger) *MusicService {
	return &MusicService{
		provider:  p,
		tracks:    repository.NewTrackRepository(db, logger),
		albums:    repository.NewAlbumRepository(db, logger),
		playlists: repository.NewPlaylistRepository(db, logger),
		ttl:       ttl,
		metrics:   metricsCollector,
		logger:    logger,
	}
}

// ID возвращает идентификатор нижележащего провайдера
func (s *MusicService) ID() string {
	return s.provider.ID()
}

// Name возвращает имя нижележащего провайдера
func (s *MusicService) Name() string {
	return s.provider.Name()
}

// Capabilities возвращает возможности нижележащего провайдера
func (s *MusicService) Capabilities() provider.Capabilities {
	return s.provider.Capabilities()
}

// SearchTracks ищет треки через провайдера
func (s *MusicService) SearchTracks(query string, filters provider.TrackSearchFilters, paging model.PageRequest) (model.Page[model.Track], error) {
	s.metrics.RecordProviderCall("SearchTracks")
	start := time.Now()
	page, err := s.provider.SearchTracks(query, filters, paging)
	s.observe(start, err)
	return page, err
}

// Browse возвращает страницу раздела каталога через провайдера
func (s *MusicService) Browse(kind provider.BrowseKind, paging model.PageRequest) (model.Page[provider.CollectionItem], error) {
	s.metrics.RecordProviderCall("Browse")
	start := time.Now()
	page, err := s.provider.Browse(kind, paging)
	s.observe(start, err)
	return page, err
}

// ListPlaylists возвращает страницу плейлистов через провайдера
func (s *MusicService) ListPlaylists(paging model.PageRequest) (model.Page[model.Playlist], error) {
	s.metrics.RecordProviderCall("ListPlaylists")
	start := time.Now()
	page, err := s.provider.ListPlaylists(paging)
	s.observe(start, err)
	return page, err
}

// SearchPlaylists ищет плейлисты через провайдера
func (s *MusicService) SearchPlaylists(query string, paging model.PageRequest) (model.Page[model.Playlist], error) {
	s.metrics.RecordProviderCall("SearchPlaylists")
	start := time.Now()
	page, err := s.provider.SearchPlaylists(query, paging)
	s.observe(start, err)
	return page, err
}

// GetPlaylist возвращает метаданные плейлиста через кеш с дозагрузкой из провайдера
func (s *MusicService) GetPlaylist(playlistID model.PlaylistID) (model.Playlist, error) {
	if playlist, ok := s.cachedPlaylist(playlistID); ok {
		return *playlist, nil
	}

	s.metrics.RecordProviderCall("GetPlaylist")
	start := time.Now()
	playlist, err := s.provider.GetPlaylist(playlistID)
	s.observe(start, err)
	if err != nil {
		return model.Playlist{}, err
	}

	if err := s.playlists.Put(s.provider.ID(), playlist); err != nil {
		s.logger.Warn("Failed to cache playlist",
			zap.String("playlist_id", string(playlistID)),
			zap.Error(err))
	}

	return playlist, nil
}

// ListPlaylistTracks возвращает страницу треков плейлиста через провайдера
func (s *MusicService) ListPlaylistTracks(playlistID model.PlaylistID, paging model.PageRequest) (model.Page[model.Track], error) {
	s.metrics.RecordProviderCall("ListPlaylistTracks")
	start := time.Now()
	page, err := s.provider.ListPlaylistTracks(playlistID, paging)
	s.observe(start, err)
	return page, err
}

// GetAlbum возвращает метаданные альбома через кеш с дозагрузкой из провайдера
func (s *MusicService) GetAlbum(albumID model.AlbumID) (model.Album, error) {
	if album, ok := s.cachedAlbum(albumID); ok {
		return *album, nil
	}

	s.metrics.RecordProviderCall("GetAlbum")
	start := time.Now()
	album, err := s.provider.GetAlbum(albumID)
	s.observe(start, err)
	if err != nil {
		return model.Album{}, err
	}

	if err := s.albums.Put(s.provider.ID(), album); err != nil {
		s.logger.Warn("Failed to cache album",
			zap.String("album_id", string(albumID)),
			zap.Error(err))
	}

	return album, nil
}

// ListAlbumTracks возвращает страницу треков альбома через провайдера
func (s *MusicService) ListAlbumTracks(albumID model.AlbumID, paging model.PageRequest) (model.Page[model.Track], error) {
	s.metrics.RecordProviderCall("ListAlbumTracks")
	start := time.Now()
	page, err := s.provider.ListAlbumTracks(albumID, paging)
	s.observe(start, err)
	return page, err
}

// GetTrack возвращает метаданные трека через кеш с дозагрузкой из провайдера
func (s *MusicService) GetTrack(trackID model.TrackID) (model.Track, error) {
	if track, ok := s.cachedTrack(trackID); ok {
		return *track, nil
	}

	s.metrics.RecordProviderCall("GetTrack")
	start := time.Now()
	track, err := s.provider.GetTrack(trackID)
	s.observe(start, err)
	if err != nil {
		return model.Track{}, err
	}

	if err := s.tracks.Put(s.provider.ID(), track); err != nil {
		s.logger.Warn("Failed to cache track",
			zap.String("track_id", string(trackID)),
			zap.Error(err))
	}

	return track, nil
}

// GetStreamURL возвращает URL потока напрямую от провайдера.
// Ссылки на потоки недолговечны, кешировать их нельзя.
func (s *MusicService) GetStreamURL(trackID model.TrackID) (model.StreamURL, error) {
	s.metrics.RecordProviderCall("GetStreamURL")
	start := time.Now()
	url, err := s.provider.GetStreamURL(trackID)
	s.observe(start, err)
	return url, err
}

// GetLyrics возвращает текст песни через провайдера
func (s *MusicService) GetLyrics(trackID model.TrackID) (string, error) {
	s.metrics.RecordProviderCall("GetLyrics")
	start := time.Now()
	lyrics, err := s.provider.GetLyrics(trackID)
	s.observe(start, err)
	return lyrics, err
}

// observe фиксирует длительность вызова провайдера и категорию ошибки
func (s *MusicService) observe(start time.Time, err error) {
	s.metrics.RecordResponseTime(time.Since(start))
	if err != nil {
		s.metrics.RecordProviderError(string(provider.CategoryOf(err)))
	}
}

func (s *MusicService) cachedTrack(trackID model.TrackID) (*model.Track, bool) {
	track, ok, err := s.tracks.Get(s.provider.ID(), trackID, s.ttl)
	if err != nil {
		// Сбой кеша не срывает запрос, идем к провайдеру
		s.logger.Warn("Track cache read failed", zap.Error(err))
	}
	if err != nil || !ok {
		s.metrics.RecordCacheMiss()
		return nil, false
	}

	s.metrics.RecordCacheHit()
	return track, true
}

func (s *MusicService) cachedAlbum(albumID model.AlbumID) (*model.Album, bool) {
	album, ok, err := s.albums.Get(s.provider.ID(), albumID, s.ttl)
	if err != nil {
		s.logger.Warn("Album cache read failed", zap.Error(err))
	}
	if err != nil || !ok {
		s.metrics.RecordCacheMiss()
		return nil, false
	}

	s.metrics.RecordCacheHit()
	return album, true
}

func (s *MusicService) cachedPlaylist(playlistID model.PlaylistID) (*model.Playlist, bool) {
	playlist, ok, err := s.playlists.Get(s.provider.ID(), playlistID, s.ttl)
	if err != nil {
		s.logger.Warn("Playlist cache read failed", zap.Error(err))
	}
	if err != nil || !ok {
		s.metrics.RecordCacheMiss()
		return nil, false
	}

	s.metrics.RecordCacheHit()
	return playlist, true
}

var _ provider.Provider = (*MusicService)(nil)
