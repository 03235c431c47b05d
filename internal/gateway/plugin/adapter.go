// Группа: GATEWAY - Адаптер провайдера
// Содержит: Backend (провайдер поверх процесса-плагина), Factory
package plugin

import (
	"errors"
	"fmt"
	"sync"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
	"fonoteka/internal/protocol"

	"go.uber.org/zap"
)

// Backend адаптирует процесс-плагин к контракту провайдера.
// Ошибки провода переводятся в таксономию контракта с сохранением категории:
// not_found от плагина виден вызывающему как NotFound, а не общая ошибка.
type Backend struct {
	provider.NoLyrics

	id     string
	host   PluginHost
	logger *zap.Logger

	capsMu sync.RWMutex
	caps   *provider.Capabilities
}

// NewBackend оборачивает запущенный хост в провайдера
func NewBackend(id string, host PluginHost, logger *zap.Logger) *Backend {
	return &Backend{
		id:     id,
		host:   host,
		logger: logger,
	}
}

// Factory возвращает фабрику провайдеров поверх процессов-плагинов.
// Процесс запускается сразу: неудачное рукопожатие делает Build ошибочным,
// наполовину живой провайдер в реестр не попадает.
func Factory() provider.Factory {
	return func(profile provider.Profile, logger *zap.Logger) (provider.Provider, error) {
		host := NewHost(LaunchConfig{
			Executable: profile.PluginExecutable,
			Args:       profile.PluginArgs,
			WorkingDir: profile.PluginWorkingDir,
			Env:        profile.PluginEnv,
		}, logger)
		if err := host.Start(); err != nil {
			return nil, fmt.Errorf("failed to start plugin for provider '%s': %w", profile.ProviderID, err)
		}
		return NewBackend(profile.ProviderID, host, logger), nil
	}
}

// ID возвращает идентификатор провайдера
func (b *Backend) ID() string {
	return b.id
}

// Name возвращает имя плагина из рукопожатия
func (b *Backend) Name() string {
	info, err := b.host.Info()
	if err != nil {
		return b.id
	}
	return info.Name
}

// Capabilities возвращает возможности плагина.
// Ответ кэшируется после первого успешного вызова; при сбое возвращается
// пустой набор без кэширования, следующий вызов попробует снова.
func (b *Backend) Capabilities() provider.Capabilities {
	b.capsMu.RLock()
	cached := b.caps
	b.capsMu.RUnlock()
	if cached != nil {
		return *cached
	}

	b.capsMu.Lock()
	defer b.capsMu.Unlock()
	if b.caps != nil {
		return *b.caps
	}

	result, err := b.host.SendRequest(protocol.NewMethod(protocol.MethodCapabilities))
	if err != nil {
		b.logger.Warn("Failed to fetch plugin capabilities, assuming none",
			zap.String("provider_id", b.id),
			zap.Error(err))
		return provider.Capabilities{}
	}
	if result.Status != protocol.StatusCapabilities || result.Capabilities == nil {
		b.logger.Warn("Plugin returned unexpected result for capabilities request",
			zap.String("provider_id", b.id),
			zap.String("status", string(result.Status)))
		return provider.Capabilities{}
	}

	b.caps = result.Capabilities
	return *b.caps
}

// SearchTracks ищет треки через плагин
func (b *Backend) SearchTracks(query string, filters provider.TrackSearchFilters, paging model.PageRequest) (model.Page[model.Track], error) {
	result, err := b.call(protocol.NewSearchTracksMethod(query, filters, paging))
	if err != nil {
		return model.Page[model.Track]{}, err
	}
	return b.trackPage(protocol.MethodSearchTracks, result)
}

// Browse возвращает страницу элементов каталога через плагин
func (b *Backend) Browse(kind provider.BrowseKind, paging model.PageRequest) (model.Page[provider.CollectionItem], error) {
	result, err := b.call(protocol.NewBrowseMethod(kind, paging))
	if err != nil {
		return model.Page[provider.CollectionItem]{}, err
	}
	if result.Status != protocol.StatusCollectionItems || result.Items == nil {
		return model.Page[provider.CollectionItem]{}, b.unexpected(protocol.MethodBrowse, result.Status)
	}
	return *result.Items, nil
}

// ListPlaylists возвращает страницу плейлистов через плагин
func (b *Backend) ListPlaylists(paging model.PageRequest) (model.Page[model.Playlist], error) {
	result, err := b.call(protocol.NewListPlaylistsMethod(paging))
	if err != nil {
		return model.Page[model.Playlist]{}, err
	}
	return b.playlistPage(protocol.MethodListPlaylists, result)
}

// SearchPlaylists ищет плейлисты через плагин
func (b *Backend) SearchPlaylists(query string, paging model.PageRequest) (model.Page[model.Playlist], error) {
	result, err := b.call(protocol.NewSearchPlaylistsMethod(query, paging))
	if err != nil {
		return model.Page[model.Playlist]{}, err
	}
	return b.playlistPage(protocol.MethodSearchPlaylists, result)
}

// GetPlaylist возвращает плейлист по идентификатору через плагин
func (b *Backend) GetPlaylist(playlistID model.PlaylistID) (model.Playlist, error) {
	result, err := b.call(protocol.NewGetPlaylistMethod(playlistID))
	if err != nil {
		return model.Playlist{}, err
	}
	if result.Status != protocol.StatusPlaylist || result.Playlist == nil {
		return model.Playlist{}, b.unexpected(protocol.MethodGetPlaylist, result.Status)
	}
	return *result.Playlist, nil
}

// ListPlaylistTracks возвращает страницу треков плейлиста через плагин
func (b *Backend) ListPlaylistTracks(playlistID model.PlaylistID, paging model.PageRequest) (model.Page[model.Track], error) {
	result, err := b.call(protocol.NewListPlaylistTracksMethod(playlistID, paging))
	if err != nil {
		return model.Page[model.Track]{}, err
	}
	return b.trackPage(protocol.MethodListPlaylistTracks, result)
}

// GetAlbum возвращает альбом по идентификатору через плагин
func (b *Backend) GetAlbum(albumID model.AlbumID) (model.Album, error) {
	result, err := b.call(protocol.NewGetAlbumMethod(albumID))
	if err != nil {
		return model.Album{}, err
	}
	if result.Status != protocol.StatusAlbum || result.Album == nil {
		return model.Album{}, b.unexpected(protocol.MethodGetAlbum, result.Status)
	}
	return *result.Album, nil
}

// ListAlbumTracks возвращает страницу треков альбома через плагин
func (b *Backend) ListAlbumTracks(albumID model.AlbumID, paging model.PageRequest) (model.Page[model.Track], error) {
	result, err := b.call(protocol.NewListAlbumTracksMethod(albumID, paging))
	if err != nil {
		return model.Page[model.Track]{}, err
	}
	return b.trackPage(protocol.MethodListAlbumTracks, result)
}

// GetTrack возвращает трек по идентификатору через плагин
func (b *Backend) GetTrack(trackID model.TrackID) (model.Track, error) {
	result, err := b.call(protocol.NewGetTrackMethod(trackID))
	if err != nil {
		return model.Track{}, err
	}
	if result.Status != protocol.StatusTrack || result.Track == nil {
		return model.Track{}, b.unexpected(protocol.MethodGetTrack, result.Status)
	}
	return *result.Track, nil
}

// GetStreamURL возвращает URL потока трека через плагин
func (b *Backend) GetStreamURL(trackID model.TrackID) (model.StreamURL, error) {
	result, err := b.call(protocol.NewGetStreamURLMethod(trackID))
	if err != nil {
		return "", err
	}
	if result.Status != protocol.StatusStreamURL || result.StreamURL == nil {
		return "", b.unexpected(protocol.MethodGetStreamURL, result.Status)
	}
	return *result.StreamURL, nil
}

// IsRunning сообщает, жив ли процесс плагина
func (b *Backend) IsRunning() bool {
	return b.host.IsRunning()
}

// Info возвращает данные рукопожатия плагина
func (b *Backend) Info() (protocol.Info, error) {
	return b.host.Info()
}

// Close останавливает процесс плагина
func (b *Backend) Close() error {
	return b.host.Stop()
}

// call выполняет запрос и переводит ошибки хоста в таксономию контракта
func (b *Backend) call(method protocol.Method) (*protocol.Result, error) {
	result, err := b.host.SendRequest(method)
	if err != nil {
		return nil, b.mapHostError(err)
	}
	return result, nil
}

// mapHostError переводит ошибку хоста в ошибку контракта.
// Ответ Error несёт категорию плагина и сохраняет её; выход процесса виден
// вызывающему как сетевой сбой бэкенда.
func (b *Backend) mapHostError(err error) error {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Wire.ToProviderError()
	}
	if errors.Is(err, ErrProcessTerminated) {
		return provider.NewNetworkError("plugin process terminated")
	}
	return provider.NewOtherError(err.Error())
}

func (b *Backend) trackPage(method protocol.MethodName, result *protocol.Result) (model.Page[model.Track], error) {
	if result.Status != protocol.StatusTracks || result.Tracks == nil {
		return model.Page[model.Track]{}, b.unexpected(method, result.Status)
	}
	return *result.Tracks, nil
}

func (b *Backend) playlistPage(method protocol.MethodName, result *protocol.Result) (model.Page[model.Playlist], error) {
	if result.Status != protocol.StatusPlaylists || result.Playlists == nil {
		return model.Page[model.Playlist]{}, b.unexpected(method, result.Status)
	}
	return *result.Playlists, nil
}

func (b *Backend) unexpected(method protocol.MethodName, status protocol.ResultStatus) error {
	b.logger.Warn("Plugin returned unexpected result variant",
		zap.String("provider_id", b.id),
		zap.String("method", string(method)),
		zap.String("status", string(status)))
	return provider.NewOtherError(fmt.Sprintf("unexpected response type for %s: %s", method, status))
}

var _ provider.Provider = (*Backend)(nil)
