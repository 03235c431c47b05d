// Package catalog реализует встроенный музыкальный каталог в памяти.
// Каталог используется демонстрационным плагином и проверками работоспособности:
// детерминированные данные без внешних зависимостей.
//
// Группа: DOMAIN - Встроенный каталог
// Содержит: Library (провайдер поверх данных в памяти)
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
)

// Library представляет каталог в памяти, реализующий контракт провайдера.
// Наполнение завершается до начала обслуживания; после этого структура
// неизменяема и безопасна для конкурентного чтения.
type Library struct {
	id   string
	name string

	tracks    []model.Track
	albums    []model.Album
	playlists []model.Playlist

	albumTracks    map[model.AlbumID][]model.TrackID
	playlistTracks map[model.PlaylistID][]model.TrackID
	streams        map[model.TrackID]model.StreamURL
	lyrics         map[model.TrackID]string
	genres         []string
}

// NewLibrary создает пустой каталог
func NewLibrary(id, name string) *Library {
	return &Library{
		id:             id,
		name:           name,
		albumTracks:    make(map[model.AlbumID][]model.TrackID),
		playlistTracks: make(map[model.PlaylistID][]model.TrackID),
		streams:        make(map[model.TrackID]model.StreamURL),
		lyrics:         make(map[model.TrackID]string),
	}
}

// AddAlbum регистрирует альбом в каталоге
func (l *Library) AddAlbum(album model.Album) {
	l.albums = append(l.albums, album)
}

// AddTrack добавляет трек с URL потока; albumID пустой для одиночных треков
func (l *Library) AddTrack(albumID model.AlbumID, track model.Track, stream model.StreamURL) {
	l.tracks = append(l.tracks, track)
	l.streams[track.ID] = stream
	if albumID != "" {
		l.albumTracks[albumID] = append(l.albumTracks[albumID], track.ID)
	}
}

// AddPlaylist добавляет плейлист с упорядоченным списком треков
func (l *Library) AddPlaylist(playlist model.Playlist, trackIDs ...model.TrackID) {
	l.playlists = append(l.playlists, playlist)
	l.playlistTracks[playlist.ID] = trackIDs
}

// SetLyrics задает текст песни для трека
func (l *Library) SetLyrics(trackID model.TrackID, text string) {
	l.lyrics[trackID] = text
}

// AddGenre регистрирует жанр для просмотра каталога
func (l *Library) AddGenre(name string) {
	l.genres = append(l.genres, name)
}

// ID возвращает идентификатор провайдера
func (l *Library) ID() string {
	return l.id
}

// Name возвращает имя провайдера
func (l *Library) Name() string {
	return l.name
}

// Capabilities выводит возможности из наполнения каталога
func (l *Library) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Playlists: len(l.playlists) > 0,
		Lyrics:    len(l.lyrics) > 0,
	}
}

// SearchTracks ищет треки подстрокой без учета регистра по названию,
// исполнителю и альбому. Фильтр года не применяется: каталог не хранит год.
func (l *Library) SearchTracks(query string, filters provider.TrackSearchFilters, paging model.PageRequest) (model.Page[model.Track], error) {
	q := fold(query)

	var matched []model.Track
	for _, track := range l.tracks {
		if !trackMatchesQuery(track, q) {
			continue
		}
		if filters.Artist != nil && !foldContains(track.Artist, *filters.Artist) {
			continue
		}
		if filters.Album != nil && (track.Album == nil || !foldContains(*track.Album, *filters.Album)) {
			continue
		}
		matched = append(matched, track)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	return paginate(matched, paging), nil
}

// Browse возвращает страницу выбранного раздела каталога
func (l *Library) Browse(kind provider.BrowseKind, paging model.PageRequest) (model.Page[provider.CollectionItem], error) {
	switch kind {
	case provider.BrowseArtists:
		names := l.artistNames()
		items := make([]provider.CollectionItem, 0, len(names))
		for _, name := range names {
			items = append(items, provider.ArtistItem(name, l.id))
		}
		return paginate(items, paging), nil

	case provider.BrowseAlbums:
		albums := append([]model.Album{}, l.albums...)
		sort.Slice(albums, func(i, j int) bool { return albums[i].Title < albums[j].Title })
		items := make([]provider.CollectionItem, 0, len(albums))
		for _, album := range albums {
			items = append(items, provider.AlbumItem(album))
		}
		return paginate(items, paging), nil

	case provider.BrowsePlaylists:
		if len(l.playlists) == 0 {
			return model.Page[provider.CollectionItem]{}, provider.NewNotSupportedError("browse")
		}
		playlists := append([]model.Playlist{}, l.playlists...)
		sort.Slice(playlists, func(i, j int) bool { return playlists[i].Name < playlists[j].Name })
		items := make([]provider.CollectionItem, 0, len(playlists))
		for _, playlist := range playlists {
			items = append(items, provider.PlaylistItem(playlist))
		}
		return paginate(items, paging), nil

	case provider.BrowseGenres:
		if len(l.genres) == 0 {
			return model.Page[provider.CollectionItem]{}, provider.NewNotSupportedError("browse")
		}
		genres := append([]string{}, l.genres...)
		sort.Strings(genres)
		items := make([]provider.CollectionItem, 0, len(genres))
		for _, genre := range genres {
			items = append(items, provider.GenreItem(genre, l.id))
		}
		return paginate(items, paging), nil

	default:
		return model.Page[provider.CollectionItem]{}, provider.NewNotSupportedError("browse")
	}
}

// ListPlaylists возвращает страницу плейлистов
func (l *Library) ListPlaylists(paging model.PageRequest) (model.Page[model.Playlist], error) {
	if len(l.playlists) == 0 {
		return model.Page[model.Playlist]{}, provider.NewNotSupportedError("list_playlists")
	}
	return paginate(l.playlists, paging), nil
}

// SearchPlaylists ищет плейлисты подстрокой без учета регистра по имени
func (l *Library) SearchPlaylists(query string, paging model.PageRequest) (model.Page[model.Playlist], error) {
	if len(l.playlists) == 0 {
		return model.Page[model.Playlist]{}, provider.NewNotSupportedError("search_playlists")
	}

	var matched []model.Playlist
	for _, playlist := range l.playlists {
		if foldContains(playlist.Name, query) {
			matched = append(matched, playlist)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, paging), nil
}

// GetPlaylist возвращает плейлист по идентификатору
func (l *Library) GetPlaylist(playlistID model.PlaylistID) (model.Playlist, error) {
	for _, playlist := range l.playlists {
		if playlist.ID == playlistID {
			return playlist, nil
		}
	}
	return model.Playlist{}, provider.NewNotFoundError(string(playlistID))
}

// ListPlaylistTracks возвращает страницу треков плейлиста в заданном порядке
func (l *Library) ListPlaylistTracks(playlistID model.PlaylistID, paging model.PageRequest) (model.Page[model.Track], error) {
	ids, ok := l.playlistTracks[playlistID]
	if !ok {
		return model.Page[model.Track]{}, provider.NewNotFoundError(string(playlistID))
	}
	return paginate(l.resolveTracks(ids), paging), nil
}

// GetAlbum возвращает альбом по идентификатору
func (l *Library) GetAlbum(albumID model.AlbumID) (model.Album, error) {
	for _, album := range l.albums {
		if album.ID == albumID {
			return album, nil
		}
	}
	return model.Album{}, provider.NewNotFoundError(string(albumID))
}

// ListAlbumTracks возвращает страницу треков альбома в порядке добавления
func (l *Library) ListAlbumTracks(albumID model.AlbumID, paging model.PageRequest) (model.Page[model.Track], error) {
	ids, ok := l.albumTracks[albumID]
	if !ok {
		return model.Page[model.Track]{}, provider.NewNotFoundError(string(albumID))
	}
	return paginate(l.resolveTracks(ids), paging), nil
}

// GetTrack возвращает трек по идентификатору
func (l *Library) GetTrack(trackID model.TrackID) (model.Track, error) {
	for _, track := range l.tracks {
		if track.ID == trackID {
			return track, nil
		}
	}
	return model.Track{}, provider.NewNotFoundError(string(trackID))
}

// GetStreamURL возвращает URL потока трека
func (l *Library) GetStreamURL(trackID model.TrackID) (model.StreamURL, error) {
	stream, ok := l.streams[trackID]
	if !ok {
		return "", provider.NewNotFoundError(string(trackID))
	}
	return stream, nil
}

// GetLyrics возвращает текст песни
func (l *Library) GetLyrics(trackID model.TrackID) (string, error) {
	if len(l.lyrics) == 0 {
		return "", provider.NewNotSupportedError("get_lyrics")
	}
	text, ok := l.lyrics[trackID]
	if !ok {
		return "", provider.NewNotFoundError(string(trackID))
	}
	return text, nil
}

// artistNames собирает уникальные имена исполнителей из треков и альбомов
func (l *Library) artistNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, track := range l.tracks {
		if _, ok := seen[track.Artist]; !ok {
			seen[track.Artist] = struct{}{}
			names = append(names, track.Artist)
		}
	}
	for _, album := range l.albums {
		if _, ok := seen[album.Artist]; !ok {
			seen[album.Artist] = struct{}{}
			names = append(names, album.Artist)
		}
	}
	sort.Strings(names)
	return names
}

func (l *Library) resolveTracks(ids []model.TrackID) []model.Track {
	tracks := make([]model.Track, 0, len(ids))
	for _, id := range ids {
		for _, track := range l.tracks {
			if track.ID == id {
				tracks = append(tracks, track)
				break
			}
		}
	}
	return tracks
}

func trackMatchesQuery(track model.Track, foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	if strings.Contains(fold(track.Title), foldedQuery) {
		return true
	}
	if strings.Contains(fold(track.Artist), foldedQuery) {
		return true
	}
	return track.Album != nil && strings.Contains(fold(*track.Album), foldedQuery)
}

// fold нормализует строку для сравнения без учета регистра, включая
// не-ASCII алфавиты
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldContains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// paginate вырезает страницу по offset/limit; курсор указывает смещение
// следующей страницы, когда элементы остались
func paginate[T any](items []T, paging model.PageRequest) model.Page[T] {
	start := int(paging.Offset)
	if start > len(items) {
		start = len(items)
	}
	end := start + int(paging.Limit)
	if end > len(items) {
		end = len(items)
	}

	var next *model.PageCursor
	if end < len(items) {
		cursor := model.PageCursor(strconv.Itoa(end))
		next = &cursor
	}
	return model.NewPage(append([]T{}, items[start:end]...), next)
}

var _ provider.Provider = (*Library)(nil)
