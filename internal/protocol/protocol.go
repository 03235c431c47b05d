// Package protocol определяет проводной протокол внешних плагинов.
//
// Протокол — построчный JSON поверх stdin/stdout процесса плагина: одна
// строка — один документ. Хост пишет Request и блокирующе читает Response;
// второй запрос никогда не отправляется до ответа на первый.
//
// Группа: WIRE - Типы запросов
// Содержит: Version, Request, Response, Method, параметры методов
package protocol

import (
	"encoding/json"
	"fmt"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
)

// Version — версия протокола для проверки совместимости при рукопожатии
const Version uint32 = 1

// Request представляет запрос хоста к процессу плагина
type Request struct {
	// ID — уникальный идентификатор запроса для корреляции ответа
	ID uint64 `json:"id"`
	// Method — вызываемый метод плагина
	Method Method `json:"method"`
}

// Response представляет ответ процесса плагина хосту
type Response struct {
	// ID — идентификатор запроса, к которому относится ответ
	ID uint64 `json:"id"`
	// Result — результат вызова метода
	Result Result `json:"result"`
}

// MethodName представляет имя метода плагина на проводе
type MethodName string

const (
	MethodInitialize         MethodName = "Initialize"
	MethodCapabilities       MethodName = "Capabilities"
	MethodSearchTracks       MethodName = "SearchTracks"
	MethodBrowse             MethodName = "Browse"
	MethodListPlaylists      MethodName = "ListPlaylists"
	MethodSearchPlaylists    MethodName = "SearchPlaylists"
	MethodGetPlaylist        MethodName = "GetPlaylist"
	MethodListPlaylistTracks MethodName = "ListPlaylistTracks"
	MethodGetAlbum           MethodName = "GetAlbum"
	MethodListAlbumTracks    MethodName = "ListAlbumTracks"
	MethodGetTrack           MethodName = "GetTrack"
	MethodGetStreamURL       MethodName = "GetStreamUrl"
	MethodShutdown           MethodName = "Shutdown"
)

// Method представляет вызываемый метод: имя варианта плюс его параметры.
// У методов без параметров (Initialize, Capabilities, Shutdown) ключ params
// на проводе отсутствует.
type Method struct {
	Type   MethodName      `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// UnmarshalParams разбирает параметры метода в целевую структуру
func (m Method) UnmarshalParams(v interface{}) error {
	if len(m.Params) == 0 {
		return fmt.Errorf("method %s: missing params", m.Type)
	}
	if err := json.Unmarshal(m.Params, v); err != nil {
		return fmt.Errorf("method %s: invalid params: %w", m.Type, err)
	}
	return nil
}

// SearchTracksParams представляет параметры SearchTracks
type SearchTracksParams struct {
	Query   string                      `json:"query"`
	Filters provider.TrackSearchFilters `json:"filters"`
	Paging  model.PageRequest           `json:"paging"`
}

// BrowseParams представляет параметры Browse
type BrowseParams struct {
	Kind   provider.BrowseKind `json:"kind"`
	Paging model.PageRequest   `json:"paging"`
}

// ListPlaylistsParams представляет параметры ListPlaylists
type ListPlaylistsParams struct {
	Paging model.PageRequest `json:"paging"`
}

// SearchPlaylistsParams представляет параметры SearchPlaylists
type SearchPlaylistsParams struct {
	Query  string            `json:"query"`
	Paging model.PageRequest `json:"paging"`
}

// GetPlaylistParams представляет параметры GetPlaylist
type GetPlaylistParams struct {
	PlaylistID model.PlaylistID `json:"playlist_id"`
}

// ListPlaylistTracksParams представляет параметры ListPlaylistTracks
type ListPlaylistTracksParams struct {
	PlaylistID model.PlaylistID  `json:"playlist_id"`
	Paging     model.PageRequest `json:"paging"`
}

// GetAlbumParams представляет параметры GetAlbum
type GetAlbumParams struct {
	AlbumID model.AlbumID `json:"album_id"`
}

// ListAlbumTracksParams представляет параметры ListAlbumTracks
type ListAlbumTracksParams struct {
	AlbumID model.AlbumID     `json:"album_id"`
	Paging  model.PageRequest `json:"paging"`
}

// GetTrackParams представляет параметры GetTrack
type GetTrackParams struct {
	TrackID model.TrackID `json:"track_id"`
}

// GetStreamURLParams представляет параметры GetStreamUrl
type GetStreamURLParams struct {
	TrackID model.TrackID `json:"track_id"`
}

// NewMethod создает метод без параметров
func NewMethod(name MethodName) Method {
	return Method{Type: name}
}

// NewSearchTracksMethod создает метод SearchTracks
func NewSearchTracksMethod(query string, filters provider.TrackSearchFilters, paging model.PageRequest) Method {
	return mustMethod(MethodSearchTracks, SearchTracksParams{Query: query, Filters: filters, Paging: paging})
}

// NewBrowseMethod создает метод Browse
func NewBrowseMethod(kind provider.BrowseKind, paging model.PageRequest) Method {
	return mustMethod(MethodBrowse, BrowseParams{Kind: kind, Paging: paging})
}

// NewListPlaylistsMethod создает метод ListPlaylists
func NewListPlaylistsMethod(paging model.PageRequest) Method {
	return mustMethod(MethodListPlaylists, ListPlaylistsParams{Paging: paging})
}

// NewSearchPlaylistsMethod создает метод SearchPlaylists
func NewSearchPlaylistsMethod(query string, paging model.PageRequest) Method {
	return mustMethod(MethodSearchPlaylists, SearchPlaylistsParams{Query: query, Paging: paging})
}

// NewGetPlaylistMethod создает метод GetPlaylist
func NewGetPlaylistMethod(playlistID model.PlaylistID) Method {
	return mustMethod(MethodGetPlaylist, GetPlaylistParams{PlaylistID: playlistID})
}

// NewListPlaylistTracksMethod создает метод ListPlaylistTracks
func NewListPlaylistTracksMethod(playlistID model.PlaylistID, paging model.PageRequest) Method {
	return mustMethod(MethodListPlaylistTracks, ListPlaylistTracksParams{PlaylistID: playlistID, Paging: paging})
}

// NewGetAlbumMethod создает метод GetAlbum
func NewGetAlbumMethod(albumID model.AlbumID) Method {
	return mustMethod(MethodGetAlbum, GetAlbumParams{AlbumID: albumID})
}

// NewListAlbumTracksMethod создает метод ListAlbumTracks
func NewListAlbumTracksMethod(albumID model.AlbumID, paging model.PageRequest) Method {
	return mustMethod(MethodListAlbumTracks, ListAlbumTracksParams{AlbumID: albumID, Paging: paging})
}

// NewGetTrackMethod создает метод GetTrack
func NewGetTrackMethod(trackID model.TrackID) Method {
	return mustMethod(MethodGetTrack, GetTrackParams{TrackID: trackID})
}

// NewGetStreamURLMethod создает метод GetStreamUrl
func NewGetStreamURLMethod(trackID model.TrackID) Method {
	return mustMethod(MethodGetStreamURL, GetStreamURLParams{TrackID: trackID})
}

// mustMethod сериализует параметры метода.
// Параметры — плоские структуры без каналов и циклов, маршалинг не падает.
func mustMethod(name MethodName, params interface{}) Method {
	raw, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Sprintf("protocol: failed to marshal %s params: %v", name, err))
	}
	return Method{Type: name, Params: raw}
}
