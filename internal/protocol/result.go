// Package protocol определяет проводной протокол внешних плагинов.
//
// Группа: WIRE - Типы результатов
// Содержит: ResultStatus, Result, Info
package protocol

import (
	"encoding/json"
	"fmt"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
)

// ResultStatus представляет имя варианта результата на проводе
type ResultStatus string

const (
	StatusInitialized     ResultStatus = "Initialized"
	StatusCapabilities    ResultStatus = "Capabilities"
	StatusTracks          ResultStatus = "Tracks"
	StatusCollectionItems ResultStatus = "CollectionItems"
	StatusPlaylists       ResultStatus = "Playlists"
	StatusPlaylist        ResultStatus = "Playlist"
	StatusAlbum           ResultStatus = "Album"
	StatusTrack           ResultStatus = "Track"
	StatusStreamURL       ResultStatus = "StreamUrl"
	StatusShutdownAck     ResultStatus = "ShutdownAck"
	StatusError           ResultStatus = "Error"
)

// Info представляет метаданные плагина, возвращаемые после Initialize
type Info struct {
	// ID — уникальный идентификатор плагина
	ID string `json:"id"`
	// Name — человекочитаемое имя
	Name string `json:"name"`
	// Version — версия плагина (semver)
	Version string `json:"version"`
	// ProtocolVersion — версия протокола, которую поддерживает плагин
	ProtocolVersion uint32 `json:"protocol_version"`
}

// Result представляет результат вызова метода плагина.
// Закрытое объединение: Status определяет, какое поле заполнено. На проводе
// поля варианта лежат рядом с тегом status в одном объекте, например
// {"status":"Track","id":"...","provider_id":"...",...}.
type Result struct {
	Status ResultStatus

	Info         *Info
	Capabilities *provider.Capabilities
	Tracks       *model.Page[model.Track]
	Items        *model.Page[provider.CollectionItem]
	Playlists    *model.Page[model.Playlist]
	Playlist     *model.Playlist
	Album        *model.Album
	Track        *model.Track
	StreamURL    *model.StreamURL
	Err          *WireError
}

// InitializedResult создает результат успешной инициализации
func InitializedResult(info Info) Result {
	return Result{Status: StatusInitialized, Info: &info}
}

// CapabilitiesResult создает результат с возможностями провайдера
func CapabilitiesResult(caps provider.Capabilities) Result {
	return Result{Status: StatusCapabilities, Capabilities: &caps}
}

// TracksResult создает результат со страницей треков
func TracksResult(page model.Page[model.Track]) Result {
	return Result{Status: StatusTracks, Tracks: &page}
}

// CollectionItemsResult создает результат со страницей элементов каталога
func CollectionItemsResult(page model.Page[provider.CollectionItem]) Result {
	return Result{Status: StatusCollectionItems, Items: &page}
}

// PlaylistsResult создает результат со страницей плейлистов
func PlaylistsResult(page model.Page[model.Playlist]) Result {
	return Result{Status: StatusPlaylists, Playlists: &page}
}

// PlaylistResult создает результат с одним плейлистом
func PlaylistResult(playlist model.Playlist) Result {
	return Result{Status: StatusPlaylist, Playlist: &playlist}
}

// AlbumResult создает результат с одним альбомом
func AlbumResult(album model.Album) Result {
	return Result{Status: StatusAlbum, Album: &album}
}

// TrackResult создает результат с одним треком
func TrackResult(track model.Track) Result {
	return Result{Status: StatusTrack, Track: &track}
}

// StreamURLResult создает результат с URL потока
func StreamURLResult(url model.StreamURL) Result {
	return Result{Status: StatusStreamURL, StreamURL: &url}
}

// ShutdownAckResult создает подтверждение остановки
func ShutdownAckResult() Result {
	return Result{Status: StatusShutdownAck}
}

// ErrorResult создает результат с ошибкой плагина
func ErrorResult(kind ErrorKind, message string) Result {
	return Result{Status: StatusError, Err: &WireError{Kind: kind, Message: message}}
}

// streamURLPayload — проводная форма варианта StreamUrl
type streamURLPayload struct {
	URL model.StreamURL `json:"url"`
}

// payload возвращает полезную нагрузку варианта или nil для вариантов без неё
func (r Result) payload() (interface{}, error) {
	switch r.Status {
	case StatusInitialized:
		return r.Info, checkPayload(r.Info == nil, r.Status)
	case StatusCapabilities:
		return r.Capabilities, checkPayload(r.Capabilities == nil, r.Status)
	case StatusTracks:
		return r.Tracks, checkPayload(r.Tracks == nil, r.Status)
	case StatusCollectionItems:
		return r.Items, checkPayload(r.Items == nil, r.Status)
	case StatusPlaylists:
		return r.Playlists, checkPayload(r.Playlists == nil, r.Status)
	case StatusPlaylist:
		return r.Playlist, checkPayload(r.Playlist == nil, r.Status)
	case StatusAlbum:
		return r.Album, checkPayload(r.Album == nil, r.Status)
	case StatusTrack:
		return r.Track, checkPayload(r.Track == nil, r.Status)
	case StatusStreamURL:
		if r.StreamURL == nil {
			return nil, fmt.Errorf("result %s has no payload", r.Status)
		}
		return streamURLPayload{URL: *r.StreamURL}, nil
	case StatusShutdownAck:
		return nil, nil
	case StatusError:
		return r.Err, checkPayload(r.Err == nil, r.Status)
	default:
		return nil, fmt.Errorf("unknown result status: %q", r.Status)
	}
}

func checkPayload(missing bool, status ResultStatus) error {
	if missing {
		return fmt.Errorf("result %s has no payload", status)
	}
	return nil
}

// MarshalJSON сериализует результат: тег status вклеивается в объект
// полезной нагрузки, получается один плоский объект.
func (r Result) MarshalJSON() ([]byte, error) {
	payload, err := r.payload()
	if err != nil {
		return nil, err
	}

	head := []byte(fmt.Sprintf(`{"status":%q`, string(r.Status)))
	if payload == nil {
		return append(head, '}'), nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result %s: %w", r.Status, err)
	}
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil, fmt.Errorf("result %s payload is not a JSON object", r.Status)
	}
	if len(raw) == 2 {
		return append(head, '}'), nil
	}

	head = append(head, ',')
	return append(head, raw[1:]...), nil
}

// UnmarshalJSON разбирает результат: сначала тег status, затем остальные поля
// объекта в структуру соответствующего варианта.
func (r *Result) UnmarshalJSON(data []byte) error {
	var probe struct {
		Status ResultStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to decode result status: %w", err)
	}

	switch probe.Status {
	case StatusInitialized:
		var info Info
		if err := json.Unmarshal(data, &info); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Info: &info}
	case StatusCapabilities:
		var caps provider.Capabilities
		if err := json.Unmarshal(data, &caps); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Capabilities: &caps}
	case StatusTracks:
		var page model.Page[model.Track]
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Tracks: &page}
	case StatusCollectionItems:
		var page model.Page[provider.CollectionItem]
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Items: &page}
	case StatusPlaylists:
		var page model.Page[model.Playlist]
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Playlists: &page}
	case StatusPlaylist:
		var playlist model.Playlist
		if err := json.Unmarshal(data, &playlist); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Playlist: &playlist}
	case StatusAlbum:
		var album model.Album
		if err := json.Unmarshal(data, &album); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Album: &album}
	case StatusTrack:
		var track model.Track
		if err := json.Unmarshal(data, &track); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Track: &track}
	case StatusStreamURL:
		var payload streamURLPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, StreamURL: &payload.URL}
	case StatusShutdownAck:
		*r = Result{Status: probe.Status}
	case StatusError:
		var wireErr WireError
		if err := json.Unmarshal(data, &wireErr); err != nil {
			return err
		}
		*r = Result{Status: probe.Status, Err: &wireErr}
	default:
		return fmt.Errorf("unknown result status: %q", probe.Status)
	}

	return nil
}
