// Package pluginserver реализует обвязку процесса плагина: цикл чтения
// запросов со stdin и записи ответов в stdout. Автору плагина достаточно
// реализовать контракт провайдера и отдать его серверу.
//
// Группа: SERVER - Цикл обслуживания плагина
// Содержит: Identity, Server
package pluginserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/protocol"

	"go.uber.org/zap"
)

// Identity представляет данные плагина для ответа на рукопожатие
type Identity struct {
	ID      string
	Name    string
	Version string
}

// Server обслуживает запросы хоста поверх канала stdin/stdout.
// Запросы обрабатываются строго по одному: протокол полудуплексный, хост не
// отправляет следующий запрос до ответа на предыдущий.
type Server struct {
	identity Identity
	backend  provider.Provider
	logger   *zap.Logger
}

// NewServer создает сервер плагина поверх провайдера
func NewServer(identity Identity, backend provider.Provider, logger *zap.Logger) *Server {
	return &Server{
		identity: identity,
		backend:  backend,
		logger:   logger,
	}
}

// Run обслуживает канал процесса до Shutdown или закрытия stdin
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve читает запросы из r и пишет ответы в w.
// Возвращается после Shutdown или на конце потока; нечитаемые строки
// пропускаются, ответить на них невозможно — id неизвестен.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	in := protocol.NewLineReader(r)
	out := protocol.NewLineWriter(w)

	for {
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("Request channel closed, exiting serve loop")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req protocol.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.logger.Warn("Skipping malformed request line", zap.Error(err))
			continue
		}

		result := s.dispatch(req.Method)
		if err := out.WriteMessage(protocol.Response{ID: req.ID, Result: result}); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}

		if req.Method.Type == protocol.MethodShutdown {
			s.logger.Info("Shutdown requested, exiting serve loop")
			return nil
		}
	}
}

// dispatch выполняет один метод провайдера.
// Паника провайдера превращается в результат Error с категорией internal:
// один сломанный вызов не валит процесс плагина целиком.
func (s *Server) dispatch(method protocol.Method) (result protocol.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic recovered in plugin method",
				zap.String("method", string(method.Type)),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			result = protocol.ErrorResult(protocol.ErrorKindInternal,
				fmt.Sprintf("panic in %s: %v", method.Type, r))
		}
	}()

	switch method.Type {
	case protocol.MethodInitialize:
		return protocol.InitializedResult(protocol.Info{
			ID:              s.identity.ID,
			Name:            s.identity.Name,
			Version:         s.identity.Version,
			ProtocolVersion: protocol.Version,
		})

	case protocol.MethodCapabilities:
		return protocol.CapabilitiesResult(s.backend.Capabilities())

	case protocol.MethodSearchTracks:
		var params protocol.SearchTracksParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.SearchTracks(params.Query, params.Filters, params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.TracksResult(page)

	case protocol.MethodBrowse:
		var params protocol.BrowseParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.Browse(params.Kind, params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.CollectionItemsResult(page)

	case protocol.MethodListPlaylists:
		var params protocol.ListPlaylistsParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.ListPlaylists(params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.PlaylistsResult(page)

	case protocol.MethodSearchPlaylists:
		var params protocol.SearchPlaylistsParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.SearchPlaylists(params.Query, params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.PlaylistsResult(page)

	case protocol.MethodGetPlaylist:
		var params protocol.GetPlaylistParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		playlist, err := s.backend.GetPlaylist(params.PlaylistID)
		if err != nil {
			return errorResult(err)
		}
		return protocol.PlaylistResult(playlist)

	case protocol.MethodListPlaylistTracks:
		var params protocol.ListPlaylistTracksParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.ListPlaylistTracks(params.PlaylistID, params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.TracksResult(page)

	case protocol.MethodGetAlbum:
		var params protocol.GetAlbumParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		album, err := s.backend.GetAlbum(params.AlbumID)
		if err != nil {
			return errorResult(err)
		}
		return protocol.AlbumResult(album)

	case protocol.MethodListAlbumTracks:
		var params protocol.ListAlbumTracksParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		page, err := s.backend.ListAlbumTracks(params.AlbumID, params.Paging)
		if err != nil {
			return errorResult(err)
		}
		return protocol.TracksResult(page)

	case protocol.MethodGetTrack:
		var params protocol.GetTrackParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		track, err := s.backend.GetTrack(params.TrackID)
		if err != nil {
			return errorResult(err)
		}
		return protocol.TrackResult(track)

	case protocol.MethodGetStreamURL:
		var params protocol.GetStreamURLParams
		if err := method.UnmarshalParams(&params); err != nil {
			return invalidParams(err)
		}
		url, err := s.backend.GetStreamURL(params.TrackID)
		if err != nil {
			return errorResult(err)
		}
		return protocol.StreamURLResult(url)

	case protocol.MethodShutdown:
		return protocol.ShutdownAckResult()

	default:
		return protocol.ErrorResult(protocol.ErrorKindNotSupported, string(method.Type))
	}
}

// errorResult переводит ошибку провайдера в результат Error с сохранением
// категории таксономии
func errorResult(err error) protocol.Result {
	wire := protocol.FromProviderError(err)
	return protocol.ErrorResult(wire.Kind, wire.Message)
}

// invalidParams сообщает о непригодных параметрах; это ошибка хоста, а не
// данных, поэтому категория internal
func invalidParams(err error) protocol.Result {
	return protocol.ErrorResult(protocol.ErrorKindInternal, err.Error())
}
