package pluginserver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
	"fonoteka/internal/protocol"
)

// stubBackend — ручной провайдер для тестов цикла обслуживания
type stubBackend struct {
	provider.NoLyrics
	trackErr    error
	panicSearch bool
}

func (s *stubBackend) ID() string   { return "stub" }
func (s *stubBackend) Name() string { return "Stub Provider" }

func (s *stubBackend) Capabilities() provider.Capabilities {
	return provider.Capabilities{Playlists: true}
}

func (s *stubBackend) SearchTracks(query string, _ provider.TrackSearchFilters, _ model.PageRequest) (model.Page[model.Track], error) {
	if s.panicSearch {
		panic("stub exploded")
	}
	return model.SinglePage([]model.Track{
		{ID: "t1", ProviderID: "stub", Title: "Found: " + query, Artist: "Stub Artist"},
	}), nil
}

func (s *stubBackend) Browse(provider.BrowseKind, model.PageRequest) (model.Page[provider.CollectionItem], error) {
	return model.SinglePage([]provider.CollectionItem{}), nil
}

func (s *stubBackend) ListPlaylists(model.PageRequest) (model.Page[model.Playlist], error) {
	return model.SinglePage([]model.Playlist{
		{ID: "p1", ProviderID: "stub", Name: "Morning Mix"},
	}), nil
}

func (s *stubBackend) SearchPlaylists(string, model.PageRequest) (model.Page[model.Playlist], error) {
	return model.SinglePage([]model.Playlist{}), nil
}

func (s *stubBackend) GetPlaylist(id model.PlaylistID) (model.Playlist, error) {
	return model.Playlist{ID: id, ProviderID: "stub", Name: "Morning Mix"}, nil
}

func (s *stubBackend) ListPlaylistTracks(model.PlaylistID, model.PageRequest) (model.Page[model.Track], error) {
	return model.SinglePage([]model.Track{}), nil
}

func (s *stubBackend) GetAlbum(id model.AlbumID) (model.Album, error) {
	return model.Album{ID: id, ProviderID: "stub", Title: "Discovery", Artist: "Stub Artist"}, nil
}

func (s *stubBackend) ListAlbumTracks(model.AlbumID, model.PageRequest) (model.Page[model.Track], error) {
	return model.SinglePage([]model.Track{}), nil
}

func (s *stubBackend) GetTrack(id model.TrackID) (model.Track, error) {
	if s.trackErr != nil {
		return model.Track{}, s.trackErr
	}
	return model.Track{ID: id, ProviderID: "stub", Title: "Track", Artist: "Stub Artist"}, nil
}

func (s *stubBackend) GetStreamURL(model.TrackID) (model.StreamURL, error) {
	return "https://media.example.com/t1.mp3", nil
}

// serveLines прогоняет сервер по входным строкам и разбирает ответы
func serveLines(t *testing.T, backend provider.Provider, lines ...string) []protocol.Response {
	t.Helper()

	srv := NewServer(Identity{ID: "stub", Name: "Stub Provider", Version: "0.1.0"}, backend, zap.NewNop())

	var out bytes.Buffer
	input := strings.Join(lines, "\n") + "\n"
	require.NoError(t, srv.Serve(strings.NewReader(input), &out))

	var responses []protocol.Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp protocol.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServeHandshakeAndShutdown(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":1,"method":{"type":"Initialize"}}`,
		`{"id":2,"method":{"type":"Shutdown"}}`,
	)

	require.Len(t, responses, 2)

	assert.Equal(t, uint64(1), responses[0].ID)
	require.Equal(t, protocol.StatusInitialized, responses[0].Result.Status)
	assert.Equal(t, "stub", responses[0].Result.Info.ID)
	assert.Equal(t, "Stub Provider", responses[0].Result.Info.Name)
	assert.Equal(t, protocol.Version, responses[0].Result.Info.ProtocolVersion)

	assert.Equal(t, uint64(2), responses[1].ID)
	assert.Equal(t, protocol.StatusShutdownAck, responses[1].Result.Status)
}

func TestServeSearchDispatch(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":1,"method":{"type":"SearchTracks","params":{"query":"daft","filters":{"artist":null,"album":null,"year":null},"paging":{"offset":0,"limit":10}}}}`,
		`{"id":2,"method":{"type":"Shutdown"}}`,
	)

	require.Len(t, responses, 2)
	require.Equal(t, protocol.StatusTracks, responses[0].Result.Status)
	require.Equal(t, 1, responses[0].Result.Tracks.Len())
	assert.Equal(t, "Found: daft", responses[0].Result.Tracks.Items[0].Title)
}

func TestServeCapabilities(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":1,"method":{"type":"Capabilities"}}`,
		`{"id":2,"method":{"type":"Shutdown"}}`,
	)

	require.Equal(t, protocol.StatusCapabilities, responses[0].Result.Status)
	assert.True(t, responses[0].Result.Capabilities.Playlists)
	assert.False(t, responses[0].Result.Capabilities.Lyrics)
}

func TestServeSkipsMalformedLines(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`this line is not json`,
		`{"id":7,"method":{"type":"GetTrack","params":{"track_id":"t7"}}}`,
		`{"id":8,"method":{"type":"Shutdown"}}`,
	)

	require.Len(t, responses, 2, "the malformed line has no id, nothing to answer")
	assert.Equal(t, uint64(7), responses[0].ID)
	require.Equal(t, protocol.StatusTrack, responses[0].Result.Status)
	assert.Equal(t, model.TrackID("t7"), responses[0].Result.Track.ID)
}

func TestServeErrorTaxonomyOnWire(t *testing.T) {
	backend := &stubBackend{trackErr: provider.NewNotFoundError("t9")}
	responses := serveLines(t, backend,
		`{"id":1,"method":{"type":"GetTrack","params":{"track_id":"t9"}}}`,
		`{"id":2,"method":{"type":"Shutdown"}}`,
	)

	require.Equal(t, protocol.StatusError, responses[0].Result.Status)
	assert.Equal(t, protocol.ErrorKindNotFound, responses[0].Result.Err.Kind)
	assert.Equal(t, "t9", responses[0].Result.Err.Message)
}

func TestServePanicIsolation(t *testing.T) {
	backend := &stubBackend{panicSearch: true}
	responses := serveLines(t, backend,
		`{"id":1,"method":{"type":"SearchTracks","params":{"query":"x","filters":{"artist":null,"album":null,"year":null},"paging":{"offset":0,"limit":10}}}}`,
		`{"id":2,"method":{"type":"GetTrack","params":{"track_id":"t1"}}}`,
		`{"id":3,"method":{"type":"Shutdown"}}`,
	)

	require.Len(t, responses, 3)

	require.Equal(t, protocol.StatusError, responses[0].Result.Status)
	assert.Equal(t, protocol.ErrorKindInternal, responses[0].Result.Err.Kind)
	assert.Contains(t, responses[0].Result.Err.Message, "panic in SearchTracks")

	// Паника одного вызова не останавливает обслуживание следующих.
	assert.Equal(t, protocol.StatusTrack, responses[1].Result.Status)
}

func TestServeUnknownMethodNotSupported(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":3,"method":{"type":"Telemetry"}}`,
		`{"id":4,"method":{"type":"Shutdown"}}`,
	)

	require.Equal(t, protocol.StatusError, responses[0].Result.Status)
	assert.Equal(t, protocol.ErrorKindNotSupported, responses[0].Result.Err.Kind)
	assert.Equal(t, "Telemetry", responses[0].Result.Err.Message)
}

func TestServeMissingParams(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":4,"method":{"type":"GetTrack"}}`,
		`{"id":5,"method":{"type":"Shutdown"}}`,
	)

	require.Equal(t, protocol.StatusError, responses[0].Result.Status)
	assert.Equal(t, protocol.ErrorKindInternal, responses[0].Result.Err.Kind)
	assert.Contains(t, responses[0].Result.Err.Message, "missing params")
}

func TestServeStopsAtEOFWithoutShutdown(t *testing.T) {
	responses := serveLines(t, &stubBackend{},
		`{"id":1,"method":{"type":"Initialize"}}`,
	)

	require.Len(t, responses, 1)
	assert.Equal(t, protocol.StatusInitialized, responses[0].Result.Status)
}
