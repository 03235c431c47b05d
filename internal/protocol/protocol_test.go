package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSerialization(t *testing.T) {
	req := Request{ID: 1, Method: NewMethod(MethodInitialize)}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"method":{"type":"Initialize"}}`, string(data))
	// У методов без параметров ключа params быть не должно
	assert.NotContains(t, string(data), "params")
}

func TestRequestSerializationWithParams(t *testing.T) {
	req := Request{
		ID: 7,
		Method: NewSearchTracksMethod(
			"night drive",
			provider.TrackSearchFilters{Artist: model.Ptr("Kavinsky")},
			model.NewPageRequest(0, 25),
		),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	expected := `{
		"id": 7,
		"method": {
			"type": "SearchTracks",
			"params": {
				"query": "night drive",
				"filters": {"artist": "Kavinsky", "album": null, "year": null},
				"paging": {"offset": 0, "limit": 25}
			}
		}
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestRequestRoundTrip(t *testing.T) {
	original := Request{
		ID:     42,
		Method: NewGetTrackMethod(model.TrackID("track-9")),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, uint64(42), decoded.ID)
	assert.Equal(t, MethodGetTrack, decoded.Method.Type)

	var params GetTrackParams
	require.NoError(t, decoded.Method.UnmarshalParams(&params))
	assert.Equal(t, model.TrackID("track-9"), params.TrackID)
}

func TestUnmarshalParamsMissing(t *testing.T) {
	m := NewMethod(MethodShutdown)

	var params GetTrackParams
	err := m.UnmarshalParams(&params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing params")
}

func TestResponseDeserialization(t *testing.T) {
	raw := `{"id":1,"result":{"status":"Initialized","id":"test","name":"Test Plugin","version":"1.0.0","protocol_version":1}}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.Equal(t, uint64(1), resp.ID)
	require.Equal(t, StatusInitialized, resp.Result.Status)
	require.NotNil(t, resp.Result.Info)
	assert.Equal(t, "test", resp.Result.Info.ID)
	assert.Equal(t, "Test Plugin", resp.Result.Info.Name)
	assert.Equal(t, uint32(1), resp.Result.Info.ProtocolVersion)
}

func TestResultWireShapes(t *testing.T) {
	album := "Nightcall"
	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{
			name:     "shutdown ack has only status",
			result:   ShutdownAckResult(),
			expected: `{"status":"ShutdownAck"}`,
		},
		{
			name:     "stream url",
			result:   StreamURLResult(model.StreamURL("http://localhost:8080/stream/t1")),
			expected: `{"status":"StreamUrl","url":"http://localhost:8080/stream/t1"}`,
		},
		{
			name:     "error",
			result:   ErrorResult(ErrorKindNotFound, "track-404"),
			expected: `{"status":"Error","kind":"not_found","message":"track-404"}`,
		},
		{
			name: "track fields lie next to the status tag",
			result: TrackResult(model.Track{
				ID:         "t1",
				ProviderID: "demo",
				Title:      "Nightcall",
				Artist:     "Kavinsky",
				Album:      &album,
			}),
			expected: `{"status":"Track","id":"t1","provider_id":"demo","title":"Nightcall","artist":"Kavinsky","album":"Nightcall","duration_seconds":null,"track_number":null}`,
		},
		{
			name:     "empty page keeps items as array",
			result:   TracksResult(model.SinglePage[model.Track](nil)),
			expected: `{"status":"Tracks","items":[],"next":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))

			var decoded Result
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.result.Status, decoded.Status)
		})
	}
}

func TestCollectionItemsWireShape(t *testing.T) {
	page := model.SinglePage([]provider.CollectionItem{
		provider.ArtistItem("Kavinsky", "demo"),
		provider.AlbumItem(model.Album{ID: "a1", ProviderID: "demo", Title: "OutRun", Artist: "Kavinsky"}),
	})

	data, err := json.Marshal(CollectionItemsResult(page))
	require.NoError(t, err)

	expected := `{
		"status": "CollectionItems",
		"items": [
			{"Artist": {"name": "Kavinsky", "provider_id": "demo"}},
			{"Album": {"id": "a1", "provider_id": "demo", "title": "OutRun", "artist": "Kavinsky", "track_count": null, "duration_seconds": null}}
		],
		"next": null
	}`
	assert.JSONEq(t, expected, string(data))

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, StatusCollectionItems, decoded.Status)
	require.NotNil(t, decoded.Items)
	require.Len(t, decoded.Items.Items, 2)
	assert.Equal(t, "Artist", decoded.Items.Items[0].Kind())
	assert.Equal(t, "Album", decoded.Items.Items[1].Kind())
}

func TestResultUnknownStatus(t *testing.T) {
	var decoded Result
	err := json.Unmarshal([]byte(`{"status":"Telemetry"}`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown result status")
}

func TestPageCursorRoundTrip(t *testing.T) {
	cursor := model.PageCursor("offset:50")
	page := model.NewPage([]model.Playlist{
		{ID: "p1", ProviderID: "demo", Name: "Focus"},
	}, &cursor)

	data, err := json.Marshal(PlaylistsResult(page))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"next":"offset:50"`)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Playlists)
	require.NotNil(t, decoded.Playlists.Next)
	assert.Equal(t, cursor, *decoded.Playlists.Next)
}

func TestWireErrorToProviderError(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		message  string
		expected provider.Category
	}{
		{name: "network", kind: ErrorKindNetwork, message: "connection refused", expected: provider.CategoryNetwork},
		{name: "authentication", kind: ErrorKindAuthentication, message: "bad token", expected: provider.CategoryAuthentication},
		{name: "not found carries entity", kind: ErrorKindNotFound, message: "track-123", expected: provider.CategoryNotFound},
		{name: "not supported carries operation", kind: ErrorKindNotSupported, message: "get_lyrics", expected: provider.CategoryNotSupported},
		{name: "protocol mismatch collapses to other", kind: ErrorKindProtocolMismatch, message: "expected v1", expected: provider.CategoryOther},
		{name: "internal collapses to other", kind: ErrorKindInternal, message: "boom", expected: provider.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wireErr := &WireError{Kind: tt.kind, Message: tt.message}
			pe := wireErr.ToProviderError()
			assert.Equal(t, tt.expected, pe.Category)
			assert.Equal(t, tt.message, pe.Message)
		})
	}
}

func TestFromProviderError(t *testing.T) {
	wireErr := FromProviderError(provider.NewNotFoundError("album-7"))
	assert.Equal(t, ErrorKindNotFound, wireErr.Kind)
	assert.Equal(t, "album-7", wireErr.Message)

	wireErr = FromProviderError(provider.NewNotSupportedError("browse"))
	assert.Equal(t, ErrorKindNotSupported, wireErr.Kind)

	// Категория Other уходит на провод как internal
	wireErr = FromProviderError(provider.NewOtherError("unexpected state"))
	assert.Equal(t, ErrorKindInternal, wireErr.Kind)

	// Ошибки вне таксономии тоже уходят как internal
	wireErr = FromProviderError(errors.New("plain failure"))
	assert.Equal(t, ErrorKindInternal, wireErr.Kind)
	assert.Equal(t, "plain failure", wireErr.Message)
}

func TestErrorKindRoundTrip(t *testing.T) {
	// Пять общих категорий сохраняются при прохождении туда и обратно
	shared := []provider.Category{
		provider.CategoryNetwork,
		provider.CategoryAuthentication,
		provider.CategoryNotFound,
		provider.CategoryNotSupported,
	}

	for _, category := range shared {
		pe := &provider.Error{Category: category, Message: "m"}
		back := FromProviderError(pe).ToProviderError()
		assert.Equal(t, category, back.Category, "category %s must survive the round trip", category)
	}

	// Other проходит через internal и возвращается как Other
	back := FromProviderError(provider.NewOtherError("m")).ToProviderError()
	assert.Equal(t, provider.CategoryOther, back.Category)
}
