package service

import (
	"fonoteka/internal/domain/catalog"
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/domain/provider/providertest"
	"fonoteka/internal/infrastructure/metrics"
	"fonoteka/internal/model"
	"fonoteka/internal/storage"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingProvider считает обращения к провайдеру, делегируя каталогу
type countingProvider struct {
	provider.Provider
	getTrackCalls    int
	getAlbumCalls    int
	getPlaylistCalls int
	streamCalls      int
}

func (p *countingProvider) GetTrack(trackID model.TrackID) (model.Track, error) {
	p.getTrackCalls++
	return p.Provider.GetTrack(trackID)
}

func (p *countingProvider) GetAlbum(albumID model.AlbumID) (model.Album, error) {
	p.getAlbumCalls++
	return p.Provider.GetAlbum(albumID)
}

func (p *countingProvider) GetPlaylist(playlistID model.PlaylistID) (model.Playlist, error) {
	p.getPlaylistCalls++
	return p.Provider.GetPlaylist(playlistID)
}

func (p *countingProvider) GetStreamURL(trackID model.TrackID) (model.StreamURL, error) {
	p.streamCalls++
	return p.Provider.GetStreamURL(trackID)
}

func newTestMusicService(t *testing.T) (*MusicService, *countingProvider, *metrics.Metrics) {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	counting := &countingProvider{Provider: catalog.DemoLibrary()}
	collector := metrics.NewMetrics(zap.NewNop())
	svc := NewMusicService(counting, store.GetDB(), time.Hour, collector, zap.NewNop())
	return svc, counting, collector
}

func cacheStats(t *testing.T, collector *metrics.Metrics) map[string]interface{} {
	t.Helper()

	stats, ok := collector.GetStats()["cache"].(map[string]interface{})
	require.True(t, ok)
	return stats
}

func TestMusicService_GetTrackReadsThroughCache(t *testing.T) {
	svc, counting, collector := newTestMusicService(t)

	first, err := svc.GetTrack("trk-001")
	require.NoError(t, err)
	assert.Equal(t, "Neon Meridian", first.Title)
	assert.Equal(t, 1, counting.getTrackCalls)

	second, err := svc.GetTrack("trk-001")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, counting.getTrackCalls, "second lookup must be served from cache")

	stats := cacheStats(t, collector)
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.Equal(t, int64(1), stats["cache_hits"])
}

func TestMusicService_GetAlbumAndPlaylistReadThroughCache(t *testing.T) {
	svc, counting, _ := newTestMusicService(t)

	album, err := svc.GetAlbum("alb-aurora")
	require.NoError(t, err)
	_, err = svc.GetAlbum("alb-aurora")
	require.NoError(t, err)
	assert.Equal(t, 1, counting.getAlbumCalls)
	assert.Equal(t, "Aurora Lines", album.Title)

	playlist, err := svc.GetPlaylist("pl-morning")
	require.NoError(t, err)
	_, err = svc.GetPlaylist("pl-morning")
	require.NoError(t, err)
	assert.Equal(t, 1, counting.getPlaylistCalls)
	assert.Equal(t, "Morning Commute", playlist.Name)
}

func TestMusicService_NotFoundIsNeverCached(t *testing.T) {
	svc, counting, collector := newTestMusicService(t)

	_, err := svc.GetTrack("trk-404")
	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))

	_, err = svc.GetTrack("trk-404")
	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))
	assert.Equal(t, 2, counting.getTrackCalls, "failed lookups must reach the provider every time")

	perf, ok := collector.GetStats()["performance"].(map[string]interface{})
	require.True(t, ok)
	byCategory, ok := perf["errors_by_category"].(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(2), byCategory[string(provider.CategoryNotFound)])
}

func TestMusicService_StreamURLIsNeverCached(t *testing.T) {
	svc, counting, _ := newTestMusicService(t)

	first, err := svc.GetStreamURL("trk-001")
	require.NoError(t, err)
	second, err := svc.GetStreamURL("trk-001")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, counting.streamCalls, "stream URLs are short-lived and must not be cached")
}

func TestMusicService_SearchAndBrowsePassThrough(t *testing.T) {
	svc, _, collector := newTestMusicService(t)

	page, err := svc.SearchTracks("neon", provider.TrackSearchFilters{}, model.FirstPage(5))
	require.NoError(t, err)
	require.Equal(t, 1, page.Len())
	assert.Equal(t, model.TrackID("trk-001"), page.Items[0].ID)

	albums, err := svc.Browse(provider.BrowseAlbums, model.FirstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 2, albums.Len())

	providerStats, ok := collector.GetStats()["provider"].(map[string]interface{})
	require.True(t, ok)
	byMethod, ok := providerStats["calls_by_method"].(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(1), byMethod["SearchTracks"])
	assert.Equal(t, int64(1), byMethod["Browse"])
}

func TestMusicService_PreservesProviderContract(t *testing.T) {
	svc, _, _ := newTestMusicService(t)

	providertest.Run(t, svc, providertest.Expectations{
		ProviderID: "demo",
		Search: providertest.SearchExpectation{
			Query:                "neon",
			ExpectedFirstTrackID: "trk-001",
		},
		StreamTrackID: "trk-001",
		Playlist: &providertest.PlaylistExpectation{
			PlaylistID:  "pl-morning",
			SearchQuery: "morning",
		},
	})
}
