package providertest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fonoteka/internal/domain/catalog"
	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
)

func libraryWithPlaylists() *catalog.Library {
	l := catalog.NewLibrary("fake", "Fake Provider")
	l.AddTrack("", model.Track{
		ID:         "track-1",
		ProviderID: "fake",
		Title:      "Track One",
		Artist:     "Artist",
		Album:      model.Ptr("Album"),
	}, "file:///music/track-1")
	l.AddPlaylist(model.Playlist{
		ID:          "pl-1",
		ProviderID:  "fake",
		Name:        "Favorites",
		Description: model.Ptr("Favs"),
		TrackCount:  model.Ptr(uint32(1)),
	}, "track-1")
	return l
}

func libraryWithoutPlaylists() *catalog.Library {
	l := catalog.NewLibrary("fake", "Fake Provider")
	l.AddTrack("", model.Track{
		ID:         "track-1",
		ProviderID: "fake",
		Title:      "Track One",
		Artist:     "Artist",
	}, "file:///music/track-1")
	return l
}

// emptyStreamProvider ломает выдачу URL потока, остальное делегирует
type emptyStreamProvider struct {
	provider.Provider
}

func (emptyStreamProvider) GetStreamURL(model.TrackID) (model.StreamURL, error) {
	return "", nil
}

func TestContractPassesWithPlaylists(t *testing.T) {
	err := Check(libraryWithPlaylists(), Expectations{
		ProviderID: "fake",
		Search: SearchExpectation{
			Query:                "track",
			ExpectedFirstTrackID: "track-1",
		},
		StreamTrackID: "track-1",
		Playlist: &PlaylistExpectation{
			PlaylistID:  "pl-1",
			SearchQuery: "fav",
		},
	})
	assert.NoError(t, err)
}

func TestContractValidatesNotSupportedWhenPlaylistsDisabled(t *testing.T) {
	err := Check(libraryWithoutPlaylists(), Expectations{
		ProviderID: "fake",
		Search: SearchExpectation{
			Query:                "track",
			ExpectedFirstTrackID: "track-1",
		},
		StreamTrackID: "track-1",
	})
	assert.NoError(t, err)
}

func TestContractFailsWhenStreamURLEmpty(t *testing.T) {
	broken := emptyStreamProvider{Provider: libraryWithPlaylists()}

	err := Check(broken, Expectations{
		ProviderID: "fake",
		Search: SearchExpectation{
			Query:                "track",
			ExpectedFirstTrackID: "track-1",
		},
		StreamTrackID: "track-1",
		Playlist: &PlaylistExpectation{
			PlaylistID:  "pl-1",
			SearchQuery: "fav",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream URL was empty for track")
}

func TestContractRequiresPlaylistExpectation(t *testing.T) {
	err := Check(libraryWithPlaylists(), Expectations{
		ProviderID: "fake",
		Search: SearchExpectation{
			Query:                "track",
			ExpectedFirstTrackID: "track-1",
		},
		StreamTrackID: "track-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no playlist expectation supplied")
}

func TestContractDetectsWrongFirstTrack(t *testing.T) {
	err := Check(libraryWithPlaylists(), Expectations{
		ProviderID: "fake",
		Search: SearchExpectation{
			Query:                "track",
			ExpectedFirstTrackID: "track-999",
		},
		StreamTrackID: "track-1",
		Playlist:      &PlaylistExpectation{PlaylistID: "pl-1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong first track id")
}
