// Группа: DOMAIN - Демонстрационный каталог
// Содержит: DemoLibrary
package catalog

import (
	"fonoteka/internal/model"
)

// DemoLibrary создает детерминированный каталог демонстрационного провайдера.
// Наполнение стабильно: идентификаторы и порядок закреплены, на них опираются
// проверки работоспособности и сквозные тесты.
func DemoLibrary() *Library {
	l := NewLibrary("demo", "Demo Provider")

	aurora := model.Album{
		ID:              "alb-aurora",
		ProviderID:      "demo",
		Title:           "Aurora Lines",
		Artist:          "Severny Park",
		TrackCount:      model.Ptr(uint32(4)),
		DurationSeconds: model.Ptr(uint32(976)),
	}
	tides := model.Album{
		ID:              "alb-tides",
		ProviderID:      "demo",
		Title:           "Glass Tides",
		Artist:          "Mira Vega",
		TrackCount:      model.Ptr(uint32(3)),
		DurationSeconds: model.Ptr(uint32(707)),
	}
	l.AddAlbum(aurora)
	l.AddAlbum(tides)

	addAlbumTrack := func(album model.Album, id model.TrackID, title string, seconds, number uint32) {
		l.AddTrack(album.ID, model.Track{
			ID:              id,
			ProviderID:      "demo",
			Title:           title,
			Artist:          album.Artist,
			Album:           model.Ptr(album.Title),
			DurationSeconds: model.Ptr(seconds),
			TrackNumber:     model.Ptr(number),
		}, model.StreamURL("file:///demo/media/"+string(id)+".flac"))
	}

	addAlbumTrack(aurora, "trk-001", "Neon Meridian", 252, 1)
	addAlbumTrack(aurora, "trk-002", "Polar Drift", 198, 2)
	addAlbumTrack(aurora, "trk-003", "Crystal Antenna", 221, 3)
	addAlbumTrack(aurora, "trk-004", "Aurora Lines", 305, 4)
	addAlbumTrack(tides, "trk-005", "Undertow", 244, 1)
	addAlbumTrack(tides, "trk-006", "Salt and Static", 187, 2)
	addAlbumTrack(tides, "trk-007", "Glass Tides", 276, 3)

	l.AddPlaylist(model.Playlist{
		ID:          "pl-morning",
		ProviderID:  "demo",
		Name:        "Morning Commute",
		Description: model.Ptr("Synth for the first train"),
		TrackCount:  model.Ptr(uint32(3)),
	}, "trk-001", "trk-005", "trk-003")

	l.AddPlaylist(model.Playlist{
		ID:          "pl-focus",
		ProviderID:  "demo",
		Name:        "Deep Focus",
		Description: model.Ptr("Long takes, no vocals"),
		TrackCount:  model.Ptr(uint32(2)),
	}, "trk-004", "trk-007")

	l.SetLyrics("trk-004", "Aurora lines across the sky\nWe trace the signal, you and I")
	l.SetLyrics("trk-007", "Glass tides pull the harbour light\nSalt on the wire, static night")

	l.AddGenre("synthwave")
	l.AddGenre("dream pop")

	return l
}
