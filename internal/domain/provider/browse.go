// Package provider определяет контракт источника музыкальных метаданных.
//
// Группа: CONTRACT - Контракт провайдера
// Содержит: BrowseKind, CollectionItem, ArtistRef, GenreRef
package provider

import (
	"fonoteka/internal/model"
)

// BrowseKind представляет раздел каталога для просмотра.
// На проводе сериализуется как имя варианта.
type BrowseKind string

const (
	BrowseArtists   BrowseKind = "Artists"
	BrowseAlbums    BrowseKind = "Albums"
	BrowsePlaylists BrowseKind = "Playlists"
	BrowseGenres    BrowseKind = "Genres"
)

// IsValid проверяет, что раздел известен
func (k BrowseKind) IsValid() bool {
	switch k {
	case BrowseArtists, BrowseAlbums, BrowsePlaylists, BrowseGenres:
		return true
	}
	return false
}

// ArtistRef представляет ссылку на исполнителя.
// Только имя; альбомы и треки провайдер подгружает отдельными запросами.
type ArtistRef struct {
	Name       string `json:"name"`
	ProviderID string `json:"provider_id"`
}

// GenreRef представляет ссылку на жанр
type GenreRef struct {
	Name       string `json:"name"`
	ProviderID string `json:"provider_id"`
}

// CollectionItem представляет один элемент результата просмотра каталога.
// Заполнено ровно одно из полей; JSON-форма — объект с единственным
// ключом-вариантом, например {"Album": {...}} или {"Artist": {...}}.
type CollectionItem struct {
	Album    *model.Album    `json:"Album,omitempty"`
	Playlist *model.Playlist `json:"Playlist,omitempty"`
	Artist   *ArtistRef      `json:"Artist,omitempty"`
	Genre    *GenreRef       `json:"Genre,omitempty"`
}

// AlbumItem создает элемент каталога из альбома
func AlbumItem(album model.Album) CollectionItem {
	return CollectionItem{Album: &album}
}

// PlaylistItem создает элемент каталога из плейлиста
func PlaylistItem(playlist model.Playlist) CollectionItem {
	return CollectionItem{Playlist: &playlist}
}

// ArtistItem создает элемент каталога из ссылки на исполнителя
func ArtistItem(name, providerID string) CollectionItem {
	return CollectionItem{Artist: &ArtistRef{Name: name, ProviderID: providerID}}
}

// GenreItem создает элемент каталога из ссылки на жанр
func GenreItem(name, providerID string) CollectionItem {
	return CollectionItem{Genre: &GenreRef{Name: name, ProviderID: providerID}}
}

// Kind возвращает имя варианта элемента каталога
func (i CollectionItem) Kind() string {
	switch {
	case i.Album != nil:
		return "Album"
	case i.Playlist != nil:
		return "Playlist"
	case i.Artist != nil:
		return "Artist"
	case i.Genre != nil:
		return "Genre"
	}
	return "Unknown"
}

// DisplayName возвращает отображаемое имя элемента каталога
func (i CollectionItem) DisplayName() string {
	switch {
	case i.Album != nil:
		return i.Album.Title
	case i.Playlist != nil:
		return i.Playlist.Name
	case i.Artist != nil:
		return i.Artist.Name
	case i.Genre != nil:
		return i.Genre.Name
	}
	return ""
}
