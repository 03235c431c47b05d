// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Track, Album, Playlist
package model

import "fmt"

// Track представляет минимальные метаданные трека для UI и очереди воспроизведения
type Track struct {
	ID         TrackID `json:"id"`
	ProviderID string  `json:"provider_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Album      *string `json:"album"`
	// Длительность в секундах, если известна
	DurationSeconds *uint32 `json:"duration_seconds"`
	// Номер трека в альбоме, если известен
	TrackNumber *uint32 `json:"track_number"`
}

// Validate проверяет валидность трека
func (t *Track) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("id", string(t.ID)); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("provider_id", t.ProviderID); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("title", t.Title); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("artist", t.Artist); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// HasAlbum проверяет, известен ли альбом трека
func (t *Track) HasAlbum() bool {
	return t.Album != nil && *t.Album != ""
}

// GetDisplayAlbum возвращает отображаемое название альбома
func (t *Track) GetDisplayAlbum() string {
	if t.HasAlbum() {
		return *t.Album
	}
	return "Unknown Album"
}

// FormatDuration возвращает длительность в формате M:SS
func (t *Track) FormatDuration() string {
	if t.DurationSeconds == nil {
		return "--:--"
	}
	return formatSeconds(*t.DurationSeconds)
}

// Album представляет минимальные метаданные альбома для просмотра каталога
type Album struct {
	ID         AlbumID `json:"id"`
	ProviderID string  `json:"provider_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	TrackCount *uint32 `json:"track_count"`
	// Суммарная длительность в секундах, если известна
	DurationSeconds *uint32 `json:"duration_seconds"`
}

// Validate проверяет валидность альбома
func (a *Album) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("id", string(a.ID)); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("provider_id", a.ProviderID); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("title", a.Title); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("artist", a.Artist); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// FormatDuration возвращает суммарную длительность в формате M:SS
func (a *Album) FormatDuration() string {
	if a.DurationSeconds == nil {
		return "--:--"
	}
	return formatSeconds(*a.DurationSeconds)
}

// Playlist представляет минимальные метаданные плейлиста
type Playlist struct {
	ID          PlaylistID `json:"id"`
	ProviderID  string     `json:"provider_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	TrackCount  *uint32    `json:"track_count"`
}

// Validate проверяет валидность плейлиста
func (p *Playlist) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("id", string(p.ID)); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("provider_id", p.ProviderID); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateRequired("name", p.Name); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// GetDisplayDescription возвращает отображаемое описание плейлиста
func (p *Playlist) GetDisplayDescription() string {
	if p.Description != nil && *p.Description != "" {
		return *p.Description
	}
	return "No description"
}

func formatSeconds(total uint32) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
