// Package model содержит модели данных музыкального каталога.
//
// Группа: BASE - Базовые компоненты
// Содержит: TrackID, AlbumID, PlaylistID, StreamURL
package model

// TrackID представляет идентификатор трека в рамках провайдера.
//
// Идентификатор непрозрачен: провайдер обязан выдавать стабильное,
// чувствительное к регистру значение, ядро никогда не разбирает его содержимое.
type TrackID string

func (id TrackID) String() string { return string(id) }

// AlbumID представляет идентификатор альбома в рамках провайдера
type AlbumID string

func (id AlbumID) String() string { return string(id) }

// PlaylistID представляет идентификатор плейлиста в рамках провайдера
type PlaylistID string

func (id PlaylistID) String() string { return string(id) }

// StreamURL представляет URL потока, выданный провайдером.
// Провайдер возвращает только URL; чтение и декодирование потока — забота плеера.
type StreamURL string

func (u StreamURL) String() string { return string(u) }

// Ptr возвращает указатель на значение, для заполнения опциональных полей
func Ptr[T any](v T) *T { return &v }
