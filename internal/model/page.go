// Package model содержит модели данных музыкального каталога.
//
// Группа: BASE - Базовые компоненты
// Содержит: PageRequest, PageCursor, Page[T]
package model

// PageRequest представляет запрос страницы в виде offset/limit
type PageRequest struct {
	Offset uint32 `json:"offset"`
	Limit  uint32 `json:"limit"`
}

// NewPageRequest создает запрос страницы
func NewPageRequest(offset, limit uint32) PageRequest {
	return PageRequest{Offset: offset, Limit: limit}
}

// FirstPage возвращает запрос первой страницы заданного размера
func FirstPage(limit uint32) PageRequest {
	return PageRequest{Offset: 0, Limit: limit}
}

// PageCursor представляет непрозрачный курсор продолжения выборки
type PageCursor string

// Page представляет одну страницу элементов с опциональным курсором продолжения
type Page[T any] struct {
	Items []T         `json:"items"`
	Next  *PageCursor `json:"next"`
}

// SinglePage создает страницу без продолжения.
// Items всегда не nil, чтобы на проводе получался пустой массив, а не null.
func SinglePage[T any](items []T) Page[T] {
	return NewPage(items, nil)
}

// NewPage создает страницу с курсором продолжения
func NewPage[T any](items []T, next *PageCursor) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Next: next}
}

// HasNext проверяет, есть ли продолжение выборки
func (p Page[T]) HasNext() bool {
	return p.Next != nil
}

// Len возвращает количество элементов на странице
func (p Page[T]) Len() int {
	return len(p.Items)
}
