// Package provider определяет контракт источника музыкальных метаданных.
//
// Группа: CONTRACT - Контракт провайдера
// Содержит: Category, Error, конструкторы и предикаты ошибок
package provider

import "errors"

// Category представляет категорию ошибки провайдера.
// Единая таксономия для всех бэкендов: ядро и UI обрабатывают ошибки по
// категории, не разбирая текст.
type Category string

const (
	CategoryNetwork        Category = "network"
	CategoryAuthentication Category = "authentication"
	CategoryNotFound       Category = "not_found"
	CategoryNotSupported   Category = "not_supported"
	CategoryOther          Category = "other"
)

// Error представляет категоризированную ошибку провайдера.
// Для CategoryNotFound Message содержит имя сущности, для CategoryNotSupported —
// имя операции.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	switch e.Category {
	case CategoryNetwork:
		return "network error: " + e.Message
	case CategoryAuthentication:
		return "authentication error: " + e.Message
	case CategoryNotFound:
		return "entity not found: " + e.Message
	case CategoryNotSupported:
		return "operation not supported: " + e.Message
	default:
		return e.Message
	}
}

// NewNetworkError создает ошибку сети или соединения
func NewNetworkError(message string) *Error {
	return &Error{Category: CategoryNetwork, Message: message}
}

// NewAuthenticationError создает ошибку аутентификации или авторизации
func NewAuthenticationError(message string) *Error {
	return &Error{Category: CategoryAuthentication, Message: message}
}

// NewNotFoundError создает ошибку отсутствия сущности
func NewNotFoundError(entity string) *Error {
	return &Error{Category: CategoryNotFound, Message: entity}
}

// NewNotSupportedError создает ошибку неподдерживаемой операции.
// Отличие от NotFound принципиально: NotSupported означает, что возможность
// не заявлена провайдером вовсе, а не что конкретная сущность отсутствует.
func NewNotSupportedError(operation string) *Error {
	return &Error{Category: CategoryNotSupported, Message: operation}
}

// NewOtherError создает ошибку без конкретной категории
func NewOtherError(message string) *Error {
	return &Error{Category: CategoryOther, Message: message}
}

// AsError извлекает *Error из цепочки ошибок
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// CategoryOf возвращает категорию ошибки; для ошибок вне таксономии — CategoryOther
func CategoryOf(err error) Category {
	if pe, ok := AsError(err); ok {
		return pe.Category
	}
	return CategoryOther
}

// IsNotFound проверяет, что ошибка означает отсутствие сущности
func IsNotFound(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}

// IsNotSupported проверяет, что ошибка означает неподдерживаемую операцию
func IsNotSupported(err error) bool {
	return CategoryOf(err) == CategoryNotSupported
}

// IsNetworkError проверяет, что ошибка означает сбой сети или транспорта
func IsNetworkError(err error) bool {
	return CategoryOf(err) == CategoryNetwork
}

// IsAuthenticationError проверяет, что ошибка означает сбой аутентификации
func IsAuthenticationError(err error) bool {
	return CategoryOf(err) == CategoryAuthentication
}
