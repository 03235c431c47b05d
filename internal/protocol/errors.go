// Package protocol определяет проводной протокол внешних плагинов.
//
// Группа: WIRE - Ошибки протокола
// Содержит: ErrorKind, WireError, конвертация в таксономию контракта
package protocol

import (
	"fmt"

	"fonoteka/internal/domain/provider"
)

// ErrorKind представляет категорию ошибки плагина на проводе
type ErrorKind string

const (
	// ErrorKindNetwork — сбой сети или соединения
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindAuthentication — сбой аутентификации или авторизации
	ErrorKindAuthentication ErrorKind = "authentication"
	// ErrorKindNotFound — сущность не найдена
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindNotSupported — операция не поддерживается плагином
	ErrorKindNotSupported ErrorKind = "not_supported"
	// ErrorKindProtocolMismatch — несовпадение версий протокола
	ErrorKindProtocolMismatch ErrorKind = "protocol_mismatch"
	// ErrorKindInternal — внутренняя ошибка плагина
	ErrorKindInternal ErrorKind = "internal"
)

// WireError представляет ошибку, возвращённую плагином в результате Error.
// Для kind=not_found в message лежит имя сущности, для kind=not_supported —
// имя операции.
type WireError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *WireError) Error() string {
	return fmt.Sprintf("plugin error (%s): %s", e.Kind, e.Message)
}

// ToProviderError конвертирует ошибку провода в ошибку таксономии контракта.
// ProtocolMismatch и Internal сливаются в общую категорию: вызывающим выше
// не важно, соврал ли плагин о версии протокола или упал внутри себя.
func (e *WireError) ToProviderError() *provider.Error {
	switch e.Kind {
	case ErrorKindNetwork:
		return provider.NewNetworkError(e.Message)
	case ErrorKindAuthentication:
		return provider.NewAuthenticationError(e.Message)
	case ErrorKindNotFound:
		return provider.NewNotFoundError(e.Message)
	case ErrorKindNotSupported:
		return provider.NewNotSupportedError(e.Message)
	default:
		return provider.NewOtherError(e.Message)
	}
}

// FromProviderError конвертирует ошибку контракта в ошибку провода.
// Ошибки вне таксономии уходят на провод как internal.
func FromProviderError(err error) *WireError {
	pe, ok := provider.AsError(err)
	if !ok {
		return &WireError{Kind: ErrorKindInternal, Message: err.Error()}
	}

	switch pe.Category {
	case provider.CategoryNetwork:
		return &WireError{Kind: ErrorKindNetwork, Message: pe.Message}
	case provider.CategoryAuthentication:
		return &WireError{Kind: ErrorKindAuthentication, Message: pe.Message}
	case provider.CategoryNotFound:
		return &WireError{Kind: ErrorKindNotFound, Message: pe.Message}
	case provider.CategoryNotSupported:
		return &WireError{Kind: ErrorKindNotSupported, Message: pe.Message}
	default:
		return &WireError{Kind: ErrorKindInternal, Message: pe.Message}
	}
}
