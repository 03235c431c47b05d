// Package plugin реализует шлюз к внешним процессам-плагинам.
//
// Группа: GATEWAY - Ошибки хоста
// Содержит: ErrProcessTerminated, CallError, CorrelationError, VersionError
package plugin

import (
	"errors"
	"fmt"

	"fonoteka/internal/protocol"
)

// ErrProcessTerminated сигнализирует, что процесс плагина завершился.
// Возвращается при пустом чтении из stdout процесса и при любом обращении к
// хосту после обнаруженного падения; отличается от ошибки разбора ответа.
var ErrProcessTerminated = errors.New("plugin process terminated unexpectedly")

// ErrUnexpectedResponse сигнализирует ответ с вариантом, не подходящим методу
var ErrUnexpectedResponse = errors.New("unexpected response type for method")

// CallError представляет результат Error от плагина: вызов не удался, но
// транспорт и сессия остаются рабочими, следующие запросы допустимы.
type CallError struct {
	Wire *protocol.WireError
}

func (e *CallError) Error() string {
	return fmt.Sprintf("plugin returned error: %s", e.Wire.Message)
}

func (e *CallError) Unwrap() error {
	return e.Wire
}

// CorrelationError представляет ответ с чужим идентификатором запроса.
// Корреляция потеряна безвозвратно: ресинхронизация не предпринимается,
// хост непригоден до перезапуска.
type CorrelationError struct {
	Sent     uint64
	Received uint64
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("request/response ID mismatch: sent %d, received %d", e.Sent, e.Received)
}

// VersionError представляет несовпадение версии протокола при рукопожатии.
// Фатально для запуска: бэкенд не используется частично.
type VersionError struct {
	Expected uint32
	Actual   uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("protocol version mismatch: expected %d, got %d", e.Expected, e.Actual)
}
